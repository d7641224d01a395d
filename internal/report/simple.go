package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/idscan/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether empty sections are shown.
	showEmpty bool

	// verbose adds field sections and sources to the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.ExtractionReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeFields(&sb, report.Fields, report)
	w.writeSummary(&sb, report)
	w.writeValidation(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteFields outputs only the fields table.
func (w *SimpleWriter) WriteFields(fields *model.FieldSet) (int, error) {
	var sb strings.Builder
	w.writeFields(&sb, fields, nil)
	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ExtractionReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                          IDSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Session:        %s\n", report.SessionID)
	fmt.Fprintf(sb, "Document:       %s\n", report.DocumentType.DisplayName())
	if report.Strategy != "" {
		fmt.Fprintf(sb, "Strategy:       %s\n", report.Strategy)
	}
	fmt.Fprintf(sb, "Passes:         %d\n", report.Passes)
	if !report.UpdatedAt.IsZero() {
		fmt.Fprintf(sb, "Updated:        %s\n", report.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if w.verbose && len(report.Sources) > 0 {
		fmt.Fprintf(sb, "Sources:        %s\n", strings.Join(report.Sources, ", "))
	}
	sb.WriteString("\n")
}

func sectionHeader(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// writeFields writes one line per field. report may be nil.
func (w *SimpleWriter) writeFields(sb *strings.Builder, fields *model.FieldSet, report *model.ExtractionReport) {
	sectionHeader(sb, "FIELDS")

	if fields.Len() == 0 {
		sb.WriteString("  No fields extracted\n\n")
		return
	}

	for _, f := range fields.Fields() {
		fmt.Fprintf(sb, "  %-16s %-30s %3d %-6s", f.FieldLabel, f.Value, f.Confidence, f.Tier())
		if report != nil {
			if status := fieldStatus(report, f.FieldName); status != "" {
				fmt.Fprintf(sb, " [%s]", status)
			}
		}
		if w.verbose && f.Section != "" {
			fmt.Fprintf(sb, " (%s)", f.Section)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.ExtractionReport) {
	if !report.HasFields() && !w.showEmpty {
		return
	}

	sectionHeader(sb, "CONFIDENCE SUMMARY")

	counts := report.TierCounts()
	fmt.Fprintf(sb, "  HIGH:     %d\n", counts[model.TierHigh])
	fmt.Fprintf(sb, "  MEDIUM:   %d\n", counts[model.TierMedium])
	fmt.Fprintf(sb, "  LOW:      %d\n", counts[model.TierLow])
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  %d new, %d improved\n\n", len(report.Added), len(report.Improved))
}

func (w *SimpleWriter) writeValidation(sb *strings.Builder, report *model.ExtractionReport) {
	if report.Validation == nil {
		return
	}

	sectionHeader(sb, "VALIDATION")

	for _, f := range report.Fields.Fields() {
		res, ok := report.Validation[f.FieldName]
		if !ok {
			continue
		}
		if res.IsValid {
			fmt.Fprintf(sb, "  [ok] %s\n", f.FieldLabel)
			continue
		}
		fmt.Fprintf(sb, "  [!!] %s: %s\n", f.FieldLabel, res.ErrorMessage)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}
