package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/idscan/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format for sharing and
// documentation.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ExtractionReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeFields(md, report.Fields, report)
	w.writeSummary(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteFields outputs only the fields table.
func (w *MarkdownWriter) WriteFields(fields *model.FieldSet) (int, error) {
	md := markdown.NewMarkdown(w.output)
	w.writeFields(md, fields, nil)
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ExtractionReport) {
	md.H1("idscan Report")
	md.PlainText("")

	rows := [][]string{
		{"Session", "`" + report.SessionID + "`"},
		{"Document", report.DocumentType.DisplayName()},
		{"Passes", strconv.Itoa(report.Passes)},
	}
	if report.Strategy != "" {
		rows = append(rows, []string{"Strategy", "`" + report.Strategy + "`"})
	}
	if !report.UpdatedAt.IsZero() {
		rows = append(rows, []string{"Updated", report.UpdatedAt.Format("2006-01-02 15:04:05 MST")})
	}
	if len(report.Sources) > 0 {
		rows = append(rows, []string{"Sources", strings.Join(report.Sources, ", ")})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFields writes the fields table. report may be nil.
func (w *MarkdownWriter) writeFields(md *markdown.Markdown, fields *model.FieldSet, report *model.ExtractionReport) {
	md.H2("Fields")
	md.PlainText("")

	if fields.Len() == 0 {
		md.PlainText("No fields extracted.")
		md.PlainText("")
		return
	}

	header := []string{"Field", "Value", "Confidence", "Tier"}
	withStatus := report != nil
	withValidation := report != nil && report.Validation != nil
	if withStatus {
		header = append(header, "Change")
	}
	if withValidation {
		header = append(header, "Validation")
	}

	rows := make([][]string, 0, fields.Len())
	for _, f := range fields.Fields() {
		row := []string{
			f.FieldLabel,
			escapeCell(f.Value),
			strconv.Itoa(f.Confidence),
			tierBadge(f.Tier()),
		}
		if withStatus {
			status := fieldStatus(report, f.FieldName)
			if status == "" {
				status = "-"
			}
			row = append(row, status)
		}
		if withValidation {
			row = append(row, validationCell(report.Validation, f.FieldName))
		}
		rows = append(rows, row)
	}

	md.Table(markdown.TableSet{
		Header: header,
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.ExtractionReport) {
	md.H2("Confidence")
	md.PlainText("")

	counts := report.TierCounts()
	md.Table(markdown.TableSet{
		Header: []string{"Tier", "Fields"},
		Rows: [][]string{
			{"🟢 High (85+)", strconv.Itoa(counts[model.TierHigh])},
			{"🟡 Medium (75-84)", strconv.Itoa(counts[model.TierMedium])},
			{"🔴 Low (<75)", strconv.Itoa(counts[model.TierLow])},
		},
	})
	md.PlainText("")

	if report.HasFields() {
		w.writePieChart(md, counts)
	}
	w.writeAlert(md, report, counts)
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts map[model.ConfidenceTier]int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Field Confidence"),
		piechart.WithShowData(true),
	)

	for _, tier := range []model.ConfidenceTier{model.TierHigh, model.TierMedium, model.TierLow} {
		if counts[tier] > 0 {
			chart.LabelAndIntValue(tier.String(), uint64(counts[tier]))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.ExtractionReport, counts map[model.ConfidenceTier]int) {
	invalid := report.InvalidFields()
	switch {
	case !report.HasFields():
		md.Cautionf("No fields could be read from %d pass(es). Try another scan.", report.Passes)
	case len(invalid) > 0:
		labels := make([]string, len(invalid))
		for i, name := range invalid {
			labels[i] = model.LabelFor(name)
		}
		md.Warningf("%d field(s) failed validation: %s.", len(invalid), strings.Join(labels, ", "))
	case counts[model.TierLow] > 0:
		md.Note("Some fields were read with low confidence. Another scan may improve them.")
	default:
		md.Tip("All fields were read with medium or high confidence.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [idscan](https://github.com/nao1215/idscan)*")
}

func tierBadge(t model.ConfidenceTier) string {
	switch t {
	case model.TierHigh:
		return "🟢 " + t.String()
	case model.TierMedium:
		return "🟡 " + t.String()
	default:
		return "🔴 " + t.String()
	}
}

func validationCell(results map[string]model.ValidationResult, name string) string {
	res, ok := results[name]
	switch {
	case !ok:
		return "-"
	case res.IsValid:
		return "✅"
	default:
		return "❌ " + escapeCell(res.ErrorMessage)
	}
}

// escapeCell keeps pipes from breaking the table.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
