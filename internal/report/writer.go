package report

import (
	"io"
	"slices"

	"github.com/nao1215/idscan/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs a session report.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ExtractionReport) (int, error)

	// WriteFields outputs a bare field set, for results that do not
	// belong to a session (such as merged exports).
	WriteFields(fields *model.FieldSet) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.ExtractionReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteFields outputs the field set to all configured Writers.
func (m *MultiWriter) WriteFields(fields *model.FieldSet) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteFields(fields)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// fieldStatus returns "new", "improved" or "" for a field in report.
func fieldStatus(report *model.ExtractionReport, name string) string {
	switch {
	case slices.Contains(report.Added, name):
		return "new"
	case slices.Contains(report.Improved, name):
		return "improved"
	default:
		return ""
	}
}
