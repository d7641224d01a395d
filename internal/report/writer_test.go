package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/idscan/internal/model"
)

// createTestReport creates a report with sample data for testing.
func createTestReport() *model.ExtractionReport {
	fields := model.NewFieldSet(
		model.NewExtractedField(model.FieldFirstName, "Rahul Kumar", 85),
		model.NewExtractedField(model.FieldBirthdate, "31/04/1990", 90),
		model.NewExtractedField(model.FieldGender, "Male", 80),
		model.NewExtractedField(model.FieldAadhaarNumber, "1234 5678 9012", 70),
	)
	return &model.ExtractionReport{
		SessionID:    "0b6f6c9e-5a53-4a8b-9f6e-1c2d3e4f5a6b",
		DocumentType: model.DocumentAadhaar,
		Strategy:     "aadhaar-advanced",
		Sources:      []string{"front.txt", "front-2.txt"},
		Passes:       2,
		CreatedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC),
		Fields:       fields,
		Added:        []string{model.FieldFirstName, model.FieldBirthdate, model.FieldAadhaarNumber},
		Improved:     []string{model.FieldGender},
		Validation: map[string]model.ValidationResult{
			model.FieldFirstName:     model.Valid(),
			model.FieldBirthdate:     model.Invalid("Invalid day for this month"),
			model.FieldGender:        model.Valid(),
			model.FieldAadhaarNumber: model.Valid(),
		},
	}
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		output := buf.String()
		for _, want := range []string{
			"IDSCAN REPORT",
			"0b6f6c9e-5a53-4a8b-9f6e-1c2d3e4f5a6b",
			"Aadhaar",
			"aadhaar-advanced",
			"Rahul Kumar",
			"[new]",
			"[improved]",
			"CONFIDENCE SUMMARY",
			"3 new, 1 improved",
			"[!!] Date of Birth: Invalid day for this month",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(output, "front.txt") {
			t.Error("sources should only be shown in verbose mode")
		}
	})

	t.Run("verbose shows sources", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "front.txt, front-2.txt") {
			t.Error("expected sources in verbose output")
		}
	})

	t.Run("empty report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := &model.ExtractionReport{Fields: model.NewFieldSet()}
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "No fields extracted") {
			t.Error("expected empty notice")
		}
		if strings.Contains(output, "CONFIDENCE SUMMARY") {
			t.Error("summary should be hidden for empty reports")
		}

		buf.Reset()
		if _, err := NewSimpleWriter(&buf, WithShowEmpty(true)).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "CONFIDENCE SUMMARY") {
			t.Error("expected summary with WithShowEmpty")
		}
	})

	t.Run("writes bare fields", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteFields(createTestReport().Fields); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "1234 5678 9012") || strings.Contains(buf.String(), "[new]") {
			t.Errorf("unexpected fields output:\n%s", buf.String())
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded struct {
			SessionID    string                 `json:"sessionId"`
			DocumentType string                 `json:"documentType"`
			Fields       []model.ExtractedField `json:"fields"`
			Validation   map[string]struct {
				IsValid bool `json:"isValid"`
			} `json:"validation"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.DocumentType != "aadhaar" {
			t.Errorf("expected aadhaar, got %q", decoded.DocumentType)
		}
		if len(decoded.Fields) != 4 || decoded.Fields[0].FieldName != model.FieldFirstName {
			t.Errorf("unexpected fields %v", decoded.Fields)
		}
		if decoded.Validation[model.FieldBirthdate].IsValid {
			t.Error("expected birthdate to be invalid")
		}
	})

	t.Run("compact output has no indentation", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected a single line of output")
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"sessionId\"") {
			t.Error("expected indented output")
		}
	})

	t.Run("nil field set writes empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteFields(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "[]\n" {
			t.Errorf("expected empty array, got %q", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables chart and alert", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# idscan Report",
			"## Fields",
			"Rahul Kumar",
			"```mermaid",
			"Field Confidence",
			"[!WARNING]",
			"Date of Birth",
			"❌ Invalid day for this month",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("empty report cautions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := &model.ExtractionReport{Fields: model.NewFieldSet(), Passes: 3}
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "[!CAUTION]") || strings.Contains(output, "```mermaid") {
			t.Errorf("unexpected output for empty report:\n%s", output)
		}
	})

	t.Run("confident report gets a tip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := &model.ExtractionReport{
			Fields: model.NewFieldSet(model.NewExtractedField(model.FieldPANNumber, "ABCPE1234F", 95)),
		}
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!TIP]") {
			t.Errorf("expected tip:\n%s", buf.String())
		}
	})

	t.Run("escapes pipes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fields := model.NewFieldSet(model.NewExtractedField(model.FieldFirstName, "A|B", 80))
		if _, err := NewMarkdownWriter(&buf).WriteFields(fields); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `A\|B`) {
			t.Errorf("expected escaped pipe:\n%s", buf.String())
		}
	})
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	n, err := mw.Write(createTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("expected %d bytes, got %d", text.Len()+js.Len(), n)
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("expected both writers to receive output")
	}

	if _, err := NewMultiWriter(failingWriter{}, NewSimpleWriter(&text)).WriteFields(model.NewFieldSet()); !errors.Is(err, errWriteFailed) {
		t.Errorf("expected errWriteFailed, got %v", err)
	}
}

var errWriteFailed = errors.New("write failed")

type failingWriter struct{}

func (failingWriter) Write(*model.ExtractionReport) (int, error) { return 0, errWriteFailed }

func (failingWriter) WriteFields(*model.FieldSet) (int, error) { return 0, errWriteFailed }
