package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/idscan/internal/config"
	"github.com/nao1215/idscan/internal/model"
	"github.com/nao1215/idscan/internal/report"
)

const (
	phoneScan = `[{"fieldName":"firstName","value":"Rahul","confidence":70}]`
	deskScan  = `{"sessionId":"x","fields":[
		{"fieldName":"firstName","value":"Rahul Kumar","confidence":90},
		{"fieldName":"zip","value":"560001","confidence":75}]}`
)

// TestRunMergeCmd tests the merge command.
func TestRunMergeCmd(t *testing.T) {
	t.Parallel()

	t.Run("keeps the most confident values", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		a := writeText(t, dir, "phone.json", phoneScan)
		b := writeText(t, dir, "desk.json", deskScan)

		var stdout, stderr bytes.Buffer
		cmd := NewMergeCmd()
		cmd.SetOut(&stdout)
		cmd.SetErr(&stderr)
		cmd.SetArgs([]string{"-j", a, b})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		merged, err := report.ReadFieldSet(&stdout)
		if err != nil {
			t.Fatalf("output is not a field set: %v", err)
		}
		name, _ := merged.Get(model.FieldFirstName)
		if name.Value != "Rahul Kumar" || name.Confidence != 90 {
			t.Errorf("unexpected name %+v", name)
		}
		if !merged.Has(model.FieldZip) {
			t.Error("expected zip from the second file")
		}

		for _, want := range []string{"phone.json: +1 new, 0 improved", "desk.json: +1 new, 1 improved"} {
			if !strings.Contains(stderr.String(), want) {
				t.Errorf("expected %q in progress:\n%s", want, stderr.String())
			}
		}
	})

	t.Run("text output to file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		a := writeText(t, dir, "phone.json", phoneScan)
		out := filepath.Join(dir, "merged.txt")

		cmd := NewMergeCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"-o", out, a})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("invalid field set", func(t *testing.T) {
		t.Parallel()
		path := writeText(t, t.TempDir(), "bad.json", `[{"fieldName":"firstName","value":"Rahul","confidence":150}]`)

		cmd := NewMergeCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{path})
		if err := cmd.Execute(); !errors.Is(err, report.ErrInvalidFieldSet) {
			t.Errorf("expected ErrInvalidFieldSet, got %v", err)
		}
	})

	t.Run("conflicting formats", func(t *testing.T) {
		t.Parallel()
		path := writeText(t, t.TempDir(), "phone.json", phoneScan)

		cmd := NewMergeCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"-j", "-m", path})
		if err := cmd.Execute(); !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		cmd := NewMergeCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.json")})
		if err := cmd.Execute(); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
