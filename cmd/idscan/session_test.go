package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/idscan/internal/config"
	"github.com/nao1215/idscan/internal/database"
	"github.com/nao1215/idscan/internal/model"
)

// seedSession runs a saving extraction into dbDir and returns the
// session ID.
func seedSession(t *testing.T, dbDir string, texts ...string) string {
	t.Helper()

	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.DBDir = dbDir
	cfg.BatchSize = 1
	for i, text := range texts {
		cfg.Inputs = append(cfg.Inputs, writeText(t, dir, "pass"+string(rune('a'+i))+".txt", text))
	}

	var stderr bytes.Buffer
	if err := runExtract(context.Background(), nil, io.Discard, &stderr, cfg, quietLogger()); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return savedSessionID(t, stderr.String())
}

// runSession executes "session args..." and returns stdout.
func runSession(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewSessionCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// TestNewSessionCmd tests the session command creation.
func TestNewSessionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewSessionCmd()
	if cmd.Use != "session" {
		t.Errorf("expected use 'session', got %q", cmd.Use)
	}
	if cmd.PersistentFlags().Lookup("db-dir") == nil {
		t.Error("expected persistent db-dir flag")
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"list", "show", "history", "delete"} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %s subcommand, got %v", want, names)
		}
	}
}

// TestSessionList tests listing sessions.
func TestSessionList(t *testing.T) {
	t.Parallel()

	t.Run("no database", func(t *testing.T) {
		t.Parallel()
		out, err := runSession(t, "list", "--db-dir", filepath.Join(t.TempDir(), "none"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No sessions found.") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("lists stored sessions", func(t *testing.T) {
		t.Parallel()
		dbDir := t.TempDir()
		aadhaarID := seedSession(t, dbDir, aadhaarText)
		panID := seedSession(t, dbDir, panText)

		out, err := runSession(t, "list", "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Sessions (2)", aadhaarID, panID, "Aadhaar", "PAN"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})
}

// TestSessionShow tests printing a stored session.
func TestSessionShow(t *testing.T) {
	t.Parallel()

	// Subtests share one database file and run in sequence.
	dbDir := t.TempDir()
	id := seedSession(t, dbDir, aadhaarText)

	t.Run("text by prefix", func(t *testing.T) {
		out, err := runSession(t, "show", "--db-dir", dbDir, id[:8])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{id, "Rahul Kumar", "aadhaar-advanced"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("json with validation", func(t *testing.T) {
		out, err := runSession(t, "show", "--db-dir", dbDir, "-j", "--validate", id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got model.ExtractionReport
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if got.SessionID != id || got.Passes != 1 {
			t.Errorf("unexpected report header %+v", got)
		}
		if len(got.Sources) != 1 || !strings.HasSuffix(got.Sources[0], "passa.txt") {
			t.Errorf("expected sources from scan history, got %v", got.Sources)
		}
		if res, ok := got.Validation[model.FieldAadhaarNumber]; !ok || !res.IsValid {
			t.Errorf("unexpected Aadhaar validation %+v", res)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		if _, err := runSession(t, "show", "--db-dir", dbDir, "ffffffff"); !errors.Is(err, database.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("no database", func(t *testing.T) {
		_, err := runSession(t, "show", "--db-dir", t.TempDir(), id)
		if !errors.Is(err, database.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})
}

// TestSessionHistory tests listing the passes of a session.
func TestSessionHistory(t *testing.T) {
	t.Parallel()

	dbDir := t.TempDir()
	id := seedSession(t, dbDir, "GOVERNMENT OF INDIA\nRAHUL KUMAR\nMale\n1234 5678 9012", aadhaarText)

	out, err := runSession(t, "history", "--db-dir", dbDir, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Passes for " + id + " (2)", "passa.txt", "passb.txt", "+3 new", "+1 new"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

// TestSessionDelete tests deleting a session.
func TestSessionDelete(t *testing.T) {
	t.Parallel()

	dbDir := t.TempDir()
	id := seedSession(t, dbDir, aadhaarText)

	out, err := runSession(t, "delete", "--db-dir", dbDir, id[:8])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Deleted session "+id) {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = runSession(t, "list", "--db-dir", dbDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No sessions found.") {
		t.Errorf("expected no sessions after delete:\n%s", out)
	}
}
