package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/idscan/internal/classify"
	"github.com/nao1215/idscan/internal/config"
	"github.com/nao1215/idscan/internal/database"
	"github.com/nao1215/idscan/internal/log"
	"github.com/nao1215/idscan/internal/model"
	"github.com/nao1215/idscan/internal/pipeline"
	"github.com/nao1215/idscan/internal/report"
	"github.com/nao1215/idscan/internal/session"
	"github.com/spf13/cobra"
)

// stdinSource is the input name used for text read from standard input.
const stdinSource = "stdin"

// errStdinTwice is returned when "-" is given more than once.
var errStdinTwice = errors.New("standard input can only be read once")

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a redacting logger that writes to the command's
// error stream.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	return log.NewSecureLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
}

// addConfigFlag registers -c/--config.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Rules file path (default: .idscan in current or home directory)")
}

// addDBDirFlag registers --db-dir.
func addDBDirFlag(cmd *cobra.Command) {
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory holding the session database")
}

// loadRules loads the rules file. If the user explicitly specified a
// path, a missing file is an error; otherwise built-in defaults are used.
func loadRules(configPath string) (*config.File, error) {
	path := config.FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return nil, nil
	}

	rules, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return rules, nil
}

// newCoordinator builds a Coordinator from rules. Nil rules mean defaults.
func newCoordinator(rules *config.File, logger *slog.Logger) *pipeline.Coordinator {
	return pipeline.NewCoordinator(
		pipeline.WithLogger(logger),
		pipeline.WithClassifier(classify.New(rules.ClassifierRules(classify.DefaultRules()))),
		pipeline.WithExtractOptions(rules.ExtractOptions()),
	)
}

// readInputs reads the OCR passes named by paths. No paths or "-" means
// standard input.
func readInputs(paths []string, stdin io.Reader) ([]pipeline.Input, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	inputs := make([]pipeline.Input, 0, len(paths))
	readStdin := false
	for _, path := range paths {
		if path == "-" {
			if readStdin {
				return nil, errStdinTwice
			}
			readStdin = true

			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to read standard input: %w", err)
			}
			inputs = append(inputs, pipeline.Input{Source: stdinSource, Text: string(data)})
			continue
		}

		data, err := os.ReadFile(path) //nolint:gosec // User-provided input path is intentional
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		inputs = append(inputs, pipeline.Input{Source: path, Text: string(data)})
	}
	return inputs, nil
}

// openSession returns the stored session matching idPrefix, or a new
// session when idPrefix is empty. db may be nil only when idPrefix is empty.
func openSession(ctx context.Context, db *database.SessionDB, idPrefix string) (*session.Session, error) {
	if idPrefix == "" {
		return session.New(), nil
	}
	if db == nil {
		return nil, errors.New("continuing a session requires the session database")
	}

	id, err := db.ResolveSessionID(ctx, idPrefix)
	if err != nil {
		return nil, err
	}
	return db.GetSession(ctx, id)
}

// recordPass stores a pass and the updated session. If db is nil, this
// function is a no-op.
func recordPass(ctx context.Context, db *database.SessionDB, sess *session.Session, pass *pipeline.Pass, added, improved int) error {
	if db == nil {
		return nil
	}

	err := db.RecordScan(ctx, &database.ScanRecord{
		SessionID:    sess.ID,
		Fingerprint:  pass.Fingerprint,
		Source:       pass.Source,
		DocumentType: pass.Result.DocumentType,
		Strategy:     pass.Result.Strategy,
		Added:        added,
		Improved:     improved,
	})
	if err != nil {
		return err
	}
	return db.SaveSession(ctx, sess)
}

// reportFormat selects the report writer.
type reportFormat struct {
	json     bool
	markdown bool
	verbose  bool
}

// newWriter creates the writer for format f.
func (f reportFormat) newWriter(w io.Writer) report.Writer {
	switch {
	case f.json:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	case f.markdown:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(f.verbose))
	}
}

// isSimple reports whether f is the terminal text format.
func (f reportFormat) isSimple() bool {
	return !f.json && !f.markdown
}

// withOutput calls write with the report writer for f. When outputPath is
// set the report goes to that file, and a text copy is echoed to stdout
// unless the file itself holds the text format.
func withOutput(f reportFormat, stdout io.Writer, outputPath string, write func(report.Writer) error) error {
	if outputPath == "" {
		return write(f.newWriter(stdout))
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports hold personal data: owner-only permissions.
	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if f.isSimple() {
		return write(f.newWriter(file))
	}
	return write(report.NewMultiWriter(
		f.newWriter(file),
		report.NewSimpleWriter(stdout, report.WithVerbose(f.verbose)),
	))
}

// outputReport writes a session report.
func outputReport(f reportFormat, stdout io.Writer, outputPath string, r *model.ExtractionReport) error {
	return withOutput(f, stdout, outputPath, func(w report.Writer) error {
		_, err := w.Write(r)
		return err
	})
}

// outputFields writes a bare field set.
func outputFields(f reportFormat, stdout io.Writer, outputPath string, fields *model.FieldSet) error {
	return withOutput(f, stdout, outputPath, func(w report.Writer) error {
		_, err := w.WriteFields(fields)
		return err
	})
}
