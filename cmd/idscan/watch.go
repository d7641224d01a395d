package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nao1215/idscan/internal/config"
	"github.com/nao1215/idscan/internal/database"
	"github.com/nao1215/idscan/internal/ocrtext"
	"github.com/nao1215/idscan/internal/pipeline"
	"github.com/nao1215/idscan/internal/session"
	"github.com/spf13/cobra"
)

// watchDebounce is how long a file must stay unchanged before it is read.
// OCR engines usually write their output in several chunks.
const watchDebounce = 500 * time.Millisecond

// watchExtension is the suffix of the files picked up by watch.
const watchExtension = ".txt"

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Extract fields from OCR passes as they appear in a directory",
		Long: `Watch merges every *.txt file created or rewritten in a directory into
one session, printing what each new pass added. Press Ctrl+C to stop and
print the final report.

Examples:
  # Point the OCR engine at ./scans and watch it
  idscan watch ./scans

  # Keep improving a stored session
  idscan watch -s 3f2a ./scans`,
		Args: cobra.ExactArgs(1),
		RunE: runWatchCmd,
	}

	cmd.Flags().StringP("session", "s", "",
		"Continue a stored session (ID or unique ID prefix)")
	addConfigFlag(cmd)
	cmd.Flags().Bool("no-save", false,
		"Do not store the session in the database")
	cmd.Flags().Bool("validate", false,
		"Include per-field validation results in the final report")
	addDBDirFlag(cmd)

	return cmd
}

// watchOptions holds the flag values of the watch command.
type watchOptions struct {
	dir            string
	sessionID      string
	rules          *config.File
	saveToDB       bool
	dbDir          string
	validateFields bool
	verbose        bool
	debounce       time.Duration
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, args []string) error {
	opts := watchOptions{dir: args[0], verbose: getVerboseFlag(cmd), debounce: watchDebounce}

	var err error
	opts.sessionID, err = cmd.Flags().GetString("session")
	if err != nil {
		return err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	opts.rules, err = loadRules(configPath)
	if err != nil {
		return err
	}
	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return err
	}
	opts.saveToDB = !noSave
	opts.dbDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	opts.validateFields, err = cmd.Flags().GetBool("validate")
	if err != nil {
		return err
	}

	info, err := os.Stat(opts.dir)
	if err != nil {
		return fmt.Errorf("failed to access %s: %w", opts.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", opts.dir)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runWatch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, setupLogger(cmd))
}

// runWatch merges passes until ctx is cancelled, then prints the report.
func runWatch(ctx context.Context, stdout, stderr io.Writer, opts watchOptions, logger *slog.Logger) error {
	var db *database.SessionDB
	if opts.saveToDB || opts.sessionID != "" {
		var err error
		db, err = database.Open(opts.dbDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
	}

	sess, err := openSession(ctx, db, opts.sessionID)
	if err != nil {
		return err
	}
	if !opts.saveToDB {
		db = nil
	}

	coord := newCoordinator(opts.rules, logger)
	fmt.Fprintf(stderr, "Watching %s (session %s)\n", opts.dir, sess.ID)

	err = watchDir(ctx, opts.dir, opts.debounce, logger, func(path string) {
		applyWatchedFile(ctx, stderr, db, coord, sess, path, opts.verbose, logger)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if db != nil {
		// The context is already done; the final save must not depend on it.
		if err := db.SaveSession(context.WithoutCancel(ctx), sess); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		fmt.Fprintf(stderr, "Session saved: %s\n", sess.ID)
	}

	format := reportFormat{verbose: opts.verbose}
	return outputReport(format, stdout, "", sess.Report(opts.validateFields))
}

// applyWatchedFile extracts path and merges it into sess.
func applyWatchedFile(ctx context.Context, out io.Writer, db *database.SessionDB, coord *pipeline.Coordinator, sess *session.Session, path string, verbose bool, logger *slog.Logger) {
	data, err := os.ReadFile(path) //nolint:gosec // Files inside the watched directory are intentional
	if err != nil {
		logger.Warn("failed to read pass", "path", path, "error", err)
		return
	}

	pass := &pipeline.Pass{
		Source:      path,
		Fingerprint: ocrtext.Fingerprint(string(data)),
		Result:      coord.Extract(string(data)),
	}
	if sess.Seen(pass.Fingerprint) {
		if verbose {
			fmt.Fprintf(out, "%s: already applied, skipped\n", filepath.Base(path))
		}
		return
	}

	delta := sess.ApplyPass(pass)
	fmt.Fprintf(out, "%s: %s, %s\n", filepath.Base(path), pass.Result.DocumentType.DisplayName(), delta)

	if err := recordPass(ctx, db, sess, pass, delta.AddedCount(), delta.ImprovedCount()); err != nil {
		logger.Error("failed to save pass", "source", path, "error", err)
	}
}

// watchDir calls handle for every watched file in dir once it has not
// changed for debounce. It blocks until ctx is done and returns ctx.Err().
// handle runs on the calling goroutine.
func watchDir(ctx context.Context, dir string, debounce time.Duration, logger *slog.Logger, handle func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), watchExtension) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "dir", dir, "error", err)

		case now := <-ticker.C:
			var ready []string
			for path, changed := range pending {
				if now.Sub(changed) >= debounce {
					ready = append(ready, path)
				}
			}
			slices.Sort(ready)
			for _, path := range ready {
				delete(pending, path)
				handle(path)
			}
		}
	}
}
