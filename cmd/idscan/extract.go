package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nao1215/idscan/internal/config"
	"github.com/nao1215/idscan/internal/database"
	"github.com/nao1215/idscan/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file...]",
		Short: "Extract identity fields from OCR text",
		Long: `Extract reads one or more OCR passes of the same document and merges
the fields found in each into one session.

Every file is one OCR pass. With no file, or with "-", the text is read
from standard input. Passes are classified as Aadhaar, PAN or unknown and
run through a chain of extraction strategies; for every field the most
confident reading across all passes is kept.

The session is saved so that later scans can improve it (--session).

Examples:
  # Extract from one OCR pass
  idscan extract card.txt

  # Merge three scans of the same card
  idscan extract scan1.txt scan2.txt scan3.txt

  # Read from an OCR engine
  tesseract card.png - | idscan extract

  # Improve a stored session with another scan
  idscan extract -s 3f2a card-rescan.txt

  # Validate the fields and write a Markdown report
  idscan extract --validate -m -o report.md card.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: runExtractCmd,
	}

	cmd.Flags().StringP("session", "s", "",
		"Continue a stored session (ID or unique ID prefix)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of passes extracted concurrently")
	addConfigFlag(cmd)

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	cmd.Flags().Bool("no-save", false,
		"Do not store the session in the database")
	cmd.Flags().Bool("validate", false,
		"Validate every extracted field and include the results in the report")
	addDBDirFlag(cmd)

	return cmd
}

// runExtractCmd executes the extract command.
func runExtractCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildExtractConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runExtract(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, logger)
}

// buildExtractConfig creates a Config from cobra command flags.
func buildExtractConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Verbose = getVerboseFlag(cmd)

	cfg.SessionID, err = cmd.Flags().GetString("session")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.Rules, err = loadRules(cfg.ConfigFilePath)
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.ValidateFields, err = cmd.Flags().GetBool("validate")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}

	cfg.Inputs = args

	return cfg, nil
}

// runExtract executes the extraction. Progress goes to stderr so that
// the report on stdout stays machine-readable.
func runExtract(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, cfg *config.Config, logger *slog.Logger) error {
	inputs, err := readInputs(cfg.Inputs, stdin)
	if err != nil {
		return err
	}

	logger.Debug("starting extraction",
		"inputs", len(inputs),
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// A stored session is loaded even with --no-save.
	var db *database.SessionDB
	if cfg.SaveToDB || cfg.SessionID != "" {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
	}

	sess, err := openSession(ctx, db, cfg.SessionID)
	if err != nil {
		return err
	}
	if !cfg.SaveToDB {
		db = nil
	}

	bp := pipeline.NewBatchProcessor(
		newCoordinator(cfg.Rules, logger),
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	startTime := time.Now()

	// Callbacks run on worker goroutines; the session serialises merges
	// and mu keeps progress lines and database writes in step.
	var mu sync.Mutex
	done := 0
	err = bp.ProcessBatchWithCallback(ctx, inputs, func(pass *pipeline.Pass, _ int) {
		mu.Lock()
		defer mu.Unlock()
		done++

		if sess.Seen(pass.Fingerprint) {
			fmt.Fprintf(stderr, "[%d/%d] %s: already applied, skipped\n", done, len(inputs), pass.Source)
			return
		}

		delta := sess.ApplyPass(pass)
		fmt.Fprintf(stderr, "[%d/%d] %s: %s, %s\n",
			done, len(inputs), pass.Source, pass.Result.DocumentType.DisplayName(), delta)
		if cfg.Verbose {
			for _, a := range pass.Result.Attempts {
				if a.Succeeded() {
					fmt.Fprintf(stderr, "        %s: %d field(s)\n", a.Strategy, a.Fields)
					continue
				}
				fmt.Fprintf(stderr, "        %s: %s\n", a.Strategy, a.Error)
			}
		}

		if err := recordPass(ctx, db, sess, pass, delta.AddedCount(), delta.ImprovedCount()); err != nil {
			logger.Error("failed to save pass", "source", pass.Source, "error", err)
		}
	})
	if err != nil {
		return err
	}

	logger.Debug("extraction complete",
		"session", sess.ID,
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	if db != nil {
		// Saved even when no pass changed anything, so the ID printed
		// below can always be continued.
		if err := db.SaveSession(ctx, sess); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		fmt.Fprintf(stderr, "Session saved: %s\n", sess.ID)
	}

	format := reportFormat{json: cfg.JSONReport, markdown: cfg.MarkdownReport, verbose: cfg.Verbose}
	return outputReport(format, stdout, cfg.ReportFile, sess.Report(cfg.ValidateFields))
}
