package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/idscan/internal/config"
	"github.com/nao1215/idscan/internal/database"
	"github.com/spf13/cobra"
)

// sessionTimeLayout is how session timestamps are printed in tables.
const sessionTimeLayout = "2006-01-02 15:04"

// NewSessionCmd creates the session command and its subcommands.
func NewSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and manage stored sessions",
		Long: `Session lists, shows and deletes the scanning sessions stored by
"idscan extract" and "idscan watch".

Commands that take an ID accept any unique prefix of it.

Examples:
  idscan session list
  idscan session show 3f2a
  idscan session show --validate -m 3f2a
  idscan session history 3f2a
  idscan session delete 3f2a`,
	}

	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(),
		"Directory holding the session database")

	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionShowCmd())
	cmd.AddCommand(newSessionHistoryCmd())
	cmd.AddCommand(newSessionDeleteCmd())

	return cmd
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sessions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSessionDB(cmd, func(ctx context.Context, db *database.SessionDB) error {
				return listSessions(ctx, cmd.OutOrStdout(), db)
			})
		},
	}
}

func newSessionShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the report of a stored session",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionShowCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("validate", false,
		"Include per-field validation results")

	return cmd
}

func newSessionHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "List the OCR passes applied to a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSessionDB(cmd, func(ctx context.Context, db *database.SessionDB) error {
				return listScanHistory(ctx, cmd.OutOrStdout(), db, args[0])
			})
		},
	}
}

func newSessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSessionDB(cmd, func(ctx context.Context, db *database.SessionDB) error {
				id, err := db.ResolveSessionID(ctx, args[0])
				if err != nil {
					return err
				}
				if err := db.DeleteSession(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", id)
				return nil
			})
		},
	}
}

// withSessionDB opens the existing database and calls fn. A missing
// database holds no sessions, which is not an error for list.
func withSessionDB(cmd *cobra.Command, fn func(context.Context, *database.SessionDB) error) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		if cmd.Name() == "list" {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
			return nil
		}
		return fmt.Errorf("%w (run 'idscan extract' first)", database.ErrSessionNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return fn(cmd.Context(), db)
}

// listSessions prints a table of stored sessions.
func listSessions(ctx context.Context, out io.Writer, db *database.SessionDB) error {
	sessions, err := db.ListSessions(ctx)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions found.")
		return nil
	}

	fmt.Fprintf(out, "Sessions (%d):\n\n", len(sessions))
	fmt.Fprintf(out, "  %-36s  %-8s  %-6s  %-6s  %s\n", "ID", "Document", "Passes", "Fields", "Updated")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 80))
	for _, s := range sessions {
		fmt.Fprintf(out, "  %-36s  %-8s  %-6d  %-6d  %s\n",
			s.ID,
			s.DocumentType.DisplayName(),
			s.Passes,
			s.FieldCount,
			s.UpdatedAt.Local().Format(sessionTimeLayout),
		)
	}
	fmt.Fprintln(out, "\nUse 'idscan session show <id>' to see the fields of a session.")
	return nil
}

// runSessionShowCmd executes the session show command.
func runSessionShowCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	withValidation, err := cmd.Flags().GetBool("validate")
	if err != nil {
		return err
	}

	return withSessionDB(cmd, func(ctx context.Context, db *database.SessionDB) error {
		sess, err := openSession(ctx, db, args[0])
		if err != nil {
			return err
		}

		// Restored sessions do not keep their sources; the scan history does.
		scans, err := db.ListScans(ctx, sess.ID)
		if err != nil {
			return err
		}

		r := sess.Report(withValidation)
		for _, scan := range scans {
			if scan.Source != "" {
				r.Sources = append(r.Sources, scan.Source)
			}
		}
		if len(scans) > 0 {
			r.Strategy = scans[len(scans)-1].Strategy
		}

		format := reportFormat{json: jsonOutput, markdown: markdownOutput, verbose: getVerboseFlag(cmd)}
		return outputReport(format, cmd.OutOrStdout(), outputPath, r)
	})
}

// listScanHistory prints the passes applied to a session.
func listScanHistory(ctx context.Context, out io.Writer, db *database.SessionDB, idPrefix string) error {
	id, err := db.ResolveSessionID(ctx, idPrefix)
	if err != nil {
		return err
	}

	scans, err := db.ListScans(ctx, id)
	if err != nil {
		return err
	}

	if len(scans) == 0 {
		fmt.Fprintf(out, "No passes recorded for %s\n", id)
		return nil
	}

	fmt.Fprintf(out, "Passes for %s (%d):\n\n", id, len(scans))
	fmt.Fprintf(out, "  %-4s  %-16s  %-8s  %-18s  %-16s  %s\n", "#", "Date", "Document", "Strategy", "Change", "Source")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 90))
	for i, scan := range scans {
		strategy := scan.Strategy
		if strategy == "" {
			strategy = "-"
		}
		fmt.Fprintf(out, "  %-4d  %-16s  %-8s  %-18s  %-16s  %s\n",
			i+1,
			scan.Timestamp.Local().Format(sessionTimeLayout),
			scan.DocumentType.DisplayName(),
			strategy,
			fmt.Sprintf("+%d new, %d impr.", scan.Added, scan.Improved),
			scan.Source,
		)
	}
	return nil
}
