package main

import (
	"fmt"
	"os"

	"github.com/nao1215/idscan/internal/config"
	"github.com/nao1215/idscan/internal/merge"
	"github.com/nao1215/idscan/internal/model"
	"github.com/nao1215/idscan/internal/report"
	"github.com/spf13/cobra"
)

// NewMergeCmd creates the merge command.
func NewMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <file>...",
		Short: "Merge exported field sets",
		Long: `Merge combines JSON field sets written by "idscan extract --json" (or
plain arrays of fields) into one, keeping the most confident value for
every field. Files are merged in the order given; on equal confidence
the earlier value wins.

Every input is checked against the field set schema before merging.

Examples:
  idscan merge phone-scan.json desk-scan.json
  idscan merge -j -o merged.json a.json b.json c.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runMergeCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write result to specified file path (creates directories if needed)")

	return cmd
}

// runMergeCmd executes the merge command.
func runMergeCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return fmt.Errorf("configuration error: %w", config.ErrConflictingReportFormats)
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	merged, err := mergeFiles(cmd, args)
	if err != nil {
		return err
	}

	format := reportFormat{json: jsonOutput, markdown: markdownOutput, verbose: getVerboseFlag(cmd)}
	return outputFields(format, cmd.OutOrStdout(), outputPath, merged)
}

// mergeFiles reads and merges the field sets in paths, printing what
// each file changed.
func mergeFiles(cmd *cobra.Command, paths []string) (*model.FieldSet, error) {
	merged := model.NewFieldSet()
	for _, path := range paths {
		fields, err := readFieldSetFile(path)
		if err != nil {
			return nil, err
		}

		var delta merge.Delta
		merged, delta = merge.MergeSets(merged, fields)
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, delta)
	}
	return merged, nil
}

func readFieldSetFile(path string) (*model.FieldSet, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	fields, err := report.ReadFieldSet(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fields, nil
}
