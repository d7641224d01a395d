package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for idscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idscan",
		Short: "Extract identity fields from OCR text of Aadhaar and PAN cards",
		Long: `idscan extracts structured fields (ID number, name, father's name,
date of birth, gender, contact details) from the OCR text of Indian
identity documents.

Each OCR pass is classified as an Aadhaar card, a PAN card or an unknown
document, then handed to a chain of extraction strategies. Passes of the
same card are merged into a session that keeps the most confident value
for every field, so rescanning a blurry card only ever improves the result.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewClassifyCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewMergeCmd())
	cmd.AddCommand(NewSessionCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
