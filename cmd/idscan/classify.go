package main

import (
	"fmt"

	"github.com/nao1215/idscan/internal/classify"
	"github.com/nao1215/idscan/internal/model"
	"github.com/nao1215/idscan/internal/ocrtext"
	"github.com/nao1215/idscan/internal/report"
	"github.com/spf13/cobra"
)

// classification is the JSON output of the classify command.
type classification struct {
	Source       string             `json:"source"`
	DocumentType model.DocumentType `json:"documentType"`
	Scores       classify.Scores    `json:"scores"`
	Thresholds   classify.Scores    `json:"thresholds"`
}

// NewClassifyCmd creates the classify command.
func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Show which document type OCR text was classified as",
		Long: `Classify scores OCR text against the Aadhaar and PAN keyword tables and
prints the decision together with both scores.

A type wins only when its score reaches its threshold and is strictly
higher than the other score; anything else is unknown.

Examples:
  idscan classify card.txt
  tesseract card.png - | idscan classify --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runClassifyCmd,
	}

	addConfigFlag(cmd)
	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

// runClassifyCmd executes the classify command.
func runClassifyCmd(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	rules, err := loadRules(configPath)
	if err != nil {
		return err
	}
	inputs, err := readInputs(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	classifier := classify.New(rules.ClassifierRules(classify.DefaultRules()))
	table := classifier.Rules()
	scores := classifier.Score(ocrtext.Normalize(inputs[0].Text))

	result := classification{
		Source:       inputs[0].Source,
		DocumentType: classifier.Decide(scores),
		Scores:       scores,
		Thresholds:   classify.Scores{Aadhaar: table.AadhaarThreshold, PAN: table.PANThreshold},
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		_, err := report.NewJSONWriter(out, report.WithPrettyPrint()).WriteValue(result)
		return err
	}

	fmt.Fprintf(out, "Document:       %s\n", result.DocumentType.DisplayName())
	fmt.Fprintf(out, "Aadhaar score:  %d (threshold %d)\n", scores.Aadhaar, table.AadhaarThreshold)
	fmt.Fprintf(out, "PAN score:      %d (threshold %d)\n", scores.PAN, table.PANThreshold)
	return nil
}
