package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/idscan/internal/model"
	"github.com/nao1215/idscan/internal/report"
	"github.com/nao1215/idscan/internal/validate"
	"github.com/spf13/cobra"
)

// errValidationFailed makes the command exit with status 1 when a value
// is invalid.
var errValidationFailed = errors.New("validation failed")

// validation is the JSON output of the validate command.
type validation struct {
	FieldName string `json:"fieldName"`
	Value     string `json:"value"`
	Formatted string `json:"formatted"`
	model.ValidationResult
}

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <fieldName> <value>",
		Short: "Check a single field value",
		Long: `Validate checks one value against the rules for its field and prints the
canonical form idscan would store.

Field names: ` + strings.Join(model.KnownFieldNames(), ", ") + `

The command exits with status 1 when the value is invalid.

Examples:
  idscan validate adharId "1234 5678 9012"
  idscan validate birthdate 29/02/2001
  idscan validate panNumber abcpe1234f --json`,
		Args: cobra.ExactArgs(2),
		RunE: runValidateCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

// runValidateCmd executes the validate command.
func runValidateCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	name, value := args[0], args[1]
	if !model.IsKnownField(name) {
		return fmt.Errorf("unknown field %q (known fields: %s)", name, strings.Join(model.KnownFieldNames(), ", "))
	}

	result := validation{
		FieldName:        name,
		Value:            value,
		Formatted:        validate.Format(name, value),
		ValidationResult: validate.Validate(name, value),
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if _, err := report.NewJSONWriter(out, report.WithPrettyPrint()).WriteValue(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "Field:      %s (%s)\n", model.LabelFor(name), name)
		fmt.Fprintf(out, "Formatted:  %s\n", result.Formatted)
		if result.IsValid {
			fmt.Fprintln(out, "Valid:      yes")
		} else {
			fmt.Fprintf(out, "Valid:      no (%s)\n", result.ErrorMessage)
		}
	}

	if !result.IsValid {
		return fmt.Errorf("%w: %s", errValidationFailed, result.ErrorMessage)
	}
	return nil
}
