package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"polaris-hq/borealis/pkg/catalog"
	"polaris-hq/borealis/pkg/quote"
)

var quoteFlags struct {
	catalogPath string
	answersPath string
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a set of answers from a file",
	Long: `Price a set of answers against a catalog without starting the server.

The answers file holds a JSON object mapping field ids to values, the
same shape the API accepts under "answers". The quote is printed to
stdout as JSON; validation failures are printed field by field and exit
with a non-zero status.

Examples:
  # Price answers against the default catalog
  polaris quote --answers answers.json

  # Price against a specific catalog
  polaris quote --catalog catalog/schema.json --answers answers.json`,
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&quoteFlags.catalogPath, "catalog", "catalog/schema.json", "catalog file path")
	quoteCmd.Flags().StringVar(&quoteFlags.answersPath, "answers", "", "answers JSON file (required)")
	_ = quoteCmd.MarkFlagRequired("answers")
}

func runQuote(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(quoteFlags.catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	data, err := os.ReadFile(quoteFlags.answersPath)
	if err != nil {
		return fmt.Errorf("failed to read answers file: %w", err)
	}
	var answers map[string]any
	if err := json.Unmarshal(data, &answers); err != nil {
		return fmt.Errorf("failed to parse answers file: %w", err)
	}

	visible, err := quote.ComputeVisibility(cat, answers, map[string]any{})
	if err != nil {
		return err
	}
	visible = quote.ApplyRiskCategoryGates(cat, answers, visible)
	answers = quote.ClearInvisible(answers, visible)

	validated, err := quote.ValidateAnswers(cat, answers, visible, true)
	if err != nil {
		if verr, ok := quote.AsValidationError(err); ok {
			fmt.Fprintf(os.Stderr, "%s: %s\n", verr.Title, verr.Detail)
			for id, msg := range verr.FieldErrors {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", id, msg)
			}
			os.Exit(1)
		}
		return err
	}

	q, err := quote.BuildQuote(cat, validated)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
