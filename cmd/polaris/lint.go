package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"polaris-hq/borealis/pkg/catalog"
	"polaris-hq/borealis/pkg/expr/parser"
)

var lintFlags struct {
	catalogPath string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check every expression in a catalog for dialect violations",
	Long: `Parse every expression in a catalog against the restricted dialect.

Checks rule conditions, operation expressions, pricing outputs, computed
fields, and the tariff formulas. Each violation is reported with the
location inside the catalog and the parser's rejection message.

Examples:
  polaris lint --catalog catalog/schema.json`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVar(&lintFlags.catalogPath, "catalog", "catalog/schema.json", "catalog file path")
}

func runLint(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(lintFlags.catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	problems := lintCatalog(cat)
	if len(problems) == 0 {
		fmt.Printf("✓ %s: all expressions valid\n", lintFlags.catalogPath)
		return nil
	}

	for _, p := range problems {
		fmt.Fprintf(os.Stderr, "%s: %v\n", p.where, p.err)
	}
	return fmt.Errorf("%d invalid expression(s)", len(problems))
}

type lintProblem struct {
	where string
	err   error
}

// lintCatalog parses every expression the pipeline would evaluate and
// collects the rejects with their catalog location.
func lintCatalog(cat *catalog.Catalog) []lintProblem {
	var problems []lintProblem

	check := func(where, src string) {
		if src == "" {
			return
		}
		if _, err := parser.Parse(src); err != nil {
			problems = append(problems, lintProblem{where: where, err: err})
		}
	}

	checkOps := func(where string, ops []catalog.Operation) {
		for i, op := range ops {
			loc := fmt.Sprintf("%s.%d(%s)", where, i, op.Op)
			check(loc+".value_expr", op.ValueExpr)
			check(loc+".multiplier_expr", op.MultiplierExpr)
			check(loc+".note_expr", op.NoteExpr)
			for _, out := range op.Outputs {
				check(loc+".outputs."+out.TargetFieldID, out.ValueExpr)
			}
		}
	}

	for _, rule := range cat.Rules() {
		check("rules."+rule.RuleID+".when", rule.When)
		checkOps("rules."+rule.RuleID+".then", rule.Then)
		checkOps("rules."+rule.RuleID+".else", rule.Else)
	}

	for _, c := range cat.ComputedEntries() {
		check("computed."+c.ComputedID, c.Expr)
	}

	pricing := cat.Pricing()
	check("pricing.tariff_formula.tariff_total_expr", pricing.TariffFormula.TariffTotalExpr)
	check("pricing.tariff_formula.premium_total_expr", pricing.TariffFormula.PremiumTotalExpr)

	return problems
}
