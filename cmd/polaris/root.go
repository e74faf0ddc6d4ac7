package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "polaris",
	Short: "Polaris - catalog-driven insurance quoting service",
	Long: `Polaris is an insurance quoting service driven entirely by a declarative
JSON catalog.

The catalog describes the product: screens and fields, dictionaries,
visibility rules, computed fields, and pricing rules written in a small
restricted expression dialect. The service runs the pipeline over
submitted answers (visibility, validation, pricing) and issues quotes,
contract documents, and policy PDFs.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
