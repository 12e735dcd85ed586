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
	Use:   "aegis",
	Short: "Aegis - AI governance pipeline",
	Long: `Aegis is an AI governance service that screens prompts and audits
model outputs against organizational policy.

It runs multi-stage governance workflows:
  - Prompt screening with risk scoring and content flagging
  - Output auditing for bias, toxicity, and fairness
  - Policy enforcement with hot-reloadable policy files
  - Advisory guidance and feedback collection
  - A persistent audit trail with scheduled retention pruning`,
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
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
