package cmd

import (
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile [csv-file]",
	Short: "Profile a dataset and find its business keys",
	Long: `Profile loads the configured source, or the CSV file given as argument,
and reports its shape, head, missing values, summary statistics, value
classes and patterns, followed by the business key search.

Example:
  hercules profile customers.csv
  hercules profile --config hercules.yaml --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	return runPipeline(cmd, args, true, false)
}
