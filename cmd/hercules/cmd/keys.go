package cmd

import (
	"github.com/spf13/cobra"
)

var keysOnly bool

var keysCmd = &cobra.Command{
	Use:   "keys [csv-file]",
	Short: "Find the business keys of a dataset",
	Long: `Keys runs only the business key search. Every candidate column
combination up to --max-key-len is listed with its verdict: a key, a
duplicate, a nullable column, or a superset of a smaller key.

Example:
  hercules keys orders.csv --max-key-len 3
  hercules keys --config hercules.yaml --keys-only --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKeys,
}

func init() {
	keysCmd.Flags().BoolVar(&keysOnly, "keys-only", false,
		"List only the candidates that are keys")
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	return runPipeline(cmd, args, false, keysOnly)
}
