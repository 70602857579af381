package cmd

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a pre-canned ETL once",
	Long:  `Run a pre-canned ETL once and print a summary of the rows extracted and loaded.`,
}

func init() {
	rootCmd.AddCommand(runCmd)
}
