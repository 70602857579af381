package cmd

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/relloyd/costpipe/cmd.version=...".
var (
	version   = "0.1.0"
	buildDate = "2024-01-02T03:04+0000"
)

var stackDumpOnPanic bool

var rootCmd = &cobra.Command{
	Use:   "costpipe",
	Short: "Load cost by equipment from SQL Server into PostgreSQL",
	Long: `costpipe runs a SQL Server query that sums work order labour, material and outsource
cost per equipment, date, site and work order type group, and loads the rows into a PostgreSQL table.
Run it once from the command line, on a cron schedule or behind an HTTP endpoint.
Use 'extract' to dump any single table to a file, S3 or STDOUT.`,
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.PersistentFlags().BoolVar(&stackDumpOnPanic, "print-stack", false, "Log a stack trace with errors and panics")
	_ = rootCmd.PersistentFlags().MarkHidden("print-stack")
}

// Execute runs the command line, or the action named by the environment when 12 factor mode is enabled.
func Execute() {
	var err error
	switch {
	case lambdaMode:
		lambda.Start(lambdaHandler)
	case twelveFactorMode:
		_, err = execute12FactorMode(twelveFactorActions) // logs its own errors
	default:
		err = rootCmd.Execute() // prints its own errors
	}
	if err != nil {
		os.Exit(1)
	}
}

// lambdaHandler returns the run summary or extract result, which lambda marshals as the response.
func lambdaHandler() (interface{}, error) {
	return execute12FactorMode(twelveFactorActions)
}
