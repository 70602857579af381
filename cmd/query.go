package cmd

import (
	"github.com/relloyd/costpipe/actions"
	"github.com/spf13/cobra"
)

var queryCfg = actions.QueryConfig{}

var queryCmd = &cobra.Command{
	Use:   "query <connection> <SQL>",
	Short: "Run ad hoc SQL against a named connection and print CSV",
	Long: `Run ad hoc SQL against a named connection, for example to check the work order
and resource tables before a cost by equipment run:

  costpipe query SOURCE select count(*) from workorder

All arguments after the connection name are joined with spaces, so quotes are only
needed around characters your shell would interpret. Use --dry-run to see the joined SQL.`,
	Args: getQueryFromArgsFunc(&queryCfg.SourceString, &queryCfg.Query, ""),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		queryCfg.Connections = getConnectionLoader()
		queryCfg.StackDumpOnPanic = stackDumpOnPanic
		queryCfg.Output = cmd.OutOrStdout()
		return actions.RunQuery(&queryCfg)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().SortFlags = false
	switches.addFlag(queryCmd, &queryCfg.PrintHeader, "print-header", "false", false, "")
	switches.addFlag(queryCmd, &queryCfg.DryRun, "dry-run", "false", false, "")
	switches.addFlag(queryCmd, &queryCfg.LogLevel, "log-level", "error", false, "")
}
