package cmd

import (
	"net"

	"github.com/relloyd/costpipe/actions"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a web service that runs the cost by equipment ETL on request",
	Long: `Start a web service with these endpoints:

  GET  /health            liveness check
  POST /runs/cost-by-eq   run the ETL; an optional JSON body may override
                          "table", "schema", "truncate" and "batch_size"
  POST /stop              shut the server down

Requests for a destination that is already loading get HTTP 409.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		serveConfig.CostByEq.Connections = getConnectionLoader()
		serveConfig.StackDumpOnPanic = stackDumpOnPanic
		serveConfig.CostByEq.StackDumpOnPanic = stackDumpOnPanic
		serveConfig.CostByEq.LogLevel = serveConfig.LogLevel
		cmd.SilenceUsage = true
		return actions.RunWebServer(&serveConfig)
	},
}

var serveConfig = actions.WebServerConfig{
	Scheme: "http",
	Addr:   net.IP{0, 0, 0, 0},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().SortFlags = false
	serveCmd.Flags().IPVarP(&serveConfig.Addr, "address", "a", net.IP{0, 0, 0, 0}, "Address to listen on")
	switches.addFlag(serveCmd, &serveConfig.Port, "port", "8080", false, "")
	addCostByEqFlags(serveCmd, &serveConfig.CostByEq)
	switches.addFlag(serveCmd, &serveConfig.LogLevel, "log-level", "info", false, "")
}
