package cmd

import (
	"context"
	"os"
	"os/signal"
	"strconv"

	"github.com/relloyd/costpipe/actions"
	"github.com/relloyd/costpipe/costbyeq"
	c "github.com/relloyd/costpipe/constants"
	"github.com/spf13/cobra"
)

var runCostByEqCmd = &cobra.Command{
	Use:   c.ActionFuncsSubCommandCostByEq,
	Short: "Load labour and material cost per equipment into the target table",
	Long: `Run the source SQL Server query that sums labour, material and outsource cost per equipment,
date, site and work order type group, clean up the column names and values, and load the rows
into the target PostgreSQL table.
The optional truncate and all inserts happen in a single transaction so readers never see
a partly loaded table. Use --dry-run to print the source SQL without connecting.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		s, err := runCostByEq(ctx)
		if err != nil || runCostByEqCfg.DryRun {
			return err
		}
		return actions.PrintSummary(s)
	},
}

var runCostByEqCfg = actions.CostByEqConfig{}

func runCostByEq(ctx context.Context) (costbyeq.Summary, error) {
	runCostByEqCfg.Connections = getConnectionLoader()
	runCostByEqCfg.StackDumpOnPanic = stackDumpOnPanic
	return actions.RunCostByEq(ctx, &runCostByEqCfg)
}

// addCostByEqFlags registers the flags shared by every command that runs the cost by equipment ETL.
func addCostByEqFlags(cmd *cobra.Command, cfg *actions.CostByEqConfig) {
	switches.addFlag(cmd, &cfg.SourceName, "source", c.ConnectionNameSource, false, "")
	switches.addFlag(cmd, &cfg.TargetName, "target", c.ConnectionNameTarget, false, "")
	switches.addFlag(cmd, &cfg.Table, "table", c.CostByEqDefaultTable, false, "")
	switches.addFlag(cmd, &cfg.Schema, "schema", "", false, "")
	switches.addFlag(cmd, &cfg.TruncateBeforeLoad, "truncate", "true", false, "")
	switches.addFlag(cmd, &cfg.BatchSize, "batch-size", strconv.Itoa(c.CostByEqDefaultBatchSize), false, "")
	switches.addFlag(cmd, &cfg.NotifyNatsURL, "notify-nats-url", "", false, "")
	switches.addFlag(cmd, &cfg.NotifySubject, "notify-subject", c.CostByEqNotifySubject, false, "")
}

func init() {
	runCmd.AddCommand(runCostByEqCmd)
	runCostByEqCmd.Flags().SortFlags = false
	addCostByEqFlags(runCostByEqCmd, &runCostByEqCfg)
	switches.addFlag(runCostByEqCmd, &runCostByEqCfg.DryRun, "dry-run", "false", false, "")
	switches.addFlag(runCostByEqCmd, &runCostByEqCfg.LogLevel, "log-level", "warn", false, "")
}
