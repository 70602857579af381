package cmd

import (
	"context"

	"github.com/relloyd/costpipe/actions"
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the cost by equipment ETL on a cron schedule",
	Long: `Run the cost by equipment ETL on a cron schedule until interrupted.
A tick that fires while the previous run for the same destination is still
loading is skipped with a warning.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scheduleCfg.CostByEq.Connections = getConnectionLoader()
		scheduleCfg.StackDumpOnPanic = stackDumpOnPanic
		scheduleCfg.CostByEq.StackDumpOnPanic = stackDumpOnPanic
		scheduleCfg.CostByEq.LogLevel = scheduleCfg.LogLevel
		cmd.SilenceUsage = true
		return actions.RunSchedule(context.Background(), &scheduleCfg)
	},
}

var scheduleCfg = actions.ScheduleConfig{}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().SortFlags = false
	switches.addFlag(scheduleCmd, &scheduleCfg.CronSpec, "cron", "", true, "")
	addCostByEqFlags(scheduleCmd, &scheduleCfg.CostByEq)
	switches.addFlag(scheduleCmd, &scheduleCfg.LogLevel, "log-level", "info", false, "")
}
