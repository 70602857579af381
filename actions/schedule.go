package actions

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/relloyd/costpipe/constants"
	"github.com/relloyd/costpipe/helper"
	"github.com/relloyd/costpipe/logger"
	"github.com/robfig/cron/v3"
)

type ScheduleConfig struct {
	CronSpec         string `errorTxt:"cron schedule" mandatory:"yes"`
	CostByEq         CostByEqConfig
	LogLevel         string
	StackDumpOnPanic bool
}

// NewScheduler returns a cron that runs the ETL on cfg.CronSpec.
// Ticks that arrive while the previous run is still loading the same destination are skipped.
func NewScheduler(ctx context.Context, log logger.Logger, cfg *ScheduleConfig, guard *RunGuard, run CostByEqRunner) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	template := cfg.CostByEq
	if template.Log == nil {
		template.Log = log
	}
	_, err := c.AddFunc(cfg.CronSpec, func() {
		scheduledRun(ctx, log, template, guard, run)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "invalid cron schedule %q", cfg.CronSpec)
	}
	return c, nil
}

func scheduledRun(ctx context.Context, log logger.Logger, cfg CostByEqConfig, guard *RunGuard, run CostByEqRunner) {
	release, ok := guard.TryAcquire(cfg.Destination())
	if !ok {
		log.Warn("Skipping scheduled run: previous run for ", cfg.Destination(), " is still in progress")
		return
	}
	defer release()
	s, err := run(ctx, &cfg)
	if err != nil {
		log.Error("Scheduled run failed: ", err)
		return
	}
	log.Info("Scheduled run ", s.RunID, " loaded ", s.RowsLoaded, " rows into ", s.Destination)
}

// RunSchedule blocks running the ETL on a schedule until ctx is done or the process is interrupted.
func RunSchedule(ctx context.Context, cfg *ScheduleConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	log := logger.NewLogger(constants.AppName, logLevelOrDefault(cfg.LogLevel, "info"), cfg.StackDumpOnPanic)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c, err := NewScheduler(ctx, log, cfg, NewRunGuard(), RunCostByEq)
	if err != nil {
		return err
	}
	c.Start()
	log.Info("Scheduled cost_by_eq runs using ", cfg.CronSpec)
	chanOS := make(chan os.Signal, 1)
	signal.Notify(chanOS, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(chanOS)
	select {
	case <-ctx.Done():
	case <-chanOS:
	}
	log.Info("Stopping scheduler...")
	cancel()
	<-c.Stop().Done() // wait for a running job.
	return nil
}
