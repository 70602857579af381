package actions

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/relloyd/costpipe/constants"
	"github.com/relloyd/costpipe/costbyeq"
	"github.com/relloyd/costpipe/helper"
	"github.com/relloyd/costpipe/logger"
	"github.com/relloyd/costpipe/notify"
	"github.com/relloyd/costpipe/rdbms/shared"
)

type CostByEqConfig struct {
	Connections        ConnectionLoader
	SourceName         string `errorTxt:"source connection" mandatory:"yes"`
	TargetName         string `errorTxt:"target connection" mandatory:"yes"`
	Table              string
	Schema             string
	TruncateBeforeLoad bool
	BatchSize          int
	DryRun             bool
	NotifyNatsURL      string
	NotifySubject      string
	Notifier           RunNotifier
	LogLevel           string
	StackDumpOnPanic   bool
	Output             io.Writer
	Log                logger.Logger
}

// Destination returns the key used to serialise runs that write to the same table.
func (cfg *CostByEqConfig) Destination() string {
	t := cfg.Table
	if t == "" {
		t = constants.CostByEqDefaultTable
	}
	return cfg.TargetName + ":" + costbyeq.QualifiedTableName(cfg.Schema, t)
}

func (cfg *CostByEqConfig) getLogger() logger.Logger {
	if cfg.Log == nil {
		cfg.Log = logger.NewLogger(constants.AppName, logLevelOrDefault(cfg.LogLevel, "info"), cfg.StackDumpOnPanic)
	}
	return cfg.Log
}

// RunCostByEq runs the cost by equipment ETL between the configured source and target connections.
// With DryRun set the source SQL is printed instead.
func RunCostByEq(ctx context.Context, cfg *CostByEqConfig) (costbyeq.Summary, error) {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return costbyeq.Summary{}, err
	}
	log := cfg.getLogger()
	q := costbyeq.DefaultSourceQuery()
	if cfg.DryRun {
		fmt.Fprintln(outputOrStdout(cfg.Output), q.SQL())
		return costbyeq.Summary{}, nil
	}
	if cfg.Connections == nil {
		return costbyeq.Summary{}, errors.New("no connection loader supplied")
	}
	conns := shared.DBConnections{
		constants.ConnectionNameSource: {LogicalName: cfg.SourceName},
		constants.ConnectionNameTarget: {LogicalName: cfg.TargetName},
	}
	for _, k := range []string{constants.ConnectionNameSource, constants.ConnectionNameTarget} {
		if err := conns.LoadConnection(cfg.Connections, k); err != nil {
			return costbyeq.Summary{}, err
		}
	}
	n := cfg.Notifier
	if n == nil && cfg.NotifyNatsURL != "" {
		nn, err := notify.NewNatsNotifier(log, cfg.NotifyNatsURL, cfg.NotifySubject)
		if err != nil {
			return costbyeq.Summary{}, err
		}
		defer nn.Close()
		n = nn
	}
	s, err := costbyeq.Run(ctx, costbyeq.Config{
		Log:         log,
		Source:      costbyeq.NewConnectionOpener(log, conns[constants.ConnectionNameSource]),
		Destination: costbyeq.NewConnectionOpener(log, conns[constants.ConnectionNameTarget]),
		Query:       &q,
		Load: costbyeq.LoadConfig{
			Table:              cfg.Table,
			Schema:             cfg.Schema,
			TruncateBeforeLoad: cfg.TruncateBeforeLoad,
			BatchSize:          cfg.BatchSize,
		},
	})
	if n != nil {
		if nErr := n.NotifyRun(s, err); nErr != nil {
			log.Warn("Unable to publish run notification: ", nErr)
		}
	}
	return s, err
}
