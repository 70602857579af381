package actions

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/relloyd/costpipe/constants"
	"github.com/relloyd/costpipe/helper"
	"github.com/relloyd/costpipe/logger"
	"github.com/relloyd/costpipe/rdbms"
)

type QueryConfig struct {
	Connections      ConnectionLoader
	SourceString     ConnectionObject
	Query            string `errorTxt:"SQL query" mandatory:"yes"`
	PrintHeader      bool
	DryRun           bool
	LogLevel         string
	StackDumpOnPanic bool
	Output           io.Writer
}

type sqlHandler struct {
	printHeader bool
	w           *csv.Writer
}

func (s *sqlHandler) HandleHeader(i []interface{}) error {
	if s.printHeader {
		if err := s.w.Write(helper.InterfaceToString(i)); err != nil {
			return fmt.Errorf("error outputting SQL header: %v", err)
		}
		s.w.Flush()
	}
	return nil
}

func (s *sqlHandler) HandleRow(i []interface{}) error {
	if err := s.w.Write(helper.InterfaceToString(i)); err != nil {
		return fmt.Errorf("error outputting SQL row: %v", err)
	}
	s.w.Flush()
	return s.w.Error()
}

// RunQuery executes cfg.Query against the connection and writes the results as CSV.
// An interrupt cancels the query.
func RunQuery(cfg *QueryConfig) error {
	out := outputOrStdout(cfg.Output)
	if cfg.DryRun {
		fmt.Fprintln(out, cfg.Query)
		return nil
	}
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	log := logger.NewLogger(constants.AppName, logLevelOrDefault(cfg.LogLevel, "error"), cfg.StackDumpOnPanic)
	conn, err := cfg.Connections.LoadConnection(cfg.SourceString.GetConnectionName())
	if err != nil {
		return err
	}
	db, err := rdbms.OpenDbConnection(log, conn)
	if err != nil {
		return err
	}
	defer db.Close()
	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()
	h := &sqlHandler{printHeader: cfg.PrintHeader, w: csv.NewWriter(out)}
	// Handle interrupts.
	chanQuit := make(chan os.Signal, 2)
	chanSql := make(chan error, 1)
	signal.Notify(chanQuit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(chanQuit)
	go func() {
		chanSql <- rdbms.SqlQuery(ctx, log, db, cfg.Query, h)
	}()
	select {
	case <-chanQuit: // if we were interrupted...
		fmt.Fprintln(os.Stderr, "\nUser abort. Stopping SQL execution...")
		cancelFn()
		select {
		case <-time.After(5 * time.Second):
			fmt.Fprintln(os.Stderr, "Timeout waiting for SQL to end - aborted")
		case <-chanSql:
		}
		return nil
	case err = <-chanSql:
	}
	return errors.Wrap(err, "query failed")
}

func logLevelOrDefault(level string, d string) string {
	if level == "" {
		return d
	}
	return level
}
