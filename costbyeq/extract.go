package costbyeq

import (
	"context"

	"github.com/relloyd/costpipe/logger"
	"github.com/relloyd/costpipe/rdbms"
	"github.com/relloyd/costpipe/rdbms/shared"
	"github.com/relloyd/costpipe/table"
)

// ConnectionOpener supplies a new database connection for each use.
// Callers close the connection when they are done with it.
type ConnectionOpener interface {
	OpenConnection(ctx context.Context) (shared.Connector, error)
}

// ConnectionOpenerFunc adapts a function to ConnectionOpener.
type ConnectionOpenerFunc func(ctx context.Context) (shared.Connector, error)

func (f ConnectionOpenerFunc) OpenConnection(ctx context.Context) (shared.Connector, error) {
	return f(ctx)
}

// NewConnectionOpener returns a ConnectionOpener that opens the connection described by d.
func NewConnectionOpener(log logger.Logger, d shared.ConnectionDetails) ConnectionOpener {
	return ConnectionOpenerFunc(func(ctx context.Context) (shared.Connector, error) {
		return rdbms.OpenDbConnection(log, d)
	})
}

// Extractor reads the aggregated cost rows from the source.
type Extractor struct {
	Log    logger.Logger
	Source ConnectionOpener
	Query  SourceQuery
}

// Extract runs the source query and returns all rows.
// Row order is whatever the source returns.
func (e *Extractor) Extract(ctx context.Context) (*table.Table, error) {
	e.Log.Info("Connecting to source...")
	db, err := e.Source.OpenConnection(ctx)
	if err != nil {
		return nil, &ConnectionError{Stage: StageExtract, Detail: "unable to open source connection", Cause: err}
	}
	defer db.Close()
	sql := e.Query.SQL()
	e.Log.Debug("source query: ", sql)
	t, err := rdbms.QueryTable(ctx, e.Log, db, sql)
	if err != nil {
		return nil, &QueryError{Stage: StageExtract, Detail: "source query failed", Cause: err}
	}
	e.Log.Info("Extracted ", t.NumRows(), " rows")
	return t, nil
}
