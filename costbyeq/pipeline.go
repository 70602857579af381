package costbyeq

import (
	"context"
	"time"

	"github.com/relloyd/costpipe/logger"
	"github.com/rs/xid"
)

// Config holds everything one run needs.
// A nil Query runs DefaultSourceQuery.
type Config struct {
	Log         logger.Logger
	Source      ConnectionOpener
	Destination ConnectionOpener
	Query       *SourceQuery
	Load        LoadConfig
}

// Summary describes a completed run.
type Summary struct {
	RunID              string        `json:"run_id"`
	RowsExtracted      int           `json:"rows_extracted"`
	RowsLoaded         int           `json:"rows_loaded"`
	Destination        string        `json:"destination"`
	TruncateBeforeLoad bool          `json:"truncate_before_load"`
	StartedAt          time.Time     `json:"started_at"`
	Duration           time.Duration `json:"duration_ns"`
}

// Run extracts, transforms and loads the cost by equipment data once.
// Any stage error stops the run and is returned unchanged.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	s := Summary{
		RunID:              xid.New().String(),
		TruncateBeforeLoad: cfg.Load.TruncateBeforeLoad,
		StartedAt:          time.Now(),
	}
	log := cfg.Log
	if l, ok := log.(*logger.LoggerImpl); ok {
		log = l.WithField("runId", s.RunID)
	}
	log.Info("Starting cost_by_eq ETL")
	q := DefaultSourceQuery()
	if cfg.Query != nil {
		q = *cfg.Query
	}
	// Extract.
	e := &Extractor{Log: log, Source: cfg.Source, Query: q}
	extracted, err := e.Extract(ctx)
	if err != nil {
		return s, err
	}
	s.RowsExtracted = extracted.NumRows()
	// Transform.
	transformed, err := Transform(log, extracted)
	if err != nil {
		return s, err
	}
	// Load.
	l := &Loader{Log: log, Destination: cfg.Destination}
	res, err := l.Load(ctx, transformed, cfg.Load)
	s.Destination = res.QualifiedTable
	if err != nil {
		return s, err
	}
	s.RowsLoaded = res.RowsInserted
	s.Duration = time.Since(s.StartedAt)
	log.Info("ETL finished: rows_extracted=", s.RowsExtracted, " rows_loaded=", s.RowsLoaded,
		" destination=", s.Destination, " truncate_before_load=", s.TruncateBeforeLoad)
	return s, nil
}
