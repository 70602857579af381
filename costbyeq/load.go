package costbyeq

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/relloyd/costpipe/constants"
	h "github.com/relloyd/costpipe/helper"
	"github.com/relloyd/costpipe/logger"
	"github.com/relloyd/costpipe/rdbms"
	"github.com/relloyd/costpipe/rdbms/shared"
	"github.com/relloyd/costpipe/table"
)

type LoadConfig struct {
	Table              string
	Schema             string
	TruncateBeforeLoad bool
	BatchSize          int
}

type LoadResult struct {
	RowsInserted   int    `json:"rows_inserted"`
	Table          string `json:"table"`
	Schema         string `json:"schema,omitempty"`
	QualifiedTable string `json:"qualified_table"`
}

// QualifiedTableName returns schema.table, or table when schema is empty.
func QualifiedTableName(schema string, table string) string {
	st := rdbms.NewSchemaTable(schema, table)
	return st.String()
}

// Loader writes transformed rows to the destination.
type Loader struct {
	Log         logger.Logger
	Destination ConnectionOpener
}

// Load appends rows to the destination table in one transaction, optionally truncating it first.
// Empty input skips all database work, including the truncate.
func (l *Loader) Load(ctx context.Context, rows *table.Table, cfg LoadConfig) (LoadResult, error) {
	if cfg.Table == "" {
		cfg.Table = constants.CostByEqDefaultTable
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = constants.CostByEqDefaultBatchSize
	}
	result := LoadResult{
		Table:          cfg.Table,
		Schema:         cfg.Schema,
		QualifiedTable: QualifiedTableName(cfg.Schema, cfg.Table),
	}
	if rows.IsEmpty() {
		l.Log.Warn("No rows to load into ", result.QualifiedTable, "; skipping load step")
		return result, nil
	}
	db, err := l.Destination.OpenConnection(ctx)
	if err != nil {
		return result, &ConnectionError{Stage: StageLoad, Detail: "unable to open destination connection", Cause: err}
	}
	defer db.Close()
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return result, &ConnectionError{Stage: StageLoad, Detail: "unable to begin transaction", Cause: err}
	}
	dialect := db.GetDialect()
	writeErr := func(step string, cause error) error {
		l.rollback(tx)
		return &WriteError{Stage: StageLoad, Step: step, Table: result.QualifiedTable, Cause: cause}
	}
	if cfg.TruncateBeforeLoad {
		l.Log.Info("Truncating ", result.QualifiedTable)
		if _, err = tx.ExecContext(ctx, dialect.TruncateSql(result.QualifiedTable)); err != nil {
			return result, writeErr("truncate", err)
		}
	}
	// Insert in batches.
	batch, ok := db.GetDmlGenerator().NewInsertGenerator(&shared.SqlStatementGeneratorConfig{
		Log:             l.Log,
		OutputSchema:    cfg.Schema,
		OutputTable:     cfg.Table,
		TargetOtherCols: h.StringSliceToOrderedMap(rows.Columns()),
	}).(shared.InsertBatcher)
	if !ok {
		return result, writeErr("insert", errors.New("insert generator does not support batches"))
	}
	rowsPerBatch := dialect.MaxRowsPerStatement(rows.NumColumns(), cfg.BatchSize)
	if rowsPerBatch != cfg.BatchSize {
		l.Log.Debug("reduced insert batch size from ", cfg.BatchSize, " to ", rowsPerBatch, " rows to fit bind variable limit")
	}
	batchNum := 0
	numRows := rows.NumRows()
	for idx := 0; idx < numRows; idx++ { // for each row...
		if idx%rowsPerBatch == 0 { // if we are starting a new batch...
			batch.InitBatch(rowsPerBatch)
			batchNum++
		}
		full, err := batch.AddValuesToBatch(rows.Row(idx))
		if err != nil {
			return result, writeErr(fmt.Sprintf("insert batch %v", batchNum), err)
		}
		if full || idx == numRows-1 { // if the batch is ready to go...
			if _, err = tx.ExecContext(ctx, batch.GetStatement(), batch.GetValues()...); err != nil {
				return result, writeErr(fmt.Sprintf("insert batch %v", batchNum), err)
			}
			l.Log.Debug("inserted batch ", batchNum)
		}
	}
	if err = tx.Commit(); err != nil {
		return result, &WriteError{Stage: StageLoad, Step: "commit", Table: result.QualifiedTable, Cause: err}
	}
	result.RowsInserted = numRows
	l.Log.Info("Loaded ", numRows, " rows into ", result.QualifiedTable)
	return result, nil
}

func (l *Loader) rollback(tx shared.Transacter) {
	if err := tx.Rollback(); err != nil {
		l.Log.Error("rollback failed: ", err)
	}
}
