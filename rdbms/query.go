package rdbms

import (
	"context"

	"github.com/pkg/errors"
	"github.com/relloyd/costpipe/logger"
	"github.com/relloyd/costpipe/rdbms/shared"
	"github.com/relloyd/costpipe/table"
)

// SqlQuery runs sqltext against db and sends the column names followed by each row to handler i.
// Values are scanned into interface{} so NULLs arrive as nil.
func SqlQuery(ctx context.Context, log logger.Logger, db shared.Connector, sqltext string, i shared.RowHandler) error {
	rows, err := db.QueryContext(ctx, sqltext)
	if err != nil {
		return errors.Wrapf(err, "error during database query using SQL: '%v'", sqltext)
	}
	defer func() {
		_ = rows.Close()
	}()
	// Set up column types for Scan(...)
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return errors.Wrap(err, "error fetching column types")
	}
	for _, v := range colTypes {
		log.Debug("column ", v.Name(), " scan type = ", v.ScanType())
	}
	// Scan the values dynamically.
	lenColTypes := len(colTypes)
	scanPtrs := make([]interface{}, lenColTypes)
	scanVals := make([]interface{}, lenColTypes)
	for idx := 0; idx < lenColTypes; idx++ { // for each column...
		scanPtrs[idx] = &scanVals[idx] // save the value.
	}
	// Build and send the header.
	header := make([]interface{}, lenColTypes)
	for idx := range colTypes {
		header[idx] = colTypes[idx].Name()
	}
	if err = i.HandleHeader(header); err != nil {
		return err
	}
	// Send the rows via callback interface.
	for rows.Next() {
		if err = ctx.Err(); err != nil { // quit if asked to, else continue...
			return err
		}
		if err = rows.Scan(scanPtrs...); err != nil {
			return errors.Wrap(err, "error scanning row")
		}
		// Make a new row.
		row := make([]interface{}, lenColTypes)
		copy(row, scanVals)
		if err = i.HandleRow(row); err != nil {
			return err
		}
	}
	if err = rows.Err(); err != nil {
		return errors.Wrap(err, "error fetching rows")
	}
	return nil
}

// TableHandler collects query results into a table.Table.
type TableHandler struct {
	Table *table.Table
}

func (h *TableHandler) HandleHeader(i []interface{}) error {
	cols := make([]string, len(i))
	for idx, v := range i {
		cols[idx] = v.(string)
	}
	h.Table = table.New(cols...)
	return nil
}

func (h *TableHandler) HandleRow(i []interface{}) error {
	return h.Table.AppendRow(i)
}

// QueryTable runs sqltext against db and returns the results as a table.Table.
func QueryTable(ctx context.Context, log logger.Logger, db shared.Connector, sqltext string) (*table.Table, error) {
	h := &TableHandler{}
	if err := SqlQuery(ctx, log, db, sqltext, h); err != nil {
		return nil, err
	}
	return h.Table, nil
}
