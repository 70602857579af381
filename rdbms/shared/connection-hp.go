package shared

import (
	"context"
	"database/sql"
	"errors"
)

// HpConnection implements Connector over a database/sql pool.
type HpConnection struct {
	DbSql  *sql.DB
	Dml    DmlGenerator
	DbType string
}

// NewHpConnection wraps db for database type dbType, using the text-batch DML generator for the dialect.
func NewHpConnection(db *sql.DB, dbType string) *HpConnection {
	return &HpConnection{
		DbSql:  db,
		Dml:    &DmlGeneratorTxtBatch{Dialect: GetDialect(dbType)},
		DbType: dbType,
	}
}

func (c *HpConnection) BeginTx(ctx context.Context) (Transacter, error) {
	if c.DbSql == nil {
		return nil, errors.New("connection is not open")
	}
	tx, err := c.DbSql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &HpTx{txSql: tx}, nil
}

func (c *HpConnection) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	return c.DbSql.ExecContext(ctx, query, args...)
}

func (c *HpConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (*HpRows, error) {
	r, err := c.DbSql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &HpRows{rowsSql: r}, nil
}

func (c *HpConnection) Close() {
	if c.DbSql != nil {
		_ = c.DbSql.Close()
	}
}

func (c *HpConnection) GetDmlGenerator() DmlGenerator {
	return c.Dml
}

func (c *HpConnection) GetType() string {
	return c.DbType
}

func (c *HpConnection) GetDialect() Dialect {
	return GetDialect(c.DbType)
}

type HpTx struct {
	txSql *sql.Tx
}

func (t *HpTx) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	return t.txSql.ExecContext(ctx, query, args...)
}

func (t *HpTx) Commit() error {
	return t.txSql.Commit()
}

func (t *HpTx) Rollback() error {
	return t.txSql.Rollback()
}

// HpRows exposes the subset of sql.Rows read by SqlQuery.
type HpRows struct {
	rowsSql *sql.Rows
}

func (r *HpRows) Close() error {
	return r.rowsSql.Close()
}

func (r *HpRows) Columns() ([]string, error) {
	return r.rowsSql.Columns()
}

func (r *HpRows) ColumnTypes() ([]*sql.ColumnType, error) {
	return r.rowsSql.ColumnTypes()
}

func (r *HpRows) Err() error {
	return r.rowsSql.Err()
}

func (r *HpRows) Next() bool {
	return r.rowsSql.Next()
}

func (r *HpRows) Scan(dest ...interface{}) error {
	return r.rowsSql.Scan(dest...)
}
