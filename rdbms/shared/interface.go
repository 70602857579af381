package shared

import (
	"context"
)

// Connector is a database handle that knows its own SQL dialect.
// Everything that blocks takes a context so cancelled runs stop at the driver.
type Connector interface {
	BeginTx(ctx context.Context) (Transacter, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*HpRows, error)
	Close()
	GetType() string
	GetDialect() Dialect
	GetDmlGenerator() DmlGenerator
}

// Transacter is the part of sql.Tx used by loaders.
type Transacter interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error)
	Commit() error
	Rollback() error
}

type Result interface {
	RowsAffected() (int64, error)
}

type DmlGenerator interface {
	NewInsertGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtGenerator
}

type SqlStmtGenerator interface {
	GetStatement() string
}

// InsertBatcher accumulates rows into one multi-row INSERT.
// GetStatement and GetValues describe the rows added since the last InitBatch.
type InsertBatcher interface {
	SqlStmtGenerator
	InitBatch(batchSize int)
	AddValuesToBatch(values []interface{}) (batchIsFull bool, err error)
	GetValues() []interface{}
}

// RowHandler receives the column names of a result set followed by each row.
type RowHandler interface {
	HandleHeader(i []interface{}) error
	HandleRow(i []interface{}) error
}

// ConnectionGetter resolves a logical connection name to its details.
type ConnectionGetter interface {
	LoadConnection(name string) (ConnectionDetails, error)
}
