package shared

import (
	"fmt"
	"strings"

	"github.com/relloyd/costpipe/constants"
)

type bindStyle int

const (
	bindQuestionMark bindStyle = iota // ?
	bindDollar                        // $1
	bindAtP                           // @p1
)

// Dialect holds the SQL differences between the supported database types.
type Dialect struct {
	Name             string
	DefaultSchema    string
	MaxBindVariables int
	MaxRowsPerInsert int // 0 means no limit besides MaxBindVariables
	bind             bindStyle
	quoteOpen        string
	quoteClose       string
	truncateTemplate string
	useTop           bool
}

var dialects = map[string]Dialect{
	constants.ConnectionTypeSqlServer: {
		Name:             constants.ConnectionTypeSqlServer,
		DefaultSchema:    constants.SqlServerDefaultSchema,
		MaxBindVariables: constants.SqlServerMaxBindVariables,
		MaxRowsPerInsert: constants.SqlServerMaxRowsPerInsert,
		bind:             bindAtP,
		quoteOpen:        "[",
		quoteClose:       "]",
		truncateTemplate: "truncate table %v",
		useTop:           true,
	},
	constants.ConnectionTypeMsSql: {
		Name:             constants.ConnectionTypeMsSql,
		DefaultSchema:    constants.SqlServerDefaultSchema,
		MaxBindVariables: constants.SqlServerMaxBindVariables,
		MaxRowsPerInsert: constants.SqlServerMaxRowsPerInsert,
		bind:             bindQuestionMark,
		quoteOpen:        "[",
		quoteClose:       "]",
		truncateTemplate: "truncate table %v",
		useTop:           true,
	},
	constants.ConnectionTypePostgres: {
		Name:             constants.ConnectionTypePostgres,
		MaxBindVariables: constants.PostgresMaxBindVariables,
		bind:             bindDollar,
		quoteOpen:        `"`,
		quoteClose:       `"`,
		truncateTemplate: "truncate table %v",
	},
	constants.ConnectionTypeSqlite: {
		Name:             constants.ConnectionTypeSqlite,
		MaxBindVariables: constants.SqliteMaxBindVariables,
		bind:             bindQuestionMark,
		quoteOpen:        `"`,
		quoteClose:       `"`,
		truncateTemplate: "delete from %v",
	},
	constants.ConnectionTypeSnowflake: {
		Name:             constants.ConnectionTypeSnowflake,
		MaxBindVariables: constants.SnowflakeMaxBindVariables,
		bind:             bindQuestionMark,
		quoteOpen:        `"`,
		quoteClose:       `"`,
		truncateTemplate: "truncate table %v",
	},
}

// dialectAliases maps alternative scheme names produced by DSN parsing onto a supported dialect.
var dialectAliases = map[string]string{
	"postgresql": constants.ConnectionTypePostgres,
	"pg":         constants.ConnectionTypePostgres,
	"pgsql":      constants.ConnectionTypePostgres,
	"ms":         constants.ConnectionTypeSqlServer,
	"sqlite":     constants.ConnectionTypeSqlite,
	"sq":         constants.ConnectionTypeSqlite,
	"file":       constants.ConnectionTypeSqlite,
	"sf":         constants.ConnectionTypeSnowflake,
}

// IsSupportedDialect returns true if dbType, or an alias of it, has a known Dialect.
func IsSupportedDialect(dbType string) bool {
	_, ok := dialects[canonicalDialectName(dbType)]
	return ok
}

// GetDialect returns the Dialect for dbType.
// Unknown types fall back to question mark binds and double quoted identifiers.
func GetDialect(dbType string) Dialect {
	n := canonicalDialectName(dbType)
	if d, ok := dialects[n]; ok {
		return d
	}
	return Dialect{
		Name:             n,
		MaxBindVariables: constants.SqlServerMaxBindVariables,
		bind:             bindQuestionMark,
		quoteOpen:        `"`,
		quoteClose:       `"`,
		truncateTemplate: "truncate table %v",
	}
}

func canonicalDialectName(dbType string) string {
	n := strings.ToLower(strings.TrimSpace(dbType))
	if a, ok := dialectAliases[n]; ok {
		return a
	}
	return n
}

// BindVar returns the n'th (1-based) bind variable placeholder.
func (d Dialect) BindVar(n int) string {
	switch d.bind {
	case bindDollar:
		return fmt.Sprintf("$%v", n)
	case bindAtP:
		return fmt.Sprintf("@p%v", n)
	default:
		return "?"
	}
}

// QuoteIdentifier wraps s in the dialect's identifier quotes.
func (d Dialect) QuoteIdentifier(s string) string {
	return d.quoteOpen + s + d.quoteClose
}

// QualifiedName returns schema.table, or just table when there is no schema.
// Identifiers are quoted when quote is true.
func (d Dialect) QualifiedName(schema string, table string, quote bool) string {
	if quote {
		table = d.QuoteIdentifier(table)
		if schema != "" {
			schema = d.QuoteIdentifier(schema)
		}
	}
	if schema == "" {
		return table
	}
	return schema + "." + table
}

// TruncateSql returns the statement that removes all rows from qualifiedTable.
func (d Dialect) TruncateSql(qualifiedTable string) string {
	return fmt.Sprintf(d.truncateTemplate, qualifiedTable)
}

// SelectAllSql returns a query that fetches all columns of qualifiedTable.
// A limit greater than zero restricts the number of rows returned.
func (d Dialect) SelectAllSql(qualifiedTable string, limit int) string {
	if limit <= 0 {
		return fmt.Sprintf("select * from %v", qualifiedTable)
	}
	if d.useTop {
		return fmt.Sprintf("select top %v * from %v", limit, qualifiedTable)
	}
	return fmt.Sprintf("select * from %v limit %v", qualifiedTable, limit)
}

// MaxRowsPerStatement caps the requested rows per multi-row statement so the number of bind variables
// stays below the dialect limit, and the row count stays within MaxRowsPerInsert.
func (d Dialect) MaxRowsPerStatement(numCols int, requested int) int {
	if numCols <= 0 || requested <= 0 {
		return requested
	}
	maxRows := (d.MaxBindVariables - 1) / numCols
	if d.MaxRowsPerInsert > 0 && maxRows > d.MaxRowsPerInsert {
		maxRows = d.MaxRowsPerInsert
	}
	if maxRows < 1 {
		maxRows = 1
	}
	if requested > maxRows {
		return maxRows
	}
	return requested
}
