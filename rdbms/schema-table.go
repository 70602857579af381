package rdbms

import (
	"regexp"
	"strings"

	"github.com/relloyd/costpipe/rdbms/shared"
)

type SchemaTable struct {
	SchemaTable string `errorTxt:"[<schema>.]<table>" mandatory:"yes"`
}

func NewSchemaTable(schema string, table string) SchemaTable {
	if schema == "" {
		return SchemaTable{table}
	}
	return SchemaTable{schema + "." + table}
}

var (
	reQuotedTable      = regexp.MustCompile(`^".+\..+"$`) // "random.table"
	reQuotedSchemaAndT = regexp.MustCompile(`".+"\.".+"`) // "schema"."table"
	reBracketed        = regexp.MustCompile(`^\[(.+)\]$`) // [table]
	reDoubleQuoted     = regexp.MustCompile(`^"(.+)"$`)   // "table"
)

func (st *SchemaTable) isQuotedTable() bool {
	// if the schemaTable is a quoted "random.table" and not a regular "schema"."table"...
	return reQuotedTable.MatchString(st.SchemaTable) && !reQuotedSchemaAndT.MatchString(st.SchemaTable)
}

func (st *SchemaTable) GetTable() string {
	if st.isQuotedTable() {
		return st.SchemaTable // return the "random.table"
	}
	// else we have a schema.table...
	_, t := splitSchemaTable(st.SchemaTable)
	return t
}

func (st *SchemaTable) GetSchema() string {
	if st.isQuotedTable() {
		return ""
	}
	s, _ := splitSchemaTable(st.SchemaTable)
	return s
}

func splitSchemaTable(s string) (schema string, table string) {
	i := strings.Index(s, ".")
	if i < 0 { // if we have just a table...
		return "", s
	}
	return s[:i], s[i+1:]
}

// unquote removes one level of double quotes or square brackets from s.
func unquote(s string) string {
	if m := reBracketed.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := reDoubleQuoted.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// GetTableName returns the table without quotes e.g. for use as a file name.
func (st *SchemaTable) GetTableName() string {
	return unquote(st.GetTable())
}

// Qualify returns the schema and table quoted for dialect d.
// The dialect's default schema is used when no schema was supplied.
func (st *SchemaTable) Qualify(d shared.Dialect) string {
	schema := unquote(st.GetSchema())
	if schema == "" {
		schema = d.DefaultSchema
	}
	return d.QualifiedName(schema, st.GetTableName(), true)
}

func (st *SchemaTable) String() string {
	return st.SchemaTable
}
