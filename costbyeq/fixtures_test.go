package costbyeq_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/relloyd/costpipe/constants"
	"github.com/relloyd/costpipe/costbyeq"
	"github.com/relloyd/costpipe/logger"
	"github.com/relloyd/costpipe/rdbms"
	"github.com/relloyd/costpipe/rdbms/shared"
	"github.com/relloyd/costpipe/table"
	"github.com/stretchr/testify/require"
)

var sourceDDL = []string{
	"create table WO (WONO integer primary key, WODATE text, SiteNo integer, EQNO integer, WOTYPENO integer)",
	"create table WO_Resource (WONO integer, RESCTYPE text, RESCSUBTYPE text, amount real)",
	"create table EQ (EQNO integer primary key, EQName text, EQCode text)",
	"create table WOTYPE (WOTYPENO integer primary key, WOTypeGroupNo integer)",
}

const destinationDDL = `create table cost_by_eq (
	date text not null,
	year integer not null,
	month integer not null,
	site_no integer not null,
	wo_count integer not null,
	eq_no integer not null,
	eq_code text not null,
	eq_name text not null,
	mh_cost integer not null,
	sparepart_cost integer not null,
	outsource_cost integer not null,
	main_cost integer not null,
	wo_type_group_no integer not null,
	primary key (date, eq_no, site_no, wo_type_group_no)
)`

func testLogger() logger.Logger {
	return logger.NewLogger("costpipe-test", "error", false)
}

// sqliteDetails returns connection details for a new sqlite database file.
func sqliteDetails(t *testing.T, name string) shared.ConnectionDetails {
	return shared.ConnectionDetails{
		Type:        constants.ConnectionTypeSqlite,
		LogicalName: name,
		Data:        map[string]string{"dsn": "sqlite3:" + filepath.Join(t.TempDir(), name+".db")},
	}
}

func execAll(t *testing.T, d shared.ConnectionDetails, stmts ...string) {
	db, err := rdbms.OpenDbConnection(testLogger(), d)
	require.NoError(t, err)
	defer db.Close()
	for _, s := range stmts {
		_, err = db.ExecContext(context.Background(), s)
		require.NoError(t, err, s)
	}
}

func queryTable(t *testing.T, d shared.ConnectionDetails, sql string) *table.Table {
	db, err := rdbms.OpenDbConnection(testLogger(), d)
	require.NoError(t, err)
	defer db.Close()
	tbl, err := rdbms.QueryTable(context.Background(), testLogger(), db, sql)
	require.NoError(t, err)
	return tbl
}

func countRows(t *testing.T, d shared.ConnectionDetails) int64 {
	tbl := queryTable(t, d, "select count(*) as n from cost_by_eq")
	v, _ := tbl.Column("n")
	return v[0].(int64)
}

// asString normalises text values, which drivers may return as bytes.
func asString(v interface{}) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	s, _ := v.(string)
	return s
}

// transformedRows builds n rows in the destination layout with eq_no starting at firstEqNo.
func transformedRows(t *testing.T, firstEqNo int64, n int) *table.Table {
	tbl := table.New(costbyeq.OutputColumns...)
	for idx := int64(0); idx < int64(n); idx++ {
		require.NoError(t, tbl.AppendRow([]interface{}{
			"2024-03-15", int64(2024), int64(3), int64(1), int64(1), firstEqNo + idx, "EQ", "Pump",
			int64(10), int64(0), int64(0), int64(10), int64(7),
		}))
	}
	return tbl
}
