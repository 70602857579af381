package rdbms

import (
	"database/sql"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/relloyd/costpipe/constants"
	"github.com/xo/dburl"
)

func TestTypeAndDriver(t *testing.T) {
	tests := []struct {
		dsn    string
		dbType string
		driver string
	}{
		{"sqlserver://sa:p@localhost:1433?database=cedar", constants.ConnectionTypeSqlServer, "sqlserver"},
		{"ms://sa:p@localhost/instance?database=cedar", constants.ConnectionTypeSqlServer, "sqlserver"},
		{"mssql://sa:p@localhost:1433?database=cedar", constants.ConnectionTypeMsSql, "mssql"},
		{"postgres://u:p@localhost:5432/analytics", constants.ConnectionTypePostgres, "postgres"},
		{"sqlite3:/tmp/x.db", constants.ConnectionTypeSqlite, "sqlite3"},
	}
	for _, tc := range tests {
		u, err := dburl.Parse(tc.dsn)
		if err != nil {
			t.Fatal(err)
		}
		dbType, driver := typeAndDriver(u)
		if dbType != tc.dbType || driver != tc.driver {
			t.Fatalf("dsn %v: expected %v/%v; got %v/%v", tc.dsn, tc.dbType, tc.driver, dbType, driver)
		}
	}
}

// The snowflake driver parses its embedded CA certificates in init, which fails under the
// go directive's default x509 settings unless negative serial numbers are allowed.
func TestDriversRegistered(t *testing.T) {
	registered := strings.Join(sql.Drivers(), ",")
	for _, d := range []string{"snowflake", "sqlserver", "mssql", "postgres", "sqlite3"} {
		if !strings.Contains(","+registered+",", ","+d+",") {
			t.Fatalf("expected driver %q to be registered; got %v", d, registered)
		}
	}
	b, err := ioutil.ReadFile("../go.mod")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "godebug x509negativeserial=1") {
		t.Fatal("go.mod must keep godebug x509negativeserial=1 for the snowflake driver")
	}
}
