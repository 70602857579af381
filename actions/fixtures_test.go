package actions

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/relloyd/costpipe/constants"
	"github.com/relloyd/costpipe/costbyeq"
	"github.com/relloyd/costpipe/logger"
	"github.com/relloyd/costpipe/rdbms"
	"github.com/relloyd/costpipe/rdbms/shared"
	"github.com/stretchr/testify/require"
)

type testConnections map[string]shared.ConnectionDetails

func (c testConnections) LoadConnection(name string) (shared.ConnectionDetails, error) {
	d, ok := c[name]
	if !ok {
		return d, fmt.Errorf("connection %q is not configured", name)
	}
	return d, nil
}

func testLogger() logger.Logger {
	return logger.NewLogger("costpipe-test", "error", false)
}

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

// costByEqFixture returns source and target databases holding one aggregated row for EQ1.
func costByEqFixture(t *testing.T) testConnections {
	src := sqliteDetails(t, constants.ConnectionNameSource)
	execAll(t, src,
		"create table WO (WONO integer primary key, WODATE text, SiteNo integer, EQNO integer, WOTYPENO integer)",
		"create table WO_Resource (WONO integer, RESCTYPE text, RESCSUBTYPE text, amount real)",
		"create table EQ (EQNO integer primary key, EQName text, EQCode text)",
		"create table WOTYPE (WOTYPENO integer primary key, WOTypeGroupNo integer)",
		"insert into EQ values (1, 'Pump 1', 'EQ1')",
		"insert into WOTYPE values (5, 7)",
		"insert into WO values (10, '2024-03-15', 3, 1, 5)",
		"insert into WO_Resource values (10, 'L', null, 100.0)",
	)
	tgt := sqliteDetails(t, constants.ConnectionNameTarget)
	execAll(t, tgt, `create table cost_by_eq (
		date text, year integer, month integer, site_no integer, wo_count integer, eq_no integer,
		eq_code text, eq_name text, mh_cost integer, sparepart_cost integer, outsource_cost integer,
		main_cost integer, wo_type_group_no integer)`)
	return testConnections{
		constants.ConnectionNameSource: src,
		constants.ConnectionNameTarget: tgt,
	}
}

type fakeNotifier struct {
	summaries []costbyeq.Summary
	errs      []error
	closed    bool
}

func (f *fakeNotifier) NotifyRun(s costbyeq.Summary, runErr error) error {
	f.summaries = append(f.summaries, s)
	f.errs = append(f.errs, runErr)
	return nil
}

func (f *fakeNotifier) Close() {
	f.closed = true
}
