package costbyeq_test

import (
	"context"
	"errors"
	"testing"

	"github.com/relloyd/costpipe/costbyeq"
	"github.com/relloyd/costpipe/rdbms/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sourceFixture creates the maintenance tables with two work orders on EQ1 and one order without equipment.
func sourceFixture(t *testing.T) shared.ConnectionDetails {
	d := sqliteDetails(t, "source")
	stmts := append([]string{}, sourceDDL...)
	stmts = append(stmts,
		"insert into EQ values (1, 'Pump 1', 'EQ1')",
		"insert into WOTYPE values (5, 7)",
		"insert into WO values (10, '2024-03-15', 3, 1, 5)",
		"insert into WO values (11, '2024-03-15', 3, null, 5)",
		"insert into WO_Resource values (10, 'L', null, 60.2)",
		"insert into WO_Resource values (10, 'L', null, 40.2)",
		"insert into WO_Resource values (10, 'P', 'X', 500.0)",
		"insert into WO_Resource values (11, 'L', null, 999.0)",
	)
	execAll(t, d, stmts...)
	return d
}

func TestExtract(t *testing.T) {
	d := sourceFixture(t)
	e := &costbyeq.Extractor{
		Log:    testLogger(),
		Source: costbyeq.NewConnectionOpener(testLogger(), d),
		Query:  costbyeq.DefaultSourceQuery(),
	}
	tbl, err := e.Extract(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, tbl.NumRows())
	assert.Equal(t, []string{"EQNO", "EQName", "EQCode", "WODATE", "SiteNo", "WOTypeGroupNo",
		"wo_count", "MHCost", "SparePartCost", "OutsourceCost", "maincost"}, tbl.Columns())
	r := tbl.Record(0)
	assert.Equal(t, "EQ1", asString(r["EQCode"]))
	assert.Equal(t, "2024-03-15", asString(r["WODATE"]))
	assert.Equal(t, int64(3), r["wo_count"])
	assert.InDelta(t, 100.4, r["MHCost"], 0.0001)
	assert.InDelta(t, 0.0, r["SparePartCost"], 0.0001)
	assert.InDelta(t, 100.4, r["maincost"], 0.0001)
}

func TestExtract_Errors(t *testing.T) {
	// Unreachable source.
	e := &costbyeq.Extractor{
		Log: testLogger(),
		Source: costbyeq.ConnectionOpenerFunc(func(ctx context.Context) (shared.Connector, error) {
			return nil, errors.New("login failed")
		}),
		Query: costbyeq.DefaultSourceQuery(),
	}
	_, err := e.Extract(context.Background())
	var ce *costbyeq.ConnectionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, costbyeq.StageExtract, ce.Stage)

	// Missing tables reject the query.
	d := sqliteDetails(t, "empty")
	e = &costbyeq.Extractor{
		Log:    testLogger(),
		Source: costbyeq.NewConnectionOpener(testLogger(), d),
		Query:  costbyeq.DefaultSourceQuery(),
	}
	_, err = e.Extract(context.Background())
	var qe *costbyeq.QueryError
	require.True(t, errors.As(err, &qe))
	assert.Contains(t, err.Error(), "extract: query error")
}
