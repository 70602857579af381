package shared

import (
	"testing"

	"github.com/cevaris/ordered_map"
	"github.com/relloyd/costpipe/constants"
	"github.com/relloyd/costpipe/logger"
)

func newTestInsertBatch(t *testing.T, dbType string, schema string) InsertBatcher {
	log := logger.NewLogger("costpipe", "error", true)
	omKeys := ordered_map.NewOrderedMap()
	omKeys.Set("col1", "a")
	omKeys.Set("col2", "b")
	omCols := ordered_map.NewOrderedMap()
	omCols.Set("col3", "c")
	g := &DmlGeneratorTxtBatch{Dialect: GetDialect(dbType)}
	o, ok := g.NewInsertGenerator(&SqlStatementGeneratorConfig{
		Log:             log,
		OutputSchema:    schema,
		OutputTable:     "t2",
		TargetKeyCols:   omKeys,
		TargetOtherCols: omCols}).(InsertBatcher)
	if !ok {
		t.Fatal("expected the insert generator to implement InsertBatcher")
	}
	return o
}

func TestSqlInsertTxtBatch(t *testing.T) {
	o := newTestInsertBatch(t, constants.ConnectionTypePostgres, "")

	// Create new batch of values size 2.
	o.InitBatch(2)
	batchIsFull, err := o.AddValuesToBatch([]interface{}{"x", "y", 123}) // first row should succeed.
	if err != nil {
		t.Fatal(err)
	}
	if batchIsFull {
		t.Fatal("the batch should not be full after one row")
	}
	batchIsFull, err = o.AddValuesToBatch([]interface{}{"p", "q", 2}) // second row should succeed.
	if err != nil {
		t.Fatal(err)
	}
	if !batchIsFull {
		t.Fatal("the batch should be full but it is not")
	}
	if _, err = o.AddValuesToBatch([]interface{}{"p", "q", 2}); err == nil {
		t.Fatal("expected error adding to a full batch")
	}
	expected := `insert into t2 (a,b,c) values ($1,$2,$3),($4,$5,$6)`
	if got := o.GetStatement(); got != expected {
		t.Fatalf("bad SQL INSERT generated: expected = '%v'; got = '%v'", expected, got)
	}
	if len(o.GetValues()) != 6 {
		t.Fatal("incorrect number of args")
	}

	// Retry with the wrong number of values.
	o.InitBatch(1)
	if _, err = o.AddValuesToBatch([]interface{}{"a", "b", 456, 789}); err == nil {
		t.Fatal("there should have been an error, incorrect number of values supplied in batch")
	}

	// A partial batch regenerates the statement for the rows actually added.
	o.InitBatch(5)
	if _, err = o.AddValuesToBatch([]interface{}{"a", "b", 456}); err != nil {
		t.Fatal(err)
	}
	expected = `insert into t2 (a,b,c) values ($1,$2,$3)`
	if got := o.GetStatement(); got != expected {
		t.Fatalf("bad SQL INSERT generated: expected = '%v'; got = '%v'", expected, got)
	}
}

func TestSqlInsertTxtBatchDialects(t *testing.T) {
	tests := []struct {
		dbType   string
		schema   string
		expected string
	}{
		{constants.ConnectionTypeSqlServer, "dbo", `insert into dbo.t2 (a,b,c) values (@p1,@p2,@p3)`},
		{constants.ConnectionTypeSqlite, "", `insert into t2 (a,b,c) values (?,?,?)`},
		{constants.ConnectionTypePostgres, "analytics", `insert into analytics.t2 (a,b,c) values ($1,$2,$3)`},
	}
	for _, tc := range tests {
		o := newTestInsertBatch(t, tc.dbType, tc.schema)
		o.InitBatch(1)
		if _, err := o.AddValuesToBatch([]interface{}{1, 2, 3}); err != nil {
			t.Fatal(err)
		}
		if got := o.GetStatement(); got != tc.expected {
			t.Fatalf("dialect %v: expected '%v'; got '%v'", tc.dbType, tc.expected, got)
		}
	}
}
