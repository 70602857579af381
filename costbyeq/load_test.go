package costbyeq_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/relloyd/costpipe/constants"
	"github.com/relloyd/costpipe/costbyeq"
	"github.com/relloyd/costpipe/rdbms/shared"
	"github.com/relloyd/costpipe/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertColumns = "date,year,month,site_no,wo_count,eq_no,eq_code,eq_name,mh_cost,sparepart_cost,outsource_cost,main_cost,wo_type_group_no"

func mockLoader(t *testing.T, dbType string) (*costbyeq.Loader, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	conn := shared.NewHpConnection(db, dbType)
	return &costbyeq.Loader{
		Log: testLogger(),
		Destination: costbyeq.ConnectionOpenerFunc(func(ctx context.Context) (shared.Connector, error) {
			return conn, nil
		}),
	}, mock
}

func TestLoad_EmptyInputSkipsDatabase(t *testing.T) {
	called := false
	l := &costbyeq.Loader{
		Log: testLogger(),
		Destination: costbyeq.ConnectionOpenerFunc(func(ctx context.Context) (shared.Connector, error) {
			called = true
			return nil, errors.New("should not connect")
		}),
	}
	for _, rows := range []*table.Table{nil, table.New(costbyeq.OutputColumns...)} {
		res, err := l.Load(context.Background(), rows, costbyeq.LoadConfig{
			Table:              "cost_by_eq",
			Schema:             "analytics",
			TruncateBeforeLoad: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, res.RowsInserted)
		assert.Equal(t, "analytics.cost_by_eq", res.QualifiedTable)
		assert.Equal(t, "analytics", res.Schema)
		assert.Equal(t, "cost_by_eq", res.Table)
	}
	assert.False(t, called, "expected no connection to be opened")
}

func TestLoad_TransactionSequence(t *testing.T) {
	l, mock := mockLoader(t, constants.ConnectionTypePostgres)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("truncate table analytics.cost_by_eq")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("insert into analytics.cost_by_eq ("+insertColumns+") values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13),($14,")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("insert into analytics.cost_by_eq ("+insertColumns+") values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)")).
		WithArgs("2024-03-15", int64(2024), int64(3), int64(1), int64(1), int64(3), "EQ", "Pump", int64(10), int64(0), int64(0), int64(10), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	res, err := l.Load(context.Background(), transformedRows(t, 1, 3), costbyeq.LoadConfig{
		Table:              "cost_by_eq",
		Schema:             "analytics",
		TruncateBeforeLoad: true,
		BatchSize:          2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.RowsInserted)
	assert.Equal(t, "analytics.cost_by_eq", res.QualifiedTable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_NoTruncateWhenDisabled(t *testing.T) {
	l, mock := mockLoader(t, constants.ConnectionTypeSqlServer)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("insert into cost_by_eq (" + insertColumns + ") values (@p1,")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	res, err := l.Load(context.Background(), transformedRows(t, 1, 1), costbyeq.LoadConfig{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.RowsInserted)
	assert.Equal(t, "cost_by_eq", res.QualifiedTable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_InsertFailureRollsBack(t *testing.T) {
	l, mock := mockLoader(t, constants.ConnectionTypePostgres)
	mock.ExpectBegin()
	mock.ExpectExec("truncate table cost_by_eq").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("insert into cost_by_eq").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("insert into cost_by_eq").WillReturnError(errors.New("duplicate key value"))
	mock.ExpectRollback()
	mock.ExpectClose()

	_, err := l.Load(context.Background(), transformedRows(t, 1, 3), costbyeq.LoadConfig{
		Table:              "cost_by_eq",
		TruncateBeforeLoad: true,
		BatchSize:          1,
	})
	var we *costbyeq.WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, costbyeq.StageLoad, we.Stage)
	assert.Equal(t, "insert batch 2", we.Step)
	assert.EqualError(t, errors.Unwrap(err), "duplicate key value")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_TruncateFailureRollsBack(t *testing.T) {
	l, mock := mockLoader(t, constants.ConnectionTypePostgres)
	mock.ExpectBegin()
	mock.ExpectExec("truncate table cost_by_eq").WillReturnError(errors.New("relation does not exist"))
	mock.ExpectRollback()
	mock.ExpectClose()

	_, err := l.Load(context.Background(), transformedRows(t, 1, 1), costbyeq.LoadConfig{TruncateBeforeLoad: true})
	var we *costbyeq.WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, "truncate", we.Step)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_BeginAndCommitFailures(t *testing.T) {
	// Begin failure is a connection problem.
	l, mock := mockLoader(t, constants.ConnectionTypePostgres)
	mock.ExpectBegin().WillReturnError(errors.New("connection reset"))
	mock.ExpectClose()
	_, err := l.Load(context.Background(), transformedRows(t, 1, 1), costbyeq.LoadConfig{})
	var ce *costbyeq.ConnectionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, costbyeq.StageLoad, ce.Stage)
	assert.NoError(t, mock.ExpectationsWereMet())

	// Commit failure is a write problem.
	l, mock = mockLoader(t, constants.ConnectionTypePostgres)
	mock.ExpectBegin()
	mock.ExpectExec("insert into cost_by_eq").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))
	mock.ExpectClose()
	_, err = l.Load(context.Background(), transformedRows(t, 1, 1), costbyeq.LoadConfig{})
	var we *costbyeq.WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, "commit", we.Step)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_ConnectionFailure(t *testing.T) {
	l := &costbyeq.Loader{
		Log: testLogger(),
		Destination: costbyeq.ConnectionOpenerFunc(func(ctx context.Context) (shared.Connector, error) {
			return nil, errors.New("dial tcp: connection refused")
		}),
	}
	_, err := l.Load(context.Background(), transformedRows(t, 1, 1), costbyeq.LoadConfig{})
	var ce *costbyeq.ConnectionError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, err.Error(), "load: connection error")
}

func TestLoad_TruncateThenAppend(t *testing.T) {
	for _, tc := range []struct {
		truncate bool
		expected int64
	}{
		{true, 3},
		{false, 8},
	} {
		d := sqliteDetails(t, "target")
		execAll(t, d, destinationDDL)
		l := &costbyeq.Loader{Log: testLogger(), Destination: costbyeq.NewConnectionOpener(testLogger(), d)}
		_, err := l.Load(context.Background(), transformedRows(t, 100, 5), costbyeq.LoadConfig{BatchSize: 2})
		require.NoError(t, err)
		require.Equal(t, int64(5), countRows(t, d))

		res, err := l.Load(context.Background(), transformedRows(t, 1, 3), costbyeq.LoadConfig{
			TruncateBeforeLoad: tc.truncate,
			BatchSize:          2,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, res.RowsInserted)
		assert.Equal(t, tc.expected, countRows(t, d), "truncate=%v", tc.truncate)
	}
}

func TestLoad_FailedBatchLeavesDestinationUnchanged(t *testing.T) {
	d := sqliteDetails(t, "target")
	execAll(t, d, destinationDDL)
	l := &costbyeq.Loader{Log: testLogger(), Destination: costbyeq.NewConnectionOpener(testLogger(), d)}
	_, err := l.Load(context.Background(), transformedRows(t, 100, 5), costbyeq.LoadConfig{})
	require.NoError(t, err)

	// Rows 1 and 4 share a key so the second of three batches fails.
	rows := transformedRows(t, 1, 6)
	eqNo, _ := rows.Column("eq_no")
	eqNo[3] = int64(1)
	_, err = l.Load(context.Background(), rows, costbyeq.LoadConfig{TruncateBeforeLoad: true, BatchSize: 2})
	var we *costbyeq.WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, "insert batch 2", we.Step)

	tbl := queryTable(t, d, "select eq_no from cost_by_eq order by eq_no")
	got, _ := tbl.Column("eq_no")
	assert.Equal(t, []interface{}{int64(100), int64(101), int64(102), int64(103), int64(104)}, got)
}
