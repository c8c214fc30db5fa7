package executor

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/rosa/internal/source"
	"github.com/leapstack-labs/rosa/internal/testutil"
	"github.com/leapstack-labs/rosa/pkg/core"
)

var sample = source.Static{
	{CollectionTime: "2024-03-01 07:00:00", Direction: "North", Lane: 1, Speed: 50},
	{CollectionTime: "2024-03-01 07:00:10", Direction: "South", Lane: 2, Speed: 71},
	{CollectionTime: "2024-03-01 07:00:20", Direction: "North", Lane: 1, Speed: 51},
	{CollectionTime: "2024-03-01 07:00:30", Direction: "North", Lane: 2, Speed: 53},
	{CollectionTime: "2024-03-01 07:00:40", Direction: "South", Lane: 1, Speed: 44},
}

func newTestExecutor(t *testing.T, src core.RecordSource) *Executor {
	t.Helper()
	exec, err := New(Config{Source: src, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	return exec
}

func TestExecute_Aggregates(t *testing.T) {
	exec := newTestExecutor(t, sample)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  map[string]any
	}{
		{"count all", "SELECT COUNT(*) as count FROM vehicles", map[string]any{"count": int64(5)}},
		{"count south", "SELECT COUNT(*) as count FROM vehicles WHERE Direction == 'South'", map[string]any{"count": int64(2)}},
		{"average rounded", "SELECT AVG(Speed) as average_speed FROM vehicles WHERE Direction == 'North'", map[string]any{"average_speed": 51.33}},
		{"max north lane 1", "SELECT MAX(Speed) as max_speed FROM vehicles WHERE Direction == 'North' AND Lane == 1", map[string]any{"max_speed": int64(51)}},
		{"average empty set", "SELECT AVG(Speed) as average_speed FROM vehicles WHERE Speed > 500", map[string]any{"average_speed": float64(0)}},
		{"max empty set", "SELECT MAX(Speed) as max_speed FROM vehicles WHERE Speed > 500", map[string]any{"max_speed": nil}},
		{"count empty set", "SELECT COUNT(*) as count FROM vehicles WHERE Lane == 9", map[string]any{"count": int64(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := exec.Execute(ctx, tt.query)
			require.NoError(t, err)
			require.True(t, res.IsAggregate())
			assert.Equal(t, tt.want, res.Aggregate)
		})
	}
}

func TestExecute_MaxEmptyIsExplicitNull(t *testing.T) {
	exec := newTestExecutor(t, sample)

	res, err := exec.Execute(context.Background(), "SELECT MAX(Speed) as max_speed FROM vehicles WHERE Speed > 500")
	require.NoError(t, err)

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"max_speed": null}`, string(out))
}

func TestExecute_List(t *testing.T) {
	exec := newTestExecutor(t, sample)

	res, err := exec.Execute(context.Background(), "SELECT * FROM vehicles WHERE Direction == 'North' ORDER BY Speed DESC")
	require.NoError(t, err)
	require.False(t, res.IsAggregate())
	assert.Equal(t, []string{"CollectionTime", "Direction", "Lane", "Speed"}, res.Columns)
	require.Len(t, res.Rows, 3)

	var speeds []any
	for _, row := range res.Rows {
		speeds = append(speeds, row["Speed"])
	}
	assert.Equal(t, []any{int64(53), int64(51), int64(50)}, speeds)
	assert.Equal(t, map[string]any{
		"CollectionTime": "2024-03-01 07:00:30",
		"Direction":      "North",
		"Lane":           int64(2),
		"Speed":          int64(53),
	}, res.Rows[0])
}

func TestExecute_ListEmpty(t *testing.T) {
	exec := newTestExecutor(t, sample)

	res, err := exec.Execute(context.Background(), "SELECT * FROM vehicles WHERE Lane == 7")
	require.NoError(t, err)
	assert.False(t, res.IsAggregate())
	assert.Empty(t, res.Rows)

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestExecute_SingleRowListStaysList(t *testing.T) {
	exec := newTestExecutor(t, sample)

	res, err := exec.Execute(context.Background(), "SELECT * FROM vehicles WHERE Speed == 71")
	require.NoError(t, err)
	assert.False(t, res.IsAggregate())
	assert.Len(t, res.Rows, 1)
}

// mutableSource lets a test change the dataset between calls.
type mutableSource struct {
	mu      sync.Mutex
	records []core.Record
}

func (m *mutableSource) ReadAll(_ context.Context) ([]core.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Record(nil), m.records...), nil
}

func TestExecute_RebuildsTableEveryCall(t *testing.T) {
	src := &mutableSource{records: []core.Record{{Direction: "North", Lane: 1, Speed: 40}}}
	exec := newTestExecutor(t, src)
	ctx := context.Background()
	query := "SELECT COUNT(*) as count FROM vehicles"

	res, err := exec.Execute(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Aggregate["count"])

	src.mu.Lock()
	src.records = append(src.records, core.Record{Direction: "South", Lane: 2, Speed: 60})
	src.mu.Unlock()

	res, err = exec.Execute(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Aggregate["count"], "second call must see the updated source")

	// Nothing inserted by one call leaks into the next.
	res, err = exec.Execute(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Aggregate["count"])
}

func TestExecute_Idempotent(t *testing.T) {
	exec := newTestExecutor(t, sample)
	query := "SELECT * FROM vehicles WHERE Speed > 45 ORDER BY Speed ASC"

	first, err := exec.Execute(context.Background(), query)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := exec.Execute(context.Background(), query)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestExecute_Concurrent(t *testing.T) {
	exec := newTestExecutor(t, sample)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := exec.Execute(context.Background(), "SELECT COUNT(*) as count FROM vehicles")
			if err != nil {
				errs <- err
				return
			}
			if res.Aggregate["count"] != int64(5) {
				errs <- errors.New("unexpected count")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestExecute_UnknownColumnIsExecutionError(t *testing.T) {
	exec := newTestExecutor(t, sample)

	query := "SELECT * FROM vehicles WHERE Colour == 'red'"
	_, err := exec.Execute(context.Background(), query)
	require.Error(t, err)

	var execErr *core.ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, query, execErr.Query)
}

type failingSource struct{ err error }

func (f failingSource) ReadAll(context.Context) ([]core.Record, error) { return nil, f.err }

func TestExecute_SourceErrorIsNotExecutionError(t *testing.T) {
	boom := errors.New("disk gone")
	exec := newTestExecutor(t, failingSource{err: boom})

	_, err := exec.Execute(context.Background(), "SELECT * FROM vehicles")
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	var execErr *core.ExecutionError
	assert.False(t, errors.As(err, &execErr))
}

// mockBackend hands out a sqlmock database.
type mockBackend struct{ db *sql.DB }

func (m *mockBackend) Name() string                           { return "mock" }
func (m *mockBackend) Open(context.Context) (*sql.DB, error) { return m.db, nil }

func expectMaterialize(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(core.VehiclesSchema.CreateTableSQL())).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(regexp.QuoteMeta(core.VehiclesSchema.InsertSQL()))
	mock.ExpectCommit()
}

func TestExecute_QueryFailureWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	query := "SELECT COUNT(*) as count FROM vehicles"
	expectMaterialize(mock)
	mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnError(errors.New("syntax error"))
	mock.ExpectClose()

	exec := NewWithBackend(&mockBackend{db: db}, source.Static{}, testutil.NewTestLogger(t))
	_, err = exec.Execute(context.Background(), query)

	var execErr *core.ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Contains(t, execErr.Error(), "syntax error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_NullAverageWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	query := "SELECT AVG(Speed) as average_speed FROM vehicles"
	expectMaterialize(mock)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(sqlmock.NewRows([]string{"average_speed"}).AddRow(nil))
	mock.ExpectClose()

	exec := NewWithBackend(&mockBackend{db: db}, source.Static{}, nil)
	res, err := exec.Execute(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"average_speed": float64(0)}, res.Aggregate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_MaterializeFailureWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(core.VehiclesSchema.CreateTableSQL())).WillReturnError(errors.New("read-only"))
	mock.ExpectRollback()
	mock.ExpectClose()

	exec := NewWithBackend(&mockBackend{db: db}, sample, nil)
	_, err = exec.Execute(context.Background(), "SELECT * FROM vehicles")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to materialize vehicles")

	var execErr *core.ExecutionError
	assert.False(t, errors.As(err, &execErr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_RequiresSource(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(Config{Backend: "oracle", Source: sample})
	var unknown *UnknownBackendError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "oracle", unknown.Name)
	assert.Contains(t, unknown.Available, DefaultBackend)
}

func TestRegistry(t *testing.T) {
	assert.Contains(t, ListBackends(), "sqlite")

	b, err := NewBackend("sqlite", nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", b.Name())

	_, err = NewBackend("", nil)
	require.Error(t, err)
}
