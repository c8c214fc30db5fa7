// Package executor runs translated queries against a table materialized
// from a record source.
//
// The vehicles table is rebuilt from the source on every call and lives
// only for the duration of that call. Nothing is shared between calls, so
// concurrent Execute calls need no coordination.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/rosa/pkg/core"
)

// Config holds executor settings.
type Config struct {
	// Backend is a registered backend name. Empty selects DefaultBackend.
	Backend string
	Source  core.RecordSource
	Logger  *slog.Logger
}

// Executor runs SQL against a fresh copy of the dataset.
type Executor struct {
	backend Backend
	source  core.RecordSource
	schema  core.TableSchema
	logger  *slog.Logger
}

// New creates an executor using the configured backend.
func New(cfg Config) (*Executor, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("record source is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	name := cfg.Backend
	if name == "" {
		name = DefaultBackend
	}
	backend, err := NewBackend(name, logger)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(backend, cfg.Source, logger), nil
}

// NewWithBackend creates an executor around an already constructed backend.
func NewWithBackend(backend Backend, source core.RecordSource, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{
		backend: backend,
		source:  source,
		schema:  core.VehiclesSchema,
		logger:  logger.With("backend", backend.Name()),
	}
}

// Backend returns the name of the backend in use.
func (e *Executor) Backend() string {
	return e.backend.Name()
}

// Execute runs query and shapes its result. A query the database rejects
// is reported as *core.ExecutionError.
func (e *Executor) Execute(ctx context.Context, query string) (*Result, error) {
	start := time.Now()

	records, err := e.source.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	db, err := e.backend.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	if err := materialize(ctx, db, e.schema, records); err != nil {
		return nil, fmt.Errorf("failed to materialize %s: %w", e.schema.Table, err)
	}

	if rw, ok := e.backend.(Rewriter); ok {
		if rewritten := rw.Rewrite(e.schema, query); rewritten != query {
			e.logger.Debug("query rewritten", "query", query, "rewritten", rewritten)
			query = rewritten
		}
	}

	//nolint:rowserrcheck // rows.Err() is checked in scanRows
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, &core.ExecutionError{Query: query, Cause: err}
	}
	defer func() { _ = rows.Close() }()

	cols, results, err := scanRows(rows)
	if err != nil {
		return nil, &core.ExecutionError{Query: query, Cause: err}
	}

	e.logger.Debug("query executed",
		"query", query,
		"records", len(records),
		"rows", len(results),
		"duration", time.Since(start),
	)

	return shape(e.schema, cols, results), nil
}

// materialize creates the table and loads every record in one transaction.
func materialize(ctx context.Context, db *sql.DB, schema core.TableSchema, records []core.Record) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schema.CreateTableSQL()); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, schema.InsertSQL())
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Values()...); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func scanRows(rows *sql.Rows) ([]string, []map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, nil, err
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = normalize(values[i])
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return cols, results, nil
}
