// Package duckdb provides a DuckDB executor backend.
//
// Import it for side effects to make "duckdb" selectable:
//
//	import _ "github.com/leapstack-labs/rosa/internal/executor/duckdb"
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/leapstack-labs/rosa/internal/executor"
	"github.com/leapstack-labs/rosa/pkg/core"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Name is the registry name of the backend.
const Name = "duckdb"

func init() {
	executor.Register(Name, func(logger *slog.Logger) executor.Backend {
		return New(logger)
	})
}

// Backend runs queries in a private in-memory DuckDB instance.
type Backend struct {
	logger *slog.Logger
}

// New creates a DuckDB backend.
func New(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{logger: logger}
}

// Name returns the registry name.
func (b *Backend) Name() string {
	return Name
}

// Open creates a fresh in-memory database. An empty DSN is in-memory.
func (b *Backend) Open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}
	b.logger.Debug("opened in-memory database", "backend", Name)
	return db, nil
}

// aggregateOrderBy matches a single-select query with a trailing sort.
var aggregateOrderBy = regexp.MustCompile(`^SELECT (.+?) FROM (.+) ORDER BY [A-Za-z_][A-Za-z0-9_]* (?:ASC|DESC)$`)

// Rewrite drops the ORDER BY from aggregate queries. DuckDB refuses to sort
// an ungrouped aggregate by a plain column, and the single result row makes
// the sort a no-op.
func (b *Backend) Rewrite(schema core.TableSchema, query string) string {
	m := aggregateOrderBy.FindStringSubmatch(query)
	if m == nil {
		return query
	}
	for _, agg := range schema.Aggregates {
		if m[1] == agg.SelectClause() {
			return "SELECT " + m[1] + " FROM " + m[2]
		}
	}
	return query
}

var (
	_ executor.Backend  = (*Backend)(nil)
	_ executor.Rewriter = (*Backend)(nil)
)
