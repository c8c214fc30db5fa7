package executor

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	// sqlite driver for the in-memory vehicles table.
	_ "modernc.org/sqlite"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = "sqlite"

func init() {
	Register(DefaultBackend, func(logger *slog.Logger) Backend {
		return NewSQLiteBackend(logger)
	})
}

// SQLiteBackend runs queries in a private in-memory SQLite database.
type SQLiteBackend struct {
	logger *slog.Logger
}

// NewSQLiteBackend creates a SQLite backend.
func NewSQLiteBackend(logger *slog.Logger) *SQLiteBackend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteBackend{logger: logger}
}

// Name returns the registry name.
func (b *SQLiteBackend) Name() string {
	return DefaultBackend
}

// Open creates a fresh in-memory database.
func (b *SQLiteBackend) Open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	b.logger.Debug("opened in-memory database", "backend", DefaultBackend)
	return db, nil
}
