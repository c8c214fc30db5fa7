package executor

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/leapstack-labs/rosa/pkg/core"
)

// Backend opens the throwaway database a query runs in.
type Backend interface {
	// Name returns the registry name of the backend.
	Name() string

	// Open returns a new, empty database private to the caller.
	// The caller closes it.
	Open(ctx context.Context) (*sql.DB, error)
}

// Rewriter is implemented by backends whose SQL dialect needs the query
// text adjusted before it runs. The rewrite must not change the result.
type Rewriter interface {
	Rewrite(schema core.TableSchema, query string) string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Backend)
)

// Register adds a backend factory to the registry.
// Called by backend implementations in their init() functions.
func Register(name string, factory func(*slog.Logger) Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a backend factory by name.
func Get(name string) (func(*slog.Logger) Backend, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// NewBackend creates a backend by registry name.
// The logger parameter is passed to the backend constructor (nil uses discard logger).
func NewBackend(name string, logger *slog.Logger) (Backend, error) {
	if name == "" {
		return nil, fmt.Errorf("backend not specified")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	factory, ok := Get(name)
	if !ok {
		return nil, &UnknownBackendError{
			Name:      name,
			Available: ListBackends(),
		}
	}
	return factory(logger), nil
}

// ListBackends returns all registered backend names (sorted).
func ListBackends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownBackendError is returned when an unregistered backend is requested.
type UnknownBackendError struct {
	Name      string
	Available []string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown executor backend %q\nAvailable backends: %v\nHint: Check backend in rosa.yaml", e.Name, e.Available)
}
