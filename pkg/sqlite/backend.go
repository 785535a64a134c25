// Package sqlite provides the public API for the SQLite todos backend.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"log/slog"

	"github.com/mesh-intelligence/todos/internal/sqlite"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend(nil)
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".todos-db",
//	})
//	defer backend.Detach()
//	store, err := backend.Todos()
func NewBackend(log *slog.Logger) types.Backend {
	return sqlite.NewBackend(sqlite.WithLogger(log))
}
