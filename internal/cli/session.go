package cli

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/todos/internal/endpoint"
	"github.com/mesh-intelligence/todos/internal/gormstore"
	"github.com/mesh-intelligence/todos/internal/memstore"
	"github.com/mesh-intelligence/todos/internal/service"
	"github.com/mesh-intelligence/todos/pkg/sqlite"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// session is an attached backend with the service and endpoints on top.
// The caller must Close it.
type session struct {
	backend   types.Backend
	service   *service.Service
	endpoints *endpoint.Endpoints
	log       *slog.Logger
}

func newBackend(name string, log *slog.Logger) (types.Backend, error) {
	switch name {
	case types.BackendSQLite:
		return sqlite.NewBackend(log), nil
	case types.BackendGorm:
		return gormstore.NewBackend(), nil
	case types.BackendMemory:
		return memstore.NewBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, name)
	}
}

// open attaches the configured backend.
func (a *app) open() (*session, error) {
	backend, err := newBackend(a.config.Backend, a.log)
	if err != nil {
		return nil, err
	}
	if err := backend.Attach(a.config); err != nil {
		return nil, systemErr(fmt.Errorf("attach backend: %w", err))
	}
	store, err := backend.Todos()
	if err != nil {
		backend.Detach()
		return nil, systemErr(fmt.Errorf("open todos: %w", err))
	}

	svc := service.New(a.log, store)
	return &session{
		backend:   backend,
		service:   svc,
		endpoints: endpoint.New(svc),
		log:       a.log,
	}, nil
}

// Close detaches the backend, flushing any deferred writes.
func (s *session) Close() error {
	if err := s.backend.Detach(); err != nil {
		return systemErr(fmt.Errorf("detach backend: %w", err))
	}
	return nil
}
