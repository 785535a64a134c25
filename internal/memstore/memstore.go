// Package memstore is an in-memory todos backend. Data lives only as long
// as the process; it backs tests and the "memory" backend setting.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/todos/pkg/types"
)

var (
	_ types.Store   = (*Store)(nil)
	_ types.Backend = (*Backend)(nil)
)

// Clock returns the current time.
type Clock func() time.Time

// IDGenerator returns a new unique todo ID.
type IDGenerator func() (string, error)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(s *Store) { s.now = c }
}

// WithIDGenerator overrides ID generation.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.newID = g }
}

// Store keeps todos in a map guarded by a mutex. Every value handed in or out
// is a copy, so callers cannot mutate stored state.
type Store struct {
	mu    sync.RWMutex
	todos map[string]*types.Todo
	now   Clock
	newID IDGenerator
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		todos: make(map[string]*types.Todo),
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() (string, error) {
			id, err := uuid.NewV7()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Create(_ context.Context, fields types.NewTodo) (*types.Todo, error) {
	name, err := types.NormalizeName(fields.Name)
	if err != nil {
		return nil, err
	}
	id, err := s.newID()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	todo := &types.Todo{
		ID:         id,
		Name:       name,
		IsComplete: fields.IsComplete,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.todos[id] = todo
	return todo.Clone(), nil
}

func (s *Store) FindByID(_ context.Context, id string) (*types.Todo, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	todo, ok := s.todos[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return todo.Clone(), nil
}

func (s *Store) FindAll(_ context.Context) ([]*types.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Todo, 0, len(s.todos))
	for _, todo := range s.todos {
		out = append(out, todo.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) Update(_ context.Context, id string, patch types.TodoPatch) (*types.Todo, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.todos[id]
	if !ok {
		return nil, types.ErrNotFound
	}

	next := stored.Clone()
	if err := next.Apply(patch); err != nil {
		return nil, err
	}
	if next.Name != stored.Name || next.IsComplete != stored.IsComplete {
		next.UpdatedAt = s.now()
	}
	s.todos[id] = next
	return next.Clone(), nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.todos, id)
	return nil
}

// Backend adapts Store to the types.Backend lifecycle. Detaching discards
// nothing; reattaching the same Backend sees the same todos.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	store    *Store
}

// NewBackend returns a memory backend wrapping a fresh Store.
func NewBackend(opts ...Option) *Backend {
	return &Backend{store: New(opts...)}
}

func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	b.attached = true
	return nil
}

func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attached = false
	return nil
}

func (b *Backend) Todos() (types.Store, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return b.store, nil
}
