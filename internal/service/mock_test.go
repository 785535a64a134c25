package service

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// storeMock is a types.Store whose behavior is set per test. Unset funcs
// fail the call with errUnexpected.
type storeMock struct {
	CreateFunc   func(ctx context.Context, fields types.NewTodo) (*types.Todo, error)
	FindByIDFunc func(ctx context.Context, id string) (*types.Todo, error)
	FindAllFunc  func(ctx context.Context) ([]*types.Todo, error)
	UpdateFunc   func(ctx context.Context, id string, patch types.TodoPatch) (*types.Todo, error)
	DeleteFunc   func(ctx context.Context, id string) error

	mu    sync.Mutex
	calls []string
}

var _ types.Store = (*storeMock)(nil)

type unexpectedCall string

func (e unexpectedCall) Error() string { return "unexpected call: " + string(e) }

func (m *storeMock) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// Calls returns the store methods invoked so far, in order.
func (m *storeMock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *storeMock) Create(ctx context.Context, fields types.NewTodo) (*types.Todo, error) {
	m.record("Create")
	if m.CreateFunc == nil {
		return nil, unexpectedCall("Create")
	}
	return m.CreateFunc(ctx, fields)
}

func (m *storeMock) FindByID(ctx context.Context, id string) (*types.Todo, error) {
	m.record("FindByID")
	if m.FindByIDFunc == nil {
		return nil, unexpectedCall("FindByID")
	}
	return m.FindByIDFunc(ctx, id)
}

func (m *storeMock) FindAll(ctx context.Context) ([]*types.Todo, error) {
	m.record("FindAll")
	if m.FindAllFunc == nil {
		return nil, unexpectedCall("FindAll")
	}
	return m.FindAllFunc(ctx)
}

func (m *storeMock) Update(ctx context.Context, id string, patch types.TodoPatch) (*types.Todo, error) {
	m.record("Update")
	if m.UpdateFunc == nil {
		return nil, unexpectedCall("Update")
	}
	return m.UpdateFunc(ctx, id, patch)
}

func (m *storeMock) Delete(ctx context.Context, id string) error {
	m.record("Delete")
	if m.DeleteFunc == nil {
		return unexpectedCall("Delete")
	}
	return m.DeleteFunc(ctx, id)
}
