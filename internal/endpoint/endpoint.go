// Package endpoint adapts raw request payloads to service calls. Every
// payload is checked against its JSON Schema before the service runs, and
// every outcome is returned as a tagged Result or a read view so the
// transports (CLI, HTTP, terminal UI) share one contract.
package endpoint

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mesh-intelligence/todos/internal/service"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// todoService is the subset of service.Service the endpoints call.
type todoService interface {
	Add(ctx context.Context, input service.AddInput) (*types.Todo, error)
	Update(ctx context.Context, input service.UpdateInput) (*types.Todo, error)
	Toggle(ctx context.Context, input service.ToggleInput) (*types.Todo, error)
	Delete(ctx context.Context, input service.DeleteInput) error
	Get(ctx context.Context, input service.GetInput) (*types.Todo, error)
	List(ctx context.Context) ([]*types.Todo, error)
}

var _ todoService = (*service.Service)(nil)

// Kind tags the outcome of a successful mutation.
type Kind string

const (
	// KindRedirect tells the caller to navigate to Target.
	KindRedirect Kind = "redirect"
	// KindDone tells the caller to refresh its current view in place.
	KindDone Kind = "done"
)

// ListTarget is the navigation target for the list view.
const ListTarget = "/"

// Result is the outcome of a mutation.
type Result struct {
	Kind   Kind        `json:"kind"`
	Target string      `json:"target,omitempty"`
	Todo   *types.Todo `json:"todo,omitempty"`
}

// TodoView is one row of the list view.
type TodoView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	IsComplete bool      `json:"isComplete"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ListView is everything the list screen renders.
type ListView struct {
	Todos   []TodoView  `json:"todos"`
	Tally   types.Tally `json:"tally"`
	Summary string      `json:"summary"`
}

// EditView prefills the edit form.
type EditView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Payloads accepted by the endpoints.
type (
	AddPayload struct {
		Name string `json:"name"`
	}
	UpdatePayload struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	TogglePayload struct {
		ID         string `json:"id"`
		IsComplete bool   `json:"isComplete"`
	}
	DeletePayload struct {
		ID string `json:"id"`
	}
	GetPayload struct {
		ID string `json:"id"`
	}
)

// Endpoints exposes the mutation and read contracts.
type Endpoints struct {
	svc todoService
}

// New creates the endpoints on top of svc.
func New(svc todoService) *Endpoints {
	return &Endpoints{svc: svc}
}

// decode validates raw against the schema for op and unmarshals it into dst.
// Only the schema's property names, matched exactly, reach dst; keys that
// differ in case are dropped with the other unknown keys.
func decode(op Op, raw []byte, dst any) error {
	if err := ValidatePayload(op, raw); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return types.NewValidationError("payload", err.Error())
	}
	known := make(map[string]json.RawMessage, len(fields))
	for name := range schemas[op].Properties {
		if v, ok := fields[name]; ok {
			known[name] = v
		}
	}
	exact, err := json.Marshal(known)
	if err != nil {
		return types.NewValidationError("payload", err.Error())
	}
	if err := json.Unmarshal(exact, dst); err != nil {
		return types.NewValidationError("payload", err.Error())
	}
	return nil
}

// Add creates a todo and redirects to the list.
func (e *Endpoints) Add(ctx context.Context, raw []byte) (Result, error) {
	var p AddPayload
	if err := decode(OpAdd, raw, &p); err != nil {
		return Result{}, err
	}
	todo, err := e.svc.Add(ctx, service.AddInput{Name: p.Name})
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: KindRedirect, Target: ListTarget, Todo: todo}, nil
}

// Update renames a todo and redirects to the list.
func (e *Endpoints) Update(ctx context.Context, raw []byte) (Result, error) {
	var p UpdatePayload
	if err := decode(OpUpdate, raw, &p); err != nil {
		return Result{}, err
	}
	todo, err := e.svc.Update(ctx, service.UpdateInput{ID: p.ID, Name: p.Name})
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: KindRedirect, Target: ListTarget, Todo: todo}, nil
}

// Toggle sets the completion flag; the caller refreshes in place.
func (e *Endpoints) Toggle(ctx context.Context, raw []byte) (Result, error) {
	var p TogglePayload
	if err := decode(OpToggle, raw, &p); err != nil {
		return Result{}, err
	}
	todo, err := e.svc.Toggle(ctx, service.ToggleInput{ID: p.ID, IsComplete: p.IsComplete})
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: KindDone, Todo: todo}, nil
}

// Delete removes a todo; the caller refreshes in place.
func (e *Endpoints) Delete(ctx context.Context, raw []byte) (Result, error) {
	var p DeletePayload
	if err := decode(OpDelete, raw, &p); err != nil {
		return Result{}, err
	}
	if err := e.svc.Delete(ctx, service.DeleteInput{ID: p.ID}); err != nil {
		return Result{}, err
	}
	return Result{Kind: KindDone}, nil
}

// Dispatch routes a mutation payload by operation name.
func (e *Endpoints) Dispatch(ctx context.Context, op Op, raw []byte) (Result, error) {
	switch op {
	case OpAdd:
		return e.Add(ctx, raw)
	case OpUpdate:
		return e.Update(ctx, raw)
	case OpToggle:
		return e.Toggle(ctx, raw)
	case OpDelete:
		return e.Delete(ctx, raw)
	default:
		return Result{}, ErrUnknownOp
	}
}

// List returns the list view with its tally.
func (e *Endpoints) List(ctx context.Context) (ListView, error) {
	todos, err := e.svc.List(ctx)
	if err != nil {
		return ListView{}, err
	}
	return NewListView(todos), nil
}

// NewListView builds the list view for todos.
func NewListView(todos []*types.Todo) ListView {
	rows := make([]TodoView, 0, len(todos))
	for _, t := range todos {
		rows = append(rows, TodoView{
			ID:         t.ID,
			Name:       t.Name,
			IsComplete: t.IsComplete,
			CreatedAt:  t.CreatedAt,
		})
	}
	tally := types.Summarize(todos)
	return ListView{Todos: rows, Tally: tally, Summary: tally.String()}
}

// Edit returns the fields that prefill the edit form for one todo.
func (e *Endpoints) Edit(ctx context.Context, raw []byte) (EditView, error) {
	var p GetPayload
	if err := decode(OpGet, raw, &p); err != nil {
		return EditView{}, err
	}
	todo, err := e.svc.Get(ctx, service.GetInput{ID: p.ID})
	if err != nil {
		return EditView{}, err
	}
	return EditView{ID: todo.ID, Name: todo.Name}, nil
}

// Mutation is a call to one of the mutation endpoints.
type Mutation func(ctx context.Context) (Result, error)

// MutateAndReload runs mutate and, only once it has succeeded, re-reads the
// list. A failed mutation returns its error without reading.
func (e *Endpoints) MutateAndReload(ctx context.Context, mutate Mutation) (Result, ListView, error) {
	res, err := mutate(ctx)
	if err != nil {
		return Result{}, ListView{}, err
	}
	view, err := e.List(ctx)
	if err != nil {
		return res, ListView{}, err
	}
	return res, view, nil
}

// MustPayload marshals one of the payload structs. It panics if v cannot
// be marshaled, which cannot happen for the payload types above.
func MustPayload(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
