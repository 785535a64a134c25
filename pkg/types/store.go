package types

import "context"

// Store is the durable keyed storage for todos. Implementations are safe
// for concurrent use; concurrent writes to the same ID are last-write-wins.
type Store interface {
	// Create persists a new todo, assigning its ID and timestamps.
	Create(ctx context.Context, fields NewTodo) (*Todo, error)

	// FindByID returns the todo with the given ID.
	// Returns ErrNotFound if no todo exists with that ID.
	FindByID(ctx context.Context, id string) (*Todo, error)

	// FindAll returns every todo ordered by CreatedAt ascending, then ID.
	// Returns an empty slice, never nil, when the store is empty.
	FindAll(ctx context.Context) ([]*Todo, error)

	// Update applies the non-nil fields of patch and returns the stored todo.
	// Returns ErrNotFound if no todo exists with that ID.
	Update(ctx context.Context, id string, patch TodoPatch) (*Todo, error)

	// Delete removes the todo with the given ID. Deleting an absent ID
	// is a no-op and returns nil.
	Delete(ctx context.Context, id string) error
}
