package memstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// fixedClock advances one second per call.
func fixedClock() Clock {
	t := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func sequentialIDs() IDGenerator {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("id-%03d", n), nil
	}
}

func TestStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := New(WithClock(fixedClock()), WithIDGenerator(sequentialIDs()))

	todo, err := s.Create(ctx, types.NewTodo{Name: " Buy milk "})
	require.NoError(t, err)
	assert.Equal(t, "id-001", todo.ID)
	assert.Equal(t, "Buy milk", todo.Name)
	assert.Equal(t, time.Date(2025, 1, 15, 10, 0, 1, 0, time.UTC), todo.CreatedAt)

	// Returned values are copies.
	todo.Name = "mutated"
	got, err := s.FindByID(ctx, "id-001")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Name)

	_, err = s.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = s.Create(ctx, types.NewTodo{Name: "   "})
	assert.ErrorIs(t, err, types.ErrInvalidName)
	assert.Equal(t, 1, countTodos(t, s))
}

func TestStore_FindAllOrder(t *testing.T) {
	ctx := context.Background()
	same := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	ids := []string{"c", "a", "b"}
	i := 0
	s := New(
		WithClock(func() time.Time { return same }),
		WithIDGenerator(func() (string, error) { id := ids[i]; i++; return id, nil }),
	)

	empty, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for range ids {
		_, err := s.Create(ctx, types.NewTodo{Name: "x"})
		require.NoError(t, err)
	}

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "c", all[2].ID)
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	s := New(WithClock(fixedClock()), WithIDGenerator(sequentialIDs()))
	todo, err := s.Create(ctx, types.NewTodo{Name: "Task"})
	require.NoError(t, err)

	done := true
	got, err := s.Update(ctx, todo.ID, types.TodoPatch{IsComplete: &done})
	require.NoError(t, err)
	assert.True(t, got.IsComplete)
	assert.Equal(t, "Task", got.Name)
	assert.True(t, got.UpdatedAt.After(todo.UpdatedAt))
	assert.Equal(t, todo.CreatedAt, got.CreatedAt)

	// Idempotent: same value does not bump UpdatedAt.
	again, err := s.Update(ctx, todo.ID, types.TodoPatch{IsComplete: &done})
	require.NoError(t, err)
	assert.Equal(t, got.UpdatedAt, again.UpdatedAt)

	blank := " "
	_, err = s.Update(ctx, todo.ID, types.TodoPatch{Name: &blank})
	assert.ErrorIs(t, err, types.ErrInvalidName)
	current, err := s.FindByID(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Task", current.Name)

	_, err = s.Update(ctx, "missing", types.TodoPatch{IsComplete: &done})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := New()
	todo, err := s.Create(ctx, types.NewTodo{Name: "Task"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, todo.ID))
	assert.NoError(t, s.Delete(ctx, todo.ID))
	assert.ErrorIs(t, s.Delete(ctx, ""), types.ErrInvalidID)
	assert.Zero(t, countTodos(t, s))
}

func TestBackend_Lifecycle(t *testing.T) {
	b := NewBackend()

	_, err := b.Todos()
	assert.ErrorIs(t, err, types.ErrBackendDetached)

	require.NoError(t, b.Attach(types.Config{Backend: types.BackendMemory}))
	assert.ErrorIs(t, b.Attach(types.Config{Backend: types.BackendMemory}), types.ErrAlreadyAttached)

	store, err := b.Todos()
	require.NoError(t, err)
	_, err = store.Create(context.Background(), types.NewTodo{Name: "kept"})
	require.NoError(t, err)

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach())
	_, err = b.Todos()
	assert.ErrorIs(t, err, types.ErrBackendDetached)

	require.NoError(t, b.Attach(types.Config{Backend: types.BackendMemory}))
	store, err = b.Todos()
	require.NoError(t, err)
	all, err := store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_ConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	s := New()
	target, err := s.Create(ctx, types.NewTodo{Name: "contended"})
	require.NoError(t, err)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 16; i++ {
		i := i
		complete := i%2 == 0
		g.Go(func() error {
			if _, err := s.Create(gctx, types.NewTodo{Name: fmt.Sprintf("task %d", i)}); err != nil {
				return err
			}
			_, err := s.Update(gctx, target.ID, types.TodoPatch{IsComplete: &complete})
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 17, countTodos(t, s))
	got, err := s.FindByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "contended", got.Name)
}

func countTodos(t *testing.T, store types.Store) int {
	t.Helper()
	todos, err := store.FindAll(context.Background())
	require.NoError(t, err)
	return len(todos)
}
