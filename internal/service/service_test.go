package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/todos/internal/memstore"
	"github.com/mesh-intelligence/todos/pkg/types"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return New(nil, memstore.New())
}

// ---------------------------------------------------------------------------
// Add
// ---------------------------------------------------------------------------

func TestAdd_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	todo, err := svc.Add(ctx, AddInput{Name: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", todo.Name)
	assert.False(t, todo.IsComplete)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, todo.ID, all[0].ID)
	assert.False(t, all[0].IsComplete)
}

func TestAdd_BlankNameRejectedBeforeStore(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "   ", "\t\n"} {
		store := &storeMock{}
		svc := New(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})), store)

		_, err := svc.Add(context.Background(), AddInput{Name: name})

		var ve *types.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.True(t, ve.Has("name"))
		assert.Empty(t, store.Calls(), "store must not be touched")
	}
}

func TestAdd_StoreFailure(t *testing.T) {
	t.Parallel()
	cause := errors.New("disk full")
	store := &storeMock{
		CreateFunc: func(context.Context, types.NewTodo) (*types.Todo, error) { return nil, cause },
	}
	svc := New(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})), store)

	_, err := svc.Add(context.Background(), AddInput{Name: "x"})

	assert.ErrorIs(t, err, types.ErrStore)
	assert.ErrorIs(t, err, cause)
	var se *types.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "create", se.Op)
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestUpdate_ChangesNameOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	todo, err := svc.Add(ctx, AddInput{Name: "Task"})
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, ToggleInput{ID: todo.ID, IsComplete: true})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, UpdateInput{ID: todo.ID, Name: " Renamed "})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, updated.IsComplete)
	assert.Equal(t, todo.CreatedAt, updated.CreatedAt)
}

func TestUpdate_BlankNameLeavesTodoUntouched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	todo, err := svc.Add(ctx, AddInput{Name: "Task"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, UpdateInput{ID: todo.ID, Name: ""})
	assert.ErrorIs(t, err, types.ErrValidation)

	got, err := svc.Get(ctx, GetInput{ID: todo.ID})
	require.NoError(t, err)
	assert.Equal(t, "Task", got.Name)
}

func TestUpdate_CollectsAllFieldErrors(t *testing.T) {
	t.Parallel()
	err := UpdateInput{}.Validate()

	var ve *types.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has("id"))
	assert.True(t, ve.Has("name"))
}

// ---------------------------------------------------------------------------
// Toggle / Get / Delete
// ---------------------------------------------------------------------------

func TestToggle_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	todo, err := svc.Add(ctx, AddInput{Name: "Task"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := svc.Toggle(ctx, ToggleInput{ID: todo.ID, IsComplete: true})
		require.NoError(t, err)
		assert.True(t, got.IsComplete)
	}

	got, err := svc.Toggle(ctx, ToggleInput{ID: todo.ID, IsComplete: false})
	require.NoError(t, err)
	assert.False(t, got.IsComplete)
	assert.Equal(t, "Task", got.Name)
}

func TestAbsentID_NotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Get(ctx, GetInput{ID: "missing"})
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = svc.Update(ctx, UpdateInput{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = svc.Toggle(ctx, ToggleInput{ID: "missing", IsComplete: true})
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NotErrorIs(t, err, types.ErrValidation)
	assert.NotErrorIs(t, err, types.ErrStore)
}

func TestDelete_ThenGetNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	todo, err := svc.Add(ctx, AddInput{Name: "Task"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, DeleteInput{ID: todo.ID}))
	_, err = svc.Get(ctx, GetInput{ID: todo.ID})
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.NoError(t, svc.Delete(ctx, DeleteInput{ID: todo.ID}), "second delete succeeds")
}

func TestEmptyID_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &storeMock{}
	svc := New(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})), store)

	_, err := svc.Get(ctx, GetInput{})
	assert.ErrorIs(t, err, types.ErrValidation)
	_, err = svc.Toggle(ctx, ToggleInput{ID: " "})
	assert.ErrorIs(t, err, types.ErrValidation)
	err = svc.Delete(ctx, DeleteInput{})
	assert.ErrorIs(t, err, types.ErrValidation)

	assert.Empty(t, store.Calls())
}

// ---------------------------------------------------------------------------
// List / tally
// ---------------------------------------------------------------------------

func TestList_EmptyStore(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Equal(t, "0 of 0 completed", types.Summarize(all).String())
}

func TestList_NilFromStoreBecomesEmpty(t *testing.T) {
	t.Parallel()
	store := &storeMock{
		FindAllFunc: func(context.Context) ([]*types.Todo, error) { return nil, nil },
	}
	svc := New(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})), store)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
}

func TestList_Tally(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Add(ctx, AddInput{Name: "Buy milk"})
	require.NoError(t, err)
	dog, err := svc.Add(ctx, AddInput{Name: "Walk dog"})
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, ToggleInput{ID: dog.ID, IsComplete: true})
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "1 of 2 completed", types.Summarize(all).String())
}

// ---------------------------------------------------------------------------
// Seed
// ---------------------------------------------------------------------------

func TestSeed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	n, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Learn Prisma", all[0].Name)
	assert.False(t, all[0].IsComplete)
	assert.Equal(t, "Build a Todo App", all[1].Name)
	assert.True(t, all[1].IsComplete)

	n, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "seeding a non-empty store is a no-op")

	all, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
