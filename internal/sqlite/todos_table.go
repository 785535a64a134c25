// This file implements the todos store for the SQLite backend.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Compile-time interface check.
var _ types.Store = (*todosTable)(nil)

// todosTable implements types.Store. Each operation converts between SQLite
// rows and *types.Todo and persists changes to todos.jsonl.
type todosTable struct {
	backend *Backend
}

const selectTodo = "SELECT id, name, is_complete, created_at, updated_at FROM todos"

// Create inserts a new todo with a UUID v7 ID.
func (tt *todosTable) Create(ctx context.Context, fields types.NewTodo) (*types.Todo, error) {
	name, err := types.NormalizeName(fields.Name)
	if err != nil {
		return nil, err
	}

	b := tt.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return nil, types.ErrBackendDetached
	}

	id, err := generateUUID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	todo := &types.Todo{
		ID:         id,
		Name:       name,
		IsComplete: fields.IsComplete,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO todos (id, name, is_complete, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		todo.ID, todo.Name, todo.IsComplete, formatTime(todo.CreatedAt), formatTime(todo.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting todo: %w", err)
	}

	if err := tt.commit(ctx, tx, "create"); err != nil {
		return nil, err
	}
	return todo, nil
}

// FindByID retrieves a todo by ID.
func (tt *todosTable) FindByID(ctx context.Context, id string) (*types.Todo, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	b := tt.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrBackendDetached
	}

	return tt.get(ctx, b.db, id)
}

// queryRower is satisfied by *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (tt *todosTable) get(ctx context.Context, q queryRower, id string) (*types.Todo, error) {
	row := q.QueryRowContext(ctx, selectTodo+" WHERE id = ?", id)
	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting todo %s: %w", id, err)
	}
	return todo, nil
}

// FindAll returns every todo, oldest first.
func (tt *todosTable) FindAll(ctx context.Context) ([]*types.Todo, error) {
	b := tt.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrBackendDetached
	}

	rows, err := b.db.QueryContext(ctx, selectTodo+" ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*types.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todos: %w", err)
	}
	return todos, nil
}

// Update applies patch to the todo with the given ID.
func (tt *todosTable) Update(ctx context.Context, id string, patch types.TodoPatch) (*types.Todo, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	b := tt.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return nil, types.ErrBackendDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	todo, err := tt.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return todo, nil
	}
	if err := todo.Apply(patch); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE todos SET name = ?, is_complete = ?, updated_at = ? WHERE id = ?",
		todo.Name, todo.IsComplete, formatTime(todo.UpdatedAt), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating todo: %w", err)
	}
	if err := tt.commit(ctx, tx, "update"); err != nil {
		return nil, err
	}
	return todo, nil
}

// Delete removes a todo. Deleting an absent ID is a no-op.
func (tt *todosTable) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	b := tt.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrBackendDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}
	if n == 0 {
		return nil
	}
	return tt.commit(ctx, tx, "delete")
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTodo converts a single SQLite row into a *types.Todo.
func scanTodo(row rowScanner) (*types.Todo, error) {
	var r todoJSON
	var complete int64
	if err := row.Scan(&r.ID, &r.Name, &complete, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.IsComplete = complete != 0
	return r.toTodo()
}

// commit finishes a mutation started in tx. With the immediate strategy
// todos.jsonl is rewritten from tx before the commit, so a failed write
// rolls the change back. Deferred strategies commit first and queue the
// write. The caller must hold b.mu.
func (tt *todosTable) commit(ctx context.Context, tx *sql.Tx, operation string) error {
	b := tt.backend
	if !b.shouldPersistImmediately() {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing %s: %w", operation, err)
		}
		b.queueWrite(operation, func() error {
			return tt.persistAllTodosJSONL(context.Background(), b.db)
		})
		return nil
	}

	if err := tt.persistAllTodosJSONL(ctx, tx); err != nil {
		return fmt.Errorf("persisting %s: %w", todosFile, err)
	}
	if err := tx.Commit(); err != nil {
		// The file already holds the change; put it back in line with SQLite.
		if werr := tt.persistAllTodosJSONL(context.Background(), b.db); werr != nil {
			b.log.Warn("restoring todos file failed", slog.String("operation", operation), slog.Any("error", werr))
		}
		return fmt.Errorf("committing %s: %w", operation, err)
	}
	return nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// persistAllTodosJSONL reads all todos visible to q and writes them to
// todos.jsonl using the atomic write pattern. The caller must hold b.mu.
func (tt *todosTable) persistAllTodosJSONL(ctx context.Context, q queryer) error {
	b := tt.backend
	rows, err := q.QueryContext(ctx, selectTodo+" ORDER BY created_at ASC, id ASC")
	if err != nil {
		return fmt.Errorf("querying todos for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var r todoJSON
		var complete int64
		if err := rows.Scan(&r.ID, &r.Name, &complete, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return fmt.Errorf("scanning todo for JSONL: %w", err)
		}
		r.IsComplete = complete != 0
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshaling todo for JSONL: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating todos for JSONL: %w", err)
	}

	return writeJSONL(b.jsonlPath(), records)
}
