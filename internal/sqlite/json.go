package sqlite

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// todoJSON is one line of todos.jsonl. Field names match the SQLite columns
// so the loader can map records without a per-field table.
type todoJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsComplete bool   `json:"is_complete"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// todoColumns lists the columns read from and written to todos.jsonl.
var todoColumns = []string{"id", "name", "is_complete", "created_at", "updated_at"}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func (r todoJSON) toTodo() (*types.Todo, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &types.Todo{
		ID:         r.ID,
		Name:       r.Name,
		IsComplete: r.IsComplete,
		CreatedAt:  created,
		UpdatedAt:  updated,
	}, nil
}
