package gormstore

import (
	"time"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// todoRecord is the GORM model for the todos table.
type todoRecord struct {
	ID         string    `gorm:"primarykey;size:36"`
	Name       string    `gorm:"not null"`
	IsComplete bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime:false"`
	// CreatedSeq mirrors CreatedAt as Unix nanoseconds so ordering does not
	// depend on how the driver formats timestamps.
	CreatedSeq int64 `gorm:"index:idx_todos_order,priority:1;not null"`
}

// TableName returns the table name for the todo model.
func (todoRecord) TableName() string {
	return "todos"
}

func newRecord(t *types.Todo) *todoRecord {
	return &todoRecord{
		ID:         t.ID,
		Name:       t.Name,
		IsComplete: t.IsComplete,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
		CreatedSeq: t.CreatedAt.UnixNano(),
	}
}

func (r *todoRecord) toTodo() *types.Todo {
	return &types.Todo{
		ID:         r.ID,
		Name:       r.Name,
		IsComplete: r.IsComplete,
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}
