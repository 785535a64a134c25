package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesh-intelligence/todos/pkg/types"
)

var _ types.Store = (*Repository)(nil)

// Repository provides access to todo storage through GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new todo repository. The caller is responsible
// for migrating the schema; see Migrate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the todos table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&todoRecord{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Create saves a new todo to the database.
func (r *Repository) Create(ctx context.Context, fields types.NewTodo) (*types.Todo, error) {
	name, err := types.NormalizeName(fields.Name)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}
	now := time.Now().UTC()
	todo := &types.Todo{
		ID:         id.String(),
		Name:       name,
		IsComplete: fields.IsComplete,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := r.db.WithContext(ctx).Create(newRecord(todo)).Error; err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return todo, nil
}

// FindByID retrieves a todo by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*types.Todo, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	rec, err := r.find(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return rec.toTodo(), nil
}

func (r *Repository) find(db *gorm.DB, id string) (*todoRecord, error) {
	var rec todoRecord
	if err := db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return &rec, nil
}

// FindAll retrieves all todos, oldest first.
func (r *Repository) FindAll(ctx context.Context) ([]*types.Todo, error) {
	var recs []*todoRecord
	if err := r.db.WithContext(ctx).Order("created_seq ASC").Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to find todos: %w", err)
	}
	todos := make([]*types.Todo, 0, len(recs))
	for _, rec := range recs {
		todos = append(todos, rec.toTodo())
	}
	return todos, nil
}

// Update applies patch to an existing todo inside a transaction.
func (r *Repository) Update(ctx context.Context, id string, patch types.TodoPatch) (*types.Todo, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	var updated *types.Todo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := r.find(tx, id)
		if err != nil {
			return err
		}
		todo := rec.toTodo()
		if patch.Empty() {
			updated = todo
			return nil
		}
		if err := todo.Apply(patch); err != nil {
			return err
		}

		// Map form so that a false IsComplete is written.
		result := tx.Model(&todoRecord{}).Where("id = ?", id).Updates(map[string]any{
			"name":        todo.Name,
			"is_complete": todo.IsComplete,
			"updated_at":  todo.UpdatedAt,
		})
		if err := result.Error; err != nil {
			return fmt.Errorf("failed to update todo: %w", err)
		}
		if result.RowsAffected == 0 {
			return types.ErrNotFound
		}
		updated = todo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a todo by ID. Hard delete; an absent ID is a no-op.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	if err := r.db.WithContext(ctx).Delete(&todoRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}
