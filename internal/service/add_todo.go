package service

import (
	"context"
	"log/slog"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Add creates a new, incomplete todo.
func (s *Service) Add(ctx context.Context, input AddInput) (*types.Todo, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	todo, err := s.store.Create(ctx, types.NewTodo{Name: input.Name})
	if err != nil {
		return nil, storeErr("create", err)
	}

	s.log.InfoContext(ctx, "todo created", slog.String("todo_id", todo.ID))
	return todo, nil
}
