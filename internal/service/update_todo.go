package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Update renames a todo. Completion state and creation time are untouched.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*types.Todo, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	todo, err := s.store.Update(ctx, input.ID, types.TodoPatch{Name: &name})
	if err != nil {
		return nil, storeErr("update", err)
	}

	s.log.InfoContext(ctx, "todo updated", slog.String("todo_id", todo.ID))
	return todo, nil
}
