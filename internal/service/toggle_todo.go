package service

import (
	"context"
	"log/slog"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Toggle sets the completion flag to the requested value. Setting the
// current value again succeeds.
func (s *Service) Toggle(ctx context.Context, input ToggleInput) (*types.Todo, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	complete := input.IsComplete
	todo, err := s.store.Update(ctx, input.ID, types.TodoPatch{IsComplete: &complete})
	if err != nil {
		return nil, storeErr("toggle", err)
	}

	s.log.InfoContext(ctx, "todo toggled",
		slog.String("todo_id", todo.ID),
		slog.Bool("is_complete", todo.IsComplete),
	)
	return todo, nil
}
