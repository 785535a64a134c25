package service

import (
	"context"
	"log/slog"
)

// Delete removes a todo. Deleting an absent todo succeeds.
func (s *Service) Delete(ctx context.Context, input DeleteInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, input.ID); err != nil {
		return storeErr("delete", err)
	}

	s.log.InfoContext(ctx, "todo deleted", slog.String("todo_id", input.ID))
	return nil
}
