package service

import (
	"context"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Get returns a single todo.
func (s *Service) Get(ctx context.Context, input GetInput) (*types.Todo, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	todo, err := s.store.FindByID(ctx, input.ID)
	if err != nil {
		return nil, storeErr("get", err)
	}
	return todo, nil
}
