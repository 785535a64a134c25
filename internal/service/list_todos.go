package service

import (
	"context"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// List returns every todo in store order. The result is never nil.
func (s *Service) List(ctx context.Context) ([]*types.Todo, error) {
	todos, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, storeErr("list", err)
	}
	if todos == nil {
		todos = []*types.Todo{}
	}
	return todos, nil
}
