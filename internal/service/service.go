// Package service implements todo operations on top of a types.Store.
// It validates input, enforces the todo invariants, and classifies store
// failures; it holds no state of its own between calls.
package service

import (
	"errors"
	"log/slog"

	"github.com/mesh-intelligence/todos/internal/logging"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// Service provides todo management operations.
type Service struct {
	store types.Store
	log   *slog.Logger
}

// New creates a new todo service. A nil log discards every record.
func New(log *slog.Logger, store types.Store) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{
		store: store,
		log:   log.With("service", "todo"),
	}
}

// storeErr classifies an error returned by the store. Not-found and
// validation failures pass through; everything else becomes a StoreError.
func storeErr(op string, err error) error {
	switch {
	case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrValidation):
		return err
	case errors.Is(err, types.ErrInvalidName):
		return types.NewValidationError("name", "required")
	case errors.Is(err, types.ErrInvalidID):
		return types.NewValidationError("id", "required")
	default:
		return types.NewStoreError(op, err)
	}
}
