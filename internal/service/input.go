package service

import (
	"strings"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// AddInput holds the parameters for creating a todo.
type AddInput struct {
	Name string
}

// Validate checks all fields and collects all errors.
func (i AddInput) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return types.NewValidationError("name", "required")
	}
	return nil
}

// UpdateInput holds the parameters for renaming a todo.
type UpdateInput struct {
	ID   string
	Name string
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []types.FieldError
	if strings.TrimSpace(i.ID) == "" {
		errs = append(errs, types.FieldError{Field: "id", Message: "required"})
	}
	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, types.FieldError{Field: "name", Message: "required"})
	}
	if len(errs) > 0 {
		return types.NewValidationErrors(errs)
	}
	return nil
}

// ToggleInput sets the completion flag to exactly IsComplete.
type ToggleInput struct {
	ID         string
	IsComplete bool
}

// Validate checks all fields and collects all errors.
func (i ToggleInput) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return types.NewValidationError("id", "required")
	}
	return nil
}

// DeleteInput holds the parameters for deleting a todo.
type DeleteInput struct {
	ID string
}

// Validate checks all fields and collects all errors.
func (i DeleteInput) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return types.NewValidationError("id", "required")
	}
	return nil
}

// GetInput holds the parameters for fetching one todo.
type GetInput struct {
	ID string
}

// Validate checks all fields and collects all errors.
func (i GetInput) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return types.NewValidationError("id", "required")
	}
	return nil
}
