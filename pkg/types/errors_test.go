package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	single := NewValidationError("name", "is required")
	assert.ErrorIs(t, single, ErrValidation)
	assert.Equal(t, "validation: name: is required", single.Error())
	assert.True(t, single.Has("name"))
	assert.False(t, single.Has("id"))

	multi := NewValidationErrors([]FieldError{
		{Field: "id", Message: "is required"},
		{Field: "name", Message: "is required"},
	})
	assert.Contains(t, multi.Error(), "2 errors")

	wrapped := fmt.Errorf("add todo: %w", multi)
	var ve *ValidationError
	assert.True(t, errors.As(wrapped, &ve))
	assert.Len(t, ve.Errors, 2)
	assert.NotErrorIs(t, wrapped, ErrNotFound)
}

func TestStoreError(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("create: %w", NewStoreError("create", cause))

	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "disk full")
}
