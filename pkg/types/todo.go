package types

import (
	"fmt"
	"strings"
	"time"
)

// Todo is a single task tracked by the user.
type Todo struct {
	ID         string    `json:"id"`         // UUID v7, assigned by the store on creation.
	Name       string    `json:"name"`       // User-visible label (required, never blank).
	IsComplete bool      `json:"isComplete"` // Completion flag; false on creation.
	CreatedAt  time.Time `json:"createdAt"`  // Assigned on creation; immutable.
	UpdatedAt  time.Time `json:"updatedAt"`  // Last successful update or toggle.
}

// NewTodo carries the fields a caller supplies when creating a todo.
// The store assigns ID and timestamps.
type NewTodo struct {
	Name       string
	IsComplete bool
}

// TodoPatch describes a partial update. Nil fields are left untouched.
type TodoPatch struct {
	Name       *string
	IsComplete *bool
}

// Empty reports whether the patch changes nothing.
func (p TodoPatch) Empty() bool {
	return p.Name == nil && p.IsComplete == nil
}

// NormalizeName trims surrounding whitespace and rejects blank names.
func NormalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

// Rename sets the todo name. Returns ErrInvalidName if the name is blank;
// the todo is left unchanged in that case.
func (t *Todo) Rename(name string) error {
	normalized, err := NormalizeName(name)
	if err != nil {
		return err
	}
	t.Name = normalized
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// SetComplete sets the completion flag to exactly the given value.
// Idempotent: setting the current value succeeds and changes nothing else.
func (t *Todo) SetComplete(complete bool) {
	if t.IsComplete == complete {
		return
	}
	t.IsComplete = complete
	t.UpdatedAt = time.Now().UTC()
}

// Apply applies a patch to the todo. Name is validated before anything
// changes, so a rejected patch leaves the todo untouched.
func (t *Todo) Apply(p TodoPatch) error {
	if p.Name != nil {
		if err := t.Rename(*p.Name); err != nil {
			return err
		}
	}
	if p.IsComplete != nil {
		t.SetComplete(*p.IsComplete)
	}
	return nil
}

// Clone returns a copy of the todo.
func (t *Todo) Clone() *Todo {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Tally counts completed todos against the total.
type Tally struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Summarize computes the tally for a list of todos.
func Summarize(todos []*Todo) Tally {
	var t Tally
	for _, todo := range todos {
		if todo == nil {
			continue
		}
		t.Total++
		if todo.IsComplete {
			t.Completed++
		}
	}
	return t
}

// Pending returns the number of incomplete todos.
func (t Tally) Pending() int {
	return t.Total - t.Completed
}

func (t Tally) String() string {
	return fmt.Sprintf("%d of %d completed", t.Completed, t.Total)
}
