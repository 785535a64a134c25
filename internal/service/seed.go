package service

import (
	"context"
	"fmt"
	"log/slog"
)

// seedTodo is one starter record.
type seedTodo struct {
	name     string
	complete bool
}

var starterTodos = []seedTodo{
	{name: "Learn Prisma", complete: false},
	{name: "Build a Todo App", complete: true},
}

// Seed fills an empty store with the starter todos and returns how many
// were created. A store that already holds todos is left alone.
func (s *Service) Seed(ctx context.Context) (int, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		s.log.DebugContext(ctx, "seed skipped", slog.Int("existing", len(existing)))
		return 0, nil
	}

	created := 0
	for _, st := range starterTodos {
		todo, err := s.Add(ctx, AddInput{Name: st.name})
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", st.name, err)
		}
		created++
		if st.complete {
			if _, err := s.Toggle(ctx, ToggleInput{ID: todo.ID, IsComplete: true}); err != nil {
				return created, fmt.Errorf("seed %q: %w", st.name, err)
			}
		}
	}

	s.log.InfoContext(ctx, "store seeded", slog.Int("created", created))
	return created, nil
}
