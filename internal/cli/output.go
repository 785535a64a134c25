package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mesh-intelligence/todos/internal/endpoint"
	"github.com/mesh-intelligence/todos/pkg/types"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// printList writes the list view as a table followed by the tally.
func (a *app) printList(view endpoint.ListView) error {
	if a.jsonMode {
		return writeJSON(a.stdout, view)
	}
	if len(view.Todos) == 0 {
		fmt.Fprintln(a.stdout, "No todos.")
		fmt.Fprintln(a.stdout, view.Summary)
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "NAME", "ID").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, todo := range view.Todos {
		t.Row(checkbox(todo.IsComplete), todo.Name, todo.ID)
	}
	fmt.Fprintln(a.stdout, t.String())
	fmt.Fprintln(a.stdout, view.Summary)
	return nil
}

// printTodo writes one todo with all of its fields.
func (a *app) printTodo(todo *types.Todo) error {
	if a.jsonMode {
		return writeJSON(a.stdout, todo)
	}
	fmt.Fprintf(a.stdout, "ID:       %s\n", todo.ID)
	fmt.Fprintf(a.stdout, "Name:     %s\n", todo.Name)
	fmt.Fprintf(a.stdout, "Complete: %t\n", todo.IsComplete)
	fmt.Fprintf(a.stdout, "Created:  %s\n", todo.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(a.stdout, "Updated:  %s\n", todo.UpdatedAt.Format(time.RFC3339))
	return nil
}
