package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/todos/internal/endpoint"
)

// listItem adapts a todo row to bubbles/list.Item.
type listItem struct {
	todo endpoint.TodoView
}

func (i listItem) Title() string       { return i.todo.Name }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Name }

// itemDelegate renders one todo per line with a checkbox.
type itemDelegate struct{}

func (d itemDelegate) Height() int                         { return 1 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}

	box := mutedStyle.Render(boxUnchecked)
	text := it.todo.Name
	if it.todo.IsComplete {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

func toItems(view endpoint.ListView) []list.Item {
	items := make([]list.Item, 0, len(view.Todos))
	for _, t := range view.Todos {
		items = append(items, listItem{todo: t})
	}
	return items
}
