// Package tui is the interactive terminal view over the todo endpoints.
//
// Every mutation runs as a command and reports back with a message. The
// list is only replaced from a read issued after the mutation succeeded;
// nothing is changed optimistically.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/todos/internal/endpoint"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// todoEndpoints is what the view needs from endpoint.Endpoints.
type todoEndpoints interface {
	List(ctx context.Context) (endpoint.ListView, error)
	Edit(ctx context.Context, raw []byte) (endpoint.EditView, error)
	Add(ctx context.Context, raw []byte) (endpoint.Result, error)
	Update(ctx context.Context, raw []byte) (endpoint.Result, error)
	Toggle(ctx context.Context, raw []byte) (endpoint.Result, error)
	Delete(ctx context.Context, raw []byte) (endpoint.Result, error)
	MutateAndReload(ctx context.Context, mutate endpoint.Mutation) (endpoint.Result, endpoint.ListView, error)
}

var _ todoEndpoints = (*endpoint.Endpoints)(nil)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

// Messages reported back by commands.
type (
	loadedMsg struct {
		view endpoint.ListView
	}
	mutatedMsg struct {
		result endpoint.Result
		view   endpoint.ListView
	}
	editLoadedMsg struct {
		view endpoint.EditView
	}
	errMsg struct {
		err error
	}
)

var (
	addKey    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editKey   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleKey = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteKey = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	reloadKey = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	quitKey   = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
)

// Model is the bubbletea model for the todo list.
type Model struct {
	ctx       context.Context
	endpoints todoEndpoints

	list   list.Model
	input  textinput.Model
	mode   mode
	editID string

	tally  types.Tally
	busy   bool   // a command is in flight; keys are ignored
	status string // last error, rendered inline
}

// New builds the model. Call Init (or run it with tea.NewProgram) to load
// the first list.
func New(ctx context.Context, e todoEndpoints) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("todo", "todos")
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	bindings := func() []key.Binding {
		return []key.Binding{addKey, editKey, toggleKey, deleteKey, reloadKey}
	}
	l.AdditionalShortHelpKeys = bindings
	l.AdditionalFullHelpKeys = bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{
		ctx:       ctx,
		endpoints: e,
		list:      l,
		input:     ti,
	}
	m.list.Title = m.header()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, e todoEndpoints) error {
	_, err := tea.NewProgram(New(ctx, e), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

// load re-reads the list.
func (m Model) load() tea.Cmd {
	ctx, e := m.ctx, m.endpoints
	return func() tea.Msg {
		view, err := e.List(ctx)
		if err != nil {
			return errMsg{err: err}
		}
		return loadedMsg{view: view}
	}
}

// mutate runs call and, after it succeeds, reloads the list.
func (m Model) mutate(call func(ctx context.Context, raw []byte) (endpoint.Result, error), payload any) tea.Cmd {
	ctx, e := m.ctx, m.endpoints
	raw := endpoint.MustPayload(payload)
	return func() tea.Msg {
		res, view, err := e.MutateAndReload(ctx, func(ctx context.Context) (endpoint.Result, error) {
			return call(ctx, raw)
		})
		if err != nil {
			return errMsg{err: err}
		}
		return mutatedMsg{result: res, view: view}
	}
}

// loadEdit fetches the edit view for id.
func (m Model) loadEdit(id string) tea.Cmd {
	ctx, e := m.ctx, m.endpoints
	raw := endpoint.MustPayload(endpoint.GetPayload{ID: id})
	return func() tea.Msg {
		view, err := e.Edit(ctx, raw)
		if err != nil {
			return errMsg{err: err}
		}
		return editLoadedMsg{view: view}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case loadedMsg:
		m.busy = false
		m.status = ""
		m.replace(msg.view)
		return m, nil

	case mutatedMsg:
		m.busy = false
		m.status = ""
		m.closeInput()
		m.replace(msg.view)
		return m, nil

	case editLoadedMsg:
		m.busy = false
		m.status = ""
		m.mode = modeEdit
		m.editID = msg.view.ID
		m.input.Placeholder = "Edit todo..."
		m.input.SetValue(msg.view.Name)
		m.input.CursorEnd()
		m.input.Focus()
		return m, nil

	case errMsg:
		m.busy = false
		m.status = describe(msg.err)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, quitKey):
		return m, tea.Quit
	case key.Matches(msg, addKey):
		m.mode = modeAdd
		m.status = ""
		m.input.Placeholder = "New todo..."
		m.input.SetValue("")
		m.input.Focus()
		return m, nil
	case key.Matches(msg, reloadKey):
		m.busy = true
		return m, m.load()
	}

	selected, ok := m.list.SelectedItem().(listItem)
	switch {
	case key.Matches(msg, editKey):
		if !ok {
			return m, nil
		}
		m.busy = true
		return m, m.loadEdit(selected.todo.ID)
	case key.Matches(msg, toggleKey):
		if !ok {
			return m, nil
		}
		m.busy = true
		return m, m.mutate(m.endpoints.Toggle, endpoint.TogglePayload{
			ID:         selected.todo.ID,
			IsComplete: !selected.todo.IsComplete,
		})
	case key.Matches(msg, deleteKey):
		if !ok {
			return m, nil
		}
		m.busy = true
		return m, m.mutate(m.endpoints.Delete, endpoint.DeletePayload{ID: selected.todo.ID})
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		m.status = ""
		return m, nil
	case tea.KeyEnter:
		m.busy = true
		if m.mode == modeEdit {
			return m, m.mutate(m.endpoints.Update, endpoint.UpdatePayload{ID: m.editID, Name: m.input.Value()})
		}
		return m, m.mutate(m.endpoints.Add, endpoint.AddPayload{Name: m.input.Value()})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = modeBrowse
	m.editID = ""
	m.input.SetValue("")
	m.input.Blur()
}

func (m *Model) replace(view endpoint.ListView) {
	m.tally = view.Tally
	m.list.SetItems(toItems(view))
	m.list.Title = m.header()
}

func (m Model) header() string {
	return fmt.Sprintf("%s   %s %d  %s %d  %s",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), m.tally.Completed,
		pendingStyle.Render("•"), m.tally.Pending(),
		accentStyle.Render(m.tally.String()),
	)
}

// describe turns an error into the inline status line.
func describe(err error) string {
	var ve *types.ValidationError
	switch {
	case errors.As(err, &ve):
		parts := make([]string, 0, len(ve.Errors))
		for _, fe := range ve.Errors {
			parts = append(parts, fe.Field+" "+fe.Message)
		}
		return "invalid: " + strings.Join(parts, ", ")
	case errors.Is(err, types.ErrNotFound):
		return "that todo no longer exists"
	default:
		return "error: " + err.Error()
	}
}

func (m Model) View() string {
	content := m.list.View()
	if m.mode != modeBrowse {
		title := "Add todo"
		if m.mode == modeEdit {
			title = "Edit todo"
		}
		content += "\n" + panelStyle.Render(title+"\n"+m.input.View())
	}
	if m.busy {
		content += "\n" + mutedStyle.Render("working...")
	}
	if m.status != "" {
		content += "\n" + errorStyle.Render(m.status)
	}
	return panelStyle.Render(content)
}
