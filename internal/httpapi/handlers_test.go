package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/todos/internal/endpoint"
	"github.com/mesh-intelligence/todos/internal/memstore"
	"github.com/mesh-intelligence/todos/internal/service"
	"github.com/mesh-intelligence/todos/pkg/types"
)

func newTestServer(t *testing.T, store types.Store) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	return New(log, endpoint.New(service.New(log, store)))
}

func do(t *testing.T, s *Server, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, memstore.New())
	resp := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", decodeBody[HealthResponse](t, resp).Status)
}

func TestAddRedirectsToList(t *testing.T) {
	store := memstore.New()
	s := newTestServer(t, store)

	resp := do(t, s, http.MethodPost, "/todos", `{"name":"Buy milk"}`)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, 1, countTodos(t, store))

	resp = do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decodeBody[endpoint.ListView](t, resp)
	require.Len(t, view.Todos, 1)
	assert.Equal(t, "Buy milk", view.Todos[0].Name)
	assert.Equal(t, "0 of 1 completed", view.Summary)
}

func TestAddErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{name: "malformed json", body: `{"name":`, wantStatus: http.StatusBadRequest},
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest},
		{name: "missing name", body: `{}`, wantStatus: http.StatusUnprocessableEntity, wantField: "name"},
		{name: "blank name", body: `{"name":"  "}`, wantStatus: http.StatusUnprocessableEntity, wantField: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memstore.New()
			s := newTestServer(t, store)

			resp := do(t, s, http.MethodPost, "/todos", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Zero(t, countTodos(t, store))

			if tt.wantField != "" {
				body := decodeBody[ErrorResponse](t, resp)
				require.NotEmpty(t, body.Fields)
				assert.Equal(t, tt.wantField, body.Fields[0].Field)
			}
		})
	}
}

func TestEditUpdateToggleDelete(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	s := newTestServer(t, store)

	todo, err := store.Create(ctx, types.NewTodo{Name: "Task"})
	require.NoError(t, err)
	path := "/todos/" + todo.ID

	resp := do(t, s, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, endpoint.EditView{ID: todo.ID, Name: "Task"}, decodeBody[endpoint.EditView](t, resp))

	resp = do(t, s, http.MethodPost, path, `{"name":"Renamed"}`)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp = do(t, s, http.MethodPost, path+"/toggle", `{"isComplete":true}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	got, err := store.FindByID(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, got.IsComplete)

	resp = do(t, s, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Zero(t, countTodos(t, store))

	resp = do(t, s, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode, "deleting again still succeeds")
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, memstore.New())

	resp := do(t, s, http.MethodGet, "/todos/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, s, http.MethodPost, "/todos/missing/toggle", `{"isComplete":true}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, s, http.MethodPost, "/todos/missing", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestToggleRequiresBooleanFlag(t *testing.T) {
	s := newTestServer(t, memstore.New())

	resp := do(t, s, http.MethodPost, "/todos/abc/toggle", `{"isComplete":"yes"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, s, http.MethodPost, "/todos/abc/toggle", `[true]`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// brokenStore fails every call.
type brokenStore struct{ err error }

func (b brokenStore) Create(context.Context, types.NewTodo) (*types.Todo, error) { return nil, b.err }
func (b brokenStore) FindByID(context.Context, string) (*types.Todo, error)      { return nil, b.err }
func (b brokenStore) FindAll(context.Context) ([]*types.Todo, error)             { return nil, b.err }
func (b brokenStore) Update(context.Context, string, types.TodoPatch) (*types.Todo, error) {
	return nil, b.err
}
func (b brokenStore) Delete(context.Context, string) error { return b.err }

func TestStoreFailure(t *testing.T) {
	s := newTestServer(t, brokenStore{err: errors.New("database is locked")})

	resp := do(t, s, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "store_error", body.Error)
	assert.NotContains(t, body.Message, "locked")

	resp = do(t, s, http.MethodPost, "/todos", `{"name":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, memstore.New())
	resp := do(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListenAndShutdown(t *testing.T) {
	s := newTestServer(t, memstore.New())

	probe, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := probe.Addr().String()
	require.NoError(t, probe.Close())

	done := make(chan error, 1)
	go func() { done <- s.Listen(addr) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after Shutdown")
	}
}

func countTodos(t *testing.T, store types.Store) int {
	t.Helper()
	todos, err := store.FindAll(context.Background())
	require.NoError(t, err)
	return len(todos)
}
