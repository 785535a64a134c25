// Package integration runs the todo service against every backend and
// checks the on-disk JSONL contract end to end.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/todos/internal/gormstore"
	"github.com/mesh-intelligence/todos/internal/logging"
	"github.com/mesh-intelligence/todos/internal/memstore"
	"github.com/mesh-intelligence/todos/internal/service"
	"github.com/mesh-intelligence/todos/pkg/sqlite"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// backendFactories builds a fresh, unattached backend per name.
var backendFactories = map[string]func() types.Backend{
	types.BackendSQLite: func() types.Backend { return sqlite.NewBackend(logging.Discard()) },
	types.BackendGorm:   func() types.Backend { return gormstore.NewBackend() },
	types.BackendMemory: func() types.Backend { return memstore.NewBackend() },
}

// attach attaches backend with cfg and returns a service over it. The
// backend is detached when the test ends.
func attach(t *testing.T, backend types.Backend, cfg types.Config) *service.Service {
	t.Helper()
	require.NoError(t, backend.Attach(cfg))
	t.Cleanup(func() { backend.Detach() })
	store, err := backend.Todos()
	require.NoError(t, err)
	return service.New(logging.Discard(), store)
}

func mustAdd(t *testing.T, svc *service.Service, name string) *types.Todo {
	t.Helper()
	todo, err := svc.Add(context.Background(), service.AddInput{Name: name})
	require.NoError(t, err)
	return todo
}

// readJSONLFile reads a JSONL file and returns its non-blank lines.
func readJSONLFile(t *testing.T, dir, filename string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// isUUIDv7 checks the textual UUID layout and the version nibble.
func isUUIDv7(s string) bool {
	if len(s) != 36 {
		return false
	}
	if s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return false
	}
	return s[14] == '7'
}
