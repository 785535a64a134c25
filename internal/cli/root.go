// Package cli implements the todos command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/internal/paths"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app holds global flag values and the configuration loaded for one
// invocation.
type app struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool

	stdout io.Writer
	stderr io.Writer

	config types.Config
	log    *slog.Logger
}

// NewRootCmd creates the top-level "todos" command with global flags and
// all subcommands registered.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "todos",
		Short:         "A small todo list with SQLite, GORM and in-memory backends",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir, or $"+paths.EnvConfigDir+")")
	pf.StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	pf.StringVar(&a.backend, "backend", "", "storage backend: sqlite, gorm or memory")
	pf.BoolVar(&a.jsonMode, "json", false, "output as JSON")

	root.AddCommand(
		newVersionCmd(a),
		newInitCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newEditCmd(a),
		newDoneCmd(a, true),
		newDoneCmd(a, false),
		newToggleCmd(a),
		newDeleteCmd(a),
		newSeedCmd(a),
		newServeCmd(a),
		newUICmd(a),
	)
	return root
}

// Run executes the command line in args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// Execute runs the CLI against the process arguments and exits.
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// sysError marks err as a system failure (exit code 2).
type sysError struct {
	err error
}

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func systemErr(err error) error {
	if err == nil {
		return nil
	}
	return &sysError{err: err}
}

// exitCode maps an error to the process exit code. Validation, not-found
// and usage errors are the user's; store and system failures are not.
func exitCode(err error) int {
	var se *sysError
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrStore), errors.As(err, &se):
		return exitSysError
	default:
		return exitUserError
	}
}
