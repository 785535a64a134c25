package cli

import (
	"context"
	"fmt"
	"log/slog"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/internal/httpapi"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the todo endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.config.Server.GetAddr()
			}
			return a.serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	return cmd
}

// serve blocks until SIGINT/SIGTERM, then drains the server and detaches
// the backend within server.shutdown_timeout.
func (a *app) serve(ctx context.Context, addr string) error {
	s, err := a.open()
	if err != nil {
		return err
	}
	srv := httpapi.New(s.log, s.endpoints)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- srv.Listen(addr)
	}()

	wait := gfshutdown.GracefulShutdown(ctx, a.config.Server.GetShutdownTimeout(), map[string]gfshutdown.Operation{
		"http": func(ctx context.Context) error {
			err := srv.Shutdown(ctx)
			if cerr := s.Close(); err == nil {
				err = cerr
			}
			return err
		},
	})

	select {
	case err := <-listenErr:
		// Listen returns nil once Shutdown has begun.
		if err != nil {
			s.Close()
			return systemErr(fmt.Errorf("listen on %s: %w", addr, err))
		}
		return a.stopped(<-wait)
	case exitCode := <-wait:
		return a.stopped(exitCode)
	}
}

func (a *app) stopped(exitCode int) error {
	a.log.Info("server stopped", slog.Int("exit_code", exitCode))
	if exitCode != 0 {
		return systemErr(fmt.Errorf("shutdown finished with code %d", exitCode))
	}
	return nil
}
