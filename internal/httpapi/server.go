// Package httpapi serves the todo endpoints over HTTP with fiber.
package httpapi

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mesh-intelligence/todos/internal/endpoint"
)

// Server is the HTTP transport for the todo endpoints.
type Server struct {
	app       *fiber.App
	endpoints *endpoint.Endpoints
	log       *slog.Logger
}

// New creates a server with all routes registered. It does not listen.
func New(log *slog.Logger, e *endpoint.Endpoints) *Server {
	s := &Server{
		endpoints: e,
		log:       log.With("component", "http"),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(recover.New())
	s.setupRoutes()
	return s
}

// App exposes the fiber application, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.Info("http server listening", slog.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server shutting down")
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler renders errors that escape a handler, such as unknown routes.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	} else {
		s.log.ErrorContext(c.UserContext(), "unhandled error", slog.Any("error", err))
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
