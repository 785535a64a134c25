package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/mesh-intelligence/todos/internal/endpoint"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.app.Get("/health", s.healthHandler)
	s.app.Get("/", s.listTodos)

	todos := s.app.Group("/todos")
	todos.Post("/", s.addTodo)
	todos.Get("/:id", s.editTodo)
	todos.Post("/:id", s.updateTodo)
	todos.Post("/:id/toggle", s.toggleTodo)
	todos.Delete("/:id", s.deleteTodo)
}

// healthHandler handles GET /health.
func (s *Server) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "healthy"})
}

// listTodos handles GET /.
func (s *Server) listTodos(c *fiber.Ctx) error {
	view, err := s.endpoints.List(c.UserContext())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(view)
}

// editTodo handles GET /todos/:id.
func (s *Server) editTodo(c *fiber.Ctx) error {
	raw := endpoint.MustPayload(endpoint.GetPayload{ID: c.Params("id")})
	view, err := s.endpoints.Edit(c.UserContext(), raw)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(view)
}

// addTodo handles POST /todos.
func (s *Server) addTodo(c *fiber.Ctx) error {
	body := c.Body()
	if !json.Valid(body) {
		return badRequest(c)
	}
	res, err := s.endpoints.Add(c.UserContext(), body)
	if err != nil {
		return s.writeError(c, err)
	}
	return s.writeResult(c, res)
}

// updateTodo handles POST /todos/:id.
func (s *Server) updateTodo(c *fiber.Ctx) error {
	raw, ok := withID(c)
	if !ok {
		return badRequest(c)
	}
	res, err := s.endpoints.Update(c.UserContext(), raw)
	if err != nil {
		return s.writeError(c, err)
	}
	return s.writeResult(c, res)
}

// toggleTodo handles POST /todos/:id/toggle.
func (s *Server) toggleTodo(c *fiber.Ctx) error {
	raw, ok := withID(c)
	if !ok {
		return badRequest(c)
	}
	res, err := s.endpoints.Toggle(c.UserContext(), raw)
	if err != nil {
		return s.writeError(c, err)
	}
	return s.writeResult(c, res)
}

// deleteTodo handles DELETE /todos/:id.
func (s *Server) deleteTodo(c *fiber.Ctx) error {
	raw := endpoint.MustPayload(endpoint.DeletePayload{ID: c.Params("id")})
	res, err := s.endpoints.Delete(c.UserContext(), raw)
	if err != nil {
		return s.writeError(c, err)
	}
	return s.writeResult(c, res)
}

// withID merges the :id route parameter into the JSON object body.
// An empty body counts as an empty object.
func withID(c *fiber.Ctx) ([]byte, bool) {
	fields := map[string]any{}
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
			return nil, false
		}
	}
	fields["id"] = c.Params("id")
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, false
	}
	return raw, true
}

// writeResult maps a mutation result to a response: redirects become
// 303 See Other, in-place results become 204 No Content.
func (s *Server) writeResult(c *fiber.Ctx, res endpoint.Result) error {
	if res.Kind == endpoint.KindRedirect {
		return c.Redirect(res.Target, fiber.StatusSeeOther)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_request",
		Message: "Invalid request body",
	})
}

// writeError maps the error taxonomy to HTTP status codes.
func (s *Server) writeError(c *fiber.Ctx, err error) error {
	var ve *types.ValidationError
	switch {
	case errors.As(err, &ve):
		issues := make([]FieldIssue, 0, len(ve.Errors))
		for _, fe := range ve.Errors {
			issues = append(issues, FieldIssue{Field: fe.Field, Message: fe.Message})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: ve.Error(),
			Fields:  issues,
		})
	case errors.Is(err, types.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	default:
		s.log.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "store_error",
			Message: "Internal Server Error",
		})
	}
}
