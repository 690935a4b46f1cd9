package api

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	m.app.Get("/health", m.healthHandler)

	api := m.app.Group("/api/v1")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", m.register)
	authRoutes.Post("/login", m.login)
	authRoutes.Post("/refresh", m.refresh)
	authRoutes.Get("/me", m.requireAuth, m.me)
	authRoutes.Get("/login-history", m.requireAuth, m.loginHistory)

	workspaces := api.Group("/workspaces", m.requireAuth)
	workspaces.Post("/", m.createWorkspace)
	workspaces.Get("/", m.listWorkspaces)
	workspaces.Get("/:id", m.getWorkspace)
	workspaces.Put("/:id", m.updateWorkspace)
	workspaces.Delete("/:id", m.deleteWorkspace)
	workspaces.Post("/:id/join", m.joinWorkspace)
	workspaces.Get("/:id/members", m.listMembers)
	workspaces.Post("/:id/tasks", m.createTask)
	workspaces.Get("/:id/tasks", m.listTasks)

	tasks := api.Group("/tasks", m.requireAuth)
	tasks.Get("/:id", m.getTask)
	tasks.Put("/:id", m.updateTask)
	tasks.Delete("/:id", m.deleteTask)
	tasks.Get("/:id/assignments", m.listAssignments)
	tasks.Put("/:id/assignment", m.updateAssignment)

	api.Get("/dashboard", m.requireAuth, m.getDashboard)

	admin := api.Group("/admin", m.requireAuth)
	admin.Post("/sweep", m.runSweep)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"port":   m.port,
		},
	})
}

// call invokes a request-reply service on another module's container.
func call[Req any, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	return helper.CallRequestReplyService(ctx, container, service, json.Marshal, json.Unmarshal, req, resp)
}

// serviceError maps a cross-module service error onto an HTTP response.
// Errors cross the service bus as strings, so the mapping is by message.
func serviceError(c *fiber.Ctx, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: msg,
		})
	case strings.Contains(msg, "already"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: msg,
		})
	case strings.Contains(msg, "invalid"),
		strings.Contains(msg, "required"),
		strings.Contains(msg, "cannot"),
		strings.Contains(msg, "not a member"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: msg,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: msg,
		})
	}
}

// badRequest answers a request that failed validation at the edge.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}
