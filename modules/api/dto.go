package api

import (
	"time"

	domain "github.com/example/taskbuddy/domain/task"
	wsdomain "github.com/example/taskbuddy/domain/workspace"
)

// ErrorResponse is the HTTP response for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the HTTP response for the health endpoint.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// registerRequest is the HTTP body for POST /api/v1/auth/register.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the HTTP body for POST /api/v1/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// refreshRequest is the HTTP body for POST /api/v1/auth/refresh.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// createWorkspaceRequest is the HTTP body for POST /api/v1/workspaces.
type createWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// updateWorkspaceRequest is the HTTP body for PUT /api/v1/workspaces/:id.
type updateWorkspaceRequest struct {
	Name        *string                 `json:"name"`
	Description *string                 `json:"description"`
	Type        *wsdomain.WorkspaceType `json:"type"`
}

// joinWorkspaceRequest is the HTTP body for POST /api/v1/workspaces/:id/join.
type joinWorkspaceRequest struct {
	EntryCode string `json:"entry_code"`
}

// createTaskRequest is the HTTP body for POST /api/v1/workspaces/:id/tasks.
type createTaskRequest struct {
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Priority      domain.TaskPriority `json:"priority"`
	Category      string              `json:"category"`
	AttachmentURL string              `json:"attachment_url"`
	DueDate       time.Time           `json:"due_date"`
	AssigneeIDs   []string            `json:"assignee_ids"`
}

// updateTaskRequest is the HTTP body for PUT /api/v1/tasks/:id.
type updateTaskRequest struct {
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	Priority      *domain.TaskPriority `json:"priority"`
	Category      *string              `json:"category"`
	AttachmentURL *string              `json:"attachment_url"`
	DueDate       *time.Time           `json:"due_date"`
	AssigneeIDs   *[]string            `json:"assignee_ids"`
}

// updateAssignmentRequest is the HTTP body for
// PUT /api/v1/tasks/:id/assignment.
type updateAssignmentRequest struct {
	Status domain.AssignmentStatus `json:"status"`
}
