package task

import (
	"context"
	"time"

	"github.com/example/taskbuddy/domain/rollup"
	domain "github.com/example/taskbuddy/domain/task"
)

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Priority      domain.TaskPriority `json:"priority"`
	Category      string              `json:"category"`
	AttachmentURL string              `json:"attachment_url,omitempty"`
	DueDate       time.Time           `json:"due_date"`
	OwnerID       string              `json:"owner_id"`
	WorkspaceID   string              `json:"workspace_id"`
	AssigneeIDs   []string            `json:"assignee_ids"`
}

// GetTaskRequest is the request for fetching a single task.
type GetTaskRequest struct {
	TaskID string `json:"task_id"`
}

// UpdateTaskRequest is the request for updating a task. Nil fields are left
// unchanged. A non-nil AssigneeIDs replaces the full assignee set.
type UpdateTaskRequest struct {
	TaskID        string               `json:"task_id"`
	Title         *string              `json:"title,omitempty"`
	Description   *string              `json:"description,omitempty"`
	Priority      *domain.TaskPriority `json:"priority,omitempty"`
	Category      *string              `json:"category,omitempty"`
	AttachmentURL *string              `json:"attachment_url,omitempty"`
	DueDate       *time.Time           `json:"due_date,omitempty"`
	AssigneeIDs   *[]string            `json:"assignee_ids,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// ListTasksRequest is the request for listing the tasks of a workspace.
// Zero-value filters are ignored. Title matches as a case-insensitive
// substring; DueFrom/DueTo bound the due date inclusively. SortBy accepts
// "due_date", "priority", "created_at" or "title"; the default is due date
// ascending.
type ListTasksRequest struct {
	WorkspaceID string              `json:"workspace_id"`
	Status      domain.TaskStatus   `json:"status,omitempty"`
	Priority    domain.TaskPriority `json:"priority,omitempty"`
	Category    string              `json:"category,omitempty"`
	Title       string              `json:"title,omitempty"`
	DueFrom     *time.Time          `json:"due_from,omitempty"`
	DueTo       *time.Time          `json:"due_to,omitempty"`
	SortBy      string              `json:"sort_by,omitempty"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
}

// ListTasksResponse is a single page of tasks.
type ListTasksResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// UpdateAssignmentRequest is the request for moving one assignee's progress
// forward on one task.
type UpdateAssignmentRequest struct {
	TaskID     string                  `json:"task_id"`
	AssigneeID string                  `json:"assignee_id"`
	Status     domain.AssignmentStatus `json:"status"`
}

// UpdateAssignmentResponse reports the assignment after the transition along
// with the task's (possibly changed) derived status.
type UpdateAssignmentResponse struct {
	Assignment AssignmentResponse `json:"assignment"`
	TaskStatus domain.TaskStatus  `json:"task_status"`
}

// ListAssignmentsRequest is the request for listing a task's assignments.
type ListAssignmentsRequest struct {
	TaskID string `json:"task_id"`
}

// ListAssignmentsResponse lists the assignments of one task.
type ListAssignmentsResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
}

// RefreshPageRequest asks for one page of tasks to be recomputed. Pages are
// ordered by task ID so a sweep sees every row exactly once.
type RefreshPageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// RefreshPageResponse reports the outcome of one recomputation page.
type RefreshPageResponse struct {
	Scanned int `json:"scanned"`
	Changed int `json:"changed"`
	Failed  int `json:"failed"`
}

// UserTasksRequest asks for every task a user owns or is assigned to.
type UserTasksRequest struct {
	UserID string `json:"user_id"`
}

// UserTasksResponse lists the tasks relevant to one user, deduplicated.
type UserTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// MemberProgressRequest asks for one member's aggregate progress across all
// tasks of one workspace.
type MemberProgressRequest struct {
	WorkspaceID string `json:"workspace_id"`
	UserID      string `json:"user_id"`
}

// MemberProgressResponse carries the per-task assignment states and the
// overall status derived from them.
type MemberProgressResponse struct {
	Overall domain.AssignmentStatus `json:"overall"`
	PerTask []rollup.PerTask        `json:"per_task"`
}

// TaskResponse is the wire representation of a task.
type TaskResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Status        domain.TaskStatus    `json:"status"`
	Priority      domain.TaskPriority  `json:"priority"`
	Category      string               `json:"category"`
	AttachmentURL string               `json:"attachment_url,omitempty"`
	DueDate       time.Time            `json:"due_date"`
	OwnerID       string               `json:"owner_id"`
	WorkspaceID   string               `json:"workspace_id"`
	AssigneeIDs   []string             `json:"assignee_ids"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// AssignmentResponse is the wire representation of an assignment.
type AssignmentResponse struct {
	ID         string                  `json:"id"`
	TaskID     string                  `json:"task_id"`
	AssigneeID string                  `json:"assignee_id"`
	Status     domain.AssignmentStatus `json:"status"`
	AssignedAt time.Time               `json:"assigned_at"`
}

// TaskPort defines the interface other modules use to reach task
// functionality.
type TaskPort interface {
	GetTask(ctx context.Context, taskID string) (*TaskResponse, error)
	ListTasks(ctx context.Context, req ListTasksRequest) (*ListTasksResponse, error)
	UserTasks(ctx context.Context, userID string) ([]TaskResponse, error)
	MemberProgress(ctx context.Context, workspaceID, userID string) (*MemberProgressResponse, error)
	RefreshPage(ctx context.Context, page, pageSize int) (*RefreshPageResponse, error)
}
