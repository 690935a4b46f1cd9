// Package events defines the typed domain events exchanged between modules.
package events

import (
	"time"

	"github.com/example/taskbuddy/domain/task"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskCreatedEvent is emitted when a new task is created.
type TaskCreatedEvent struct {
	TaskID      string    `json:"task_id"`
	WorkspaceID string    `json:"workspace_id"`
	Title       string    `json:"title"`
	OwnerID     string    `json:"owner_id"`
	AssigneeIDs []string  `json:"assignee_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.task.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"task", "TaskCreated", "v1",
)

// TaskStatusChangedEvent is emitted whenever a recomputation persists a new
// derived status. One event per actual transition.
type TaskStatusChangedEvent struct {
	TaskID      string          `json:"task_id"`
	WorkspaceID string          `json:"workspace_id"`
	OldStatus   task.TaskStatus `json:"old_status"`
	NewStatus   task.TaskStatus `json:"new_status"`
	ChangedAt   time.Time       `json:"changed_at"`
}

// TaskStatusChangedV1 is the typed event definition for derived status
// transitions. Subject: events.task.v1.task-status-changed
var TaskStatusChangedV1 = helper.EventDefinition[TaskStatusChangedEvent](
	"task", "TaskStatusChanged", "v1",
)

// TaskDeletedEvent is emitted when a task is deleted.
type TaskDeletedEvent struct {
	TaskID      string    `json:"task_id"`
	WorkspaceID string    `json:"workspace_id"`
	DeletedAt   time.Time `json:"deleted_at"`
}

// TaskDeletedV1 is the typed event definition for task deletion.
// Subject: events.task.v1.task-deleted
var TaskDeletedV1 = helper.EventDefinition[TaskDeletedEvent](
	"task", "TaskDeleted", "v1",
)

// AssignmentUpdatedEvent is emitted when an assignee's personal progress
// changes, or when assignments are created or removed.
type AssignmentUpdatedEvent struct {
	AssignmentID string                `json:"assignment_id"`
	TaskID       string                `json:"task_id"`
	WorkspaceID  string                `json:"workspace_id"`
	AssigneeID   string                `json:"assignee_id"`
	Status       task.AssignmentStatus `json:"status"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// AssignmentUpdatedV1 is the typed event definition for assignment
// mutations. Subject: events.task.v1.assignment-updated
var AssignmentUpdatedV1 = helper.EventDefinition[AssignmentUpdatedEvent](
	"task", "AssignmentUpdated", "v1",
)

// UserRegisteredEvent is emitted when a new user account is created.
type UserRegisteredEvent struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// UserRegisteredV1 is the typed event definition for user registration.
// Subject: events.auth.v1.user-registered
var UserRegisteredV1 = helper.EventDefinition[UserRegisteredEvent](
	"auth", "UserRegistered", "v1",
)

// MemberJoinedEvent is emitted when a user joins a workspace by entry code.
type MemberJoinedEvent struct {
	WorkspaceID   string    `json:"workspace_id"`
	WorkspaceName string    `json:"workspace_name"`
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	JoinedAt      time.Time `json:"joined_at"`
}

// MemberJoinedV1 is the typed event definition for workspace joins.
// Subject: events.workspace.v1.member-joined
var MemberJoinedV1 = helper.EventDefinition[MemberJoinedEvent](
	"workspace", "MemberJoined", "v1",
)
