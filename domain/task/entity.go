// Package task holds the core task domain: entities, status enums and the
// status aggregation rules.
package task

import "time"

// TaskStatus is the derived lifecycle status of a task. It is never set
// directly by a caller; it is always the output of RecalculateStatus.
type TaskStatus string

const (
	StatusUpcoming   TaskStatus = "UPCOMING"
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusOverdue    TaskStatus = "OVERDUE"
)

// AssignmentStatus is the personal progress state of one assignee on one task.
type AssignmentStatus string

const (
	AssignmentPending    AssignmentStatus = "PENDING"
	AssignmentInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentCompleted  AssignmentStatus = "COMPLETED"
)

// ValidAssignmentStatus reports whether s is one of the three known values.
func ValidAssignmentStatus(s AssignmentStatus) bool {
	switch s {
	case AssignmentPending, AssignmentInProgress, AssignmentCompleted:
		return true
	}
	return false
}

// CanTransition reports whether an assignment may move from one status to
// the next. Only the forward path PENDING -> IN_PROGRESS -> COMPLETED is
// allowed.
func CanTransition(from, to AssignmentStatus) bool {
	switch from {
	case AssignmentPending:
		return to == AssignmentInProgress
	case AssignmentInProgress:
		return to == AssignmentCompleted
	default:
		return false
	}
}

// TaskPriority orders tasks by urgency.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a unit of work inside a workspace. Status is derived from the
// task's assignments and due date; the stored value is only a snapshot of
// the last recomputation.
type Task struct {
	ID            string       `gorm:"primaryKey;type:text" json:"id"`
	Title         string       `gorm:"not null;uniqueIndex:idx_tasks_workspace_title" json:"title"`
	Description   string       `gorm:"size:500" json:"description"`
	Status        TaskStatus   `gorm:"not null" json:"status"`
	Priority      TaskPriority `gorm:"not null" json:"priority"`
	Category      string       `json:"category"`
	AttachmentURL string       `json:"attachment_url,omitempty"`
	DueDate       time.Time    `gorm:"not null" json:"due_date"`
	OwnerID       string       `gorm:"not null;index" json:"owner_id"`
	WorkspaceID   string       `gorm:"not null;uniqueIndex:idx_tasks_workspace_title;index" json:"workspace_id"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// Assignment links one task to one assignee and tracks that assignee's
// personal progress. Assignment rows are the single source of truth for a
// task's assignee set.
type Assignment struct {
	ID         string           `gorm:"primaryKey;type:text" json:"id"`
	TaskID     string           `gorm:"not null;uniqueIndex:idx_assignments_task_user;index" json:"task_id"`
	AssigneeID string           `gorm:"not null;uniqueIndex:idx_assignments_task_user;index" json:"assignee_id"`
	Status     AssignmentStatus `gorm:"not null" json:"status"`
	AssignedAt time.Time        `json:"assigned_at"`
}

// TableName returns the table name for the Assignment entity.
func (Assignment) TableName() string {
	return "task_assignments"
}
