package dashboard

import (
	"time"

	"github.com/example/taskbuddy/domain/streak"
	domain "github.com/example/taskbuddy/domain/task"
)

// DashboardRequest is the request for a user's dashboard.
type DashboardRequest struct {
	UserID string `json:"user_id"`
}

// TaskStats aggregates the tasks a user owns or is assigned to.
type TaskStats struct {
	Total    int                       `json:"total"`
	ByStatus map[domain.TaskStatus]int `json:"by_status"`
}

// WorkspaceSummary is one workspace row on the dashboard. For workspaces the
// user owns the status is always COMPLETED; for memberships it is the rollup
// of the user's assignments across the workspace's tasks.
type WorkspaceSummary struct {
	WorkspaceID string                  `json:"workspace_id"`
	Name        string                  `json:"name"`
	Role        string                  `json:"role"`
	Status      domain.AssignmentStatus `json:"status"`
}

// Achievement is one entry of the fixed achievement ladder; locked entries
// are included so clients can render the full ladder.
type Achievement struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

// DashboardResponse is the full dashboard payload.
type DashboardResponse struct {
	UserID       string             `json:"user_id"`
	Tasks        TaskStats          `json:"tasks"`
	Workspaces   []WorkspaceSummary `json:"workspaces"`
	Streak       streak.Stats       `json:"streak"`
	Badges       []string           `json:"badges"`
	Achievements []Achievement      `json:"achievements"`
	GeneratedAt  time.Time          `json:"generated_at"`
	FromCache    bool               `json:"from_cache"`
}

const (
	roleOwner  = "owner"
	roleMember = "member"
)
