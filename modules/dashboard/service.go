package dashboard

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/taskbuddy/domain/streak"
	domain "github.com/example/taskbuddy/domain/task"
	"github.com/go-monolith/mono"
)

// getDashboard serves the dashboard with a cache-aside read. Concurrent
// requests for the same user are collapsed into one rebuild via singleflight,
// so an invalidation storm cannot stampede the backing stores.
func (m *DashboardModule) getDashboard(ctx context.Context, req DashboardRequest, _ *mono.Msg) (DashboardResponse, error) {
	if req.UserID == "" {
		return DashboardResponse{}, fmt.Errorf("user_id is required")
	}

	if m.cache != nil {
		var cached DashboardResponse
		hit, err := m.cache.Get(ctx, cacheKey(req.UserID), &cached)
		if err != nil {
			log.Printf("[dashboard] Cache read failed for user %s: %v", req.UserID, err)
		} else if hit {
			cached.FromCache = true
			return cached, nil
		}
	}

	v, err, _ := m.group.Do(req.UserID, func() (any, error) {
		resp, err := m.buildDashboard(ctx, req.UserID)
		if err != nil {
			return DashboardResponse{}, err
		}
		if m.cache != nil {
			if err := m.cache.Set(ctx, cacheKey(req.UserID), resp); err != nil {
				log.Printf("[dashboard] Cache write failed for user %s: %v", req.UserID, err)
			}
		}
		return resp, nil
	})
	if err != nil {
		return DashboardResponse{}, err
	}
	return v.(DashboardResponse), nil
}

// buildDashboard assembles the dashboard from the auth, workspace and task
// modules.
func (m *DashboardModule) buildDashboard(ctx context.Context, userID string) (DashboardResponse, error) {
	resp := DashboardResponse{
		UserID:      userID,
		GeneratedAt: time.Now(),
	}

	tasks, err := m.taskPort.UserTasks(ctx, userID)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to load user tasks: %w", err)
	}
	resp.Tasks = TaskStats{
		Total:    len(tasks),
		ByStatus: make(map[domain.TaskStatus]int),
	}
	for _, t := range tasks {
		resp.Tasks.ByStatus[t.Status]++
	}

	workspaces, err := m.workspacePort.ListForUser(ctx, userID)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to load workspaces: %w", err)
	}
	resp.Workspaces = make([]WorkspaceSummary, 0, len(workspaces.Owned)+len(workspaces.Member))
	for _, ws := range workspaces.Owned {
		resp.Workspaces = append(resp.Workspaces, WorkspaceSummary{
			WorkspaceID: ws.ID,
			Name:        ws.Name,
			Role:        roleOwner,
			Status:      domain.AssignmentCompleted,
		})
	}
	for _, ws := range workspaces.Member {
		progress, err := m.taskPort.MemberProgress(ctx, ws.ID, userID)
		if err != nil {
			return DashboardResponse{}, fmt.Errorf("failed to roll up workspace %s: %w", ws.ID, err)
		}
		resp.Workspaces = append(resp.Workspaces, WorkspaceSummary{
			WorkspaceID: ws.ID,
			Name:        ws.Name,
			Role:        roleMember,
			Status:      progress.Overall,
		})
	}

	logins, err := m.authPort.LoginHistory(ctx, userID)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to load login history: %w", err)
	}
	resp.Streak = streak.Calculate(logins, time.Now())
	resp.Badges = streak.Badges(resp.Streak.Longest)

	owned := 0
	for _, t := range tasks {
		if t.OwnerID == userID {
			owned++
		}
	}
	resp.Achievements = achievements(owned, resp.Streak.Longest)

	return resp, nil
}

// achievements evaluates the fixed achievement ladder against the user's
// owned task count and longest login streak.
func achievements(ownedTasks, longestStreak int) []Achievement {
	return []Achievement{
		{
			Name:        "Bronze Starter",
			Description: "Create your first task",
			Unlocked:    ownedTasks >= 1,
		},
		{
			Name:        "Silver Streak",
			Description: "Log in for 7 consecutive days",
			Unlocked:    longestStreak >= 7,
		},
		{
			Name:        "Gold Taskmaster",
			Description: "Create 50 tasks",
			Unlocked:    ownedTasks >= 50,
		},
	}
}

// invalidate drops the cached dashboards of the given users. Unknown or
// empty IDs are ignored.
func (m *DashboardModule) invalidate(ctx context.Context, userIDs ...string) {
	if m.cache == nil {
		return
	}
	for _, id := range userIDs {
		if id == "" {
			continue
		}
		if err := m.cache.Delete(ctx, cacheKey(id)); err != nil {
			log.Printf("[dashboard] Cache invalidation failed for user %s: %v", id, err)
		}
	}
}

// invalidateAll drops every cached dashboard. Used for events that carry no
// affected user list, where a stale rollup is worse than a cold cache.
func (m *DashboardModule) invalidateAll(ctx context.Context) {
	if m.cache == nil {
		return
	}
	if err := m.cache.DeletePattern(ctx, "dashboard:*"); err != nil {
		log.Printf("[dashboard] Cache flush failed: %v", err)
	}
}

func cacheKey(userID string) string {
	return "dashboard:" + userID
}
