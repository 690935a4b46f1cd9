package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domain "github.com/example/taskbuddy/domain/task"
	"github.com/example/taskbuddy/modules/auth"
	"github.com/example/taskbuddy/modules/task"
	"github.com/example/taskbuddy/modules/workspace"
)

type fakeAuthPort struct {
	logins []time.Time
}

func (f *fakeAuthPort) ValidateToken(context.Context, string) (*auth.Claims, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthPort) GetUser(context.Context, string) (*auth.GetUserResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthPort) LoginHistory(context.Context, string) ([]time.Time, error) {
	return f.logins, nil
}

type fakeWorkspacePort struct {
	list workspace.ListWorkspacesResponse
}

func (f *fakeWorkspacePort) GetWorkspace(context.Context, string) (*workspace.WorkspaceResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeWorkspacePort) ListForUser(context.Context, string) (*workspace.ListWorkspacesResponse, error) {
	resp := f.list
	return &resp, nil
}

func (f *fakeWorkspacePort) IsMember(context.Context, string, string) (bool, error) {
	return true, nil
}

type fakeTaskPort struct {
	tasks    []task.TaskResponse
	progress map[string]domain.AssignmentStatus
	builds   atomic.Int64
	block    chan struct{}
}

func (f *fakeTaskPort) GetTask(context.Context, string) (*task.TaskResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) ListTasks(context.Context, task.ListTasksRequest) (*task.ListTasksResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) UserTasks(context.Context, string) ([]task.TaskResponse, error) {
	if f.block != nil {
		<-f.block
	}
	f.builds.Add(1)
	return f.tasks, nil
}

func (f *fakeTaskPort) MemberProgress(_ context.Context, workspaceID, _ string) (*task.MemberProgressResponse, error) {
	status, ok := f.progress[workspaceID]
	if !ok {
		status = domain.AssignmentPending
	}
	return &task.MemberProgressResponse{Overall: status}, nil
}

func (f *fakeTaskPort) RefreshPage(context.Context, int, int) (*task.RefreshPageResponse, error) {
	return nil, errors.New("not implemented")
}

func day(offset int) time.Time {
	return time.Now().UTC().AddDate(0, 0, offset)
}

func setupModule(taskPort *fakeTaskPort, wsPort *fakeWorkspacePort, authPort *fakeAuthPort) *DashboardModule {
	return &DashboardModule{
		authPort:      authPort,
		workspacePort: wsPort,
		taskPort:      taskPort,
	}
}

func TestGetDashboard(t *testing.T) {
	taskPort := &fakeTaskPort{
		tasks: []task.TaskResponse{
			{ID: "t1", Status: domain.StatusCompleted},
			{ID: "t2", Status: domain.StatusCompleted},
			{ID: "t3", Status: domain.StatusOverdue},
			{ID: "t4", Status: domain.StatusInProgress},
		},
		progress: map[string]domain.AssignmentStatus{
			"ws-member": domain.AssignmentInProgress,
		},
	}
	wsPort := &fakeWorkspacePort{
		list: workspace.ListWorkspacesResponse{
			Owned: []workspace.WorkspaceResponse{
				{ID: "ws-owned", Name: "Mine"},
			},
			Member: []workspace.WorkspaceResponse{
				{ID: "ws-member", Name: "Shared"},
			},
		},
	}
	authPort := &fakeAuthPort{
		logins: []time.Time{day(0), day(-1), day(-2)},
	}

	m := setupModule(taskPort, wsPort, authPort)
	resp, err := m.getDashboard(context.Background(), DashboardRequest{UserID: "user-1"}, nil)
	if err != nil {
		t.Fatalf("getDashboard() error = %v", err)
	}

	if resp.Tasks.Total != 4 {
		t.Errorf("Tasks.Total = %d, want 4", resp.Tasks.Total)
	}
	if resp.Tasks.ByStatus[domain.StatusCompleted] != 2 {
		t.Errorf("completed count = %d, want 2", resp.Tasks.ByStatus[domain.StatusCompleted])
	}
	if resp.Tasks.ByStatus[domain.StatusOverdue] != 1 {
		t.Errorf("overdue count = %d, want 1", resp.Tasks.ByStatus[domain.StatusOverdue])
	}

	if len(resp.Workspaces) != 2 {
		t.Fatalf("Workspaces = %d entries, want 2", len(resp.Workspaces))
	}
	for _, ws := range resp.Workspaces {
		switch ws.WorkspaceID {
		case "ws-owned":
			if ws.Role != roleOwner || ws.Status != domain.AssignmentCompleted {
				t.Errorf("owned workspace = %+v, want owner/COMPLETED", ws)
			}
		case "ws-member":
			if ws.Role != roleMember || ws.Status != domain.AssignmentInProgress {
				t.Errorf("member workspace = %+v, want member/IN_PROGRESS", ws)
			}
		default:
			t.Errorf("unexpected workspace %q", ws.WorkspaceID)
		}
	}

	if resp.Streak.Current != 3 {
		t.Errorf("Streak.Current = %d, want 3", resp.Streak.Current)
	}
	if resp.FromCache {
		t.Error("FromCache = true without a cache wired")
	}
}

func TestGetDashboardRequiresUser(t *testing.T) {
	m := setupModule(&fakeTaskPort{}, &fakeWorkspacePort{}, &fakeAuthPort{})
	if _, err := m.getDashboard(context.Background(), DashboardRequest{}, nil); err == nil {
		t.Error("expected error for missing user_id")
	}
}

func TestGetDashboardCollapsesConcurrentBuilds(t *testing.T) {
	block := make(chan struct{})
	taskPort := &fakeTaskPort{block: block}
	m := setupModule(taskPort, &fakeWorkspacePort{}, &fakeAuthPort{})
	ctx := context.Background()

	const callers = 10
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := m.getDashboard(ctx, DashboardRequest{UserID: "user-1"}, nil); err != nil {
				t.Errorf("getDashboard() error = %v", err)
			}
		}()
	}

	close(start)
	// Give the callers time to pile up behind the singleflight key, then
	// release the build.
	time.Sleep(50 * time.Millisecond)
	close(block)
	wg.Wait()

	if builds := taskPort.builds.Load(); builds >= callers {
		t.Errorf("builds = %d, want concurrent requests collapsed", builds)
	}
}

func TestBuildDashboardBadges(t *testing.T) {
	logins := make([]time.Time, 0, 15)
	for i := 0; i < 15; i++ {
		logins = append(logins, day(-i))
	}
	m := setupModule(&fakeTaskPort{}, &fakeWorkspacePort{}, &fakeAuthPort{logins: logins})

	resp, err := m.buildDashboard(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("buildDashboard() error = %v", err)
	}
	if len(resp.Badges) != 2 || resp.Badges[0] != "Silver" || resp.Badges[1] != "Gold" {
		t.Errorf("Badges = %v, want [Silver Gold]", resp.Badges)
	}
	if resp.Streak.NextBadge != "Diamond" {
		t.Errorf("NextBadge = %q, want Diamond", resp.Streak.NextBadge)
	}
}

func TestBuildDashboardAchievements(t *testing.T) {
	logins := make([]time.Time, 0, 8)
	for i := 0; i < 8; i++ {
		logins = append(logins, day(-i))
	}
	taskPort := &fakeTaskPort{
		tasks: []task.TaskResponse{
			{ID: "t1", OwnerID: "user-1", Status: domain.StatusCompleted},
			{ID: "t2", OwnerID: "someone-else", Status: domain.StatusInProgress},
		},
	}
	m := setupModule(taskPort, &fakeWorkspacePort{}, &fakeAuthPort{logins: logins})

	resp, err := m.buildDashboard(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("buildDashboard() error = %v", err)
	}

	want := map[string]bool{
		"Bronze Starter":  true,  // owns t1
		"Silver Streak":   true,  // 8-day streak
		"Gold Taskmaster": false, // far from 50 tasks
	}
	if len(resp.Achievements) != len(want) {
		t.Fatalf("Achievements = %d entries, want %d", len(resp.Achievements), len(want))
	}
	for _, a := range resp.Achievements {
		unlocked, ok := want[a.Name]
		if !ok {
			t.Errorf("unexpected achievement %q", a.Name)
			continue
		}
		if a.Unlocked != unlocked {
			t.Errorf("%s Unlocked = %v, want %v", a.Name, a.Unlocked, unlocked)
		}
	}
}

func TestAchievementsLadder(t *testing.T) {
	all := achievements(50, 7)
	for _, a := range all {
		if !a.Unlocked {
			t.Errorf("%s locked at 50 tasks / 7-day streak", a.Name)
		}
	}

	none := achievements(0, 0)
	for _, a := range none {
		if a.Unlocked {
			t.Errorf("%s unlocked for a fresh account", a.Name)
		}
	}
}
