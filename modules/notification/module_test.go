package notification

import (
	"context"
	"testing"
	"time"

	domain "github.com/example/taskbuddy/domain/task"
	"github.com/example/taskbuddy/events"
)

func TestHandleMemberJoined(t *testing.T) {
	m := NewModule()

	err := m.handleMemberJoined(context.Background(), events.MemberJoinedEvent{
		WorkspaceID:   "ws-1",
		WorkspaceName: "Team Alpha",
		UserID:        "user-1",
		Username:      "shivam",
		JoinedAt:      time.Now(),
	}, nil)
	if err != nil {
		t.Fatalf("handleMemberJoined() error = %v", err)
	}

	got := m.Notifications()
	if len(got) != 1 {
		t.Fatalf("Notifications() = %d entries, want 1", len(got))
	}
	if got[0].Type != "member_joined" || got[0].UserID != "user-1" {
		t.Errorf("notification = %+v", got[0])
	}
}

func TestHandleTaskCreatedNotifiesEachAssignee(t *testing.T) {
	m := NewModule()

	err := m.handleTaskCreated(context.Background(), events.TaskCreatedEvent{
		TaskID:      "task-1",
		Title:       "Ship it",
		AssigneeIDs: []string{"user-1", "user-2"},
	}, nil)
	if err != nil {
		t.Fatalf("handleTaskCreated() error = %v", err)
	}

	got := m.Notifications()
	if len(got) != 2 {
		t.Fatalf("Notifications() = %d entries, want one per assignee", len(got))
	}
}

func TestHandleTaskStatusChanged(t *testing.T) {
	m := NewModule()
	ctx := context.Background()

	transitions := []struct {
		to   domain.TaskStatus
		want int
	}{
		{domain.StatusInProgress, 0},
		{domain.StatusCompleted, 1},
		{domain.StatusOverdue, 2},
	}
	for _, tr := range transitions {
		err := m.handleTaskStatusChanged(ctx, events.TaskStatusChangedEvent{
			TaskID:    "task-1",
			NewStatus: tr.to,
		}, nil)
		if err != nil {
			t.Fatalf("handleTaskStatusChanged(%s) error = %v", tr.to, err)
		}
		if got := len(m.Notifications()); got != tr.want {
			t.Errorf("after %s: %d notifications, want %d", tr.to, got, tr.want)
		}
	}
}
