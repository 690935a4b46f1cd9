package workspace

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/example/taskbuddy/domain/workspace"
	"github.com/example/taskbuddy/events"
)

// setupModule wires a WorkspaceModule against an in-memory database, skipping
// the mono lifecycle.
func setupModule(t *testing.T) *WorkspaceModule {
	t.Helper()

	db := setupTestDB(t)
	code := 0
	return &WorkspaceModule{
		db:   db,
		repo: NewRepository(db),
		newEntryCode: func() string {
			code++
			return []string{"code01", "code02", "code03", "code04"}[code-1]
		},
	}
}

func TestCreateWorkspace(t *testing.T) {
	m := setupModule(t)
	ctx := context.Background()

	resp, err := m.createWorkspace(ctx, CreateWorkspaceRequest{
		Name:        "Team Alpha",
		Description: "sprint planning",
		OwnerID:     "user-1",
	}, nil)
	if err != nil {
		t.Fatalf("createWorkspace() error = %v", err)
	}
	if resp.EntryCode != "code01" {
		t.Errorf("EntryCode = %q, want %q", resp.EntryCode, "code01")
	}
	if resp.Type != domain.TypePrivate {
		t.Errorf("Type = %q, want %q", resp.Type, domain.TypePrivate)
	}

	t.Run("duplicate name for same owner", func(t *testing.T) {
		_, err := m.createWorkspace(ctx, CreateWorkspaceRequest{
			Name:    "team alpha",
			OwnerID: "user-1",
		}, nil)
		if !errors.Is(err, ErrNameTaken) {
			t.Errorf("createWorkspace() error = %v, want ErrNameTaken", err)
		}
	})

	t.Run("same name for other owner", func(t *testing.T) {
		if _, err := m.createWorkspace(ctx, CreateWorkspaceRequest{
			Name:    "Team Alpha",
			OwnerID: "user-2",
		}, nil); err != nil {
			t.Errorf("createWorkspace() error = %v", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		if _, err := m.createWorkspace(ctx, CreateWorkspaceRequest{OwnerID: "user-1"}, nil); err == nil {
			t.Error("expected error for missing name")
		}
	})
}

func TestJoinWorkspace(t *testing.T) {
	m := setupModule(t)
	ctx := context.Background()

	ws, err := m.createWorkspace(ctx, CreateWorkspaceRequest{Name: "Shared", OwnerID: "owner-1"}, nil)
	if err != nil {
		t.Fatalf("createWorkspace() error = %v", err)
	}

	t.Run("new member joins", func(t *testing.T) {
		resp, err := m.joinWorkspace(ctx, JoinWorkspaceRequest{
			WorkspaceID: ws.ID,
			EntryCode:   ws.EntryCode,
			UserID:      "user-2",
		}, nil)
		if err != nil {
			t.Fatalf("joinWorkspace() error = %v", err)
		}
		if !resp.Joined || resp.AlreadyMember {
			t.Errorf("joinWorkspace() = %+v, want Joined=true AlreadyMember=false", resp)
		}
	})

	t.Run("repeat join is idempotent", func(t *testing.T) {
		resp, err := m.joinWorkspace(ctx, JoinWorkspaceRequest{
			WorkspaceID: ws.ID,
			EntryCode:   ws.EntryCode,
			UserID:      "user-2",
		}, nil)
		if err != nil {
			t.Fatalf("joinWorkspace() error = %v", err)
		}
		if resp.Joined || !resp.AlreadyMember {
			t.Errorf("joinWorkspace() = %+v, want Joined=false AlreadyMember=true", resp)
		}
	})

	t.Run("wrong entry code", func(t *testing.T) {
		if _, err := m.joinWorkspace(ctx, JoinWorkspaceRequest{
			WorkspaceID: ws.ID,
			EntryCode:   "nope00",
			UserID:      "user-3",
		}, nil); err == nil {
			t.Error("expected error for wrong entry code")
		}
	})
}

func TestUpdateWorkspaceAutoPublic(t *testing.T) {
	m := setupModule(t)
	ctx := context.Background()

	ws, err := m.createWorkspace(ctx, CreateWorkspaceRequest{Name: "Growing", OwnerID: "owner-1"}, nil)
	if err != nil {
		t.Fatalf("createWorkspace() error = %v", err)
	}

	t.Run("single member stays private", func(t *testing.T) {
		desc := "still small"
		resp, err := m.updateWorkspace(ctx, UpdateWorkspaceRequest{
			WorkspaceID: ws.ID,
			Description: &desc,
		}, nil)
		if err != nil {
			t.Fatalf("updateWorkspace() error = %v", err)
		}
		if resp.Type != domain.TypePrivate {
			t.Errorf("Type = %q, want %q", resp.Type, domain.TypePrivate)
		}
	})

	if _, err := m.joinWorkspace(ctx, JoinWorkspaceRequest{
		WorkspaceID: ws.ID,
		EntryCode:   ws.EntryCode,
		UserID:      "user-2",
	}, nil); err != nil {
		t.Fatalf("joinWorkspace() error = %v", err)
	}

	t.Run("second member flips to public", func(t *testing.T) {
		name := "Grown"
		resp, err := m.updateWorkspace(ctx, UpdateWorkspaceRequest{
			WorkspaceID: ws.ID,
			Name:        &name,
		}, nil)
		if err != nil {
			t.Fatalf("updateWorkspace() error = %v", err)
		}
		if resp.Type != domain.TypePublic {
			t.Errorf("Type = %q, want %q", resp.Type, domain.TypePublic)
		}
	})

	t.Run("explicit type wins over auto-switch", func(t *testing.T) {
		typ := domain.TypePrivate
		resp, err := m.updateWorkspace(ctx, UpdateWorkspaceRequest{
			WorkspaceID: ws.ID,
			Type:        &typ,
		}, nil)
		if err != nil {
			t.Fatalf("updateWorkspace() error = %v", err)
		}
		if resp.Type != domain.TypePrivate {
			t.Errorf("Type = %q, want %q", resp.Type, domain.TypePrivate)
		}
	})
}

func TestDeleteWorkspace(t *testing.T) {
	m := setupModule(t)
	ctx := context.Background()

	ws, err := m.createWorkspace(ctx, CreateWorkspaceRequest{Name: "Temp", OwnerID: "owner-1"}, nil)
	if err != nil {
		t.Fatalf("createWorkspace() error = %v", err)
	}

	t.Run("default workspace is protected", func(t *testing.T) {
		stored, err := m.repo.FindByID(ws.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		stored.Type = domain.TypeDefault
		if err := m.repo.Update(stored); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		if _, err := m.deleteWorkspace(ctx, DeleteWorkspaceRequest{WorkspaceID: ws.ID}, nil); err == nil {
			t.Error("expected error deleting default workspace")
		}

		stored.Type = domain.TypePrivate
		if err := m.repo.Update(stored); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	})

	resp, err := m.deleteWorkspace(ctx, DeleteWorkspaceRequest{WorkspaceID: ws.ID}, nil)
	if err != nil {
		t.Fatalf("deleteWorkspace() error = %v", err)
	}
	if !resp.Deleted {
		t.Error("Deleted = false, want true")
	}

	list, err := m.listWorkspaces(ctx, ListWorkspacesRequest{UserID: "owner-1"}, nil)
	if err != nil {
		t.Fatalf("listWorkspaces() error = %v", err)
	}
	if len(list.Owned) != 0 {
		t.Errorf("Owned after delete = %d workspaces, want 0", len(list.Owned))
	}
}

func TestDefaultWorkspaceOnRegistration(t *testing.T) {
	m := setupModule(t)
	ctx := context.Background()

	event := events.UserRegisteredEvent{
		UserID:       "user-new",
		Username:     "newbie",
		Email:        "newbie@example.com",
		RegisteredAt: time.Now(),
	}
	if err := m.handleUserRegistered(ctx, event, nil); err != nil {
		t.Fatalf("handleUserRegistered() error = %v", err)
	}

	list, err := m.listWorkspaces(ctx, ListWorkspacesRequest{UserID: "user-new"}, nil)
	if err != nil {
		t.Fatalf("listWorkspaces() error = %v", err)
	}
	if len(list.Owned) != 1 {
		t.Fatalf("Owned = %d workspaces, want 1", len(list.Owned))
	}
	home := list.Owned[0]
	if home.Name != "Home" {
		t.Errorf("Name = %q, want %q", home.Name, "Home")
	}
	if home.Type != domain.TypeDefault {
		t.Errorf("Type = %q, want %q", home.Type, domain.TypeDefault)
	}

	t.Run("redelivery is idempotent", func(t *testing.T) {
		if err := m.handleUserRegistered(ctx, event, nil); err != nil {
			t.Fatalf("handleUserRegistered() error = %v", err)
		}
		list, err := m.listWorkspaces(ctx, ListWorkspacesRequest{UserID: "user-new"}, nil)
		if err != nil {
			t.Fatalf("listWorkspaces() error = %v", err)
		}
		if len(list.Owned) != 1 {
			t.Errorf("Owned after redelivery = %d workspaces, want 1", len(list.Owned))
		}
	})

	t.Run("cannot be deleted", func(t *testing.T) {
		resp, err := m.deleteWorkspace(ctx, DeleteWorkspaceRequest{WorkspaceID: home.ID}, nil)
		if err == nil {
			t.Fatal("expected error deleting default workspace")
		}
		if resp.Deleted {
			t.Error("Deleted = true, want false")
		}
	})
}
