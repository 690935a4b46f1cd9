package workspace

import (
	"context"
	"fmt"
	"log"
	"time"

	domain "github.com/example/taskbuddy/domain/workspace"
	"github.com/example/taskbuddy/events"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// defaultWorkspaceName is the name of the workspace every account starts
// with.
const defaultWorkspaceName = "Home"

// handleUserRegistered provisions the new account's default workspace. The
// DEFAULT type marks it as delete-protected.
func (m *WorkspaceModule) handleUserRegistered(_ context.Context, event events.UserRegisteredEvent, _ *mono.Msg) error {
	// Event redelivery must not create a second Home workspace.
	taken, err := m.repo.NameExistsForOwner(defaultWorkspaceName, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to check default workspace: %w", err)
	}
	if taken {
		return nil
	}

	now := time.Now()
	ws := &domain.Workspace{
		ID:          uuid.New().String(),
		Name:        defaultWorkspaceName,
		Description: "Your personal workspace",
		EntryCode:   m.newEntryCode(),
		OwnerID:     event.UserID,
		Type:        domain.TypeDefault,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.repo.Create(ws); err != nil {
		return fmt.Errorf("failed to create default workspace for user %s: %w", event.UserID, err)
	}

	log.Printf("[workspace] Created default workspace for user %s", event.UserID)
	return nil
}

// createWorkspace handles the create service request.
func (m *WorkspaceModule) createWorkspace(_ context.Context, req CreateWorkspaceRequest, _ *mono.Msg) (WorkspaceResponse, error) {
	if req.Name == "" {
		return WorkspaceResponse{}, fmt.Errorf("name is required")
	}
	if req.OwnerID == "" {
		return WorkspaceResponse{}, fmt.Errorf("owner_id is required")
	}

	taken, err := m.repo.NameExistsForOwner(req.Name, req.OwnerID)
	if err != nil {
		return WorkspaceResponse{}, fmt.Errorf("failed to check workspace name: %w", err)
	}
	if taken {
		return WorkspaceResponse{}, ErrNameTaken
	}

	now := time.Now()
	ws := &domain.Workspace{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		EntryCode:   m.newEntryCode(),
		OwnerID:     req.OwnerID,
		Type:        domain.TypePrivate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.repo.Create(ws); err != nil {
		return WorkspaceResponse{}, fmt.Errorf("failed to save workspace: %w", err)
	}

	return toWorkspaceResponse(ws), nil
}

// getWorkspace handles the get service request.
func (m *WorkspaceModule) getWorkspace(_ context.Context, req GetWorkspaceRequest, _ *mono.Msg) (WorkspaceResponse, error) {
	ws, err := m.repo.FindByID(req.WorkspaceID)
	if err != nil {
		return WorkspaceResponse{}, err
	}
	return toWorkspaceResponse(ws), nil
}

// updateWorkspace handles the update service request.
func (m *WorkspaceModule) updateWorkspace(_ context.Context, req UpdateWorkspaceRequest, _ *mono.Msg) (WorkspaceResponse, error) {
	ws, err := m.repo.FindByID(req.WorkspaceID)
	if err != nil {
		return WorkspaceResponse{}, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return WorkspaceResponse{}, fmt.Errorf("name cannot be empty")
		}
		ws.Name = *req.Name
	}
	if req.Description != nil {
		ws.Description = *req.Description
	}

	if req.Type != nil {
		ws.Type = *req.Type
	} else if ws.Type == domain.TypePrivate {
		// Auto-switch to PUBLIC once more than one member has joined and
		// the caller did not pin the type explicitly.
		count, err := m.repo.CountMembers(ws.ID)
		if err != nil {
			return WorkspaceResponse{}, fmt.Errorf("failed to count members: %w", err)
		}
		if count > 1 {
			ws.Type = domain.TypePublic
		}
	}

	ws.UpdatedAt = time.Now()
	if err := m.repo.Update(ws); err != nil {
		return WorkspaceResponse{}, err
	}

	return toWorkspaceResponse(ws), nil
}

// deleteWorkspace handles the delete service request.
func (m *WorkspaceModule) deleteWorkspace(_ context.Context, req DeleteWorkspaceRequest, _ *mono.Msg) (DeleteWorkspaceResponse, error) {
	ws, err := m.repo.FindByID(req.WorkspaceID)
	if err != nil {
		return DeleteWorkspaceResponse{Deleted: false}, err
	}

	if ws.Type == domain.TypeDefault {
		return DeleteWorkspaceResponse{Deleted: false}, fmt.Errorf("cannot delete default workspace")
	}

	if err := m.repo.Delete(req.WorkspaceID); err != nil {
		return DeleteWorkspaceResponse{Deleted: false}, err
	}

	return DeleteWorkspaceResponse{Deleted: true}, nil
}

// listWorkspaces handles the list service request.
func (m *WorkspaceModule) listWorkspaces(_ context.Context, req ListWorkspacesRequest, _ *mono.Msg) (ListWorkspacesResponse, error) {
	owned, err := m.repo.ListOwnedBy(req.UserID)
	if err != nil {
		return ListWorkspacesResponse{}, err
	}
	member, err := m.repo.ListMemberOf(req.UserID)
	if err != nil {
		return ListWorkspacesResponse{}, err
	}

	resp := ListWorkspacesResponse{
		Owned:  make([]WorkspaceResponse, 0, len(owned)),
		Member: make([]WorkspaceResponse, 0, len(member)),
	}
	for _, ws := range owned {
		resp.Owned = append(resp.Owned, toWorkspaceResponse(ws))
	}
	for _, ws := range member {
		resp.Member = append(resp.Member, toWorkspaceResponse(ws))
	}
	return resp, nil
}

// joinWorkspace handles the join service request. Joining is idempotent for
// existing members.
func (m *WorkspaceModule) joinWorkspace(ctx context.Context, req JoinWorkspaceRequest, _ *mono.Msg) (JoinWorkspaceResponse, error) {
	ws, err := m.repo.FindByIDAndEntryCode(req.WorkspaceID, req.EntryCode)
	if err != nil {
		return JoinWorkspaceResponse{}, fmt.Errorf("invalid invite link: %w", err)
	}

	member, err := m.repo.IsMember(ws.ID, req.UserID)
	if err != nil {
		return JoinWorkspaceResponse{}, fmt.Errorf("failed to check membership: %w", err)
	}
	if member {
		return JoinWorkspaceResponse{
			Joined:        false,
			AlreadyMember: true,
			WorkspaceName: ws.Name,
		}, nil
	}

	now := time.Now()
	if err := m.repo.AddMember(ws.ID, req.UserID, now); err != nil {
		return JoinWorkspaceResponse{}, fmt.Errorf("failed to add member: %w", err)
	}

	if m.eventBus != nil {
		event := events.MemberJoinedEvent{
			WorkspaceID:   ws.ID,
			WorkspaceName: ws.Name,
			UserID:        req.UserID,
			JoinedAt:      now,
		}
		if u, err := m.authPort.GetUser(ctx, req.UserID); err == nil {
			event.Username = u.Username
			event.Email = u.Email
		}
		if err := events.MemberJoinedV1.Publish(m.eventBus, event, nil); err != nil {
			// Event publishing is best-effort; log but don't fail the operation
			log.Printf("[workspace] Warning: failed to publish MemberJoined event for workspace %s: %v", ws.ID, err)
		}
	}

	return JoinWorkspaceResponse{
		Joined:        true,
		WorkspaceName: ws.Name,
	}, nil
}

// listMembers handles the members service request.
func (m *WorkspaceModule) listMembers(_ context.Context, req MembersRequest, _ *mono.Msg) (MembersResponse, error) {
	ids, err := m.repo.MemberIDs(req.WorkspaceID)
	if err != nil {
		return MembersResponse{}, err
	}
	return MembersResponse{MemberIDs: ids}, nil
}

// toWorkspaceResponse converts a domain Workspace to a WorkspaceResponse.
func toWorkspaceResponse(ws *domain.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:          ws.ID,
		Name:        ws.Name,
		Description: ws.Description,
		EntryCode:   ws.EntryCode,
		OwnerID:     ws.OwnerID,
		Type:        ws.Type,
		CreatedAt:   ws.CreatedAt,
		UpdatedAt:   ws.UpdatedAt,
	}
}
