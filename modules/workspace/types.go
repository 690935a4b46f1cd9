package workspace

import (
	"context"
	"time"

	domain "github.com/example/taskbuddy/domain/workspace"
)

// CreateWorkspaceRequest is the request for creating a workspace.
type CreateWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
}

// GetWorkspaceRequest is the request for getting a workspace.
type GetWorkspaceRequest struct {
	WorkspaceID string `json:"workspace_id"`
}

// UpdateWorkspaceRequest is the request for updating a workspace.
// Nil fields are left unchanged.
type UpdateWorkspaceRequest struct {
	WorkspaceID string                `json:"workspace_id"`
	Name        *string               `json:"name,omitempty"`
	Description *string               `json:"description,omitempty"`
	Type        *domain.WorkspaceType `json:"type,omitempty"`
}

// DeleteWorkspaceRequest is the request for deleting a workspace.
type DeleteWorkspaceRequest struct {
	WorkspaceID string `json:"workspace_id"`
}

// DeleteWorkspaceResponse is the response for deleting a workspace.
type DeleteWorkspaceResponse struct {
	Deleted bool `json:"deleted"`
}

// ListWorkspacesRequest is the request for listing a user's workspaces.
type ListWorkspacesRequest struct {
	UserID string `json:"user_id"`
}

// ListWorkspacesResponse lists the workspaces a user owns or belongs to.
type ListWorkspacesResponse struct {
	Owned  []WorkspaceResponse `json:"owned"`
	Member []WorkspaceResponse `json:"member"`
}

// JoinWorkspaceRequest is the request for joining a workspace by entry code.
type JoinWorkspaceRequest struct {
	WorkspaceID string `json:"workspace_id"`
	EntryCode   string `json:"entry_code"`
	UserID      string `json:"user_id"`
}

// JoinWorkspaceResponse is the response for a join request.
type JoinWorkspaceResponse struct {
	Joined        bool   `json:"joined"`
	AlreadyMember bool   `json:"already_member"`
	WorkspaceName string `json:"workspace_name"`
}

// MembersRequest is the request for listing workspace members.
type MembersRequest struct {
	WorkspaceID string `json:"workspace_id"`
}

// MembersResponse lists the member user IDs of a workspace.
type MembersResponse struct {
	MemberIDs []string `json:"member_ids"`
}

// WorkspaceResponse is the response for a single workspace.
type WorkspaceResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	EntryCode   string               `json:"entry_code"`
	OwnerID     string               `json:"owner_id"`
	Type        domain.WorkspaceType `json:"type"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// WorkspacePort defines the interface other modules use to reach workspace
// functionality.
type WorkspacePort interface {
	GetWorkspace(ctx context.Context, workspaceID string) (*WorkspaceResponse, error)
	ListForUser(ctx context.Context, userID string) (*ListWorkspacesResponse, error)
	IsMember(ctx context.Context, workspaceID, userID string) (bool, error)
}
