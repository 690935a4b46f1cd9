package workspace

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// workspaceAdapter wraps ServiceContainer for type-safe cross-module
// communication. It implements the WorkspacePort interface.
type workspaceAdapter struct {
	container mono.ServiceContainer
}

// NewWorkspaceAdapter creates a new adapter for workspace services.
func NewWorkspaceAdapter(container mono.ServiceContainer) WorkspacePort {
	if container == nil {
		panic("workspace adapter requires non-nil ServiceContainer")
	}
	return &workspaceAdapter{container: container}
}

// GetWorkspace retrieves a workspace by ID via the get service.
func (a *workspaceAdapter) GetWorkspace(ctx context.Context, workspaceID string) (*WorkspaceResponse, error) {
	req := GetWorkspaceRequest{WorkspaceID: workspaceID}
	var resp WorkspaceResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("get service call failed: %w", err)
	}
	return &resp, nil
}

// ListForUser lists the workspaces a user owns or belongs to.
func (a *workspaceAdapter) ListForUser(ctx context.Context, userID string) (*ListWorkspacesResponse, error) {
	req := ListWorkspacesRequest{UserID: userID}
	var resp ListWorkspacesResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list service call failed: %w", err)
	}
	return &resp, nil
}

// IsMember reports whether a user belongs to a workspace.
func (a *workspaceAdapter) IsMember(ctx context.Context, workspaceID, userID string) (bool, error) {
	req := MembersRequest{WorkspaceID: workspaceID}
	var resp MembersResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "members", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return false, fmt.Errorf("members service call failed: %w", err)
	}
	for _, id := range resp.MemberIDs {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}
