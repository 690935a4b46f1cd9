package api

import (
	"github.com/example/taskbuddy/modules/workspace"
	"github.com/gofiber/fiber/v2"
)

// createWorkspace handles POST /api/v1/workspaces.
func (m *APIModule) createWorkspace(c *fiber.Ctx) error {
	var body createWorkspaceRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.Name == "" {
		return badRequest(c, "Name is required")
	}

	req := workspace.CreateWorkspaceRequest{
		Name:        body.Name,
		Description: body.Description,
		OwnerID:     currentUserID(c),
	}
	var resp workspace.WorkspaceResponse
	if err := call(c.Context(), m.workspaceC, "create", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// listWorkspaces handles GET /api/v1/workspaces.
func (m *APIModule) listWorkspaces(c *fiber.Ctx) error {
	req := workspace.ListWorkspacesRequest{UserID: currentUserID(c)}
	var resp workspace.ListWorkspacesResponse
	if err := call(c.Context(), m.workspaceC, "list", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// getWorkspace handles GET /api/v1/workspaces/:id. Only members can read a
// workspace.
func (m *APIModule) getWorkspace(c *fiber.Ctx) error {
	workspaceID := c.Params("id")
	if err := m.requireMembership(c, workspaceID); err != nil {
		return err
	}

	req := workspace.GetWorkspaceRequest{WorkspaceID: workspaceID}
	var resp workspace.WorkspaceResponse
	if err := call(c.Context(), m.workspaceC, "get", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// updateWorkspace handles PUT /api/v1/workspaces/:id. Only the owner may
// update.
func (m *APIModule) updateWorkspace(c *fiber.Ctx) error {
	ws, err := m.requireOwnership(c, c.Params("id"))
	if err != nil {
		return err
	}

	var body updateWorkspaceRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req := workspace.UpdateWorkspaceRequest{
		WorkspaceID: ws.ID,
		Name:        body.Name,
		Description: body.Description,
		Type:        body.Type,
	}
	var resp workspace.WorkspaceResponse
	if err := call(c.Context(), m.workspaceC, "update", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// deleteWorkspace handles DELETE /api/v1/workspaces/:id. Only the owner may
// delete.
func (m *APIModule) deleteWorkspace(c *fiber.Ctx) error {
	ws, err := m.requireOwnership(c, c.Params("id"))
	if err != nil {
		return err
	}

	req := workspace.DeleteWorkspaceRequest{WorkspaceID: ws.ID}
	var resp workspace.DeleteWorkspaceResponse
	if err := call(c.Context(), m.workspaceC, "delete", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// joinWorkspace handles POST /api/v1/workspaces/:id/join.
func (m *APIModule) joinWorkspace(c *fiber.Ctx) error {
	var body joinWorkspaceRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.EntryCode == "" {
		return badRequest(c, "Entry code is required")
	}

	req := workspace.JoinWorkspaceRequest{
		WorkspaceID: c.Params("id"),
		EntryCode:   body.EntryCode,
		UserID:      currentUserID(c),
	}
	var resp workspace.JoinWorkspaceResponse
	if err := call(c.Context(), m.workspaceC, "join", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// listMembers handles GET /api/v1/workspaces/:id/members.
func (m *APIModule) listMembers(c *fiber.Ctx) error {
	workspaceID := c.Params("id")
	if err := m.requireMembership(c, workspaceID); err != nil {
		return err
	}

	req := workspace.MembersRequest{WorkspaceID: workspaceID}
	var resp workspace.MembersResponse
	if err := call(c.Context(), m.workspaceC, "members", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// requireMembership rejects callers outside the workspace. A nil return
// means the caller may proceed.
func (m *APIModule) requireMembership(c *fiber.Ctx, workspaceID string) error {
	req := workspace.MembersRequest{WorkspaceID: workspaceID}
	var resp workspace.MembersResponse
	if err := call(c.Context(), m.workspaceC, "members", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	userID := currentUserID(c)
	for _, id := range resp.MemberIDs {
		if id == userID {
			return nil
		}
	}
	return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
		Error:   "forbidden",
		Message: "You are not a member of this workspace",
	})
}

// requireOwnership loads the workspace and rejects callers other than its
// owner.
func (m *APIModule) requireOwnership(c *fiber.Ctx, workspaceID string) (*workspace.WorkspaceResponse, error) {
	req := workspace.GetWorkspaceRequest{WorkspaceID: workspaceID}
	var resp workspace.WorkspaceResponse
	if err := call(c.Context(), m.workspaceC, "get", &req, &resp); err != nil {
		return nil, serviceError(c, err)
	}
	if resp.OwnerID != currentUserID(c) {
		return nil, c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "Only the workspace owner can do that",
		})
	}
	return &resp, nil
}
