package api

import (
	"time"

	domain "github.com/example/taskbuddy/domain/task"
	"github.com/example/taskbuddy/modules/task"
	"github.com/gofiber/fiber/v2"
)

// createTask handles POST /api/v1/workspaces/:id/tasks.
func (m *APIModule) createTask(c *fiber.Ctx) error {
	workspaceID := c.Params("id")
	if err := m.requireMembership(c, workspaceID); err != nil {
		return err
	}

	var body createTaskRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.Title == "" {
		return badRequest(c, "Title is required")
	}
	if body.DueDate.IsZero() {
		return badRequest(c, "Due date is required")
	}

	req := task.CreateTaskRequest{
		Title:         body.Title,
		Description:   body.Description,
		Priority:      body.Priority,
		Category:      body.Category,
		AttachmentURL: body.AttachmentURL,
		DueDate:       body.DueDate,
		OwnerID:       currentUserID(c),
		WorkspaceID:   workspaceID,
		AssigneeIDs:   body.AssigneeIDs,
	}
	var resp task.TaskResponse
	if err := call(c.Context(), m.taskC, "create", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// listTasks handles GET /api/v1/workspaces/:id/tasks with status, priority,
// category, title, due_from, due_to (RFC 3339), sort_by, page and page_size
// query parameters.
func (m *APIModule) listTasks(c *fiber.Ctx) error {
	workspaceID := c.Params("id")
	if err := m.requireMembership(c, workspaceID); err != nil {
		return err
	}

	req := task.ListTasksRequest{
		WorkspaceID: workspaceID,
		Status:      domain.TaskStatus(c.Query("status")),
		Priority:    domain.TaskPriority(c.Query("priority")),
		Category:    c.Query("category"),
		Title:       c.Query("title"),
		SortBy:      c.Query("sort_by"),
		Page:        c.QueryInt("page", 1),
		PageSize:    c.QueryInt("page_size", 20),
	}
	if raw := c.Query("due_from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return badRequest(c, "due_from must be an RFC 3339 timestamp")
		}
		req.DueFrom = &from
	}
	if raw := c.Query("due_to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return badRequest(c, "due_to must be an RFC 3339 timestamp")
		}
		req.DueTo = &to
	}
	var resp task.ListTasksResponse
	if err := call(c.Context(), m.taskC, "list", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// getTask handles GET /api/v1/tasks/:id.
func (m *APIModule) getTask(c *fiber.Ctx) error {
	req := task.GetTaskRequest{TaskID: c.Params("id")}
	var resp task.TaskResponse
	if err := call(c.Context(), m.taskC, "get", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	if err := m.requireMembership(c, resp.WorkspaceID); err != nil {
		return err
	}
	return c.JSON(resp)
}

// updateTask handles PUT /api/v1/tasks/:id.
func (m *APIModule) updateTask(c *fiber.Ctx) error {
	taskID := c.Params("id")

	getReq := task.GetTaskRequest{TaskID: taskID}
	var current task.TaskResponse
	if err := call(c.Context(), m.taskC, "get", &getReq, &current); err != nil {
		return serviceError(c, err)
	}
	if err := m.requireMembership(c, current.WorkspaceID); err != nil {
		return err
	}

	var body updateTaskRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req := task.UpdateTaskRequest{
		TaskID:        taskID,
		Title:         body.Title,
		Description:   body.Description,
		Priority:      body.Priority,
		Category:      body.Category,
		AttachmentURL: body.AttachmentURL,
		DueDate:       body.DueDate,
		AssigneeIDs:   body.AssigneeIDs,
	}
	var resp task.TaskResponse
	if err := call(c.Context(), m.taskC, "update", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// deleteTask handles DELETE /api/v1/tasks/:id. Only the task owner may
// delete.
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	taskID := c.Params("id")

	getReq := task.GetTaskRequest{TaskID: taskID}
	var current task.TaskResponse
	if err := call(c.Context(), m.taskC, "get", &getReq, &current); err != nil {
		return serviceError(c, err)
	}
	if current.OwnerID != currentUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "Only the task owner can delete it",
		})
	}

	req := task.DeleteTaskRequest{TaskID: taskID}
	var resp task.DeleteTaskResponse
	if err := call(c.Context(), m.taskC, "delete", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// listAssignments handles GET /api/v1/tasks/:id/assignments.
func (m *APIModule) listAssignments(c *fiber.Ctx) error {
	taskID := c.Params("id")

	getReq := task.GetTaskRequest{TaskID: taskID}
	var current task.TaskResponse
	if err := call(c.Context(), m.taskC, "get", &getReq, &current); err != nil {
		return serviceError(c, err)
	}
	if err := m.requireMembership(c, current.WorkspaceID); err != nil {
		return err
	}

	req := task.ListAssignmentsRequest{TaskID: taskID}
	var resp task.ListAssignmentsResponse
	if err := call(c.Context(), m.taskC, "assignments", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// updateAssignment handles PUT /api/v1/tasks/:id/assignment. The caller can
// only move their own assignment.
func (m *APIModule) updateAssignment(c *fiber.Ctx) error {
	var body updateAssignmentRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.Status == "" {
		return badRequest(c, "Status is required")
	}

	req := task.UpdateAssignmentRequest{
		TaskID:     c.Params("id"),
		AssigneeID: currentUserID(c),
		Status:     body.Status,
	}
	var resp task.UpdateAssignmentResponse
	if err := call(c.Context(), m.taskC, "update-assignment", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}
