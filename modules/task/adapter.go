package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// taskAdapter wraps ServiceContainer for type-safe cross-module
// communication. It implements the TaskPort interface.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// GetTask retrieves a task by ID via the get service.
func (a *taskAdapter) GetTask(ctx context.Context, taskID string) (*TaskResponse, error) {
	req := GetTaskRequest{TaskID: taskID}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("get service call failed: %w", err)
	}
	return &resp, nil
}

// ListTasks lists one page of a workspace's tasks.
func (a *taskAdapter) ListTasks(ctx context.Context, req ListTasksRequest) (*ListTasksResponse, error) {
	var resp ListTasksResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list service call failed: %w", err)
	}
	return &resp, nil
}

// UserTasks lists every task a user owns or is assigned to.
func (a *taskAdapter) UserTasks(ctx context.Context, userID string) ([]TaskResponse, error) {
	req := UserTasksRequest{UserID: userID}
	var resp UserTasksResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "user-tasks", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("user-tasks service call failed: %w", err)
	}
	return resp.Tasks, nil
}

// MemberProgress aggregates a member's progress across one workspace.
func (a *taskAdapter) MemberProgress(ctx context.Context, workspaceID, userID string) (*MemberProgressResponse, error) {
	req := MemberProgressRequest{WorkspaceID: workspaceID, UserID: userID}
	var resp MemberProgressResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "member-progress", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("member-progress service call failed: %w", err)
	}
	return &resp, nil
}

// RefreshPage recomputes one page of task statuses.
func (a *taskAdapter) RefreshPage(ctx context.Context, page, pageSize int) (*RefreshPageResponse, error) {
	req := RefreshPageRequest{Page: page, PageSize: pageSize}
	var resp RefreshPageResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "refresh-page", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("refresh-page service call failed: %w", err)
	}
	return &resp, nil
}
