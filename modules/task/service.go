package task

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/taskbuddy/domain/rollup"
	domain "github.com/example/taskbuddy/domain/task"
	"github.com/example/taskbuddy/events"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

var (
	// ErrInvalidTransition is returned when an assignment status move is not
	// on the forward path.
	ErrInvalidTransition = errors.New("invalid assignment status transition")
	// ErrNotMember is returned when a referenced user does not belong to the
	// workspace.
	ErrNotMember = errors.New("user is not a member of the workspace")
)

// createTask handles the create service request.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.Title == "" {
		return TaskResponse{}, fmt.Errorf("title is required")
	}
	if req.WorkspaceID == "" || req.OwnerID == "" {
		return TaskResponse{}, fmt.Errorf("workspace_id and owner_id are required")
	}
	if req.DueDate.IsZero() {
		return TaskResponse{}, fmt.Errorf("due_date is required")
	}
	if req.Priority == "" {
		req.Priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(req.Priority) {
		return TaskResponse{}, fmt.Errorf("invalid priority %q", req.Priority)
	}

	if err := m.requireMembers(ctx, req.WorkspaceID, append([]string{req.OwnerID}, req.AssigneeIDs...)); err != nil {
		return TaskResponse{}, err
	}

	taken, err := m.repo.TitleExistsInWorkspace(req.Title, req.WorkspaceID, "")
	if err != nil {
		return TaskResponse{}, fmt.Errorf("failed to check task title: %w", err)
	}
	if taken {
		return TaskResponse{}, ErrTitleTaken
	}

	now := time.Now()
	assignments := make([]domain.Assignment, 0, len(req.AssigneeIDs))
	for _, assigneeID := range dedupe(req.AssigneeIDs) {
		assignments = append(assignments, domain.Assignment{
			ID:         uuid.New().String(),
			AssigneeID: assigneeID,
			Status:     domain.AssignmentPending,
			AssignedAt: now,
		})
	}

	task := &domain.Task{
		ID:            uuid.New().String(),
		Title:         req.Title,
		Description:   req.Description,
		Status:        domain.RecalculateStatus(req.DueDate, assignments, now),
		Priority:      req.Priority,
		Category:      req.Category,
		AttachmentURL: req.AttachmentURL,
		DueDate:       req.DueDate,
		OwnerID:       req.OwnerID,
		WorkspaceID:   req.WorkspaceID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i := range assignments {
		assignments[i].TaskID = task.ID
	}

	if err := m.repo.CreateTask(task, assignments); err != nil {
		return TaskResponse{}, fmt.Errorf("failed to save task: %w", err)
	}

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:      task.ID,
			WorkspaceID: task.WorkspaceID,
			Title:       task.Title,
			OwnerID:     task.OwnerID,
			AssigneeIDs: assigneeIDs(assignments),
			CreatedAt:   now,
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskCreated event for task %s: %v", task.ID, err)
		}
	}

	return toTaskResponse(task, assignments), nil
}

// getTask handles the get service request.
func (m *TaskModule) getTask(_ context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.repo.FindTask(req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}
	assignments, err := m.repo.Assignments(task.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(task, assignments), nil
}

// updateTask handles the update service request. A non-nil AssigneeIDs
// replaces the whole assignee set: new assignees start at PENDING, removed
// assignees lose their progress row.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.repo.FindTask(req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return TaskResponse{}, fmt.Errorf("title cannot be empty")
		}
		taken, err := m.repo.TitleExistsInWorkspace(*req.Title, task.WorkspaceID, task.ID)
		if err != nil {
			return TaskResponse{}, fmt.Errorf("failed to check task title: %w", err)
		}
		if taken {
			return TaskResponse{}, ErrTitleTaken
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		if !domain.ValidPriority(*req.Priority) {
			return TaskResponse{}, fmt.Errorf("invalid priority %q", *req.Priority)
		}
		task.Priority = *req.Priority
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.AttachmentURL != nil {
		task.AttachmentURL = *req.AttachmentURL
	}
	if req.DueDate != nil {
		if req.DueDate.IsZero() {
			return TaskResponse{}, fmt.Errorf("due_date cannot be zero")
		}
		task.DueDate = *req.DueDate
	}

	now := time.Now()
	task.UpdatedAt = now
	if err := m.repo.UpdateTask(task); err != nil {
		return TaskResponse{}, fmt.Errorf("failed to save task: %w", err)
	}

	if req.AssigneeIDs != nil {
		if err := m.replaceAssignees(ctx, task, dedupe(*req.AssigneeIDs), now); err != nil {
			return TaskResponse{}, err
		}
	}

	// Due date or assignee changes can move the derived status.
	res, err := m.refreshTask(task.ID, now)
	if err != nil {
		return TaskResponse{}, err
	}
	task.Status = res.NewStatus

	assignments, err := m.repo.Assignments(task.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(task, assignments), nil
}

// replaceAssignees diffs the stored assignee set against the requested one.
// Existing assignments keep their progress.
func (m *TaskModule) replaceAssignees(ctx context.Context, task *domain.Task, want []string, now time.Time) error {
	if err := m.requireMembers(ctx, task.WorkspaceID, want); err != nil {
		return err
	}

	current, err := m.repo.Assignments(task.ID)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(current))
	for _, a := range current {
		have[a.AssigneeID] = true
	}
	wanted := make(map[string]bool, len(want))
	for _, id := range want {
		wanted[id] = true
	}

	for _, id := range want {
		if have[id] {
			continue
		}
		a := &domain.Assignment{
			ID:         uuid.New().String(),
			TaskID:     task.ID,
			AssigneeID: id,
			Status:     domain.AssignmentPending,
			AssignedAt: now,
		}
		if err := m.repo.CreateAssignment(a); err != nil {
			return fmt.Errorf("failed to add assignee %s: %w", id, err)
		}
		m.publishAssignmentUpdated(a, task.WorkspaceID, now)
	}
	for _, a := range current {
		if wanted[a.AssigneeID] {
			continue
		}
		if err := m.repo.DeleteAssignment(task.ID, a.AssigneeID); err != nil {
			return fmt.Errorf("failed to remove assignee %s: %w", a.AssigneeID, err)
		}
	}
	return nil
}

// deleteTask handles the delete service request.
func (m *TaskModule) deleteTask(_ context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	task, err := m.repo.FindTask(req.TaskID)
	if err != nil {
		return DeleteTaskResponse{Deleted: false}, err
	}

	if err := m.repo.DeleteTask(task.ID); err != nil {
		return DeleteTaskResponse{Deleted: false}, err
	}

	if m.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:      task.ID,
			WorkspaceID: task.WorkspaceID,
			DeletedAt:   time.Now(),
		}
		if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskDeleted event for task %s: %v", task.ID, err)
		}
	}

	return DeleteTaskResponse{Deleted: true}, nil
}

// listTasks handles the list service request.
func (m *TaskModule) listTasks(_ context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	if req.WorkspaceID == "" {
		return ListTasksResponse{}, fmt.Errorf("workspace_id is required")
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	tasks, total, err := m.repo.ListByWorkspace(req)
	if err != nil {
		return ListTasksResponse{}, err
	}

	resp := ListTasksResponse{
		Tasks:    make([]TaskResponse, 0, len(tasks)),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	resp.TotalPages = int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	for _, task := range tasks {
		assignments, err := m.repo.Assignments(task.ID)
		if err != nil {
			return ListTasksResponse{}, err
		}
		resp.Tasks = append(resp.Tasks, toTaskResponse(task, assignments))
	}
	return resp, nil
}

// updateAssignment handles one assignee's forward progress on one task. The
// task's derived status is recomputed afterwards under the task lock.
func (m *TaskModule) updateAssignment(_ context.Context, req UpdateAssignmentRequest, _ *mono.Msg) (UpdateAssignmentResponse, error) {
	if !domain.ValidAssignmentStatus(req.Status) {
		return UpdateAssignmentResponse{}, fmt.Errorf("invalid assignment status %q", req.Status)
	}

	task, err := m.repo.FindTask(req.TaskID)
	if err != nil {
		return UpdateAssignmentResponse{}, err
	}
	assignment, err := m.repo.FindAssignment(req.TaskID, req.AssigneeID)
	if err != nil {
		return UpdateAssignmentResponse{}, err
	}

	if !domain.CanTransition(assignment.Status, req.Status) {
		return UpdateAssignmentResponse{}, fmt.Errorf("%w: %s -> %s",
			ErrInvalidTransition, assignment.Status, req.Status)
	}

	now := time.Now()
	if err := m.repo.UpdateAssignmentStatus(assignment.ID, req.Status); err != nil {
		return UpdateAssignmentResponse{}, err
	}
	assignment.Status = req.Status
	m.publishAssignmentUpdated(assignment, task.WorkspaceID, now)

	res, err := m.refreshTask(task.ID, now)
	if err != nil {
		return UpdateAssignmentResponse{}, err
	}

	return UpdateAssignmentResponse{
		Assignment: toAssignmentResponse(assignment),
		TaskStatus: res.NewStatus,
	}, nil
}

// listAssignments handles the assignments service request.
func (m *TaskModule) listAssignments(_ context.Context, req ListAssignmentsRequest, _ *mono.Msg) (ListAssignmentsResponse, error) {
	if _, err := m.repo.FindTask(req.TaskID); err != nil {
		return ListAssignmentsResponse{}, err
	}
	assignments, err := m.repo.Assignments(req.TaskID)
	if err != nil {
		return ListAssignmentsResponse{}, err
	}
	resp := ListAssignmentsResponse{
		Assignments: make([]AssignmentResponse, 0, len(assignments)),
	}
	for i := range assignments {
		resp.Assignments = append(resp.Assignments, toAssignmentResponse(&assignments[i]))
	}
	return resp, nil
}

// refreshPage handles one page of the background status sweep. Individual
// recomputation failures are counted and logged, not propagated, so one bad
// row cannot stall the rest of the page.
func (m *TaskModule) refreshPage(_ context.Context, req RefreshPageRequest, _ *mono.Msg) (RefreshPageResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 100
	}

	ids, err := m.repo.PageTaskIDs(req.Page, req.PageSize)
	if err != nil {
		return RefreshPageResponse{}, fmt.Errorf("failed to page tasks: %w", err)
	}

	now := time.Now()
	resp := RefreshPageResponse{Scanned: len(ids)}
	for _, id := range ids {
		res, err := m.refreshTask(id, now)
		if err != nil {
			resp.Failed++
			log.Printf("[task] Failed to refresh status of task %s: %v", id, err)
			continue
		}
		if res.Changed {
			resp.Changed++
		}
	}
	return resp, nil
}

// userTasks handles the user-tasks service request: every task the user owns
// or is assigned to, deduplicated.
func (m *TaskModule) userTasks(_ context.Context, req UserTasksRequest, _ *mono.Msg) (UserTasksResponse, error) {
	owned, err := m.repo.TasksOwnedBy(req.UserID)
	if err != nil {
		return UserTasksResponse{}, err
	}
	assigned, err := m.repo.TasksAssignedTo(req.UserID)
	if err != nil {
		return UserTasksResponse{}, err
	}

	seen := make(map[string]bool, len(owned)+len(assigned))
	resp := UserTasksResponse{Tasks: make([]TaskResponse, 0, len(owned)+len(assigned))}
	for _, task := range append(owned, assigned...) {
		if seen[task.ID] {
			continue
		}
		seen[task.ID] = true
		assignments, err := m.repo.Assignments(task.ID)
		if err != nil {
			return UserTasksResponse{}, err
		}
		resp.Tasks = append(resp.Tasks, toTaskResponse(task, assignments))
	}
	return resp, nil
}

// memberProgress handles the member-progress service request: one member's
// overall status across every task of one workspace. Tasks the member is not
// assigned to count against completion.
func (m *TaskModule) memberProgress(_ context.Context, req MemberProgressRequest, _ *mono.Msg) (MemberProgressResponse, error) {
	tasks, err := m.repo.TasksInWorkspace(req.WorkspaceID)
	if err != nil {
		return MemberProgressResponse{}, err
	}
	byTask, err := m.repo.AssignmentsForUserInWorkspace(req.WorkspaceID, req.UserID)
	if err != nil {
		return MemberProgressResponse{}, err
	}

	perTask := make([]rollup.PerTask, 0, len(tasks))
	for _, task := range tasks {
		pt := rollup.PerTask{TaskID: task.ID}
		if a, ok := byTask[task.ID]; ok {
			pt.Assigned = true
			pt.Status = a.Status
		}
		perTask = append(perTask, pt)
	}

	return MemberProgressResponse{
		Overall: rollup.Overall(perTask),
		PerTask: perTask,
	}, nil
}

// requireMembers checks that every user ID belongs to the workspace.
func (m *TaskModule) requireMembers(ctx context.Context, workspaceID string, userIDs []string) error {
	for _, id := range dedupe(userIDs) {
		ok, err := m.workspacePort.IsMember(ctx, workspaceID, id)
		if err != nil {
			return fmt.Errorf("failed to check workspace membership: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotMember, id)
		}
	}
	return nil
}

// publishStatusChanged emits one TaskStatusChanged event for an actual
// transition.
func (m *TaskModule) publishStatusChanged(res recomputeResult, now time.Time) {
	if m.eventBus == nil {
		return
	}
	event := events.TaskStatusChangedEvent{
		TaskID:      res.TaskID,
		WorkspaceID: res.WorkspaceID,
		OldStatus:   res.OldStatus,
		NewStatus:   res.NewStatus,
		ChangedAt:   now,
	}
	if err := events.TaskStatusChangedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[task] Warning: failed to publish TaskStatusChanged event for task %s: %v", res.TaskID, err)
	}
}

// publishAssignmentUpdated emits one AssignmentUpdated event.
func (m *TaskModule) publishAssignmentUpdated(a *domain.Assignment, workspaceID string, now time.Time) {
	if m.eventBus == nil {
		return
	}
	event := events.AssignmentUpdatedEvent{
		AssignmentID: a.ID,
		TaskID:       a.TaskID,
		WorkspaceID:  workspaceID,
		AssigneeID:   a.AssigneeID,
		Status:       a.Status,
		UpdatedAt:    now,
	}
	if err := events.AssignmentUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[task] Warning: failed to publish AssignmentUpdated event for assignment %s: %v", a.ID, err)
	}
}

// dedupe returns ids without duplicates, preserving order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func assigneeIDs(assignments []domain.Assignment) []string {
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.AssigneeID)
	}
	return ids
}

// toTaskResponse converts a domain Task to a TaskResponse.
func toTaskResponse(task *domain.Task, assignments []domain.Assignment) TaskResponse {
	return TaskResponse{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Status:        task.Status,
		Priority:      task.Priority,
		Category:      task.Category,
		AttachmentURL: task.AttachmentURL,
		DueDate:       task.DueDate,
		OwnerID:       task.OwnerID,
		WorkspaceID:   task.WorkspaceID,
		AssigneeIDs:   assigneeIDs(assignments),
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}

// toAssignmentResponse converts a domain Assignment to an AssignmentResponse.
func toAssignmentResponse(a *domain.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:         a.ID,
		TaskID:     a.TaskID,
		AssigneeID: a.AssigneeID,
		Status:     a.Status,
		AssignedAt: a.AssignedAt,
	}
}
