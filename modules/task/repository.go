package task

import (
	"errors"
	"strings"
	"time"

	domain "github.com/example/taskbuddy/domain/task"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound is returned when a task does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrAssignmentNotFound is returned when an assignment does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrTitleTaken is returned when a workspace already has a task with the
	// same title.
	ErrTitleTaken = errors.New("task title already used in workspace")
)

// Repository provides data access for tasks and assignments.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Transaction runs fn inside a database transaction.
func (r *Repository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// CreateTask persists a task together with its initial assignments.
func (r *Repository) CreateTask(task *domain.Task, assignments []domain.Assignment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		for i := range assignments {
			if err := tx.Create(&assignments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindTask returns a task by ID.
func (r *Repository) FindTask(id string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// TitleExistsInWorkspace reports whether another task in the workspace
// already uses the title. excludeID skips the task being renamed.
func (r *Repository) TitleExistsInWorkspace(title, workspaceID, excludeID string) (bool, error) {
	var count int64
	q := r.db.Model(&domain.Task{}).
		Where("workspace_id = ? AND LOWER(title) = LOWER(?)", workspaceID, title)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateTask saves changes to a task.
func (r *Repository) UpdateTask(task *domain.Task) error {
	result := r.db.Save(task)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// DeleteTask removes a task and its assignments.
func (r *Repository) DeleteTask(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&domain.Assignment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Task{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

// sortColumn maps a caller-supplied sort key to a safe ORDER BY clause.
func sortColumn(sortBy string) string {
	switch sortBy {
	case "priority":
		// HIGH before MEDIUM before LOW.
		return "CASE priority WHEN 'HIGH' THEN 0 WHEN 'MEDIUM' THEN 1 ELSE 2 END, due_date ASC"
	case "created_at":
		return "created_at DESC"
	case "title":
		return "LOWER(title) ASC"
	default:
		return "due_date ASC"
	}
}

// ListByWorkspace returns one page of a workspace's tasks plus the total
// matching count.
func (r *Repository) ListByWorkspace(req ListTasksRequest) ([]*domain.Task, int64, error) {
	q := r.db.Model(&domain.Task{}).Where("workspace_id = ?", req.WorkspaceID)
	if req.Status != "" {
		q = q.Where("status = ?", req.Status)
	}
	if req.Priority != "" {
		q = q.Where("priority = ?", req.Priority)
	}
	if req.Category != "" {
		q = q.Where("LOWER(category) = LOWER(?)", req.Category)
	}
	if req.Title != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(req.Title)+"%")
	}
	if req.DueFrom != nil {
		q = q.Where("due_date >= ?", *req.DueFrom)
	}
	if req.DueTo != nil {
		q = q.Where("due_date <= ?", *req.DueTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []*domain.Task
	err := q.Order(sortColumn(req.SortBy)).
		Offset((req.Page - 1) * req.PageSize).
		Limit(req.PageSize).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// PageTaskIDs returns one page of task IDs ordered by ID. Used by the
// background sweep to walk the whole table deterministically.
func (r *Repository) PageTaskIDs(page, pageSize int) ([]string, error) {
	var ids []string
	err := r.db.Model(&domain.Task{}).
		Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Pluck("id", &ids).Error
	return ids, err
}

// TasksOwnedBy returns all tasks owned by a user.
func (r *Repository) TasksOwnedBy(userID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.Where("owner_id = ?", userID).Find(&tasks).Error
	return tasks, err
}

// TasksAssignedTo returns all tasks the user has an assignment on.
func (r *Repository) TasksAssignedTo(userID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("task_assignments.assignee_id = ?", userID).
		Find(&tasks).Error
	return tasks, err
}

// TasksInWorkspace returns every task of a workspace.
func (r *Repository) TasksInWorkspace(workspaceID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.Where("workspace_id = ?", workspaceID).Order("id ASC").Find(&tasks).Error
	return tasks, err
}

// Assignments returns all assignments of a task.
func (r *Repository) Assignments(taskID string) ([]domain.Assignment, error) {
	var assignments []domain.Assignment
	err := r.db.Where("task_id = ?", taskID).Order("assigned_at ASC").Find(&assignments).Error
	return assignments, err
}

// FindAssignment returns one assignee's assignment on one task.
func (r *Repository) FindAssignment(taskID, assigneeID string) (*domain.Assignment, error) {
	var a domain.Assignment
	err := r.db.Where("task_id = ? AND assignee_id = ?", taskID, assigneeID).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// CreateAssignment persists a new assignment.
func (r *Repository) CreateAssignment(a *domain.Assignment) error {
	return r.db.Create(a).Error
}

// DeleteAssignment removes one assignee from one task.
func (r *Repository) DeleteAssignment(taskID, assigneeID string) error {
	result := r.db.Where("task_id = ? AND assignee_id = ?", taskID, assigneeID).
		Delete(&domain.Assignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

// UpdateAssignmentStatus moves one assignment to a new status.
func (r *Repository) UpdateAssignmentStatus(id string, status domain.AssignmentStatus) error {
	result := r.db.Model(&domain.Assignment{}).Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

// AssignmentsForUserInWorkspace returns the user's assignments across all
// tasks of one workspace, keyed by task ID.
func (r *Repository) AssignmentsForUserInWorkspace(workspaceID, userID string) (map[string]domain.Assignment, error) {
	var assignments []domain.Assignment
	err := r.db.
		Joins("JOIN tasks ON tasks.id = task_assignments.task_id").
		Where("tasks.workspace_id = ? AND task_assignments.assignee_id = ?", workspaceID, userID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	byTask := make(map[string]domain.Assignment, len(assignments))
	for _, a := range assignments {
		byTask[a.TaskID] = a
	}
	return byTask, nil
}

// touchTask updates the stored status and timestamp of a task inside tx.
func touchTask(tx *gorm.DB, id string, status domain.TaskStatus, now time.Time) error {
	return tx.Model(&domain.Task{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": now}).Error
}
