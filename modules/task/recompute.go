package task

import (
	"errors"
	"sync"
	"time"

	domain "github.com/example/taskbuddy/domain/task"
	"gorm.io/gorm"
)

// taskLocks serializes recomputations per task so concurrent assignment
// updates on the same task cannot interleave their read-compute-write
// cycles. SQLite gives us no row-level locks, so the serialization happens
// here.
type taskLocks struct {
	mu    sync.Mutex
	locks map[string]*taskLock
}

type taskLock struct {
	sync.Mutex
	refs int
}

func newTaskLocks() *taskLocks {
	return &taskLocks{locks: make(map[string]*taskLock)}
}

// acquire locks the mutex for taskID and returns a release function.
func (l *taskLocks) acquire(taskID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[taskID]
	if !ok {
		lock = &taskLock{}
		l.locks[taskID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, taskID)
		}
		l.mu.Unlock()
	}
}

// recomputeResult describes the outcome of one status recomputation.
type recomputeResult struct {
	TaskID      string
	WorkspaceID string
	OldStatus   domain.TaskStatus
	NewStatus   domain.TaskStatus
	Changed     bool
}

// recomputeStatus re-derives a task's status from its assignments and due
// date, persisting the new value only when it differs from the stored one.
// The whole read-compute-write cycle runs under the task's lock and inside
// one transaction, so repeated calls with unchanged inputs write nothing.
func (m *TaskModule) recomputeStatus(taskID string, now time.Time) (recomputeResult, error) {
	release := m.locks.acquire(taskID)
	defer release()

	var res recomputeResult
	err := m.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := m.repo.WithTx(tx)

		task, err := txRepo.FindTask(taskID)
		if err != nil {
			return err
		}
		assignments, err := txRepo.Assignments(taskID)
		if err != nil {
			return err
		}

		status, changed := domain.Recompute(task.Status, task.DueDate, assignments, now)
		res = recomputeResult{
			TaskID:      task.ID,
			WorkspaceID: task.WorkspaceID,
			OldStatus:   task.Status,
			NewStatus:   status,
			Changed:     changed,
		}
		if !changed {
			return nil
		}
		return touchTask(tx, task.ID, status, now)
	})
	if err != nil {
		return recomputeResult{}, err
	}
	return res, nil
}

// refreshTask recomputes one task and publishes a status change event when
// the stored status actually moved.
func (m *TaskModule) refreshTask(taskID string, now time.Time) (recomputeResult, error) {
	res, err := m.recomputeStatus(taskID, now)
	if err != nil {
		// The task may have been deleted between page listing and
		// recomputation; that is not an error for the caller.
		if errors.Is(err, ErrTaskNotFound) {
			return recomputeResult{TaskID: taskID}, nil
		}
		return recomputeResult{}, err
	}
	if res.Changed {
		m.publishStatusChanged(res, now)
	}
	return res, nil
}
