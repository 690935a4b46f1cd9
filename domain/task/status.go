package task

import "time"

// RecalculateStatus derives a task's lifecycle status from its assignments,
// its due date and the current time. The rules form a strict priority
// cascade and their order is the tie-break:
//
//  1. every assignment completed (and at least one exists) -> COMPLETED
//  2. due date passed                                       -> OVERDUE
//  3. any assignment in progress                            -> IN_PROGRESS
//  4. any assignment pending                                -> TODO
//  5. otherwise                                             -> UPCOMING
//
// A finished task stays COMPLETED even when overdue. The function is pure:
// now is injected so date-boundary behavior is deterministic under test.
func RecalculateStatus(due time.Time, assignments []Assignment, now time.Time) TaskStatus {
	allCompleted := len(assignments) > 0
	anyInProgress := false
	anyPending := false

	for _, a := range assignments {
		switch a.Status {
		case AssignmentCompleted:
		case AssignmentInProgress:
			allCompleted = false
			anyInProgress = true
		case AssignmentPending:
			allCompleted = false
			anyPending = true
		default:
			// Unknown status cannot occur with the 3-value enum, but an
			// unexpected row must not count as completed.
			allCompleted = false
		}
	}

	if allCompleted {
		return StatusCompleted
	}
	if due.Before(now) {
		return StatusOverdue
	}
	if anyInProgress {
		return StatusInProgress
	}
	if anyPending {
		return StatusTodo
	}
	return StatusUpcoming
}

// Recompute derives the task's status and reports whether it differs from
// the stored snapshot. Callers persist the new value only when changed is
// true, which makes recomputation idempotent: a second run with the same
// inputs yields the same status and no further write.
func Recompute(stored TaskStatus, due time.Time, assignments []Assignment, now time.Time) (status TaskStatus, changed bool) {
	status = RecalculateStatus(due, assignments, now)
	return status, status != stored
}
