// Package rollup derives a member's overall completion state across all
// tasks of a workspace from their per-task assignments.
package rollup

import "github.com/example/taskbuddy/domain/task"

// PerTask is a member's assignment view of a single workspace task.
// Assigned is false when the member has no assignment record on the task.
type PerTask struct {
	TaskID   string                `json:"task_id"`
	Assigned bool                  `json:"assigned"`
	Status   task.AssignmentStatus `json:"status"`
}

// Overall collapses a member's per-task assignments into one workspace-wide
// assignment status:
//
//   - COMPLETED when every task carries a COMPLETED assignment for the
//     member (vacuously true with zero tasks, matching "owned workspace is
//     fully done" semantics)
//   - else IN_PROGRESS when any assignment is in progress
//   - else PENDING, which is also the default for tasks the member has no
//     assignment on
//
// This is a pure read-side projection with no write effect.
func Overall(perTask []PerTask) task.AssignmentStatus {
	allCompleted := true
	anyInProgress := false

	for _, pt := range perTask {
		if !pt.Assigned {
			allCompleted = false
			continue
		}
		switch pt.Status {
		case task.AssignmentCompleted:
		case task.AssignmentInProgress:
			allCompleted = false
			anyInProgress = true
		default:
			allCompleted = false
		}
	}

	if allCompleted {
		return task.AssignmentCompleted
	}
	if anyInProgress {
		return task.AssignmentInProgress
	}
	return task.AssignmentPending
}
