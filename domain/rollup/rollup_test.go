package rollup

import (
	"testing"

	"github.com/example/taskbuddy/domain/task"
)

func assigned(id string, status task.AssignmentStatus) PerTask {
	return PerTask{TaskID: id, Assigned: true, Status: status}
}

func unassigned(id string) PerTask {
	return PerTask{TaskID: id, Assigned: false}
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name    string
		perTask []PerTask
		want    task.AssignmentStatus
	}{
		{
			name:    "zero tasks is vacuously completed",
			perTask: nil,
			want:    task.AssignmentCompleted,
		},
		{
			name: "all completed",
			perTask: []PerTask{
				assigned("t1", task.AssignmentCompleted),
				assigned("t2", task.AssignmentCompleted),
			},
			want: task.AssignmentCompleted,
		},
		{
			name: "missing assignment defaults to pending not completed",
			perTask: []PerTask{
				assigned("t1", task.AssignmentCompleted),
				assigned("t2", task.AssignmentCompleted),
				unassigned("t3"),
			},
			want: task.AssignmentPending,
		},
		{
			name: "any in progress wins over pending",
			perTask: []PerTask{
				assigned("t1", task.AssignmentPending),
				assigned("t2", task.AssignmentInProgress),
				unassigned("t3"),
			},
			want: task.AssignmentInProgress,
		},
		{
			name: "completed plus in progress is in progress",
			perTask: []PerTask{
				assigned("t1", task.AssignmentCompleted),
				assigned("t2", task.AssignmentInProgress),
			},
			want: task.AssignmentInProgress,
		},
		{
			name: "no assignments at all resolves to pending",
			perTask: []PerTask{
				unassigned("t1"),
				unassigned("t2"),
			},
			want: task.AssignmentPending,
		},
		{
			name: "pending only",
			perTask: []PerTask{
				assigned("t1", task.AssignmentPending),
			},
			want: task.AssignmentPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overall(tt.perTask); got != tt.want {
				t.Errorf("Overall() = %v, want %v", got, tt.want)
			}
		})
	}
}
