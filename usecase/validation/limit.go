package validation

import (
	"context"
	"time"

	"github.com/yearpeer/backend/repository"
)

// DefaultTasksPerDay is the per-user daily task cap when none is configured.
const DefaultTasksPerDay = 5

// TaskLimit enforces the per-user, per-calendar-day task cap. The cap is fixed
// at construction from deployment configuration. Pure read, no side effects.
type TaskLimit struct {
	tasks       repository.TaskRepository
	tasksPerDay int
}

func NewTaskLimit(tasks repository.TaskRepository, tasksPerDay int) *TaskLimit {
	if tasksPerDay <= 0 {
		tasksPerDay = DefaultTasksPerDay
	}
	return &TaskLimit{tasks: tasks, tasksPerDay: tasksPerDay}
}

// Check reports whether adding additional tasks on date's calendar day keeps
// the user within the cap. True means within limit.
func (v *TaskLimit) Check(ctx context.Context, userID string, date time.Time, additional int) (bool, error) {
	existing, err := v.tasks.CountOnDay(ctx, userID, date)
	if err != nil {
		return false, err
	}
	return existing+additional <= v.tasksPerDay, nil
}

// Cap returns the configured daily task cap.
func (v *TaskLimit) Cap() int {
	return v.tasksPerDay
}
