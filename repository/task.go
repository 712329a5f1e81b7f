package repository

import (
	"context"
	"time"

	"github.com/yearpeer/backend/domain"
)

// TaskFilter selects a user's tasks whose date falls within [Start,End].
type TaskFilter struct {
	UserID string
	Start  time.Time
	End    time.Time
}

type TaskRepository interface {
	GetByID(ctx context.Context, id, userID string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id, userID string) error

	// CountOnDay counts the user's tasks on day's calendar date.
	CountOnDay(ctx context.Context, userID string, day time.Time) (int, error)
}
