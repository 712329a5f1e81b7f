package repository

import (
	"context"
	"time"

	"github.com/yearpeer/backend/domain"
)

// GoalFilter narrows a user's goals. When both Start and End are set the
// inclusive-overlap predicate applies; otherwise a non-zero Year matches
// goals whose start or end falls within that year.
type GoalFilter struct {
	UserID string
	Year   int
	Start  time.Time
	End    time.Time
}

type GoalRepository interface {
	GetByID(ctx context.Context, id, userID string) (*domain.Goal, error)
	List(ctx context.Context, filter GoalFilter) ([]domain.Goal, error)
	Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error)
	Update(ctx context.Context, goal *domain.Goal) error
	Delete(ctx context.Context, id, userID string) error

	// AnyOverlapping reports whether any of the user's goals shares at least
	// one day with [start,end], skipping excludeID when non-empty.
	AnyOverlapping(ctx context.Context, userID string, start, end time.Time, excludeID string) (bool, error)

	// CountTouchingYear counts the user's goals whose start or end year matches.
	CountTouchingYear(ctx context.Context, userID string, year int) (int, error)
}
