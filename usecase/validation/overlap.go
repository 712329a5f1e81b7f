package validation

import (
	"context"
	"time"

	"github.com/yearpeer/backend/repository"
)

// GoalOverlap decides whether a candidate date range collides with any of a
// user's existing goals. Pure read, no side effects.
type GoalOverlap struct {
	goals repository.GoalRepository
}

func NewGoalOverlap(goals repository.GoalRepository) *GoalOverlap {
	return &GoalOverlap{goals: goals}
}

// HasOverlap reports whether [start,end] shares at least one day with an
// existing goal of the user. excludeGoalID, when non-empty, removes that goal
// from the comparison set so an update cannot collide with itself.
//
// Precondition: start <= end. Ordering is enforced by field validation before
// this check runs; the validator itself is not defensive.
func (v *GoalOverlap) HasOverlap(ctx context.Context, userID string, start, end time.Time, excludeGoalID string) (bool, error) {
	return v.goals.AnyOverlapping(ctx, userID, start, end, excludeGoalID)
}
