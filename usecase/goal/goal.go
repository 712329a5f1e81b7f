package goal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yearpeer/backend/domain"
	"github.com/yearpeer/backend/repository"
	"github.com/yearpeer/backend/usecase"
	"github.com/yearpeer/backend/usecase/validation"
)

// UseCase implements goal CRUD with the overlap invariant checked on every
// boundary-affecting transition.
type UseCase struct {
	goals           repository.GoalRepository
	overlap         *validation.GoalOverlap
	buffer          usecase.OperationBuffer
	maxGoalsPerYear int
	logger          *zap.Logger
}

func New(goals repository.GoalRepository, overlap *validation.GoalOverlap, buffer usecase.OperationBuffer, maxGoalsPerYear int, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		goals:           goals,
		overlap:         overlap,
		buffer:          buffer,
		maxGoalsPerYear: maxGoalsPerYear,
		logger:          logger,
	}
}

// List returns the user's goals with their tasks attached. An explicit
// [start,end] range filters by inclusive overlap; otherwise a non-zero year
// matches goals whose start or end falls within that year.
func (uc *UseCase) List(ctx context.Context, userID string, year int, start, end time.Time) ([]domain.Goal, error) {
	filter := repository.GoalFilter{UserID: userID, Year: year}
	if !start.IsZero() && !end.IsZero() {
		filter.Start = start
		filter.End = end
		filter.Year = 0
	}
	return uc.goals.List(ctx, filter)
}

func (uc *UseCase) Get(ctx context.Context, id, userID string) (*domain.Goal, error) {
	return uc.goals.GetByID(ctx, id, userID)
}

func (uc *UseCase) Create(ctx context.Context, userID string, goal *domain.Goal) (*domain.Goal, error) {
	if goal == nil {
		return nil, domain.ErrInvalidPayload
	}
	goal.UserID = userID
	goal.ID = ""

	if err := goal.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkYearCapacity(ctx, userID, goal.StartDate.Year()); err != nil {
		return nil, err
	}

	overlaps, err := uc.overlap.HasOverlap(ctx, userID, goal.StartDate, goal.EndDate, "")
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, domain.NewError(domain.ErrCodeInvalid, "a goal already exists during this time period")
	}

	created, err := uc.goals.Create(ctx, goal)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, goal, err) {
			return goal, nil
		}
		return nil, err
	}
	return created, nil
}

// Update replaces all mutable fields after re-validating the overlap invariant
// with the goal itself excluded from the comparison set.
func (uc *UseCase) Update(ctx context.Context, id, userID string, goal *domain.Goal) (*domain.Goal, error) {
	if goal == nil {
		return nil, domain.ErrInvalidPayload
	}

	existing, err := uc.goals.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	goal.ID = existing.ID
	goal.UserID = userID
	goal.CreatedAt = existing.CreatedAt

	if err := goal.Validate(); err != nil {
		return nil, err
	}

	overlaps, err := uc.overlap.HasOverlap(ctx, userID, goal.StartDate, goal.EndDate, id)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, domain.NewError(domain.ErrCodeInvalid, "a goal already exists during this time period")
	}

	if err := uc.goals.Update(ctx, goal); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, goal, err) {
			return goal, nil
		}
		return nil, err
	}
	return goal, nil
}

// Delete removes the goal. Associated tasks survive with their goal reference
// cleared by the storage layer's referential rule.
func (uc *UseCase) Delete(ctx context.Context, id, userID string) error {
	if err := uc.goals.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return err
		}
		goal := &domain.Goal{ID: id, UserID: userID}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, goal, err) {
			return nil
		}
		return err
	}
	return nil
}

func (uc *UseCase) checkYearCapacity(ctx context.Context, userID string, year int) error {
	if uc.maxGoalsPerYear <= 0 {
		return nil
	}
	count, err := uc.goals.CountTouchingYear(ctx, userID, year)
	if err != nil {
		return err
	}
	if count >= uc.maxGoalsPerYear {
		return domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("cannot exceed %d goals per year", uc.maxGoalsPerYear))
	}
	return nil
}

// shouldBuffer persists the operation for later replay when primary storage
// fails. Domain-level rejections are final and are never buffered.
func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, goal *domain.Goal, cause error) bool {
	if uc.buffer == nil {
		return false
	}
	var dErr *domain.Error
	if errors.As(cause, &dErr) {
		return false
	}
	if err := uc.buffer.BufferGoal(ctx, operation, goal); err != nil {
		uc.logger.Error("failed to buffer goal operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("goal operation buffered", zap.String("operation", operation), zap.Error(cause))
	return true
}
