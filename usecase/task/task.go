package task

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

// UseCase implements task CRUD with the per-day cap checked on create and on
// any update that moves the task to a different calendar day.
type UseCase struct {
	tasks          repository.TaskRepository
	goals          repository.GoalRepository
	limit          *validation.TaskLimit
	buffer         usecase.OperationBuffer
	maxDescription int
	logger         *zap.Logger
}

func New(tasks repository.TaskRepository, goals repository.GoalRepository, limit *validation.TaskLimit, buffer usecase.OperationBuffer, maxDescription int, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:          tasks,
		goals:          goals,
		limit:          limit,
		buffer:         buffer,
		maxDescription: maxDescription,
		logger:         logger,
	}
}

// List returns the user's tasks with date in [start,end], ordered by date.
func (uc *UseCase) List(ctx context.Context, userID string, start, end time.Time) ([]domain.Task, error) {
	return uc.tasks.List(ctx, repository.TaskFilter{UserID: userID, Start: start, End: end})
}

func (uc *UseCase) Get(ctx context.Context, id, userID string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id, userID)
}

func (uc *UseCase) Create(ctx context.Context, userID string, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	task.UserID = userID
	task.ID = ""

	if err := task.Validate(uc.maxDescription); err != nil {
		return nil, err
	}
	if err := uc.checkGoalOwnership(ctx, userID, task.GoalID); err != nil {
		return nil, err
	}

	ok, err := uc.limit.Check(ctx, userID, task.Date, 1)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, uc.limitError()
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, task, err) {
			return task, nil
		}
		return nil, err
	}
	return created, nil
}

// Update replaces all mutable fields. The day cap is re-checked only when the
// task moves to a different calendar day; the destination-day count does not
// subtract a slot for the task itself, since it is not on that day yet.
func (uc *UseCase) Update(ctx context.Context, id, userID string, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	existing, err := uc.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	task.ID = existing.ID
	task.UserID = userID
	task.CreatedAt = existing.CreatedAt

	if err := task.Validate(uc.maxDescription); err != nil {
		return nil, err
	}
	if task.GoalID != existing.GoalID {
		if err := uc.checkGoalOwnership(ctx, userID, task.GoalID); err != nil {
			return nil, err
		}
	}

	if !domain.SameDay(existing.Date, task.Date) {
		ok, err := uc.limit.Check(ctx, userID, task.Date, 1)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, uc.limitError()
		}
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, task, err) {
			return task, nil
		}
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) Delete(ctx context.Context, id, userID string) error {
	if err := uc.tasks.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		task := &domain.Task{ID: id, UserID: userID}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, task, err) {
			return nil
		}
		return err
	}
	return nil
}

// GroupByDate buckets the user's tasks in [start,end] by calendar-day key.
func (uc *UseCase) GroupByDate(ctx context.Context, userID string, start, end time.Time) (map[string][]domain.Task, error) {
	tasks, err := uc.List(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]domain.Task)
	for _, t := range tasks {
		key := domain.DayKey(t.Date)
		grouped[key] = append(grouped[key], t)
	}
	return grouped, nil
}

// checkGoalOwnership rejects references to goals the caller does not own.
// An existing goal owned by someone else is indistinguishable from an absent one.
func (uc *UseCase) checkGoalOwnership(ctx context.Context, userID, goalID string) error {
	if goalID == "" {
		return nil
	}
	if _, err := uc.goals.GetByID(ctx, goalID, userID); err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return domain.NewError(domain.ErrCodeInvalid, "referenced goal does not exist")
		}
		return err
	}
	return nil
}

func (uc *UseCase) limitError() error {
	return domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("cannot exceed %d tasks per day", uc.limit.Cap()))
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task, cause error) bool {
	if uc.buffer == nil {
		return false
	}
	var dErr *domain.Error
	if errors.As(cause, &dErr) {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation), zap.Error(cause))
	return true
}
