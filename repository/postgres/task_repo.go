package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yearpeer/backend/domain"
	"github.com/yearpeer/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, user_id, goal_id, title, description, date, completed, created_at, updated_at`

func (r *taskRepository) GetByID(ctx context.Context, id, userID string) (*domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE id = $1 AND user_id = $2
	`
	return scanTask(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = $1
	  AND date >= $2
	  AND date <= $3
	ORDER BY date ASC
	`
	rows, err := r.pool.Query(ctx, query, filter.UserID, filter.Start, filter.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, goal_id, title, description, date, completed)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		nullString(task.GoalID),
		task.Title,
		task.Description,
		task.Date,
		task.Completed,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET goal_id = $3,
		title = $4,
		description = $5,
		date = $6,
		completed = $7,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		nullString(task.GoalID),
		task.Title,
		task.Description,
		task.Date,
		task.Completed,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) CountOnDay(ctx context.Context, userID string, day time.Time) (int, error) {
	start, end := domain.DayBounds(day)

	const query = `
	SELECT COUNT(*) FROM tasks
	WHERE user_id = $1
	  AND date >= $2
	  AND date <= $3
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID, start, end).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var goalID *string

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&goalID,
		&task.Title,
		&task.Description,
		&task.Date,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	if goalID != nil {
		task.GoalID = *goalID
	}
	return &task, nil
}
