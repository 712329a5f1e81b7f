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

type goalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository returns a Postgres-backed implementation of GoalRepository.
func NewGoalRepository(pool *pgxpool.Pool) repository.GoalRepository {
	return &goalRepository{pool: pool}
}

const goalColumns = `id, user_id, title, description, start_date, end_date, color, impact, created_at, updated_at`

func (r *goalRepository) GetByID(ctx context.Context, id, userID string) (*domain.Goal, error) {
	const query = `
	SELECT ` + goalColumns + `
	FROM goals
	WHERE id = $1 AND user_id = $2
	`
	goal, err := scanGoal(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, err
	}
	if err := r.attachTasks(ctx, userID, []*domain.Goal{goal}); err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *goalRepository) List(ctx context.Context, filter repository.GoalFilter) ([]domain.Goal, error) {
	const query = `
	SELECT ` + goalColumns + `
	FROM goals
	WHERE user_id = $1
	  AND ($2::timestamptz IS NULL OR (start_date <= $3 AND end_date >= $2))
	  AND ($4::int = 0 OR $2::timestamptz IS NOT NULL
		   OR EXTRACT(YEAR FROM start_date) = $4 OR EXTRACT(YEAR FROM end_date) = $4)
	ORDER BY start_date ASC
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		nullTime(filter.Start),
		nullTime(filter.End),
		filter.Year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.Goal
	var refs []*domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
		refs = append(refs, &goals[len(goals)-1])
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachTasks(ctx, filter.UserID, refs); err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	if goal == nil {
		return nil, domain.ErrInvalidPayload
	}
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO goals (id, user_id, title, description, start_date, end_date, color, impact)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.StartDate,
		goal.EndDate,
		goal.Color,
		goal.Impact,
	).Scan(&goal.CreatedAt, &goal.UpdatedAt); err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	if goal == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE goals
	SET title = $3,
		description = $4,
		start_date = $5,
		end_date = $6,
		color = $7,
		impact = $8,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.StartDate,
		goal.EndDate,
		goal.Color,
		goal.Impact,
	).Scan(&goal.CreatedAt, &goal.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrGoalNotFound
		}
		return err
	}
	return nil
}

// Delete removes the goal. Tasks referencing it are detached, not deleted:
// the tasks.goal_id foreign key is declared ON DELETE SET NULL.
func (r *goalRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func (r *goalRepository) AnyOverlapping(ctx context.Context, userID string, start, end time.Time, excludeID string) (bool, error) {
	const query = `
	SELECT EXISTS (
		SELECT 1 FROM goals
		WHERE user_id = $1
		  AND ($4 = '' OR id <> $4)
		  AND start_date <= $3
		  AND end_date >= $2
	)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, start, end, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *goalRepository) CountTouchingYear(ctx context.Context, userID string, year int) (int, error) {
	const query = `
	SELECT COUNT(*) FROM goals
	WHERE user_id = $1
	  AND (EXTRACT(YEAR FROM start_date) = $2 OR EXTRACT(YEAR FROM end_date) = $2)
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID, year).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// attachTasks loads the tasks linked to each goal in a single query.
func (r *goalRepository) attachTasks(ctx context.Context, userID string, goals []*domain.Goal) error {
	if len(goals) == 0 {
		return nil
	}
	ids := make([]string, 0, len(goals))
	byID := make(map[string]*domain.Goal, len(goals))
	for _, g := range goals {
		ids = append(ids, g.ID)
		byID[g.ID] = g
	}

	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = $1 AND goal_id = ANY($2)
	ORDER BY date ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return err
		}
		if goal, ok := byID[task.GoalID]; ok {
			goal.Tasks = append(goal.Tasks, *task)
		}
	}
	return rows.Err()
}

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var goal domain.Goal
	if err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Title,
		&goal.Description,
		&goal.StartDate,
		&goal.EndDate,
		&goal.Color,
		&goal.Impact,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return &goal, nil
}
