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

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, email, google_id, first_name, last_name, picture_url, created_at, updated_at`

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
	SELECT ` + userColumns + `
	FROM users
	WHERE id = $1
	`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
	SELECT ` + userColumns + `
	FROM users
	WHERE email = $1
	`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// Upsert creates the user on first sign-in and refreshes profile fields on
// subsequent sign-ins, keyed by the unique email.
func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	if user == nil || user.Email == "" {
		return domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO users (id, email, google_id, first_name, last_name, picture_url, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()), NOW())
	ON CONFLICT (email) DO UPDATE
	SET google_id = EXCLUDED.google_id,
		first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		picture_url = EXCLUDED.picture_url,
		updated_at = NOW()
	RETURNING id, created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	var id string
	if err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.GoogleID,
		user.FirstName,
		user.LastName,
		user.PictureURL,
		nullTime(user.CreatedAt),
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		return err
	}

	user.ID = id
	user.CreatedAt = createdAt
	user.UpdatedAt = updatedAt
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.GoogleID,
		&user.FirstName,
		&user.LastName,
		&user.PictureURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
