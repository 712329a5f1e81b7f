package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yearpeer/backend/domain"
	"github.com/yearpeer/backend/repository"
)

// Profile carries identity claims already verified by the external provider.
// The OAuth handshake itself happens outside this service.
type Profile struct {
	GoogleID   string
	Email      string
	FirstName  string
	LastName   string
	PictureURL string
}

// Credentials is what a successful sign-in hands back to the client.
type Credentials struct {
	Token   string          `json:"token"`
	User    *domain.User    `json:"user"`
	Session *domain.Session `json:"session"`
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	secret   string
	issuer   string
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, secret, issuer string, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		secret:   secret,
		issuer:   issuer,
		logger:   logger,
	}
}

// SignIn upserts the user record (created on first sign-in, profile fields
// refreshed afterwards), opens a session and mints a bearer token.
func (uc *UseCase) SignIn(ctx context.Context, profile Profile, ttl time.Duration) (*Credentials, error) {
	if profile.Email == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "email is required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	user := &domain.User{
		Email:      profile.Email,
		GoogleID:   profile.GoogleID,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		PictureURL: profile.PictureURL,
	}
	if err := uc.users.Upsert(ctx, user); err != nil {
		return nil, err
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	token, err := uc.mintToken(user.ID, session.ID, session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user signed in", zap.String("user_id", user.ID))
	return &Credentials{Token: token, User: user, Session: session}, nil
}

// Refresh extends the session and mints a fresh token.
func (uc *UseCase) Refresh(ctx context.Context, sessionID string, ttl time.Duration) (*Credentials, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}

	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}

	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)

	token, err := uc.mintToken(session.UserID, session.ID, session.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &Credentials{Token: token, Session: session}, nil
}

// Logout revokes the session.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) mintToken(userID, sessionID string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userID,
		"session_id": sessionID,
		"iss":        uc.issuer,
		"iat":        time.Now().Unix(),
		"exp":        expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(uc.secret))
}
