package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/yearpeer/backend/domain"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) Upsert(ctx context.Context, user *domain.User) error {
	if existing, ok := f.byEmail[user.Email]; ok {
		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
	} else {
		user.ID = uuid.NewString()
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = time.Now()
	stored := *user
	f.byEmail[user.Email] = &stored
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (f *fakeSessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionRepo) Save(ctx context.Context, session *domain.Session) error {
	stored := *session
	f.sessions[session.ID] = &stored
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) Extend(ctx context.Context, id string, ttlSeconds int) error {
	s, ok := f.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.ExpiresAt = time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	return nil
}

const testSecret = "test-secret"

func newUseCase(users *fakeUserRepo, sessions *fakeSessionRepo) *UseCase {
	return New(users, sessions, testSecret, "yearpeer", nil)
}

func parseClaims(t *testing.T, tokenString string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", token.Claims)
	}
	return claims
}

func TestSignIn_CreatesUserSessionAndToken(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	uc := newUseCase(users, sessions)

	creds, err := uc.SignIn(context.Background(), Profile{
		GoogleID:  "google-123",
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if creds.User == nil || creds.User.ID == "" {
		t.Fatalf("user not created: %+v", creds.User)
	}
	if creds.Session == nil || creds.Session.UserID != creds.User.ID {
		t.Fatalf("session not bound to user: %+v", creds.Session)
	}
	if _, ok := sessions.sessions[creds.Session.ID]; !ok {
		t.Fatalf("session not persisted")
	}

	claims := parseClaims(t, creds.Token)
	if claims["user_id"] != creds.User.ID {
		t.Fatalf("token user claim mismatch: %v", claims["user_id"])
	}
	if claims["session_id"] != creds.Session.ID {
		t.Fatalf("token session claim mismatch: %v", claims["session_id"])
	}
	if claims["iss"] != "yearpeer" {
		t.Fatalf("token issuer mismatch: %v", claims["iss"])
	}
}

func TestSignIn_SecondSignInKeepsIdentity(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	uc := newUseCase(users, sessions)
	ctx := context.Background()

	first, err := uc.SignIn(ctx, Profile{Email: "ada@example.com", FirstName: "Ada"}, time.Hour)
	if err != nil {
		t.Fatalf("first sign-in failed: %v", err)
	}
	second, err := uc.SignIn(ctx, Profile{Email: "ada@example.com", FirstName: "Augusta"}, time.Hour)
	if err != nil {
		t.Fatalf("second sign-in failed: %v", err)
	}

	if first.User.ID != second.User.ID {
		t.Fatalf("repeat sign-in must reuse the user record")
	}
	if second.User.FirstName != "Augusta" {
		t.Fatalf("profile fields must refresh on sign-in, got %q", second.User.FirstName)
	}
	if first.Session.ID == second.Session.ID {
		t.Fatalf("each sign-in opens a fresh session")
	}
}

func TestSignIn_RequiresEmail(t *testing.T) {
	uc := newUseCase(newFakeUserRepo(), newFakeSessionRepo())
	_, err := uc.SignIn(context.Background(), Profile{GoogleID: "g"}, time.Hour)
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected INVALID, got %v", err)
	}
}

func TestRefresh_ExtendsSession(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	uc := newUseCase(users, sessions)
	ctx := context.Background()

	creds, err := uc.SignIn(ctx, Profile{Email: "ada@example.com"}, time.Minute)
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}

	refreshed, err := uc.Refresh(ctx, creds.Session.ID, time.Hour)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if refreshed.Token == "" {
		t.Fatalf("refresh must mint a token")
	}
	if !refreshed.Session.ExpiresAt.After(creds.Session.ExpiresAt) {
		t.Fatalf("expiry not extended")
	}
}

func TestRefresh_ExpiredSessionRevoked(t *testing.T) {
	sessions := newFakeSessionRepo()
	uc := newUseCase(newFakeUserRepo(), sessions)
	ctx := context.Background()

	sessions.sessions["stale"] = &domain.Session{
		ID:        "stale",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	_, err := uc.Refresh(ctx, "stale", time.Hour)
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
	if _, ok := sessions.sessions["stale"]; ok {
		t.Fatalf("expired session must be revoked on refresh")
	}
}

func TestLogout_RemovesSession(t *testing.T) {
	sessions := newFakeSessionRepo()
	uc := newUseCase(newFakeUserRepo(), sessions)
	ctx := context.Background()

	creds, err := uc.SignIn(ctx, Profile{Email: "ada@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if err := uc.Logout(ctx, creds.Session.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, ok := sessions.sessions[creds.Session.ID]; ok {
		t.Fatalf("session must be deleted on logout")
	}
}
