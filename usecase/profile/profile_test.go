package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/yearpeer/backend/domain"
	"github.com/yearpeer/backend/usecase"
)

type fakeUserRepo struct {
	users     map[string]*domain.User
	upsertErr error
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Upsert(ctx context.Context, user *domain.User) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

type fakeBuffer struct {
	profileOps []string
}

func (f *fakeBuffer) BufferGoal(ctx context.Context, operation string, goal *domain.Goal) error {
	return nil
}

func (f *fakeBuffer) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	return nil
}

func (f *fakeBuffer) BufferProfile(ctx context.Context, operation string, user *domain.User) error {
	f.profileOps = append(f.profileOps, operation)
	return nil
}

func seededRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"},
	}}
}

func TestGet(t *testing.T) {
	uc := New(seededRepo(), nil, nil)

	user, err := uc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := uc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdate_AppliesEditableFields(t *testing.T) {
	repo := seededRepo()
	uc := New(repo, nil, nil)

	user, err := uc.Update(context.Background(), "u1", Update{
		FirstName:  "Augusta",
		LastName:   "King",
		PictureURL: "https://example.com/p.png",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.FirstName != "Augusta" || user.LastName != "King" {
		t.Fatalf("fields not applied: %+v", user)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("email must not be editable, got %q", user.Email)
	}
	if repo.users["u1"].FirstName != "Augusta" {
		t.Fatalf("update not persisted")
	}
}

func TestUpdate_BuffersOnStorageFault(t *testing.T) {
	repo := seededRepo()
	repo.upsertErr = errors.New("connection refused")
	buffer := &fakeBuffer{}
	uc := New(repo, buffer, nil)

	user, err := uc.Update(context.Background(), "u1", Update{FirstName: "Augusta"})
	if err != nil {
		t.Fatalf("buffered update must report success, got %v", err)
	}
	if user.FirstName != "Augusta" {
		t.Fatalf("echoed user must carry the new fields")
	}
	if len(buffer.profileOps) != 1 || buffer.profileOps[0] != usecase.OperationUpdate {
		t.Fatalf("expected one buffered update, got %v", buffer.profileOps)
	}
}

func TestUpdate_UnknownUser(t *testing.T) {
	uc := New(seededRepo(), &fakeBuffer{}, nil)
	if _, err := uc.Update(context.Background(), "missing", Update{}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
