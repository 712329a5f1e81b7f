package goal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/yearpeer/backend/domain"
	"github.com/yearpeer/backend/repository"
	"github.com/yearpeer/backend/usecase"
	"github.com/yearpeer/backend/usecase/validation"
)

type fakeGoalRepo struct {
	goals      map[string]*domain.Goal
	nextID     int
	failWrites error
	lastFilter repository.GoalFilter
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: make(map[string]*domain.Goal)}
}

func (f *fakeGoalRepo) GetByID(ctx context.Context, id, userID string) (*domain.Goal, error) {
	g, ok := f.goals[id]
	if !ok || g.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	copied := *g
	return &copied, nil
}

func (f *fakeGoalRepo) List(ctx context.Context, filter repository.GoalFilter) ([]domain.Goal, error) {
	f.lastFilter = filter
	var out []domain.Goal
	for _, g := range f.goals {
		if g.UserID == filter.UserID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	if f.failWrites != nil {
		return nil, f.failWrites
	}
	f.nextID++
	stored := *goal
	stored.ID = fmt.Sprintf("g-%d", f.nextID)
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.goals[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (f *fakeGoalRepo) Update(ctx context.Context, goal *domain.Goal) error {
	if f.failWrites != nil {
		return f.failWrites
	}
	existing, ok := f.goals[goal.ID]
	if !ok || existing.UserID != goal.UserID {
		return domain.ErrGoalNotFound
	}
	stored := *goal
	f.goals[goal.ID] = &stored
	return nil
}

func (f *fakeGoalRepo) Delete(ctx context.Context, id, userID string) error {
	if f.failWrites != nil {
		return f.failWrites
	}
	existing, ok := f.goals[id]
	if !ok || existing.UserID != userID {
		return domain.ErrGoalNotFound
	}
	delete(f.goals, id)
	return nil
}

func (f *fakeGoalRepo) AnyOverlapping(ctx context.Context, userID string, start, end time.Time, excludeID string) (bool, error) {
	for _, g := range f.goals {
		if g.UserID != userID || g.ID == excludeID {
			continue
		}
		if domain.RangesOverlap(g.StartDate, g.EndDate, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGoalRepo) CountTouchingYear(ctx context.Context, userID string, year int) (int, error) {
	count := 0
	for _, g := range f.goals {
		if g.UserID != userID {
			continue
		}
		if g.StartDate.Year() == year || g.EndDate.Year() == year {
			count++
		}
	}
	return count, nil
}

type fakeBuffer struct {
	goalOps []string
}

func (f *fakeBuffer) BufferGoal(ctx context.Context, operation string, goal *domain.Goal) error {
	f.goalOps = append(f.goalOps, operation)
	return nil
}

func (f *fakeBuffer) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	return nil
}

func (f *fakeBuffer) BufferProfile(ctx context.Context, operation string, user *domain.User) error {
	return nil
}

var _ usecase.OperationBuffer = (*fakeBuffer)(nil)

func day(value string) time.Time {
	t, err := time.Parse(domain.DayFormat, value)
	if err != nil {
		panic(err)
	}
	return t
}

func newUseCase(repo *fakeGoalRepo, buffer usecase.OperationBuffer, maxPerYear int) *UseCase {
	return New(repo, validation.NewGoalOverlap(repo), buffer, maxPerYear, nil)
}

func sampleGoal(start, end string) *domain.Goal {
	return &domain.Goal{
		Title:     "Train for marathon",
		StartDate: day(start),
		EndDate:   day(end),
		Color:     "#FF8800",
		Impact:    4,
	}
}

func TestCreate_AssignsOwnerAndID(t *testing.T) {
	repo := newFakeGoalRepo()
	uc := newUseCase(repo, nil, 50)

	goal := sampleGoal("2025-01-01", "2025-01-31")
	goal.UserID = "intruder"
	goal.ID = "forged"

	created, err := uc.Create(context.Background(), "u1", goal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != "u1" {
		t.Fatalf("owner not forced to caller, got %q", created.UserID)
	}
	if created.ID == "" || created.ID == "forged" {
		t.Fatalf("id must be storage-assigned, got %q", created.ID)
	}
}

func TestCreate_RejectsOverlap(t *testing.T) {
	repo := newFakeGoalRepo()
	uc := newUseCase(repo, nil, 50)
	ctx := context.Background()

	if _, err := uc.Create(ctx, "u1", sampleGoal("2025-01-01", "2025-01-31")); err != nil {
		t.Fatalf("seed goal failed: %v", err)
	}

	// Shares the boundary day, so it collides.
	_, err := uc.Create(ctx, "u1", sampleGoal("2025-01-31", "2025-02-15"))
	if err == nil {
		t.Fatalf("expected overlap rejection")
	}
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected INVALID code, got %v", err)
	}
	if !strings.Contains(err.Error(), "already exists during this time period") {
		t.Fatalf("unexpected message: %v", err)
	}

	// Starts the day after, so it fits.
	if _, err := uc.Create(ctx, "u1", sampleGoal("2025-02-01", "2025-02-15")); err != nil {
		t.Fatalf("adjacent goal rejected: %v", err)
	}
}

func TestCreate_OverlapIsPerUser(t *testing.T) {
	repo := newFakeGoalRepo()
	uc := newUseCase(repo, nil, 50)
	ctx := context.Background()

	if _, err := uc.Create(ctx, "u1", sampleGoal("2025-01-01", "2025-01-31")); err != nil {
		t.Fatalf("seed goal failed: %v", err)
	}
	if _, err := uc.Create(ctx, "u2", sampleGoal("2025-01-01", "2025-01-31")); err != nil {
		t.Fatalf("another user's identical range rejected: %v", err)
	}
}

func TestCreate_RejectsInvalidFields(t *testing.T) {
	repo := newFakeGoalRepo()
	uc := newUseCase(repo, nil, 50)

	goal := sampleGoal("2025-01-31", "2025-01-01")
	if _, err := uc.Create(context.Background(), "u1", goal); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected INVALID for inverted range, got %v", err)
	}
	if len(repo.goals) != 0 {
		t.Fatalf("invalid goal must not be stored")
	}
}

func TestCreate_EnforcesYearCapacity(t *testing.T) {
	repo := newFakeGoalRepo()
	uc := newUseCase(repo, nil, 2)
	ctx := context.Background()

	if _, err := uc.Create(ctx, "u1", sampleGoal("2025-01-01", "2025-01-10")); err != nil {
		t.Fatalf("first goal failed: %v", err)
	}
	if _, err := uc.Create(ctx, "u1", sampleGoal("2025-02-01", "2025-02-10")); err != nil {
		t.Fatalf("second goal failed: %v", err)
	}

	_, err := uc.Create(ctx, "u1", sampleGoal("2025-03-01", "2025-03-10"))
	if err == nil {
		t.Fatalf("expected year capacity rejection")
	}
	if !strings.Contains(err.Error(), "cannot exceed 2 goals per year") {
		t.Fatalf("unexpected message: %v", err)
	}

	// A different year still has room.
	if _, err := uc.Create(ctx, "u1", sampleGoal("2026-03-01", "2026-03-10")); err != nil {
		t.Fatalf("goal in a fresh year rejected: %v", err)
	}
}

func TestUpdate_ExcludesSelfFromOverlap(t *testing.T) {
	repo := newFakeGoalRepo()
	uc := newUseCase(repo, nil, 50)
	ctx := context.Background()

	created, err := uc.Create(ctx, "u1", sampleGoal("2025-01-01", "2025-01-31"))
	if err != nil {
		t.Fatalf("seed goal failed: %v", err)
	}

	// Shrinking within its own range must not collide with itself.
	update := sampleGoal("2025-01-05", "2025-01-20")
	updated, err := uc.Update(ctx, created.ID, "u1", update)
	if err != nil {
		t.Fatalf("self-overlapping update rejected: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("id changed on update")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created timestamp must survive updates")
	}
}

func TestUpdate_RejectsOverlapWithOtherGoal(t *testing.T) {
	repo := newFakeGoalRepo()
	uc := newUseCase(repo, nil, 50)
	ctx := context.Background()

	if _, err := uc.Create(ctx, "u1", sampleGoal("2025-01-01", "2025-01-31")); err != nil {
		t.Fatalf("seed goal failed: %v", err)
	}
	second, err := uc.Create(ctx, "u1", sampleGoal("2025-02-01", "2025-02-28"))
	if err != nil {
		t.Fatalf("second goal failed: %v", err)
	}

	update := sampleGoal("2025-01-15", "2025-02-28")
	if _, err := uc.Update(ctx, second.ID, "u1", update); err == nil {
		t.Fatalf("expected overlap rejection on update")
	}
}

func TestUpdate_NotOwnedLooksAbsent(t *testing.T) {
	repo := newFakeGoalRepo()
	uc := newUseCase(repo, nil, 50)
	ctx := context.Background()

	created, err := uc.Create(ctx, "u1", sampleGoal("2025-01-01", "2025-01-31"))
	if err != nil {
		t.Fatalf("seed goal failed: %v", err)
	}

	_, err = uc.Update(ctx, created.ID, "u2", sampleGoal("2025-05-01", "2025-05-31"))
	if !errors.Is(err, domain.ErrGoalNotFound) {
		t.Fatalf("expected not found for foreign goal, got %v", err)
	}
}

func TestDelete_NotFoundPassesThrough(t *testing.T) {
	repo := newFakeGoalRepo()
	uc := newUseCase(repo, &fakeBuffer{}, 50)

	err := uc.Delete(context.Background(), "missing", "u1")
	if !errors.Is(err, domain.ErrGoalNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreate_BuffersOnStorageFault(t *testing.T) {
	repo := newFakeGoalRepo()
	repo.failWrites = errors.New("connection refused")
	buffer := &fakeBuffer{}
	uc := newUseCase(repo, buffer, 50)

	created, err := uc.Create(context.Background(), "u1", sampleGoal("2025-01-01", "2025-01-31"))
	if err != nil {
		t.Fatalf("buffered create must report success, got %v", err)
	}
	if created == nil {
		t.Fatalf("buffered create must echo the goal")
	}
	if len(buffer.goalOps) != 1 || buffer.goalOps[0] != usecase.OperationCreate {
		t.Fatalf("expected one buffered create, got %v", buffer.goalOps)
	}
}

func TestCreate_NeverBuffersDomainRejections(t *testing.T) {
	repo := newFakeGoalRepo()
	buffer := &fakeBuffer{}
	uc := newUseCase(repo, buffer, 50)
	ctx := context.Background()

	if _, err := uc.Create(ctx, "u1", sampleGoal("2025-01-01", "2025-01-31")); err != nil {
		t.Fatalf("seed goal failed: %v", err)
	}
	if _, err := uc.Create(ctx, "u1", sampleGoal("2025-01-15", "2025-02-15")); err == nil {
		t.Fatalf("expected overlap rejection")
	}
	if len(buffer.goalOps) != 0 {
		t.Fatalf("domain rejection must not be buffered, got %v", buffer.goalOps)
	}
}

func TestList_ExplicitRangeSupersedesYear(t *testing.T) {
	repo := newFakeGoalRepo()
	uc := newUseCase(repo, nil, 50)

	_, err := uc.List(context.Background(), "u1", 2025, day("2025-06-01"), day("2025-06-30"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFilter.Year != 0 {
		t.Fatalf("year must be cleared when an explicit range is given, got %d", repo.lastFilter.Year)
	}
	if repo.lastFilter.Start.IsZero() || repo.lastFilter.End.IsZero() {
		t.Fatalf("range must be forwarded to the repository")
	}
}
