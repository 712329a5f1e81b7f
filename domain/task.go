package domain

import "time"

// Task is a user-owned unit of work assigned to a single calendar date,
// optionally linked to one of the user's goals. When the goal is deleted
// the task survives with GoalID cleared.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	GoalID      string    `json:"goalId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks field constraints against the configured description limit.
func (t *Task) Validate(maxDescription int) error {
	if t == nil {
		return ErrInvalidPayload
	}
	if t.Title == "" {
		return NewError(ErrCodeInvalid, "title is required")
	}
	if len(t.Title) > MaxTitleLength {
		return NewError(ErrCodeInvalid, "title must be at most 255 characters")
	}
	if maxDescription > 0 && len(t.Description) > maxDescription {
		return NewError(ErrCodeInvalid, "description is too long")
	}
	if t.Date.IsZero() {
		return NewError(ErrCodeInvalid, "date is required")
	}
	return nil
}
