package domain

import (
	"regexp"
	"time"
)

// Field limits for goals.
const (
	MaxTitleLength = 255
	MinImpact      = 1
	MaxImpact      = 5
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Goal is a user-owned, colored, impact-rated date interval.
// Per user, no two goals' inclusive date ranges may overlap.
type Goal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Color       string    `json:"color"`
	Impact      int       `json:"impact"`
	Tasks       []Task    `json:"tasks,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Overlaps reports whether the goal's range shares at least one day with [start,end].
func (g *Goal) Overlaps(start, end time.Time) bool {
	if g == nil {
		return false
	}
	return RangesOverlap(g.StartDate, g.EndDate, start, end)
}

// Validate checks field constraints. It returns an INVALID domain error on the
// first violation, so overlap detection can assume an ordered, well-formed range.
func (g *Goal) Validate() error {
	if g == nil {
		return ErrInvalidPayload
	}
	if g.Title == "" {
		return NewError(ErrCodeInvalid, "title is required")
	}
	if len(g.Title) > MaxTitleLength {
		return NewError(ErrCodeInvalid, "title must be at most 255 characters")
	}
	if g.StartDate.IsZero() || g.EndDate.IsZero() {
		return NewError(ErrCodeInvalid, "start and end dates are required")
	}
	if g.EndDate.Before(g.StartDate) {
		return NewError(ErrCodeInvalid, "end date must not be before start date")
	}
	if !colorPattern.MatchString(g.Color) {
		return NewError(ErrCodeInvalid, "color must be a hex RGB string like #1A2B3C")
	}
	if g.Impact < MinImpact || g.Impact > MaxImpact {
		return NewError(ErrCodeInvalid, "impact must be between 1 and 5")
	}
	return nil
}
