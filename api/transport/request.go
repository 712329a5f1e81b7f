package transport

import (
	"fmt"
	"time"
)

// GoalRequest is the payload for goal create/update.
type GoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Color       string `json:"color"`
	Impact      int    `json:"impact"`
}

// TaskRequest is the payload for task create/update.
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	GoalID      string `json:"goalId"`
	Completed   bool   `json:"completed"`
}

// LoginRequest carries the externally verified identity profile.
type LoginRequest struct {
	GoogleID   string `json:"googleId"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	PictureURL string `json:"pictureUrl"`
	TTL        int    `json:"ttlSeconds"`
}

type RefreshRequest struct {
	SessionID string `json:"sessionId"`
	TTL       int    `json:"ttlSeconds"`
}

type ProfileUpdateRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	PictureURL string `json:"pictureUrl"`
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC3339 instant.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t, nil
}
