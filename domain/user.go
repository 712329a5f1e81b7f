package domain

import (
	"strings"
	"time"
)

// User represents an identity created on first external sign-in.
// Profile fields are refreshed on every subsequent sign-in.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	GoogleID   string    `json:"googleId,omitempty"`
	FirstName  string    `json:"firstName,omitempty"`
	LastName   string    `json:"lastName,omitempty"`
	PictureURL string    `json:"pictureUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
