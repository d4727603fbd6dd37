package users

import (
	"strings"
	"time"
)

// User is the record stored as JSON under the user key.
type User struct {
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash"`
	Activated    bool       `json:"activated"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	Email       string     `json:"email"`
	Activated   bool       `json:"activated"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func FromModel(u *User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		Email:       u.Email,
		Activated:   u.Activated,
		LastLoginAt: u.LastLoginAt,
	}
}

// NormalizeEmail lowercases and trims an address for use as a lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
