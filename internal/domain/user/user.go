package user

import (
	"errors"
	"time"
)

// User is a registered account holder. The bcrypt hash carries json:"-" so
// no response shape can ever leak it.
type User struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	IsOfficer    bool      `json:"is_officer"`
	CreatedAt    time.Time `json:"created_at"`
}

var ErrNotFound = errors.New("user not found")

// ErrEmailTaken enforces the one-record-per-email invariant at the store.
var ErrEmailTaken = errors.New("email already registered")

// New stamps a user record for registration. Users are never updated or
// deleted afterwards.
func New(email, passwordHash, fullName string, isOfficer bool) User {
	return User{
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		IsOfficer:    isOfficer,
		CreatedAt:    time.Now().UTC(),
	}
}
