package domain

import (
	"errors"
	"time"
)

// MinPasswordLength is the shortest accepted password, measured after trimming.
const MinPasswordLength = 7

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("please authenticate")
)

// UserUpdatableFields is the allow-list for profile updates.
var UserUpdatableFields = []string{"name", "email", "password"}

// User models an account holder. PasswordHash and Tokens never leave the
// service layer; handlers only ever see a Profile.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Joined       time.Time
	// Tokens holds the active session tokens in login order.
	Tokens []string
}

// HasToken reports whether token is one of the user's active sessions.
func (u *User) HasToken(token string) bool {
	for _, t := range u.Tokens {
		if t == token {
			return true
		}
	}
	return false
}

// Profile is the minimal-exposure projection of a User.
type Profile struct {
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Joined time.Time `json:"joined"`
}

// Profile projects u onto the fields safe to return to clients.
func (u *User) Profile() Profile {
	return Profile{Name: u.Name, Email: u.Email, Joined: u.Joined}
}

// UserChanges carries the fields of a profile update that were submitted.
// PasswordHash is filled by the account service, never by callers.
type UserChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
}
