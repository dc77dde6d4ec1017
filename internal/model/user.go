package model

import (
	"errors"
	"regexp"
	"time"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// User represents a clinician account stored in the key-value backend
// under user-<id>, where the id is the normalized e-mail address.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// NormalizeEmail derives the storage identity from an e-mail address by
// replacing every non-alphanumeric rune with an underscore.
func NormalizeEmail(email string) string {
	return nonAlnum.ReplaceAllString(email, "_")
}

// SignupRequest carries new-account credentials.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned after a successful signup or login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

// TokenClaims represents validated JWT claims.
type TokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
