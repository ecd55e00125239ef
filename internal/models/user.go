package models

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hasUppercase = regexp.MustCompile(`[A-Z]`)
	hasLowercase = regexp.MustCompile(`[a-z]`)
	hasNumber    = regexp.MustCompile(`[0-9]`)
)

// User represents an owner of debts
type User struct {
	ID        int       `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	PassHash  string    `json:"-" db:"password_hash"`
	FirstName string    `json:"first_name,omitempty" db:"first_name"`
	LastName  string    `json:"last_name,omitempty" db:"last_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayName returns the name used in notifications
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// UserRegistration represents user registration data
type UserRegistration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// UserLogin represents user login data
type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse represents the JWT token response
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// Validate validates and sanitizes user registration data
func (u *UserRegistration) Validate() error {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)

	if len(u.Username) < 3 || len(u.Username) > 50 {
		return NewValidationError("username", "username must be between 3 and 50 characters")
	}

	if !emailPattern.MatchString(u.Email) {
		return NewValidationError("email", "invalid email format")
	}

	if len(u.Password) < 8 {
		return NewValidationError("password", "password must be at least 8 characters")
	}

	if !hasUppercase.MatchString(u.Password) || !hasLowercase.MatchString(u.Password) || !hasNumber.MatchString(u.Password) {
		return NewValidationError("password", "password must contain an uppercase letter, a lowercase letter and a number")
	}

	return nil
}

// ToUser converts UserRegistration to User with the given password hash
func (u *UserRegistration) ToUser(passHash string) *User {
	return &User{
		Username:  u.Username,
		Email:     u.Email,
		PassHash:  passHash,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
