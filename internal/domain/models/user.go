package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserType discriminates customers, vendors and admins.
type UserType string

const (
	UserTypeUser     UserType = "user"
	UserTypeCustomer UserType = "customer"
	UserTypeVendor   UserType = "vendor"
	UserTypeAdmin    UserType = "admin"
)

// User is a storefront account. Accounts requested through the verification
// flow start as inactive placeholders (generated username, no password) and
// become real customers once registration completes.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash *string    `json:"-" db:"password_hash"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Sex          *string    `json:"sex,omitempty" db:"sex"`
	DOB          *time.Time `json:"dob,omitempty" db:"dob"`
	ImageID      *uuid.UUID `json:"image_id,omitempty" db:"image_id"`
	Type         UserType   `json:"type" db:"type"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// MaskedEmail hides the local part of the address except its first rune,
// for responses visible to other users.
func (u *User) MaskedEmail() string {
	at := strings.Index(u.Email, "@")
	if at <= 1 {
		return u.Email
	}
	return u.Email[:1] + strings.Repeat("*", at-1) + u.Email[at:]
}

// UserResponse is the API projection of a user.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Type      UserType  `json:"type"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a user to its API projection. When self is false the
// email is masked.
func (u *User) ToResponse(self bool) UserResponse {
	email := u.Email
	if !self {
		email = u.MaskedEmail()
	}
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     email,
		Name:      u.FullName(),
		Type:      u.Type,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
