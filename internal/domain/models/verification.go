package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailVerification is a time-boxed one-time code proving control of an
// email address. The code is valid while now < ExpiresAt and is deleted on
// successful consumption; expired records linger until the sweep removes
// them. Multiple outstanding codes for one email may coexist.
type EmailVerification struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Email     string     `json:"email" db:"email"`
	OTP       string     `json:"-" db:"otp"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Expired reports whether the code can no longer match.
func (v *EmailVerification) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}
