package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestAccountInput starts the account activation flow.
type RequestAccountInput struct {
	Email string `json:"email" binding:"required,email"`
}

// SendVerificationInput re-sends a verification code.
type SendVerificationInput struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyEmailInput submits a code for consumption.
type VerifyEmailInput struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

// ForgotPasswordInput starts the password reset flow.
type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordInput completes the password reset flow.
type ResetPasswordInput struct {
	Email    string `json:"email" binding:"required,email"`
	OTP      string `json:"otp" binding:"required,len=6"`
	Password string `json:"password" binding:"required,min=8"`
}

// CompleteRegistrationInput turns a placeholder account into an active
// customer.
type CompleteRegistrationInput struct {
	Email     string      `json:"email" binding:"required,email"`
	Password  string      `json:"password" binding:"required,min=8"`
	FirstName string      `json:"first_name" binding:"required"`
	LastName  string      `json:"last_name" binding:"required"`
	Username  string      `json:"username,omitempty"`
	Sex       *string     `json:"sex,omitempty"`
	DOB       *time.Time  `json:"dob,omitempty"`
	Image     *ImageInput `json:"image,omitempty"`
}

// UpdateProfileInput partially updates an active user's profile.
type UpdateProfileInput struct {
	FirstName *string     `json:"first_name,omitempty"`
	LastName  *string     `json:"last_name,omitempty"`
	Username  *string     `json:"username,omitempty"`
	Sex       *string     `json:"sex,omitempty"`
	DOB       *time.Time  `json:"dob,omitempty"`
	Image     *ImageInput `json:"image,omitempty"`
}

// UserEvent is the payload published for user lifecycle events.
type UserEvent struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// ImageEvent is the payload published for image lifecycle events.
type ImageEvent struct {
	ImageID  uuid.UUID `json:"image_id"`
	Provider string    `json:"provider"`
}
