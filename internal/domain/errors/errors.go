package errors

import (
	"errors"
	"fmt"
)

var (
	// General errors.
	ErrInternal      = errors.New("internal server error")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")

	// User errors.
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already in use")
	ErrUserInactive = errors.New("user is not active")

	// Verification errors.
	ErrInvalidCode    = errors.New("invalid or expired verification code")
	ErrDeliveryFailed = errors.New("failed to deliver verification email")
	ErrRateLimited    = errors.New("too many verification requests")

	// Asset errors.
	ErrImageNotFound = errors.New("image not found")
	ErrAssetProvider = errors.New("storage provider request failed")
	ErrInvalidIntent = errors.New("invalid image input")
)

// AppError carries an error with user-facing message and API metadata.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

// IsNotFound reports whether err is any of the "not found" sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrImageNotFound)
}

// IsConflict reports whether err is a conflict sentinel.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrEmailExists)
}

// IsBadRequest reports whether err stems from caller input.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidIntent) ||
		errors.Is(err, ErrInvalidCode)
}
