// Package repository declares the persistence boundaries consumed by the
// service layer. Implementations live in internal/infrastructure/database.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Hansraja/MegaMarket/internal/domain/models"
)

// ImageRepository persists image records.
type ImageRepository interface {
	Create(ctx context.Context, img *models.Image) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Image, error)

	// UpdateLocked loads the image under a row lock, invokes fn with it, and
	// persists the mutated record only when fn returns nil. fn runs inside
	// the same transaction boundary, so side effects it performs (remote
	// object destruction) are observed before the new state becomes visible.
	UpdateLocked(ctx context.Context, id uuid.UUID, fn func(img *models.Image) error) (*models.Image, error)

	// DeleteLocked loads the image under a row lock, invokes fn with it, and
	// deletes the record only when fn returns nil.
	DeleteLocked(ctx context.Context, id uuid.UUID, fn func(img *models.Image) error) error
}

// VerificationRepository persists one-time email verification codes.
type VerificationRepository interface {
	Create(ctx context.Context, code *models.EmailVerification) error

	// Consume atomically deletes a matching, unexpired code and reports
	// whether one was found. Concurrent calls with the same pair observe at
	// most one success.
	Consume(ctx context.Context, email, otp string) (bool, error)

	// DeleteExpired removes codes past their expiry and returns the count.
	DeleteExpired(ctx context.Context) (int64, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}
