package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/Hansraja/MegaMarket/internal/domain/errors"
	"github.com/Hansraja/MegaMarket/internal/domain/models"
	"github.com/Hansraja/MegaMarket/internal/domain/repository"
	"github.com/Hansraja/MegaMarket/internal/events/kafka"
	"github.com/Hansraja/MegaMarket/internal/infrastructure/security"
)

// UserService completes placeholder registrations and maintains profiles.
// Image intents on the profile are delegated to the AssetService.
type UserService struct {
	users  repository.UserRepository
	assets *AssetService
	hasher security.PasswordHasher
	events kafka.Publisher
	logger *zap.Logger
}

// NewUserService creates the user/profile service.
func NewUserService(
	users repository.UserRepository,
	assets *AssetService,
	hasher security.PasswordHasher,
	events kafka.Publisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:  users,
		assets: assets,
		hasher: hasher,
		events: events,
		logger: logger.Named("user_service"),
	}
}

// CompleteRegistration activates a placeholder account created by the
// verification flow, filling in profile fields and credentials. An already
// active account is rejected.
func (s *UserService) CompleteRegistration(ctx context.Context, input models.CompleteRegistrationInput) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user.IsActive {
		return nil, domainErrors.ErrAlreadyExists
	}

	if input.Image != nil {
		img, err := s.assets.Resolve(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		if img != nil {
			user.ImageID = &img.ID
		}
	}

	hash, err := s.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = &hash
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	if input.Username != "" {
		user.Username = input.Username
	}
	user.Sex = input.Sex
	user.DOB = input.DOB
	user.IsActive = true

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.publishUserEvent(ctx, kafka.EventUserActivated, user)
	return user, nil
}

// UpdateProfile partially updates an active user's profile. When an image
// intent is present the profile reference follows its outcome, including
// detaching on delete.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input models.UpdateProfileInput) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domainErrors.ErrUserInactive
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Sex != nil {
		user.Sex = input.Sex
	}
	if input.DOB != nil {
		user.DOB = input.DOB
	}

	if input.Image != nil {
		img, err := s.assets.Resolve(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		if img != nil {
			user.ImageID = &img.ID
		} else {
			user.ImageID = nil
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile returns a user by ID.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *UserService) publishUserEvent(ctx context.Context, eventType kafka.EventType, user *models.User) {
	err := s.events.Publish(ctx, eventType, user.ID.String(), models.UserEvent{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		s.logger.Warn("Failed to publish user event", zap.Error(err), zap.String("type", string(eventType)))
	}
}
