package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/Hansraja/MegaMarket/internal/domain/errors"
	"github.com/Hansraja/MegaMarket/internal/domain/models"
	"github.com/Hansraja/MegaMarket/internal/domain/repository"
	"github.com/Hansraja/MegaMarket/internal/events/kafka"
	"github.com/Hansraja/MegaMarket/internal/infrastructure/security"
	"github.com/Hansraja/MegaMarket/internal/utils/email"
	"github.com/Hansraja/MegaMarket/internal/utils/metrics"
	"github.com/Hansraja/MegaMarket/internal/utils/rate"
	"github.com/Hansraja/MegaMarket/internal/utils/random"
)

// VerificationService issues time-boxed one-time codes and gates the three
// flows built on them: account activation, generic email verification and
// password reset. A code matches while unexpired and is deleted on its
// first successful consumption.
type VerificationService struct {
	codes   repository.VerificationRepository
	users   repository.UserRepository
	mailer  email.Sender
	hasher  security.PasswordHasher
	limiter *rate.Limiter
	events  kafka.Publisher
	codeTTL time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewVerificationService creates the verification flow orchestrator.
func NewVerificationService(
	codes repository.VerificationRepository,
	users repository.UserRepository,
	mailer email.Sender,
	hasher security.PasswordHasher,
	limiter *rate.Limiter,
	events kafka.Publisher,
	codeTTL time.Duration,
	logger *zap.Logger,
) *VerificationService {
	if codeTTL <= 0 {
		codeTTL = 10 * time.Minute
	}
	return &VerificationService{
		codes:   codes,
		users:   users,
		mailer:  mailer,
		hasher:  hasher,
		limiter: limiter,
		events:  events,
		codeTTL: codeTTL,
		logger:  logger.Named("verification_service"),
		now:     time.Now,
	}
}

// issue persists a fresh code for the email. Outstanding codes for the same
// address are left untouched; any of them may still be consumed until it
// expires.
func (s *VerificationService) issue(ctx context.Context, emailAddr string, userID *uuid.UUID) (*models.EmailVerification, error) {
	if s.limiter != nil {
		allowed, err := s.limiter.AllowVerification(ctx, emailAddr)
		if err == nil && !allowed {
			return nil, domainErrors.ErrRateLimited
		}
	}

	otp, err := random.GenerateOTP()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	code := &models.EmailVerification{
		ID:        uuid.New(),
		UserID:    userID,
		Email:     emailAddr,
		OTP:       otp,
		ExpiresAt: now.Add(s.codeTTL),
		CreatedAt: now,
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

func (s *VerificationService) issueAndDeliver(ctx context.Context, flow, emailAddr string, userID *uuid.UUID) error {
	code, err := s.issue(ctx, emailAddr, userID)
	if err != nil {
		metrics.VerificationIssuedTotal.WithLabelValues(flow, "failure").Inc()
		return err
	}

	if err := s.mailer.SendVerificationOTP(ctx, emailAddr, code.OTP); err != nil {
		// The code stays persisted; the sweep reclaims it after expiry.
		metrics.VerificationIssuedTotal.WithLabelValues(flow, "delivery_failure").Inc()
		s.logger.Error("Verification email delivery failed", zap.Error(err), zap.String("email", emailAddr))
		return domainErrors.ErrDeliveryFailed
	}

	metrics.VerificationIssuedTotal.WithLabelValues(flow, "success").Inc()
	return nil
}

// RequestAccount starts the activation flow for a new customer: rejects
// emails with an active account, issues and delivers a code, and ensures an
// inactive placeholder account exists for the address.
func (s *VerificationService) RequestAccount(ctx context.Context, emailAddr string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil && !errors.Is(err, domainErrors.ErrUserNotFound) {
		return nil, err
	}
	if user != nil && user.IsActive {
		return nil, domainErrors.ErrEmailExists
	}

	var userID *uuid.UUID
	if user != nil {
		userID = &user.ID
	}
	if err := s.issueAndDeliver(ctx, "activation", emailAddr, userID); err != nil {
		return nil, err
	}

	if user == nil {
		username, err := random.GenerateUsername(emailAddr)
		if err != nil {
			return nil, err
		}
		now := s.now().UTC()
		user = &models.User{
			ID:        uuid.New(),
			Username:  username,
			Email:     emailAddr,
			Type:      models.UserTypeCustomer,
			IsActive:  false,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		s.publishUserEvent(ctx, kafka.EventUserRegistered, user)
	}
	return user, nil
}

// SendVerification issues and delivers a code without touching accounts.
func (s *VerificationService) SendVerification(ctx context.Context, emailAddr string) error {
	return s.issueAndDeliver(ctx, "generic", emailAddr, nil)
}

// VerifyEmail consumes a submitted code. Consumption is atomic: a code
// accepted here can never match again, even for a racing caller.
func (s *VerificationService) VerifyEmail(ctx context.Context, emailAddr, otp string) error {
	consumed, err := s.codes.Consume(ctx, emailAddr, otp)
	if err != nil {
		metrics.VerificationConsumeTotal.WithLabelValues("error").Inc()
		return err
	}
	if !consumed {
		metrics.VerificationConsumeTotal.WithLabelValues("invalid").Inc()
		return domainErrors.ErrInvalidCode
	}
	metrics.VerificationConsumeTotal.WithLabelValues("success").Inc()
	return nil
}

// ForgotPassword issues and delivers a reset code scoped to an existing
// account's email.
func (s *VerificationService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	return s.issueAndDeliver(ctx, "password_reset", emailAddr, &user.ID)
}

// ResetPassword replaces the account credential after consuming a valid
// code. The account lookup is gated first so a missing account surfaces as
// NotFound without burning the code.
func (s *VerificationService) ResetPassword(ctx context.Context, emailAddr, otp, newPassword string) error {
	user, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	if err := s.VerifyEmail(ctx, emailAddr, otp); err != nil {
		return err
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}

	s.publishUserEvent(ctx, kafka.EventUserPasswordReset, user)
	return nil
}

// SweepExpired deletes codes past expiry. Issued codes are never purged on
// consumption failure, so this is the only path that bounds table growth.
func (s *VerificationService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.codes.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.VerificationSweptTotal.Add(float64(n))
		s.logger.Info("Swept expired verification codes", zap.Int64("count", n))
	}
	return n, nil
}

// RunSweeper runs the expiry sweep on the given interval until ctx is
// cancelled.
func (s *VerificationService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepExpired(ctx); err != nil {
				s.logger.Error("Verification sweep failed", zap.Error(err))
			}
		}
	}
}

func (s *VerificationService) publishUserEvent(ctx context.Context, eventType kafka.EventType, user *models.User) {
	err := s.events.Publish(ctx, eventType, user.ID.String(), models.UserEvent{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		s.logger.Warn("Failed to publish user event", zap.Error(err), zap.String("type", string(eventType)))
	}
}
