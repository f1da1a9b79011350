package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/Hansraja/MegaMarket/internal/domain/errors"
	"github.com/Hansraja/MegaMarket/internal/domain/models"
	"github.com/Hansraja/MegaMarket/internal/events/kafka"
)

type verificationFixture struct {
	svc    *VerificationService
	codes  *memVerificationRepo
	users  *memUserRepo
	mailer *fakeMailer
}

func newVerificationFixture() *verificationFixture {
	codes := newMemVerificationRepo()
	users := newMemUserRepo()
	mailer := &fakeMailer{}
	svc := NewVerificationService(
		codes, users, mailer, fakeHasher{}, nil, kafka.NopPublisher{},
		10*time.Minute, zap.NewNop(),
	)
	return &verificationFixture{svc: svc, codes: codes, users: users, mailer: mailer}
}

func seedUser(users *memUserRepo, email string, active bool) *models.User {
	user := &models.User{
		ID:       uuid.New(),
		Username: "u-" + email,
		Email:    email,
		Type:     models.UserTypeCustomer,
		IsActive: active,
	}
	_ = users.Create(context.Background(), user)
	return user
}

func TestSendVerification_IssuesAndDelivers(t *testing.T) {
	f := newVerificationFixture()

	err := f.svc.SendVerification(context.Background(), "a@example.com")
	require.NoError(t, err)

	assert.Equal(t, 1, f.codes.count())
	assert.Equal(t, 1, f.mailer.sentCount())

	otp := f.codes.firstOTP("a@example.com")
	require.Len(t, otp, 6)
	for _, r := range otp {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestSendVerification_DeliveryFailureKeepsCode(t *testing.T) {
	f := newVerificationFixture()
	f.mailer.fail = true

	err := f.svc.SendVerification(context.Background(), "a@example.com")
	require.ErrorIs(t, err, domainErrors.ErrDeliveryFailed)

	// The code stays persisted until the sweep reclaims it.
	assert.Equal(t, 1, f.codes.count())
}

func TestVerifyEmail_ConsumesExactlyOnce(t *testing.T) {
	f := newVerificationFixture()
	require.NoError(t, f.svc.SendVerification(context.Background(), "a@example.com"))
	otp := f.codes.firstOTP("a@example.com")

	require.NoError(t, f.svc.VerifyEmail(context.Background(), "a@example.com", otp))

	err := f.svc.VerifyEmail(context.Background(), "a@example.com", otp)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCode)
}

func TestVerifyEmail_WrongCode(t *testing.T) {
	f := newVerificationFixture()
	require.NoError(t, f.svc.SendVerification(context.Background(), "a@example.com"))
	otp := f.codes.firstOTP("a@example.com")

	wrong := "000000"
	if wrong == otp {
		wrong = "000001"
	}
	err := f.svc.VerifyEmail(context.Background(), "a@example.com", wrong)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCode)

	// The outstanding code survives failed attempts.
	assert.Equal(t, 1, f.codes.count())
	require.NoError(t, f.svc.VerifyEmail(context.Background(), "a@example.com", otp))
}

func TestVerifyEmail_WrongEmail(t *testing.T) {
	f := newVerificationFixture()
	require.NoError(t, f.svc.SendVerification(context.Background(), "a@example.com"))
	otp := f.codes.firstOTP("a@example.com")

	err := f.svc.VerifyEmail(context.Background(), "b@example.com", otp)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCode)
}

func TestVerifyEmail_ExpiredCode(t *testing.T) {
	f := newVerificationFixture()
	require.NoError(t, f.svc.SendVerification(context.Background(), "a@example.com"))
	otp := f.codes.firstOTP("a@example.com")

	f.codes.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	err := f.svc.VerifyEmail(context.Background(), "a@example.com", otp)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCode)
}

func TestVerifyEmail_ConcurrentConsumeSingleWinner(t *testing.T) {
	f := newVerificationFixture()
	require.NoError(t, f.svc.SendVerification(context.Background(), "a@example.com"))
	otp := f.codes.firstOTP("a@example.com")

	const callers = 16
	var wg sync.WaitGroup
	var wins int64
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if err := f.svc.VerifyEmail(context.Background(), "a@example.com", otp); err == nil {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int64(1), wins)
}

func TestRequestAccount_NewEmailCreatesInactivePlaceholder(t *testing.T) {
	f := newVerificationFixture()

	user, err := f.svc.RequestAccount(context.Background(), "new@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, "new@example.com", user.Email)
	assert.False(t, user.IsActive)
	assert.Equal(t, models.UserTypeCustomer, user.Type)
	assert.Nil(t, user.PasswordHash)
	require.Len(t, user.Username, 18)
	assert.Equal(t, "ne", user.Username[:2])

	assert.Equal(t, 1, f.mailer.sentCount())
	assert.Equal(t, 1, f.codes.count())
}

func TestRequestAccount_ActiveAccountRejected(t *testing.T) {
	f := newVerificationFixture()
	seedUser(f.users, "taken@example.com", true)

	_, err := f.svc.RequestAccount(context.Background(), "taken@example.com")
	require.ErrorIs(t, err, domainErrors.ErrEmailExists)
	assert.Zero(t, f.mailer.sentCount())
	assert.Zero(t, f.codes.count())
}

func TestRequestAccount_InactiveAccountReissues(t *testing.T) {
	f := newVerificationFixture()
	existing := seedUser(f.users, "pending@example.com", false)

	user, err := f.svc.RequestAccount(context.Background(), "pending@example.com")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, 1, f.mailer.sentCount())
	assert.Equal(t, 1, f.codes.count())
}

func TestRequestAccount_DeliveryFailureCreatesNoUser(t *testing.T) {
	f := newVerificationFixture()
	f.mailer.fail = true

	_, err := f.svc.RequestAccount(context.Background(), "new@example.com")
	require.ErrorIs(t, err, domainErrors.ErrDeliveryFailed)

	_, err = f.users.FindByEmail(context.Background(), "new@example.com")
	assert.ErrorIs(t, err, domainErrors.ErrUserNotFound)
	assert.Equal(t, 1, f.codes.count())
}

func TestForgotPassword_UnknownAccount(t *testing.T) {
	f := newVerificationFixture()

	err := f.svc.ForgotPassword(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, domainErrors.ErrUserNotFound)
	assert.Zero(t, f.codes.count())
}

func TestResetPassword_ReplacesCredential(t *testing.T) {
	f := newVerificationFixture()
	user := seedUser(f.users, "a@example.com", true)

	require.NoError(t, f.svc.ForgotPassword(context.Background(), "a@example.com"))
	otp := f.codes.firstOTP("a@example.com")

	err := f.svc.ResetPassword(context.Background(), "a@example.com", otp, "new-secret")
	require.NoError(t, err)

	stored, err := f.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordHash)
	assert.Equal(t, "hashed:new-secret", *stored.PasswordHash)

	// The code is gone; a second reset with it must fail.
	err = f.svc.ResetPassword(context.Background(), "a@example.com", otp, "another")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCode)
}

func TestResetPassword_UnknownAccountDoesNotBurnCode(t *testing.T) {
	f := newVerificationFixture()
	require.NoError(t, f.svc.SendVerification(context.Background(), "a@example.com"))
	otp := f.codes.firstOTP("a@example.com")

	err := f.svc.ResetPassword(context.Background(), "a@example.com", otp, "new-secret")
	require.ErrorIs(t, err, domainErrors.ErrUserNotFound)
	assert.Equal(t, 1, f.codes.count())
}

func TestResetPassword_WrongCodeKeepsOldHash(t *testing.T) {
	f := newVerificationFixture()
	user := seedUser(f.users, "a@example.com", true)
	old := "hashed:old"
	require.NoError(t, f.users.UpdatePasswordHash(context.Background(), user.ID, old))

	err := f.svc.ResetPassword(context.Background(), "a@example.com", "123456", "new-secret")
	require.ErrorIs(t, err, domainErrors.ErrInvalidCode)

	stored, err := f.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, old, *stored.PasswordHash)
}

func TestSweepExpired(t *testing.T) {
	f := newVerificationFixture()
	require.NoError(t, f.svc.SendVerification(context.Background(), "a@example.com"))
	require.NoError(t, f.svc.SendVerification(context.Background(), "b@example.com"))

	n, err := f.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	f.codes.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	n, err = f.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Zero(t, f.codes.count())
}

// Exercises the full activation round trip: request, code delivery,
// verification, and a second verification attempt bouncing off.
func TestActivationRoundTrip(t *testing.T) {
	f := newVerificationFixture()

	user, err := f.svc.RequestAccount(context.Background(), "shopper@example.com")
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	otp := f.codes.firstOTP("shopper@example.com")
	require.NotEmpty(t, otp)

	require.NoError(t, f.svc.VerifyEmail(context.Background(), "shopper@example.com", otp))
	err = f.svc.VerifyEmail(context.Background(), "shopper@example.com", otp)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCode)
}
