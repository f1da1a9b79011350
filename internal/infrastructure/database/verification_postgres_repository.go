package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/Hansraja/MegaMarket/internal/domain/errors"
	"github.com/Hansraja/MegaMarket/internal/domain/models"
	"github.com/Hansraja/MegaMarket/internal/domain/repository"
)

type pgxVerificationRepository struct {
	db *pgxpool.Pool
}

// NewPgxVerificationRepository creates a Postgres-backed verification code
// repository.
func NewPgxVerificationRepository(db *pgxpool.Pool) repository.VerificationRepository {
	return &pgxVerificationRepository{db: db}
}

func (r *pgxVerificationRepository) Create(ctx context.Context, code *models.EmailVerification) error {
	query := `
		INSERT INTO email_verifications (id, user_id, email, otp, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		code.ID, code.UserID, code.Email, code.OTP, code.ExpiresAt, code.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: verification code with given ID already exists", domainErrors.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create verification code: %w", err)
	}
	return nil
}

// Consume deletes every matching, unexpired code for the pair in a single
// statement; the row count decides success. Two racing calls with the same
// pair hit the same rows and at most one of them deletes anything.
func (r *pgxVerificationRepository) Consume(ctx context.Context, email, otp string) (bool, error) {
	query := `
		DELETE FROM email_verifications
		WHERE email = $1 AND otp = $2 AND expires_at > NOW()`
	commandTag, err := r.db.Exec(ctx, query, email, otp)
	if err != nil {
		return false, fmt.Errorf("failed to consume verification code: %w", err)
	}
	return commandTag.RowsAffected() > 0, nil
}

func (r *pgxVerificationRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM email_verifications WHERE expires_at < $1`
	commandTag, err := r.db.Exec(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired verification codes: %w", err)
	}
	return commandTag.RowsAffected(), nil
}

var _ repository.VerificationRepository = (*pgxVerificationRepository)(nil)
