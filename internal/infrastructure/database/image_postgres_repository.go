package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/Hansraja/MegaMarket/internal/domain/errors"
	"github.com/Hansraja/MegaMarket/internal/domain/models"
	"github.com/Hansraja/MegaMarket/internal/domain/repository"
)

type pgxImageRepository struct {
	db *pgxpool.Pool
}

// NewPgxImageRepository creates a Postgres-backed image repository.
func NewPgxImageRepository(db *pgxpool.Pool) repository.ImageRepository {
	return &pgxImageRepository{db: db}
}

func (r *pgxImageRepository) Create(ctx context.Context, img *models.Image) error {
	query := `
		INSERT INTO images (id, url, alt, caption, provider, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		img.ID, img.URL, img.Alt, img.Caption, img.Provider, img.CreatedAt, img.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

func (r *pgxImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	query := `
		SELECT id, url, alt, caption, provider, created_at, updated_at
		FROM images
		WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// UpdateLocked mutates an image record while holding its row lock. The lock
// spans fn, so the remote destroy performed there and the url overwrite
// commit as one unit from a concurrent reader's point of view.
func (r *pgxImageRepository) UpdateLocked(ctx context.Context, id uuid.UUID, fn func(img *models.Image) error) (*models.Image, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	img, err := r.lockRow(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(img); err != nil {
		return nil, err
	}

	query := `
		UPDATE images
		SET url = $2, alt = $3, caption = $4, provider = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	if err := tx.QueryRow(ctx, query, img.ID, img.URL, img.Alt, img.Caption, img.Provider).Scan(&img.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to update image: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit image update: %w", err)
	}
	return img, nil
}

// DeleteLocked deletes an image record while holding its row lock; fn runs
// before the delete and aborts it by returning an error.
func (r *pgxImageRepository) DeleteLocked(ctx context.Context, id uuid.UUID, fn func(img *models.Image) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	img, err := r.lockRow(ctx, tx, id)
	if err != nil {
		return err
	}

	if err := fn(img); err != nil {
		return err
	}

	commandTag, err := tx.Exec(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return domainErrors.ErrImageNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit image delete: %w", err)
	}
	return nil
}

func (r *pgxImageRepository) lockRow(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Image, error) {
	query := `
		SELECT id, url, alt, caption, provider, created_at, updated_at
		FROM images
		WHERE id = $1
		FOR UPDATE`
	return r.scanOne(tx.QueryRow(ctx, query, id))
}

func (r *pgxImageRepository) scanOne(row pgx.Row) (*models.Image, error) {
	img := &models.Image{}
	err := row.Scan(&img.ID, &img.URL, &img.Alt, &img.Caption, &img.Provider, &img.CreatedAt, &img.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to scan image: %w", err)
	}
	return img, nil
}

var _ repository.ImageRepository = (*pgxImageRepository)(nil)
