package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/Hansraja/MegaMarket/internal/domain/errors"
	"github.com/Hansraja/MegaMarket/internal/domain/models"
	"github.com/Hansraja/MegaMarket/internal/infrastructure/storage"
)

// In-memory fakes shared by the service tests. They honor the same locking
// and atomicity contracts as the Postgres repositories.

type memImageRepo struct {
	mu     sync.Mutex
	images map[uuid.UUID]models.Image
}

func newMemImageRepo() *memImageRepo {
	return &memImageRepo{images: map[uuid.UUID]models.Image{}}
}

func (r *memImageRepo) Create(_ context.Context, img *models.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images[img.ID] = *img
	return nil
}

func (r *memImageRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[id]
	if !ok {
		return nil, domainErrors.ErrImageNotFound
	}
	out := img
	return &out, nil
}

func (r *memImageRepo) UpdateLocked(_ context.Context, id uuid.UUID, fn func(img *models.Image) error) (*models.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[id]
	if !ok {
		return nil, domainErrors.ErrImageNotFound
	}
	if err := fn(&img); err != nil {
		return nil, err
	}
	img.UpdatedAt = time.Now().UTC()
	r.images[id] = img
	out := img
	return &out, nil
}

func (r *memImageRepo) DeleteLocked(_ context.Context, id uuid.UUID, fn func(img *models.Image) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[id]
	if !ok {
		return domainErrors.ErrImageNotFound
	}
	if err := fn(&img); err != nil {
		return err
	}
	delete(r.images, id)
	return nil
}

type fakeProvider struct {
	mu         sync.Mutex
	destroyed  []string
	destroyErr error
}

func (p *fakeProvider) Upload(_ context.Context, _ io.Reader, filename string) (*storage.UploadResult, error) {
	return &storage.UploadResult{PublicID: "uploaded/" + filename, Format: "png"}, nil
}

func (p *fakeProvider) Destroy(_ context.Context, publicID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyErr != nil {
		return p.destroyErr
	}
	p.destroyed = append(p.destroyed, publicID)
	return nil
}

func (p *fakeProvider) URL(publicID string, t storage.Transformation) string {
	crop := t.Crop
	if crop == "" {
		crop = "scale"
	}
	return fmt.Sprintf("cdn://%s/w_%d/h_%d/c_%s", publicID, t.Width, t.Height, crop)
}

func (p *fakeProvider) destroyCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.destroyed)
}

type memVerificationRepo struct {
	mu    sync.Mutex
	codes map[uuid.UUID]models.EmailVerification
	now   func() time.Time
}

func newMemVerificationRepo() *memVerificationRepo {
	return &memVerificationRepo{
		codes: map[uuid.UUID]models.EmailVerification{},
		now:   time.Now,
	}
}

func (r *memVerificationRepo) Create(_ context.Context, code *models.EmailVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[code.ID] = *code
	return nil
}

func (r *memVerificationRepo) Consume(_ context.Context, email, otp string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	found := false
	for id, code := range r.codes {
		if code.Email == email && code.OTP == otp && now.Before(code.ExpiresAt) {
			delete(r.codes, id)
			found = true
		}
	}
	return found, nil
}

func (r *memVerificationRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	var n int64
	for id, code := range r.codes {
		if !now.Before(code.ExpiresAt) {
			delete(r.codes, id)
			n++
		}
	}
	return n, nil
}

func (r *memVerificationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.codes)
}

func (r *memVerificationRepo) firstOTP(email string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, code := range r.codes {
		if code.Email == email {
			return code.OTP
		}
	}
	return ""
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]models.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domainErrors.ErrEmailExists
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domainErrors.ErrUserNotFound
	}
	out := user
	return &out, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			out := user
			return &out, nil
		}
	}
	return nil, domainErrors.ErrUserNotFound
}

func (r *memUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domainErrors.ErrUserNotFound
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return domainErrors.ErrUserNotFound
	}
	user.PasswordHash = &hash
	r.users[id] = user
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (m *fakeMailer) SendVerificationOTP(_ context.Context, to, otp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return fmt.Errorf("smtp unavailable")
	}
	m.sent = append(m.sent, to+":"+otp)
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeHasher struct{}

func (fakeHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) CheckPasswordHash(password, encodedHash string) (bool, error) {
	return encodedHash == "hashed:"+password, nil
}
