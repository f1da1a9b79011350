package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/Hansraja/MegaMarket/internal/domain/errors"
	"github.com/Hansraja/MegaMarket/internal/domain/models"
	"github.com/Hansraja/MegaMarket/internal/domain/repository"
	"github.com/Hansraja/MegaMarket/internal/events/kafka"
	"github.com/Hansraja/MegaMarket/internal/infrastructure/storage"
	"github.com/Hansraja/MegaMarket/internal/utils/metrics"
)

// blurFallbackPublicID is served as the blur placeholder when an image has
// no usable remote object key.
const blurFallbackPublicID = "74f98fbe6a8ada2db6ec26feb98f994e"

// AssetService reconciles caller-supplied image intents with the images
// table and the remote storage provider. Remote destruction always precedes
// the local record mutation; when destruction fails the mutation is aborted
// and the original record stays visible.
type AssetService struct {
	images    repository.ImageRepository
	remote    storage.Provider
	providers map[string]storage.Provider
	events    kafka.Publisher
	logger    *zap.Logger
}

// NewAssetService creates the image lifecycle service. remote is the
// provider that owns cloudinary-tagged objects; extra providers (keyed by
// provider tag) serve uploads for verbatim-URL images.
func NewAssetService(
	images repository.ImageRepository,
	remote storage.Provider,
	extra map[string]storage.Provider,
	events kafka.Publisher,
	logger *zap.Logger,
) *AssetService {
	providers := map[string]storage.Provider{models.ProviderCloudinary: remote}
	for name, p := range extra {
		providers[name] = p
	}
	return &AssetService{
		images:    images,
		remote:    remote,
		providers: providers,
		events:    events,
		logger:    logger.Named("asset_service"),
	}
}

// Resolve maps an image intent onto the image that should now be referenced
// by the caller's entity. A nil result with a nil error means "nothing to
// attach"; the caller decides whether that is acceptable.
func (s *AssetService) Resolve(ctx context.Context, input *models.ImageInput) (*models.Image, error) {
	if input == nil {
		return nil, nil
	}
	if !input.Validate() {
		return nil, domainErrors.ErrInvalidIntent
	}

	switch input.Action {
	case models.ImageActionCreate:
		return s.create(ctx, input)
	case models.ImageActionUpdate:
		return s.update(ctx, input)
	case models.ImageActionDelete:
		return nil, s.delete(ctx, *input.ID)
	case models.ImageActionNone:
		if input.ID == nil {
			return nil, nil
		}
		return s.images.FindByID(ctx, *input.ID)
	default:
		return nil, domainErrors.ErrInvalidIntent
	}
}

func (s *AssetService) create(ctx context.Context, input *models.ImageInput) (*models.Image, error) {
	if input.URL == "" || input.Provider == "" {
		return nil, nil
	}

	now := time.Now().UTC()
	img := &models.Image{
		ID:        uuid.New(),
		URL:       input.URL,
		Alt:       input.Alt,
		Caption:   input.Caption,
		Provider:  input.Provider,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.images.Create(ctx, img); err != nil {
		metrics.ImageOperationsTotal.WithLabelValues("create", "failure").Inc()
		return nil, err
	}

	metrics.ImageOperationsTotal.WithLabelValues("create", "success").Inc()
	s.publish(ctx, kafka.EventImageCreated, img)
	return img, nil
}

func (s *AssetService) update(ctx context.Context, input *models.ImageInput) (*models.Image, error) {
	img, err := s.images.UpdateLocked(ctx, *input.ID, func(img *models.Image) error {
		if input.URL != "" && img.URL != "" && input.URL != img.URL && img.RemoteManaged() {
			// Destroy-before-overwrite: the replaced remote object must be
			// gone before the record points elsewhere.
			if err := s.destroyRemote(ctx, img.Provider, img.URL); err != nil {
				return err
			}
		}
		if input.URL != "" {
			img.URL = input.URL
		}
		if input.Provider != "" {
			img.Provider = input.Provider
		}
		if input.Alt != nil {
			img.Alt = input.Alt
		}
		if input.Caption != nil {
			img.Caption = input.Caption
		}
		return nil
	})
	if err != nil {
		metrics.ImageOperationsTotal.WithLabelValues("update", "failure").Inc()
		return nil, err
	}

	metrics.ImageOperationsTotal.WithLabelValues("update", "success").Inc()
	return img, nil
}

func (s *AssetService) delete(ctx context.Context, id uuid.UUID) error {
	var deleted models.Image
	err := s.images.DeleteLocked(ctx, id, func(img *models.Image) error {
		deleted = *img
		if img.RemoteManaged() {
			return s.destroyRemote(ctx, img.Provider, img.URL)
		}
		return nil
	})
	if err != nil {
		metrics.ImageOperationsTotal.WithLabelValues("delete", "failure").Inc()
		return err
	}

	metrics.ImageOperationsTotal.WithLabelValues("delete", "success").Inc()
	s.publish(ctx, kafka.EventImageDeleted, &deleted)
	return nil
}

func (s *AssetService) destroyRemote(ctx context.Context, provider, publicID string) error {
	if err := s.remote.Destroy(ctx, publicID); err != nil {
		metrics.StorageDestroyTotal.WithLabelValues(provider, "failure").Inc()
		s.logger.Error("Remote destroy failed",
			zap.Error(err), zap.String("provider", provider), zap.String("public_id", publicID))
		return err
	}
	metrics.StorageDestroyTotal.WithLabelValues(provider, "success").Inc()
	return nil
}

// Upload stores a binary image with the named provider and returns the
// stored object's key and format. The default provider is cloudinary.
func (s *AssetService) Upload(ctx context.Context, provider string, body io.Reader, filename string) (*storage.UploadResult, error) {
	if provider == "" {
		provider = models.ProviderCloudinary
	}
	p, ok := s.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: unknown storage provider %q", domainErrors.ErrInvalidInput, provider)
	}
	return p.Upload(ctx, body, filename)
}

// ImageURL derives a display URL for the image. Remote-managed images go
// through the provider's transformation pipeline; any other provider's URL
// is returned verbatim and the transform parameters are ignored.
func (s *AssetService) ImageURL(img *models.Image, t storage.Transformation) string {
	if img == nil {
		return ""
	}
	if img.RemoteManaged() && img.URL != "" {
		return s.remote.URL(img.URL, t)
	}
	return img.URL
}

// BlurURL derives the low-resolution blur placeholder for the image,
// falling back to a stock object key so callers always receive a URL.
func (s *AssetService) BlurURL(img *models.Image) string {
	t := storage.Transformation{
		Width:   10,
		Height:  10,
		Crop:    "fill",
		Quality: 10,
		Format:  "webp",
		Effects: map[string]int{"blur": 200},
	}
	if img != nil && img.RemoteManaged() && img.URL != "" {
		return s.remote.URL(img.URL, t)
	}
	return s.remote.URL(blurFallbackPublicID, t)
}

func (s *AssetService) publish(ctx context.Context, eventType kafka.EventType, img *models.Image) {
	err := s.events.Publish(ctx, eventType, img.ID.String(), models.ImageEvent{
		ImageID:  img.ID,
		Provider: img.Provider,
	})
	if err != nil {
		// Events are advisory; the record mutation already committed.
		s.logger.Warn("Failed to publish image event", zap.Error(err), zap.String("type", string(eventType)))
	}
}
