// Package s3 implements the storage provider against an S3-compatible
// bucket. Objects stored here are addressed by full URL, so image records
// using this provider keep the URL verbatim and no transformation pipeline
// applies.
package s3

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Hansraja/MegaMarket/internal/config"
	domainErrors "github.com/Hansraja/MegaMarket/internal/domain/errors"
	"github.com/Hansraja/MegaMarket/internal/infrastructure/storage"
)

// Client implements storage.Provider on top of an S3 bucket.
type Client struct {
	s3       *awss3.S3
	uploader *s3manager.Uploader
	bucket   string
	baseURL  string
	logger   *zap.Logger
}

// NewClient creates an S3 storage client.
func NewClient(cfg config.S3Config, logger *zap.Logger) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return &Client{
		s3:       awss3.New(sess),
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		logger:   logger.Named("s3"),
	}, nil
}

// Upload stores the object under a generated key and returns its public URL.
func (c *Client) Upload(ctx context.Context, body io.Reader, filename string) (*storage.UploadResult, error) {
	ext := path.Ext(filename)
	key := fmt.Sprintf("images/%s%s", uuid.New().String(), ext)

	_, err := c.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		c.logger.Error("Upload failed", zap.Error(err), zap.String("key", key))
		return nil, fmt.Errorf("%w: upload: %v", domainErrors.ErrAssetProvider, err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, key)
	return &storage.UploadResult{
		PublicID: url,
		Format:   strings.TrimPrefix(ext, "."),
		URL:      url,
	}, nil
}

// Destroy removes the object. The public ID is the stored URL; the bucket
// key is its path under the base URL.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	key := strings.TrimPrefix(strings.TrimPrefix(publicID, c.baseURL), "/")
	_, err := c.s3.DeleteObjectWithContext(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		c.logger.Error("Delete failed", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("%w: destroy %s: %v", domainErrors.ErrAssetProvider, key, err)
	}
	return nil
}

// URL returns the stored URL verbatim; transform parameters do not apply to
// S3 objects.
func (c *Client) URL(publicID string, _ storage.Transformation) string {
	return publicID
}

var _ storage.Provider = (*Client)(nil)
