// Package cloudinary talks to the Cloudinary upload API. Cloudinary is the
// remote-managed provider: it owns binary object lifecycle and URL
// transformation, and image records store the object key rather than a full
// URL.
package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Hansraja/MegaMarket/internal/config"
	domainErrors "github.com/Hansraja/MegaMarket/internal/domain/errors"
	"github.com/Hansraja/MegaMarket/internal/infrastructure/storage"
)

const requestTimeout = 30 * time.Second

// Client implements storage.Provider against the Cloudinary REST API.
type Client struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Cloudinary API client.
func NewClient(cfg config.CloudinaryConfig, logger *zap.Logger) *Client {
	return &Client{
		cloudName:  cfg.CloudName,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		baseURL:    "https://api.cloudinary.com/v1_1",
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger.Named("cloudinary"),
	}
}

// sign produces the Cloudinary request signature: SHA-1 over the sorted
// request parameters concatenated with the API secret.
func (c *Client) sign(params url.Values) string {
	// url.Values.Encode sorts by key, which is exactly the signing order.
	sum := sha1.Sum([]byte(params.Encode() + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

type destroyResponse struct {
	Result string `json:"result"`
}

// Destroy removes an uploaded object by its public ID. A missing object is
// reported as success so that repeated deletions stay idempotent.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	params := url.Values{}
	params.Set("public_id", publicID)
	params.Set("timestamp", fmt.Sprintf("%d", time.Now().Unix()))

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", params.Get("timestamp"))
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.sign(params))

	endpoint := fmt.Sprintf("%s/%s/image/destroy", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create destroy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Destroy request failed", zap.Error(err), zap.String("public_id", publicID))
		return fmt.Errorf("%w: destroy %s: %v", domainErrors.ErrAssetProvider, publicID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: destroy %s: status %d", domainErrors.ErrAssetProvider, publicID, resp.StatusCode)
	}

	var dr destroyResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("%w: destroy %s: decode response: %v", domainErrors.ErrAssetProvider, publicID, err)
	}
	if dr.Result != "ok" && dr.Result != "not found" {
		return fmt.Errorf("%w: destroy %s: result %q", domainErrors.ErrAssetProvider, publicID, dr.Result)
	}

	c.logger.Debug("Remote object destroyed", zap.String("public_id", publicID), zap.String("result", dr.Result))
	return nil
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	Format    string `json:"format"`
	SecureURL string `json:"secure_url"`
}

// Upload stores the object and returns its public ID and format.
func (c *Client) Upload(ctx context.Context, body io.Reader, filename string) (*storage.UploadResult, error) {
	params := url.Values{}
	params.Set("timestamp", fmt.Sprintf("%d", time.Now().Unix()))

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		defer pw.Close()
		defer mw.Close()
		_ = mw.WriteField("timestamp", params.Get("timestamp"))
		_ = mw.WriteField("api_key", c.apiKey)
		_ = mw.WriteField("signature", c.sign(params))
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, body); err != nil {
			pw.CloseWithError(err)
		}
	}()

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Upload request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: upload: %v", domainErrors.ErrAssetProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upload: status %d", domainErrors.ErrAssetProvider, resp.StatusCode)
	}

	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return nil, fmt.Errorf("%w: upload: decode response: %v", domainErrors.ErrAssetProvider, err)
	}

	c.logger.Info("Object uploaded", zap.String("public_id", ur.PublicID), zap.String("format", ur.Format))
	return &storage.UploadResult{PublicID: ur.PublicID, Format: ur.Format, URL: ur.SecureURL}, nil
}

// URL derives a delivery URL for the object key.
func (c *Client) URL(publicID string, t storage.Transformation) string {
	return BuildURL(c.cloudName, publicID, t)
}

var _ storage.Provider = (*Client)(nil)
