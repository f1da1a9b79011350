// Package storage defines the object-storage capability consumed by the
// image lifecycle. Any backend exposing upload, destroy and URL derivation
// is substitutable.
package storage

import (
	"context"
	"io"
)

// UploadResult describes a stored remote object.
type UploadResult struct {
	PublicID string
	Format   string
	URL      string
}

// Transformation holds optional display-URL derivation parameters. Zero
// numeric values and empty strings mean "absent" and are omitted from the
// derived URL rather than rendered as zeros.
type Transformation struct {
	Width   int
	Height  int
	Crop    string // "scale" (default) or "fill"
	Quality int    // 0 means auto
	Format  string // "" means auto
	Effects map[string]int
}

// Provider is the remote object-storage boundary.
type Provider interface {
	// Upload stores the object and returns its key and detected format.
	Upload(ctx context.Context, body io.Reader, filename string) (*UploadResult, error)
	// Destroy removes the remote object. Destroying a missing object is not
	// an error.
	Destroy(ctx context.Context, publicID string) error
	// URL derives a display URL for the object key.
	URL(publicID string, t Transformation) string
}
