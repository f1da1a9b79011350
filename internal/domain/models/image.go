package models

import (
	"time"

	"github.com/google/uuid"
)

// ProviderCloudinary is the remote-managed storage provider. Images with this
// provider store an object key in URL and own the remote object's lifecycle;
// any other provider stores a verbatim URL.
const ProviderCloudinary = "cloudinary"

// Image is a persisted reference to a storage-backed picture plus its
// display metadata.
type Image struct {
	ID        uuid.UUID `json:"id" db:"id"`
	URL       string    `json:"url" db:"url"`
	Alt       *string   `json:"alt,omitempty" db:"alt"`
	Caption   *string   `json:"caption,omitempty" db:"caption"`
	Provider  string    `json:"provider" db:"provider"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RemoteManaged reports whether the image's remote object is owned by the
// storage provider and must be destroyed together with the record.
func (i *Image) RemoteManaged() bool {
	return i.Provider == ProviderCloudinary
}

// ImageAction selects what an ImageInput does to the referenced image.
type ImageAction string

const (
	ImageActionCreate ImageAction = "create"
	ImageActionUpdate ImageAction = "update"
	ImageActionDelete ImageAction = "delete"
	ImageActionNone   ImageAction = "none"
)

// ImageInput is the caller-supplied instruction for the image attached to a
// domain entity. Exactly one action applies; ID references an existing image
// for update/delete/none, URL and Provider are required together for create.
type ImageInput struct {
	Action   ImageAction `json:"action" binding:"required"`
	ID       *uuid.UUID  `json:"id,omitempty"`
	URL      string      `json:"url,omitempty"`
	Provider string      `json:"provider,omitempty"`
	Alt      *string     `json:"alt,omitempty"`
	Caption  *string     `json:"caption,omitempty"`
}

// Validate checks the per-action field requirements.
func (in *ImageInput) Validate() bool {
	switch in.Action {
	case ImageActionCreate:
		return true // missing url/provider resolves to no image, not an error
	case ImageActionUpdate, ImageActionDelete:
		return in.ID != nil
	case ImageActionNone:
		return true
	default:
		return false
	}
}
