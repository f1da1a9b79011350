package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Hansraja/MegaMarket/internal/domain/repository"
	"github.com/Hansraja/MegaMarket/internal/infrastructure/storage"
	"github.com/Hansraja/MegaMarket/internal/service"
)

// ImageHandler exposes display-URL derivation and binary uploads.
type ImageHandler struct {
	logger *zap.Logger
	assets *service.AssetService
	images repository.ImageRepository
}

// NewImageHandler creates an ImageHandler.
func NewImageHandler(logger *zap.Logger, assets *service.AssetService, images repository.ImageRepository) *ImageHandler {
	return &ImageHandler{
		logger: logger.Named("image_handler"),
		assets: assets,
		images: images,
	}
}

// GetURL derives a display URL for a stored image.
// GET /api/v1/images/:id/url?width=&height=&crop=&quality=&format=
func (h *ImageHandler) GetURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, err)
		return
	}

	img, err := h.images.FindByID(c.Request.Context(), id)
	if err != nil {
		RespondFlowError(c, h.logger, err)
		return
	}

	t := storage.Transformation{
		Width:   queryInt(c, "width"),
		Height:  queryInt(c, "height"),
		Crop:    c.Query("crop"),
		Quality: queryInt(c, "quality"),
		Format:  c.Query("format"),
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       img.ID,
		"url":      h.assets.ImageURL(img, t),
		"blur_url": h.assets.BlurURL(img),
		"alt":      img.Alt,
		"caption":  img.Caption,
		"provider": img.Provider,
	})
}

// Upload stores a binary image with the requested provider and returns the
// object key for a subsequent create intent.
// POST /api/v1/images/upload?provider=cloudinary|s3
func (h *ImageHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		RespondBadRequest(c, err)
		return
	}
	defer file.Close()

	result, err := h.assets.Upload(c.Request.Context(), c.Query("provider"), file, header.Filename)
	if err != nil {
		RespondFlowError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"public_id": result.PublicID,
		"format":    result.Format,
		"url":       result.URL,
	})
}

func queryInt(c *gin.Context, name string) int {
	v := c.Query(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
