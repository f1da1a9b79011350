package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/Hansraja/MegaMarket/internal/domain/errors"
)

// FlowResponse is the uniform result shape for verification and account
// flows: success plus a human-readable message, never a raw provider error.
type FlowResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondFlow sends a successful flow result.
func RespondFlow(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, FlowResponse{Success: true, Message: message, Data: data})
}

// RespondFlowError maps a sentinel error to a status code and a
// {success:false, message} body.
func RespondFlowError(c *gin.Context, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong"

	switch {
	case errors.Is(err, domainErrors.ErrEmailExists):
		status, message = http.StatusConflict, "A user with this email already exists"
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		status, message = http.StatusConflict, "Resource already exists"
	case errors.Is(err, domainErrors.ErrUserNotFound):
		status, message = http.StatusNotFound, "User not found"
	case errors.Is(err, domainErrors.ErrImageNotFound):
		status, message = http.StatusNotFound, "Image not found"
	case errors.Is(err, domainErrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found"
	case errors.Is(err, domainErrors.ErrInvalidCode):
		status, message = http.StatusBadRequest, "Invalid OTP"
	case errors.Is(err, domainErrors.ErrDeliveryFailed):
		status, message = http.StatusBadGateway, "Failed to send verification email"
	case errors.Is(err, domainErrors.ErrRateLimited):
		status, message = http.StatusTooManyRequests, "Too many requests, try again later"
	case errors.Is(err, domainErrors.ErrAssetProvider):
		status, message = http.StatusBadGateway, "Storage provider request failed"
	case errors.Is(err, domainErrors.ErrInvalidIntent), errors.Is(err, domainErrors.ErrInvalidInput):
		status, message = http.StatusBadRequest, "Invalid input"
	case errors.Is(err, domainErrors.ErrUserInactive):
		status, message = http.StatusForbidden, "User is not active"
	}

	logger.Error("Flow error response",
		zap.Error(err),
		zap.Int("status_code", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)

	c.JSON(status, FlowResponse{Success: false, Message: message})
}

// RespondBadRequest reports a malformed request payload.
func RespondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FlowResponse{Success: false, Message: "Invalid request payload: " + err.Error()})
}
