package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Hansraja/MegaMarket/internal/domain/models"
	"github.com/Hansraja/MegaMarket/internal/service"
)

// UserHandler exposes registration completion and profile maintenance. The
// authenticated identity arrives as an explicit path parameter; session
// mechanics live in the gateway in front of this service.
type UserHandler struct {
	logger *zap.Logger
	users  *service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(logger *zap.Logger, users *service.UserService) *UserHandler {
	return &UserHandler{
		logger: logger.Named("user_handler"),
		users:  users,
	}
}

// CompleteRegistration activates a placeholder account.
// POST /api/v1/accounts/complete
func (h *UserHandler) CompleteRegistration(c *gin.Context) {
	var req models.CompleteRegistrationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}

	user, err := h.users.CompleteRegistration(c.Request.Context(), req)
	if err != nil {
		RespondFlowError(c, h.logger, err)
		return
	}
	RespondFlow(c, http.StatusCreated, "Your account has been created", gin.H{"user": user.ToResponse(true)})
}

// UpdateProfile partially updates a user's profile.
// PATCH /api/v1/users/:id/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, err)
		return
	}

	var req models.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		RespondFlowError(c, h.logger, err)
		return
	}
	RespondFlow(c, http.StatusOK, "Profile updated successfully", gin.H{"user": user.ToResponse(true)})
}

// GetProfile returns a user's public profile.
// GET /api/v1/users/:id
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, err)
		return
	}

	user, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		RespondFlowError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse(false)})
}
