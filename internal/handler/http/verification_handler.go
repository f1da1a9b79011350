package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Hansraja/MegaMarket/internal/domain/models"
	"github.com/Hansraja/MegaMarket/internal/service"
)

// VerificationHandler exposes the OTP verification flows.
type VerificationHandler struct {
	logger       *zap.Logger
	verification *service.VerificationService
}

// NewVerificationHandler creates a VerificationHandler.
func NewVerificationHandler(logger *zap.Logger, verification *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{
		logger:       logger.Named("verification_handler"),
		verification: verification,
	}
}

// RequestAccount starts the activation flow for a new customer.
// POST /api/v1/accounts/request
func (h *VerificationHandler) RequestAccount(c *gin.Context) {
	var req models.RequestAccountInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}

	user, err := h.verification.RequestAccount(c.Request.Context(), req.Email)
	if err != nil {
		RespondFlowError(c, h.logger, err)
		return
	}
	RespondFlow(c, http.StatusOK, "Verification email sent", gin.H{"user": user.ToResponse(true)})
}

// SendVerification issues and delivers a verification code.
// POST /api/v1/verifications/send
func (h *VerificationHandler) SendVerification(c *gin.Context) {
	var req models.SendVerificationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}

	if err := h.verification.SendVerification(c.Request.Context(), req.Email); err != nil {
		RespondFlowError(c, h.logger, err)
		return
	}
	RespondFlow(c, http.StatusOK, "Verification email sent", nil)
}

// VerifyEmail consumes a submitted code.
// POST /api/v1/verifications/verify
func (h *VerificationHandler) VerifyEmail(c *gin.Context) {
	var req models.VerifyEmailInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}

	if err := h.verification.VerifyEmail(c.Request.Context(), req.Email, req.OTP); err != nil {
		RespondFlowError(c, h.logger, err)
		return
	}
	RespondFlow(c, http.StatusOK, "Email verified", nil)
}

// ForgotPassword starts the password reset flow.
// POST /api/v1/passwords/forgot
func (h *VerificationHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}

	if err := h.verification.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		RespondFlowError(c, h.logger, err)
		return
	}
	RespondFlow(c, http.StatusOK, "Verification email sent", nil)
}

// ResetPassword completes the password reset flow.
// POST /api/v1/passwords/reset
func (h *VerificationHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}

	if err := h.verification.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.Password); err != nil {
		RespondFlowError(c, h.logger, err)
		return
	}
	RespondFlow(c, http.StatusOK, "Password reset successful", nil)
}
