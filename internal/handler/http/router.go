package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Hansraja/MegaMarket/internal/handler/http/middleware"
)

// NewRouter wires all HTTP routes.
func NewRouter(
	logger *zap.Logger,
	verification *VerificationHandler,
	users *UserHandler,
	images *ImageHandler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.Recovery(logger), middleware.RequestLogger(logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/accounts/request", verification.RequestAccount)
		v1.POST("/accounts/complete", users.CompleteRegistration)
		v1.POST("/verifications/send", verification.SendVerification)
		v1.POST("/verifications/verify", verification.VerifyEmail)
		v1.POST("/passwords/forgot", verification.ForgotPassword)
		v1.POST("/passwords/reset", verification.ResetPassword)

		v1.GET("/users/:id", users.GetProfile)
		v1.PATCH("/users/:id/profile", users.UpdateProfile)

		v1.GET("/images/:id/url", images.GetURL)
		v1.POST("/images/upload", images.Upload)
	}

	return router
}
