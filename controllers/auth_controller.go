package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dressmaker-orders-api/logger"
	"github.com/kendall-kelly/dressmaker-orders-api/services"
)

// VerifyRequest carries the shared admin secret
type VerifyRequest struct {
	Secret string `json:"secret" binding:"required"`
}

// AuthController exchanges the admin secret for a bearer token
type AuthController struct {
	auth *services.AdminAuthService
}

func NewAuthController(auth *services.AdminAuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Verify handles POST /api/v1/auth/verify
func (ctl *AuthController) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	token, expiresAt, err := ctl.auth.Verify(req.Secret)
	if err != nil {
		logger.Warnw("admin_login_failed", "client_ip", c.ClientIP())
		handleError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt.UTC().Format(time.RFC3339),
	})
}
