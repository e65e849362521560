package handler

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/kiramedia/checkout-api/internal/config"
	"github.com/kiramedia/checkout-api/internal/presentation/http/dto/request"
	"github.com/kiramedia/checkout-api/internal/presentation/http/dto/response"
	"github.com/kiramedia/checkout-api/pkg/utils"
)

// AuthHandler issues admin panel tokens
type AuthHandler struct {
	jwtManager *utils.JWTManager
	admin      config.AdminConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtManager *utils.JWTManager, admin config.AdminConfig) *AuthHandler {
	return &AuthHandler{jwtManager: jwtManager, admin: admin}
}

// Login checks the admin credential and returns a bearer token. Login is
// disabled entirely when no admin password is configured.
func (h *AuthHandler) Login(c *gin.Context) {
	if h.admin.Password == "" {
		response.Forbidden(c, "Admin login is not configured")
		return
	}

	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.admin.Password)) == 1
	if !userOK || !passOK {
		response.Unauthorized(c, "Invalid credentials")
		return
	}

	token, err := h.jwtManager.GenerateToken(req.Username)
	if err != nil {
		response.InternalServerError(c, "Failed to issue token")
		return
	}

	response.OK(c, "Login successful", gin.H{"token": token})
}
