package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/texnomart/catalog_api/internal/middleware"
	"github.com/texnomart/catalog_api/internal/service"
	"github.com/texnomart/catalog_api/internal/utils"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	authService *service.AuthService
	rateLimiter *middleware.LoginRateLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService, rateLimiter *middleware.LoginRateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, rateLimiter: rateLimiter}
}

// Register handles POST /register/
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, pair, err := h.authService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrUsernameTaken):
			utils.Error(c, 400, "USERNAME_TAKEN", "Username already exists")
		case errors.Is(err, utils.ErrPasswordMismatch):
			utils.Error(c, 400, "PASSWORD_MISMATCH", "Passwords do not match")
		case errors.Is(err, utils.ErrEmailTaken):
			utils.Error(c, 400, "EMAIL_TAKEN", "Email already exists")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to register user")
		}
		return
	}

	utils.Success(c, 201, "User registered successfully", gin.H{
		"username": user.Username,
		"email":    user.Email,
		"access":   pair.Access,
		"refresh":  pair.Refresh,
	})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /login/. Only failed attempts count against the per-IP
// rate limit; a successful login clears it.
func (h *AuthHandler) Login(c *gin.Context) {
	ip := c.ClientIP()
	if h.rateLimiter.Blocked(ip) {
		utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Too many login attempts, try again later")
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, pair, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		h.rateLimiter.RecordFailure(ip)
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid username or password")
		return
	}
	h.rateLimiter.Reset(ip)

	utils.Success(c, 200, "Login successful", gin.H{
		"username": user.Username,
		"email":    user.Email,
		"access":   pair.Access,
		"refresh":  pair.Refresh,
	})
}

type logoutRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// Logout handles POST /logout/. Any invalid, expired or already revoked token
// gets the same generic rejection.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.Refresh); err != nil {
		utils.Error(c, 400, "INVALID_TOKEN", "Invalid token")
		return
	}

	utils.Success(c, 200, "Logged out successfully", nil)
}
