package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/texnomart/catalog_api/internal/utils"
)

// Context keys set by the JWT middleware.
const (
	ctxUserID      = "user_id"
	ctxUsername    = "username"
	ctxEmail       = "email"
	ctxIsSuperuser = "is_superuser"
)

// JWTMiddleware authenticates requests with access tokens.
type JWTMiddleware struct {
	tokens *utils.TokenManager
}

// NewJWTMiddleware constructs a JWTMiddleware.
func NewJWTMiddleware(tokens *utils.TokenManager) *JWTMiddleware {
	return &JWTMiddleware{tokens: tokens}
}

// Handle rejects requests without a valid Bearer access token.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.claimsFromHeader(c)
		if !ok {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing or invalid authorization header")
			c.Abort()
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// Optional sets the user context when a valid Bearer token is present and
// lets anonymous requests through. Used by catalog reads for the per-user
// like flags.
func (m *JWTMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := m.claimsFromHeader(c); ok {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// RequireSuperuser rejects requests whose access token does not belong to a
// superuser. Used by the category delete endpoint.
func (m *JWTMiddleware) RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.claimsFromHeader(c)
		if !ok {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing or invalid authorization header")
			c.Abort()
			return
		}
		if !claims.IsSuperuser {
			utils.Error(c, 403, "FORBIDDEN", "Superadmin access required")
			c.Abort()
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

func (m *JWTMiddleware) claimsFromHeader(c *gin.Context) (*utils.TokenClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := m.tokens.ValidateType(parts[1], utils.TokenTypeAccess)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setClaims(c *gin.Context, claims *utils.TokenClaims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxUsername, claims.Username)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxIsSuperuser, claims.IsSuperuser)
}

// UserID returns the authenticated user id from context, 0 for anonymous
// requests.
func UserID(c *gin.Context) int {
	return c.GetInt(ctxUserID)
}
