package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_jewel/internal/utils"
)

// JWTMiddleware authenticates storefront users from a bearer token.
type JWTMiddleware struct {
	jwt         *utils.JWTManager
	rateLimiter *InvalidAuthRateLimiter
}

// NewJWTMiddleware creates a JWTMiddleware.
func NewJWTMiddleware(jwt *utils.JWTManager, rateLimiter *InvalidAuthRateLimiter) *JWTMiddleware {
	return &JWTMiddleware{jwt: jwt, rateLimiter: rateLimiter}
}

// Handle rejects requests without a valid token.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return m.handle(false)
}

// Optional authenticates when a token is present and lets anonymous
// requests through. A present but invalid token is still rejected.
func (m *JWTMiddleware) Optional() gin.HandlerFunc {
	return m.handle(true)
}

// RequireRole rejects authenticated users without the given role. It must be
// chained after Handle.
func (m *JWTMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != role {
			utils.Error(c, 403, "FORBIDDEN", "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *JWTMiddleware) handle(optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if optional {
				c.Next()
				return
			}
			m.handleAuthError(c, "UNAUTHORIZED", "Missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.handleAuthError(c, "UNAUTHORIZED", "Invalid authorization header")
			return
		}

		claims, err := m.jwt.Validate(parts[1])
		if err != nil {
			m.handleAuthError(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func (m *JWTMiddleware) handleAuthError(c *gin.Context, code, message string) {
	// Apply rate limit for invalid auth attempts
	if m.rateLimiter != nil && !m.rateLimiter.Allow(c.ClientIP()) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}

	utils.Error(c, 401, code, message)
	c.Abort()
}

// GetUserID returns the authenticated user id, or 0 for anonymous callers.
func GetUserID(c *gin.Context) int {
	return c.GetInt("user_id")
}
