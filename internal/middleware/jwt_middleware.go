package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/ecotoken_store/internal/utils"
)

// JWTMiddleware identifies the shopper behind a request. A missing
// Authorization header is an anonymous shopper; a bad token is rejected.
type JWTMiddleware struct {
	rateLimiter *InvalidAuthRateLimiter
}

func NewJWTMiddleware() *JWTMiddleware {
	return &JWTMiddleware{rateLimiter: NewInvalidAuthRateLimiter()}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.handleAuthError(c, "UNAUTHORIZED", "Invalid authorization header")
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			code := "UNAUTHORIZED"
			if utils.IsInvalidToken(err) {
				code = utils.ErrInvalidToken.Error()
			}
			m.handleAuthError(c, code, "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// Stop releases the invalid-auth limiter's background cleanup.
func (m *JWTMiddleware) Stop() {
	m.rateLimiter.Stop()
}

func (m *JWTMiddleware) handleAuthError(c *gin.Context, code, message string) {
	if !m.rateLimiter.Allow(c.ClientIP()) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}
	utils.Error(c, 401, code, message)
	c.Abort()
}

// GetUserID returns the authenticated shopper id, or "" for anonymous requests.
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}
