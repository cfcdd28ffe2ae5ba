package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHeader carries the storefront session that owns a cart.
const SessionHeader = "X-Session-Id"

// SessionMiddleware reads the session id header, issuing a new one when the
// header is missing or not a UUID, and echoes it on the response.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if id, err := uuid.Parse(sessionID); err == nil {
			sessionID = id.String()
		} else {
			sessionID = uuid.New().String()
		}
		c.Set("session_id", sessionID)
		c.Header(SessionHeader, sessionID)
		c.Next()
	}
}

// GetSessionID returns the session id set by SessionMiddleware.
func GetSessionID(c *gin.Context) string {
	return c.GetString("session_id")
}
