package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the calling user's ID in the Gin context.
const userIDKey = contextKey("userID")

// userIDHeader carries the caller identity. Authentication itself is handled
// upstream of this service; the header is trusted input from the gateway.
const userIDHeader = "X-User-ID"

// CallerIdentityMiddleware copies the caller id from the request header into
// the Gin context so handlers can pass it to the privilege checker.
func CallerIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader(userIDHeader); userID != "" {
			c.Set(string(userIDKey), userID)
		}
		c.Next()
	}
}

// GetUserIDFromContext retrieves the caller's user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}
