package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDKey is the Gin context key holding the correlation id.
const requestIDKey = "request_id"

// RequestID assigns every inbound request a correlation id, reusing a
// client-supplied X-Request-ID when it looks sane and minting a uuid
// otherwise. Grounded on internal/http/middleware/request_id.go.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if l := len(id); l < 1 || l > 64 {
			id = uuid.New().String()
		}
		c.Header("X-Request-ID", id)
		c.Set(requestIDKey, id)
		c.Next()
	}
}

// RequestIDFrom reads the correlation id stashed by RequestID.
func RequestIDFrom(c *gin.Context) string {
	v, _ := c.Get(requestIDKey)
	id, _ := v.(string)
	return id
}
