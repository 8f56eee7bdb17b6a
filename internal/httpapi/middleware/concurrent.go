package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CapConcurrent limits the number of in-flight diagnostics requests,
// rejecting the excess with 429. Ownership is tracked by request id (see
// RequestID) rather than an anonymous channel token, so a leaked slot is
// traceable to the request that took it. Grounded on
// internal/http/middleware/concurrent_requests.go, with the plain channel
// semaphore swapped for the ownership-tracked slotPool.
func CapConcurrent(max int) gin.HandlerFunc {
	pool := newSlotPool(max)

	return func(c *gin.Context) {
		owner := RequestIDFrom(c)
		if owner == "" {
			owner = c.Request.RemoteAddr
		}

		if !pool.tryAcquire(owner) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many concurrent requests",
			})
			return
		}
		defer pool.release(owner)

		c.Next()
	}
}
