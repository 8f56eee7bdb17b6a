package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const sessionTTL = 15 * 60 // seconds

// RequireAdminSession gates mutating diagnostics routes (strategy changes,
// task-manager triggers) behind a session cookie set by the operator login
// flow. Adapted from internal/http/middleware/auth.go's session check; the
// Basic/Bearer paths are dropped since this API has no multi-tenant
// credential story, only a single operator session.
func RequireAdminSession(c *gin.Context) {
	session := sessions.Default(c)
	uid, _ := session.Get("uid").(string)
	if uid == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	now := time.Now().Unix()
	lastTouch, _ := session.Get("last_touch").(int64)
	if lastTouch == 0 || now-lastTouch > sessionTTL {
		session.Set("last_touch", now)
		_ = session.Save()
	}

	c.Next()
}
