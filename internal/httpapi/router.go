// Package httpapi is the diagnostics and administration surface
// SPEC_FULL.md adds to fill the gap left by the out-of-scope task-manager
// UI (spec.md §1, §6): a small Gin API to observe the process table and
// drive strategy changes / task-manager handoff from tooling instead of a
// physical LCD/keypad loop.
package httpapi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rwth-i11/spos/internal/audit"
	"github.com/rwth-i11/spos/internal/httpapi/middleware"
	"github.com/rwth-i11/spos/internal/httpapi/snapshot"
	"github.com/rwth-i11/spos/internal/spos"
	"github.com/rwth-i11/spos/internal/spos/strategy"
	"github.com/rwth-i11/spos/pkg/jsonx"
)

// AdminCredentials is the single operator account this core's diagnostics
// API trusts, sourced from the environment rather than a user store (there
// is exactly one console, not a multi-tenant login).
type AdminCredentials struct {
	Username string
	Password string
}

// Kernel is the narrow surface the diagnostics API drives; satisfied by
// *spos.Kernel in production and a fake in handler tests.
type Kernel interface {
	snapshot.Source
	SetSchedulingStrategy(s strategy.Strategy)
	GetSchedulingStrategy() strategy.Strategy
	GetStackChecksum(pid spos.ProcessID) byte
	GetTrace(pid spos.ProcessID) []string
}

// TaskManagerTrigger synthetically injects the reserved task-manager input
// code (spec.md §4.3 step 5) from tooling rather than physical input.
type TaskManagerTrigger interface {
	TriggerTaskManager()
}

// ZapLogger mirrors cmd/zmux-server/main.go's request logging middleware.
func ZapLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		var errs []error
		for _, ge := range c.Errors {
			if ge.Err != nil {
				errs = append(errs, ge.Err)
			}
		}
		joinedErr := errors.Join(errs...)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("latency", latency),
		}
		if joinedErr != nil {
			fields = append(fields, zap.Error(joinedErr))
		}

		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// NewRouter wires the diagnostics API. trail may be nil, in which case
// mutating endpoints skip audit publication. store backs the admin
// session cookie checked by middleware.RequireAdminSession.
func NewRouter(log *zap.Logger, kernel Kernel, taskMgr TaskManagerTrigger, cache *snapshot.Cache, trail *audit.Trail, store sessions.Store, creds AdminCredentials) *gin.Engine {
	log = log.Named("httpapi")
	isDev := os.Getenv("ENV") == "dev"

	r := gin.New()
	_ = r.SetTrustedProxies([]string{"127.0.0.1"})

	r.Use(gin.Recovery())

	if isDev {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(secure.New(secure.Config{
			SSLRedirect:          false,
			FrameDeny:            true,
			ContentTypeNosniff:   true,
			BrowserXssFilter:     true,
			STSSeconds:           31536000,
			STSIncludeSubdomains: true,
		}))
	}

	r.Use(middleware.RequestID())
	r.Use(middleware.CapConcurrent(64))
	r.Use(ZapLogger(log))
	r.Use(sessions.Sessions("spos_admin", store))

	h := &handlers{log: log, kernel: kernel, taskMgr: taskMgr, cache: cache, trail: trail, creds: creds, isDev: isDev}

	api := r.Group("/api")
	api.POST("/login", h.postLogin)
	api.POST("/logout", h.postLogout)
	api.GET("/processes", h.getProcesses)
	api.GET("/processes/:pid/events", h.getProcessEvents)
	api.GET("/strategy", h.getStrategy)

	admin := api.Group("")
	admin.Use(middleware.RequireAdminSession)
	admin.POST("/strategy", h.postStrategy)
	admin.POST("/taskmanager/trigger", h.postTaskManagerTrigger)

	return r
}

type handlers struct {
	log     *zap.Logger
	kernel  Kernel
	taskMgr TaskManagerTrigger
	cache   *snapshot.Cache
	trail   *audit.Trail
	creds   AdminCredentials
	isDev   bool
}

const adminSessionMaxAge = 4 * 3600 // seconds

func (h *handlers) sessionCookieOptions(maxAge int) sessions.Options {
	return sessions.Options{
		Path:     "/api",
		MaxAge:   maxAge,
		Secure:   !h.isDev,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// postLogin authenticates the single operator account against
// AdminCredentials and mints an admin session cookie.
func (h *handlers) postLogin(c *gin.Context) {
	var req loginReq
	if err := jsonx.ParseStrictJSONBody(c.Request, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.creds.Password)) == 1
	if !userOK || !passOK {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}

	sess := sessions.Default(c)
	sess.Set("uid", req.Username)
	sess.Set("last_touch", time.Now().Unix())
	sess.Options(h.sessionCookieOptions(adminSessionMaxAge))
	if err := sess.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (h *handlers) postLogout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(h.sessionCookieOptions(-1))
	_ = sess.Save()
	c.Status(http.StatusNoContent)
}

func (h *handlers) getProcesses(c *gin.Context) {
	res, err := h.cache.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if res.CacheHit {
		c.Header("X-Cache", "hit")
	} else {
		c.Header("X-Cache", "miss")
	}
	c.JSON(http.StatusOK, gin.H{
		"generated_at": res.GeneratedAt,
		"slots":        res.Slots,
	})
}

func (h *handlers) getProcessEvents(c *gin.Context) {
	pid, err := strconv.Atoi(c.Param("pid"))
	if err != nil || pid < 0 || pid >= spos.NMax {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid pid"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": h.kernel.GetTrace(spos.ProcessID(pid))})
}

func (h *handlers) getStrategy(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"strategy": h.kernel.GetSchedulingStrategy().String()})
}

type strategyReq struct {
	Strategy string `json:"strategy"`
}

func (h *handlers) postStrategy(c *gin.Context) {
	var req strategyReq
	if err := jsonx.ParseStrictJSONBody(c.Request, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s, ok := parseStrategy(req.Strategy)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "unknown strategy: " + req.Strategy})
		return
	}

	h.kernel.SetSchedulingStrategy(s)
	if h.cache != nil {
		h.cache.Invalidate()
	}

	if h.trail != nil {
		_ = h.trail.Publish(c.Request.Context(), audit.Event{
			Kind:   audit.StrategyChanged,
			Detail: s.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"strategy": s.String()})
}

func (h *handlers) postTaskManagerTrigger(c *gin.Context) {
	if h.taskMgr == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"message": "no task manager wired"})
		return
	}
	h.taskMgr.TriggerTaskManager()
	c.JSON(http.StatusAccepted, gin.H{"status": "triggered"})
}

func parseStrategy(name string) (strategy.Strategy, bool) {
	switch name {
	case "even":
		return strategy.Even, true
	case "random":
		return strategy.Random, true
	case "round-robin", "roundrobin":
		return strategy.RoundRobin, true
	case "inactive-aging", "inactiveaging":
		return strategy.InactiveAging, true
	case "run-to-completion", "runtocompletion":
		return strategy.RunToCompletion, true
	default:
		return 0, false
	}
}
