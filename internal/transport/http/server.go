package http

import (
	stdhttp "net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/driftroom/driftroom-server/internal/config"
	"github.com/driftroom/driftroom-server/internal/core"
	"github.com/driftroom/driftroom-server/internal/session"
	"github.com/driftroom/driftroom-server/internal/verify"
)

// NewServer builds the HTTP server with all routes wired.
func NewServer(svc *core.Service, gate session.Gate, verifier verify.Verifier, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(svc, gate, verifier, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter assembles the gin engine: session cookie, verification gate,
// rate limiting, API routes, stream endpoints, and static frontend assets.
func NewRouter(svc *core.Service, gate session.Gate, verifier verify.Verifier, cfg *config.Config, logger *zerolog.Logger) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("driftroom", store))
	r.Use(SessionID())

	h := NewHandlers(svc, gate, verifier, logger)
	limiter := newSlidingLimiter(cfg.RateLimitPerMinute, time.Minute)

	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.POST("/verifyCaptcha", h.VerifyCaptcha)
	api.GET("/stream/:roomKey", h.Stream)
	api.GET("/ws/:roomKey", h.StreamWS)

	gated := api.Group("", RequireVerified(gate, logger), RateLimit(limiter))
	gated.POST("/createRoom", h.CreateRoom)
	gated.POST("/joinRoom", h.JoinRoom)
	gated.POST("/sendMessage", h.SendMessage)
	gated.POST("/updateName", h.UpdateName)

	r.DELETE("/closeRoom/:roomKey", RequireVerified(gate, logger), RateLimit(limiter), h.CloseRoom)

	if cfg.StaticPath != "" {
		r.NoRoute(staticFallback(cfg.StaticPath))
	}

	return r
}

// staticFallback serves frontend assets, falling back to index.html for
// client-side routes (the original app navigates without full page loads).
func staticFallback(root string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != stdhttp.MethodGet {
			c.JSON(stdhttp.StatusNotFound, ErrorResponse{Error: "not found"})
			return
		}
		path := filepath.Join(root, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.File(path)
			return
		}
		c.File(filepath.Join(root, "index.html"))
	}
}
