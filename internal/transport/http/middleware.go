package http

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/driftroom/driftroom-server/internal/session"
)

const (
	sessionKeyID = "sid"

	// ContextKeySessionID is the gin context key holding the session id.
	ContextKeySessionID = "session_id"
)

// SessionID assigns every browser session a stable uuid, carried in the
// signed session cookie, and exposes it on the request context.
func SessionID() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		sid, _ := s.Get(sessionKeyID).(string)
		if sid == "" {
			sid = uuid.NewString()
			s.Set(sessionKeyID, sid)
			_ = s.Save()
		}
		c.Set(ContextKeySessionID, sid)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}

// RequireVerified rejects requests from sessions that have not passed human
// verification within the validity window. It runs before any core
// operation, so room state is never partially mutated on rejection.
func RequireVerified(gate session.Gate, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := sessionID(c)
		if !gate.Verified(sid) {
			logger.Debug().Str("path", c.Request.URL.Path).Msg("unverified session rejected")
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "verification required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimit throttles per session id with a sliding window.
func RateLimit(limiter *slidingLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.allow(sessionID(c)) {
			c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger logs every HTTP request after it completes.
func RequestLogger(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}
