package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ideafund/ideafund-backend/pkg/logger"
	"github.com/rs/zerolog"
)

// RequestIDKey is where the request id lives in the gin context
const RequestIDKey = "request_id"

// quietPaths are polled by infrastructure and only logged when they fail
var quietPaths = map[string]bool{"/health": true, "/metrics": true}

func levelFor(status int) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// RequestLogger tags each request with an id (X-Request-ID in and out) and
// writes one structured line when it completes
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader("X-Request-ID")
		if id == "" || len(id) > 36 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)

		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if quietPaths[path] && status < 500 {
			return
		}

		// ws 토큰이 쿼리에 실리므로 RawQuery 는 남기지 않는다
		log := logger.WithRequestID(id)
		event := log.WithLevel(levelFor(status)).
			Str("method", c.Request.Method).
			Str("route", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP())
		if userID := GetUserID(c); userID != 0 {
			event = event.Uint64("user_id", userID)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.Int("bytes", c.Writer.Size()).Msg("request")
	}
}
