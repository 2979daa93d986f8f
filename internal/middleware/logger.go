package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dartpulse/internal/logger"
)

// RequestLogger is a Gin middleware that logs one structured entry per request.
//
// Fields: request_id (when RequestID() ran first), method, route (the matched
// template, e.g. /api/v1/corps/:corp_code), path, status, latency_ms, client_ip
// and the number of errors attached to the context.
//
// Entries are logged at warn for 4xx, error for 5xx and info otherwise.
func RequestLogger() gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}

		rid, _ := c.Get(RequestIDKey)
		ev.Str("request_id", toString(rid)).
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Str("path", path).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Int("errors", len(c.Errors)).
			Msg("http_request")
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
