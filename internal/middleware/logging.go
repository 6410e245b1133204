// Package middleware provides Echo middleware for logging, metrics and
// response hardening.
package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// SourceKey is the echo context key under which handlers store the
// provenance ("backend" or "fallback") of a proxied response.
const SourceKey = "brain.source"

// RequestLogger returns an Echo middleware that logs each request with slog.
// Fallback responses are logged at warn level.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()

			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", res.Header().Get(echo.HeaderXRequestID),
				"remote_ip", c.RealIP(),
				"bytes_out", res.Size,
			}

			level := slog.LevelInfo
			if src, ok := c.Get(SourceKey).(string); ok {
				attrs = append(attrs, "source", src)
				if src == "fallback" {
					level = slog.LevelWarn
				}
			}
			logger.Log(req.Context(), level, "request", attrs...)

			return err
		}
	}
}
