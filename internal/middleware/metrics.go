package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"brain-gateway/internal/metrics"
)

// sourceNone labels requests that were not proxied (health, catalogue, 404).
const sourceNone = "none"

// MetricsMiddleware returns an Echo middleware that records Prometheus metrics
// for each inbound request, labelled with the provenance handlers store under
// SourceKey.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			start := time.Now()
			err := next(c)

			method := metrics.NormalizeMethod(c.Request().Method)
			path := metrics.NormalizePath(c.Request().URL.Path)
			status := strconv.Itoa(responseStatus(c, err))

			source, _ := c.Get(SourceKey).(string)
			if source == "" {
				source = sourceNone
			}

			m.RequestsTotal.WithLabelValues(method, status, path, source).Inc()
			m.RequestDuration.WithLabelValues(method, status, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// responseStatus resolves the status echo will send. An *echo.HTTPError
// returned by a handler is written later by the central error handler.
func responseStatus(c echo.Context, err error) int {
	if err != nil && !c.Response().Committed {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he.Code
		}
		return http.StatusInternalServerError
	}
	return c.Response().Status
}
