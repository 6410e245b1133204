// Package handler exposes the gateway over HTTP.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"brain-gateway/internal/config"
	"brain-gateway/internal/metrics"
	"brain-gateway/internal/resource"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
func RegisterRoutes(e *echo.Echo, proxy *ProxyHandler, health *HealthHandler, cfg *config.Config, m *metrics.Metrics) {
	e.GET("/healthz", health.Healthz)
	e.GET("/api/brain/status", health.Status)
	e.GET("/api/brain/health/backends", health.Backends)
	e.GET("/api/brain/resources", health.Resources)

	for _, res := range resource.Catalog() {
		d := res.Describe()
		for _, method := range d.Methods {
			switch method {
			case http.MethodGet:
				e.GET(d.Route, proxy.Read(res))
			case http.MethodPost:
				e.POST(d.Route, proxy.Write(res))
			case http.MethodDelete:
				e.DELETE(d.Route, proxy.Delete(res))
			}
		}
	}

	if cfg.Metrics.Enabled && m != nil {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}
}
