package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"brain-gateway/internal/config"
	"brain-gateway/internal/resource"
	"brain-gateway/internal/service"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves health, status and catalogue endpoints.
type HealthHandler struct {
	cfg     *config.Config
	gateway *service.Gateway
	version Version
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(cfg *config.Config, gw *service.Gateway, v Version) *HealthHandler {
	return &HealthHandler{cfg: cfg, gateway: gw, version: v}
}

// Healthz returns a simple OK response for liveness probes.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type statusResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Backends map[string]string `json:"backends"`
}

// Status returns gateway version and backend base URLs.
func (h *HealthHandler) Status(c echo.Context) error {
	backends := make(map[string]string, len(h.cfg.Backends))
	for name, b := range h.cfg.Backends {
		backends[name] = b.BaseURL
	}
	return c.JSON(http.StatusOK, statusResponse{
		Status:   "ok",
		Version:  string(h.version),
		Backends: backends,
	})
}

// Backends probes every backend. It answers 503 only when all are down.
func (h *HealthHandler) Backends(c echo.Context) error {
	report := h.gateway.ProbeBackends(c.Request().Context())
	status := http.StatusOK
	if report.Status == "down" {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, report)
}

type catalogEntry struct {
	Name    string   `json:"name"`
	Route   string   `json:"route"`
	Backend string   `json:"backend"`
	Methods []string `json:"methods"`
	IDParam string   `json:"id_param,omitempty"`
}

// Resources lists the proxied resources.
func (h *HealthHandler) Resources(c echo.Context) error {
	catalog := resource.Catalog()
	out := make([]catalogEntry, 0, len(catalog))
	for _, r := range catalog {
		d := r.Describe()
		out = append(out, catalogEntry{
			Name:    d.Name,
			Route:   d.Route,
			Backend: d.Backend,
			Methods: d.Methods,
			IDParam: d.IDParam,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"resources": out})
}
