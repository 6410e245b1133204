package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"brain-gateway/internal/middleware"
	"brain-gateway/internal/model"
	"brain-gateway/internal/resource"
	"brain-gateway/internal/service"
)

// HeaderSource carries the provenance of every proxied response.
const HeaderSource = "X-Brain-Source"

// ProxyHandler binds resources to the gateway.
type ProxyHandler struct {
	gateway *service.Gateway
	logger  *slog.Logger
}

// NewProxyHandler creates a ProxyHandler.
func NewProxyHandler(gw *service.Gateway, logger *slog.Logger) *ProxyHandler {
	return &ProxyHandler{
		gateway: gw,
		logger:  logger.With("component", "proxy_handler"),
	}
}

// Read returns the GET handler for res. It always answers with JSON.
func (h *ProxyHandler) Read(res resource.Resource) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.writeResult(c, h.gateway.Read(res, proxyRequest(c)))
	}
}

// Write returns the POST handler for res.
func (h *ProxyHandler) Write(res resource.Resource) echo.HandlerFunc {
	return func(c echo.Context) error {
		result, err := h.gateway.Write(res, proxyRequest(c))
		if err != nil {
			return h.mapError(c, res, "create", err)
		}
		return h.writeResult(c, result)
	}
}

// Delete returns the DELETE handler for res.
func (h *ProxyHandler) Delete(res resource.Resource) echo.HandlerFunc {
	return func(c echo.Context) error {
		result, err := h.gateway.Delete(res, proxyRequest(c))
		if err != nil {
			return h.mapError(c, res, "delete", err)
		}
		return h.writeResult(c, result)
	}
}

// proxyRequest builds the gateway request. The request ID generated by the
// RequestID middleware lives on the response, so it is copied onto the
// forwarded headers.
func proxyRequest(c echo.Context) *model.ProxyRequest {
	req := c.Request()
	header := req.Header
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" && header.Get(echo.HeaderXRequestID) != id {
		header = header.Clone()
		header.Set(echo.HeaderXRequestID, id)
	}
	return &model.ProxyRequest{
		Ctx:    req.Context(),
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.Query(),
		Header: header,
		Body:   req.Body,
	}
}

func (h *ProxyHandler) writeResult(c echo.Context, r *model.Result) error {
	if r.Source != "" {
		c.Response().Header().Set(HeaderSource, string(r.Source))
		c.Set(middleware.SourceKey, string(r.Source))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")

	if r.Payload != nil {
		return c.JSON(r.StatusCode, r.Payload)
	}
	if len(r.Raw) == 0 {
		return c.NoContent(r.StatusCode)
	}
	return c.Blob(r.StatusCode, echo.MIMEApplicationJSON, r.Raw)
}

func (h *ProxyHandler) mapError(c echo.Context, res resource.Resource, verb string, err error) error {
	d := res.Describe()

	if errors.Is(err, service.ErrMissingID) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": d.IDRequiredMessage,
		})
	}
	if errors.Is(err, resource.ErrInvalidID) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("Invalid %s", d.IDParam),
		})
	}
	if errors.Is(err, service.ErrMethodNotAllowed) {
		return c.JSON(http.StatusMethodNotAllowed, map[string]string{
			"error": "method not allowed",
		})
	}

	h.logger.Error("mutation failed",
		"err", err,
		"resource", d.Name,
		"path", c.Request().URL.Path,
	)

	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error":   fmt.Sprintf("Failed to %s %s", verb, d.Name),
		"details": errorDetails(err),
	})
}

// errorDetails describes a write failure without leaking backend bodies.
func errorDetails(err error) string {
	var se *service.StatusError
	switch {
	case errors.As(err, &se):
		return fmt.Sprintf("backend %s responded with status %d", se.Backend, se.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		return "backend request timed out"
	case errors.Is(err, context.Canceled):
		return "request canceled"
	case errors.Is(err, service.ErrBackendUnavailable):
		return "backend unreachable"
	default:
		return "internal error"
	}
}
