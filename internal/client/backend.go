// Package client provides the outbound HTTP client for the backend services.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"brain-gateway/internal/config"
	"brain-gateway/internal/metrics"
	"brain-gateway/internal/model"
)

// maxResponseBytes caps how much of a backend body is buffered.
const maxResponseBytes = 16 << 20

// BackendClient sends requests to the backend services.
type BackendClient struct {
	httpClient *http.Client
	cfg        *config.Config
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewBackendClient creates a BackendClient with connection pooling.
// The metrics parameter is optional; pass nil to disable upstream metrics recording.
func NewBackendClient(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *BackendClient {
	transport := &http.Transport{
		MaxIdleConns:        cfg.Upstream.IdleConnections,
		MaxIdleConnsPerHost: cfg.Upstream.IdleConnections,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &BackendClient{
		httpClient: &http.Client{Transport: transport},
		cfg:        cfg,
		logger:     logger.With("component", "backend_client"),
		metrics:    m,
	}
}

// Do executes a request against the named backend and returns the buffered
// response. The call is bounded by the backend's timeout and by ctx, so a
// client disconnect cancels the outbound request too.
func (c *BackendClient) Do(ctx context.Context, backend, method, url string, header http.Header, body io.Reader) (*model.BackendResponse, error) {
	bc, ok := c.cfg.Backend(backend)
	if !ok {
		return nil, fmt.Errorf("unknown backend %q", backend)
	}

	if d := bc.Timeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build backend request: %w", err)
	}
	if header != nil {
		req.Header = header.Clone()
	}
	req.Header.Set("Cache-Control", "no-store")
	if bc.HostHeader != "" {
		req.Host = bc.HostHeader
	}

	c.logger.Debug("backend request",
		"backend", backend,
		"method", method,
		"path", req.URL.Path,
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	label := metrics.NormalizeMethod(method)
	if err != nil {
		c.observe(backend, label, "error", start)
		return nil, fmt.Errorf("backend %s: %w", backend, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.observe(backend, label, strconv.Itoa(resp.StatusCode), start)
	if err != nil {
		return nil, fmt.Errorf("backend %s: read body: %w", backend, err)
	}

	return &model.BackendResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func (c *BackendClient) observe(backend, method, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.UpstreamDuration.WithLabelValues(backend, method).Observe(time.Since(start).Seconds())
	c.metrics.UpstreamResponses.WithLabelValues(backend, method, status).Inc()
}
