package service

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"brain-gateway/internal/config"
)

// healthPath is probed on every backend.
const healthPath = "/health/"

// BackendHealth is the probe result for one backend.
type BackendHealth struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	OK         bool   `json:"ok"`
	StatusCode int    `json:"status_code,omitempty"`
	LatencyMs  int64  `json:"latency_ms"`
	Error      string `json:"error,omitempty"`
}

// HealthReport aggregates the probes.
type HealthReport struct {
	Status   string          `json:"status"`
	Healthy  int             `json:"healthy"`
	Total    int             `json:"total"`
	Backends []BackendHealth `json:"backends"`
}

// ProbeBackends checks every configured backend concurrently. Each probe is
// bounded by its backend timeout; a failing probe never aborts the others.
func (g *Gateway) ProbeBackends(ctx context.Context) HealthReport {
	names := config.BackendNames()
	results := make([]BackendHealth, len(names))

	var eg errgroup.Group
	for i, name := range names {
		eg.Go(func() error {
			results[i] = g.probe(ctx, name)
			return nil
		})
	}
	_ = eg.Wait() // probes record failures in results and never return an error

	report := HealthReport{Total: len(results), Backends: results}
	for _, r := range results {
		if r.OK {
			report.Healthy++
		}
	}
	switch report.Healthy {
	case report.Total:
		report.Status = "ok"
	case 0:
		report.Status = "down"
	default:
		report.Status = "degraded"
	}
	return report
}

func (g *Gateway) probe(ctx context.Context, name string) BackendHealth {
	h := BackendHealth{Name: name}

	target, err := g.buildURL(name, healthPath, nil)
	if err != nil {
		h.Error = err.Error()
		return h
	}
	h.URL = target

	start := time.Now()
	resp, err := g.do(ctx, name, http.MethodGet, target, http.Header{"User-Agent": {userAgent}}, nil)
	h.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		h.Error = failureReason(err)
		g.logger.Debug("backend probe failed", "backend", name, "err", err)
		return h
	}

	h.StatusCode = resp.StatusCode
	h.OK = resp.OK()
	return h
}
