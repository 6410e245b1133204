// Package service implements the gateway's forwarding and fallback logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/singleflight"

	"brain-gateway/internal/config"
	"brain-gateway/internal/metrics"
	"brain-gateway/internal/model"
	"brain-gateway/internal/resource"
)

var (
	// ErrMissingID is returned when a delete omits the resource's identifier parameter.
	ErrMissingID = errors.New("required identifier missing")
	// ErrBackendUnavailable wraps transport failures: refused connections, DNS, timeouts.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrMethodNotAllowed is returned for methods a resource does not serve.
	ErrMethodNotAllowed = errors.New("method not allowed for resource")
)

// StatusError reports a backend reply outside the 2xx range.
type StatusError struct {
	Backend    string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s returned status %d", e.Backend, e.StatusCode)
}

// forwardableRequestHeaders are the only request headers passed to backends.
var forwardableRequestHeaders = []string{
	"Authorization",
	"Accept",
	"Accept-Language",
	"X-Request-Id",
	"X-Tenant-Id",
}

const userAgent = "brain-gateway/1.0"

// Doer sends one request to a named backend.
type Doer interface {
	Do(ctx context.Context, backend, method, url string, header http.Header, body io.Reader) (*model.BackendResponse, error)
}

// Gateway forwards resource requests to their backends and substitutes
// fallback payloads when a read cannot be served live.
type Gateway struct {
	client   Doer
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	coalesce bool
	reads    singleflight.Group
}

// NewGateway creates a Gateway. The metrics parameter is optional.
func NewGateway(c Doer, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *Gateway {
	return &Gateway{
		client:   c,
		cfg:      cfg,
		logger:   logger.With("component", "gateway"),
		metrics:  m,
		coalesce: cfg.Upstream.CoalesceReads,
	}
}

// Read serves a GET. It always produces a result: a 2xx, schema-valid backend
// body is relayed verbatim, anything else is logged and replaced by the
// resource's fallback payload. The status is 200 either way.
func (g *Gateway) Read(res resource.Resource, pr *model.ProxyRequest) (result *model.Result) {
	d := res.Describe()

	defer func() {
		if r := recover(); r != nil {
			result = g.fallback(res, pr, fmt.Errorf("panic: %v", r))
		}
	}()

	if !d.Allows(http.MethodGet) || !res.HasFallback() {
		return &model.Result{
			StatusCode: http.StatusMethodNotAllowed,
			Payload:    map[string]string{"error": "method not allowed"},
		}
	}

	target, err := g.buildURL(d.Backend, d.Path, pr.Query)
	if err != nil {
		return g.fallback(res, pr, err)
	}
	header := g.filterRequestHeaders(pr.Header, false)

	resp, err := g.fetchRead(pr.Ctx, d.Backend, target, header)
	if err == nil && !resp.OK() {
		err = &StatusError{Backend: d.Backend, StatusCode: resp.StatusCode, Body: resp.Body}
	}
	if err == nil {
		err = res.Validate(resp.Body)
	}
	if err != nil {
		return g.fallback(res, pr, err)
	}

	return &model.Result{
		StatusCode: http.StatusOK,
		Source:     model.SourceBackend,
		Raw:        resp.Body,
	}
}

// fetchRead issues the GET, sharing one backend call between identical
// concurrent reads when coalescing is enabled. A shared call is detached
// from any single caller's cancellation and bounded by the backend timeout.
func (g *Gateway) fetchRead(ctx context.Context, backend, target string, header http.Header) (*model.BackendResponse, error) {
	if !g.coalesce {
		return g.do(ctx, backend, http.MethodGet, target, header, nil)
	}

	key := strings.Join([]string{
		backend,
		target,
		header.Get("Authorization"),
		header.Get("X-Tenant-Id"),
		header.Get("Accept"),
		header.Get("Accept-Language"),
	}, "\x00")
	v, err, shared := g.reads.Do(key, func() (any, error) {
		return g.do(context.WithoutCancel(ctx), backend, http.MethodGet, target, header, nil)
	})
	if shared {
		g.logger.Debug("coalesced read", "backend", backend, "url", target)
	}
	if err != nil {
		return nil, err
	}
	return v.(*model.BackendResponse), nil
}

func (g *Gateway) fallback(res resource.Resource, pr *model.ProxyRequest, cause error) *model.Result {
	d := res.Describe()
	reason := failureReason(cause)

	g.logger.Warn("serving fallback",
		"resource", d.Name,
		"backend", d.Backend,
		"reason", reason,
		"err", cause,
	)
	if g.metrics != nil {
		g.metrics.FallbacksTotal.WithLabelValues(d.Name, reason).Inc()
	}

	return &model.Result{
		StatusCode: http.StatusOK,
		Source:     model.SourceFallback,
		Payload:    res.Fallback(resource.ParseParams(pr.Query)),
	}
}

// Write serves a POST. Failures are returned to the caller: a mutation must
// never look successful when it was not applied.
func (g *Gateway) Write(res resource.Resource, pr *model.ProxyRequest) (*model.Result, error) {
	d := res.Describe()
	if !d.Allows(http.MethodPost) {
		return nil, ErrMethodNotAllowed
	}

	target, err := g.buildURL(d.Backend, d.Path, pr.Query)
	if err != nil {
		return nil, err
	}
	return g.mutate(pr.Ctx, d, http.MethodPost, target, pr.Header, pr.Body)
}

// Delete serves a DELETE. The identifier parameter is checked before any
// backend call is attempted.
func (g *Gateway) Delete(res resource.Resource, pr *model.ProxyRequest) (*model.Result, error) {
	d := res.Describe()
	if !d.Allows(http.MethodDelete) || d.IDParam == "" {
		return nil, ErrMethodNotAllowed
	}

	id := strings.TrimSpace(pr.Query.Get(d.IDParam))
	if id == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingID, d.IDParam)
	}
	if err := resource.CheckID(id); err != nil {
		return nil, fmt.Errorf("%s: %w", d.IDParam, err)
	}

	query := make(url.Values, len(pr.Query))
	for k, v := range pr.Query {
		if k != d.IDParam {
			query[k] = v
		}
	}

	target, err := g.buildURL(d.Backend, d.ItemPath(id), query)
	if err != nil {
		return nil, err
	}
	return g.mutate(pr.Ctx, d, http.MethodDelete, target, pr.Header, nil)
}

func (g *Gateway) mutate(ctx context.Context, d resource.Descriptor, method, target string, src http.Header, body io.Reader) (*model.Result, error) {
	header := g.filterRequestHeaders(src, body != nil)

	resp, err := g.do(ctx, d.Backend, method, target, header, body)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &StatusError{Backend: d.Backend, StatusCode: resp.StatusCode, Body: resp.Body}
	}

	g.logger.Info("mutation applied",
		"resource", d.Name,
		"method", method,
		"status", resp.StatusCode,
	)
	return &model.Result{
		StatusCode: resp.StatusCode,
		Source:     model.SourceBackend,
		Raw:        resp.Body,
	}, nil
}

func (g *Gateway) do(ctx context.Context, backend, method, target string, header http.Header, body io.Reader) (*model.BackendResponse, error) {
	resp, err := g.client.Do(ctx, backend, method, target, header, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	return resp, nil
}

func (g *Gateway) buildURL(backend, path string, query url.Values) (string, error) {
	bc, ok := g.cfg.Backend(backend)
	if !ok {
		return "", fmt.Errorf("backend %q is not configured", backend)
	}
	u, err := url.Parse(bc.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse %s base_url: %w", backend, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawPath = ""
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// filterRequestHeaders keeps the allowlisted headers and sets the content
// type. JSON is assumed unless the body is a multipart upload, whose
// boundary must survive.
func (g *Gateway) filterRequestHeaders(src http.Header, hasBody bool) http.Header {
	dst := make(http.Header)
	for _, key := range forwardableRequestHeaders {
		if vals := src.Values(key); len(vals) > 0 {
			dst[http.CanonicalHeaderKey(key)] = vals
		}
	}
	dst.Set("Content-Type", "application/json")
	if hasBody {
		if ct := src.Get("Content-Type"); ct != "" {
			if mt, _, err := mime.ParseMediaType(ct); err == nil && strings.HasPrefix(mt, "multipart/") {
				dst.Set("Content-Type", ct)
			}
		}
	}
	if dst.Get("Accept") == "" {
		dst.Set("Accept", "application/json")
	}
	dst.Set("User-Agent", userAgent)
	return dst
}

// failureReason maps an error to a bounded label for logs and metrics.
func failureReason(err error) string {
	var se *StatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, resource.ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.As(err, &se):
		return "status"
	case errors.Is(err, ErrBackendUnavailable):
		return "unavailable"
	default:
		return "internal"
	}
}
