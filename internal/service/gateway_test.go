package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"brain-gateway/internal/client"
	"brain-gateway/internal/config"
	"brain-gateway/internal/metrics"
	"brain-gateway/internal/model"
	"brain-gateway/internal/resource"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// Idle keep-alive connections of the pooled transport.
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

// testConfig points every backend at baseURL.
func testConfig(baseURL string, timeoutSeconds int) *config.Config {
	cfg := &config.Config{
		Upstream: config.UpstreamConfig{IdleConnections: 10},
		Backends: make(map[string]config.BackendConfig),
	}
	for _, name := range config.BackendNames() {
		cfg.Backends[name] = config.BackendConfig{BaseURL: baseURL, TimeoutSeconds: timeoutSeconds}
	}
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGateway(cfg *config.Config, m *metrics.Metrics) *Gateway {
	logger := discardLogger()
	return NewGateway(client.NewBackendClient(cfg, logger, m), cfg, logger, m)
}

func getRequest(rawQuery string) *model.ProxyRequest {
	q, _ := url.ParseQuery(rawQuery)
	return &model.ProxyRequest{
		Ctx:    context.Background(),
		Method: http.MethodGet,
		Query:  q,
		Header: http.Header{},
	}
}

// countingDoer records calls and answers with a fixed response.
type countingDoer struct {
	calls atomic.Int32
	resp  *model.BackendResponse
	err   error
	gate  chan struct{}
}

func (d *countingDoer) Do(ctx context.Context, _, _, _ string, _ http.Header, _ io.Reader) (*model.BackendResponse, error) {
	d.calls.Add(1)
	if d.gate != nil {
		select {
		case <-d.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return d.resp, d.err
}

func fallbackCount(t *testing.T, m *metrics.Metrics, res, reason string) float64 {
	t.Helper()
	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, f := range families {
		if f.GetName() != "brain_gateway_fallbacks_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["resource"] == res && labels["reason"] == reason {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestRead_RelaysBackendBody(t *testing.T) {
	const body = `{"media":[],"pagination":{"current_page":3,"per_page":5,"total_items":0,"total_pages":0,"has_next":false,"has_previous":true},"extra":"kept"}`
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/media/" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/api/v2/media/")
		}
		if r.URL.Query().Get("page") != "3" || r.URL.Query().Get("limit") != "5" {
			t.Errorf("query = %q, want page and limit forwarded", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer upstream.Close()

	g := newTestGateway(testConfig(upstream.URL, 10), nil)
	res := g.Read(resource.Media, getRequest("page=3&limit=5"))

	if res.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", res.StatusCode)
	}
	if res.Source != model.SourceBackend {
		t.Errorf("Source = %q, want backend", res.Source)
	}
	if string(res.Raw) != body {
		t.Errorf("Raw = %q, want backend body verbatim", res.Raw)
	}
	if res.Payload != nil {
		t.Errorf("Payload = %v, want nil for relayed body", res.Payload)
	}
}

func TestRead_BackendUnreachable(t *testing.T) {
	m := metrics.New()
	g := newTestGateway(testConfig("http://127.0.0.1:1", 1), m)

	res := g.Read(resource.Media, getRequest("page=1&limit=20"))

	if res.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", res.StatusCode)
	}
	if res.Source != model.SourceFallback {
		t.Errorf("Source = %q, want fallback", res.Source)
	}
	list, ok := res.Payload.(resource.MediaList)
	if !ok {
		t.Fatalf("Payload type = %T, want resource.MediaList", res.Payload)
	}
	if len(list.Media) != 5 {
		t.Errorf("len(media) = %d, want 5", len(list.Media))
	}
	if list.Source != model.SourceFallback {
		t.Errorf("payload source = %q, want fallback", list.Source)
	}
	if got := fallbackCount(t, m, "wagtail/media", "unavailable"); got != 1 {
		t.Errorf("fallback counter = %v, want 1", got)
	}
}

func TestRead_PaginationEcho(t *testing.T) {
	g := newTestGateway(testConfig("http://127.0.0.1:1", 1), nil)

	res := g.Read(resource.Leads, getRequest("page=2&limit=10"))

	list, ok := res.Payload.(resource.LeadList)
	if !ok {
		t.Fatalf("Payload type = %T, want resource.LeadList", res.Payload)
	}
	if list.Pagination.CurrentPage != 2 || list.Pagination.PerPage != 10 {
		t.Errorf("pagination = %+v, want current_page=2 per_page=10", list.Pagination)
	}
}

func TestRead_FallbackOnFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		reason string
	}{
		{"server error", http.StatusInternalServerError, `{"detail":"boom"}`, "status"},
		{"not found", http.StatusNotFound, `{"detail":"Not found."}`, "status"},
		{"html error page", http.StatusOK, `<html>oops</html>`, "schema_mismatch"},
		{"wrong shape", http.StatusOK, `{"total_platforms":"four"}`, "schema_mismatch"},
		{"error envelope", http.StatusOK, `{"detail":"Authentication credentials were not provided."}`, "schema_mismatch"},
		{"empty object", http.StatusOK, `{}`, "schema_mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer upstream.Close()

			m := metrics.New()
			g := newTestGateway(testConfig(upstream.URL, 10), m)
			res := g.Read(resource.CrossPlatformMetrics, getRequest(""))

			if res.StatusCode != http.StatusOK {
				t.Errorf("StatusCode = %d, want 200", res.StatusCode)
			}
			if res.Source != model.SourceFallback {
				t.Fatalf("Source = %q, want fallback", res.Source)
			}
			cp := res.Payload.(resource.CrossPlatform)
			if cp.TotalPlatforms != 4 {
				t.Errorf("total_platforms = %d, want 4", cp.TotalPlatforms)
			}
			if got := fallbackCount(t, m, "admin/metrics/cross-platform", tt.reason); got != 1 {
				t.Errorf("fallback counter[%s] = %v, want 1", tt.reason, got)
			}
		})
	}
}

func TestRead_TimeoutBounded(t *testing.T) {
	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer upstream.Close()
	defer close(release)

	m := metrics.New()
	g := newTestGateway(testConfig(upstream.URL, 1), m)

	start := time.Now()
	res := g.Read(resource.DashboardStats, getRequest(""))

	if res.Source != model.SourceFallback {
		t.Errorf("Source = %q, want fallback", res.Source)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Read() took %v, want bounded by the 1s backend timeout", elapsed)
	}
	if got := fallbackCount(t, m, "dashboard/stats", "timeout"); got != 1 {
		t.Errorf("fallback counter[timeout] = %v, want 1", got)
	}
}

func TestRead_ForwardsSelectedHeaders(t *testing.T) {
	var got http.Header
	var gotHost string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotHost = r.Host
		_, _ = w.Write([]byte(`{"agents":[],"total_agents":0,"active_agents":0}`))
	}))
	defer upstream.Close()

	cfg := testConfig(upstream.URL, 10)
	b := cfg.Backends[config.BackendAIAgents]
	b.HostHeader = "localhost"
	cfg.Backends[config.BackendAIAgents] = b

	g := newTestGateway(cfg, nil)
	pr := getRequest("")
	pr.Header.Set("Authorization", "Bearer abc")
	pr.Header.Set("X-Tenant-Id", "tenant-7")
	pr.Header.Set("Cookie", "session=secret")
	pr.Header.Set("X-Forwarded-For", "10.0.0.1")

	res := g.Read(resource.Agents, pr)
	if res.Source != model.SourceBackend {
		t.Fatalf("Source = %q, want backend", res.Source)
	}

	if got.Get("Authorization") != "Bearer abc" {
		t.Errorf("Authorization = %q, want forwarded", got.Get("Authorization"))
	}
	if got.Get("X-Tenant-Id") != "tenant-7" {
		t.Errorf("X-Tenant-Id = %q, want forwarded", got.Get("X-Tenant-Id"))
	}
	if got.Get("Cookie") != "" {
		t.Errorf("Cookie = %q, want stripped", got.Get("Cookie"))
	}
	if got.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got.Get("Content-Type"))
	}
	if got.Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got.Get("Cache-Control"))
	}
	if gotHost != "localhost" {
		t.Errorf("Host = %q, want override", gotHost)
	}
}

func TestRead_PanicBecomesFallback(t *testing.T) {
	g := NewGateway(panicDoer{}, testConfig("http://backend", 1), discardLogger(), nil)

	res := g.Read(resource.Products, getRequest(""))
	if res.Source != model.SourceFallback {
		t.Errorf("Source = %q, want fallback", res.Source)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", res.StatusCode)
	}
}

type panicDoer struct{}

func (panicDoer) Do(context.Context, string, string, string, http.Header, io.Reader) (*model.BackendResponse, error) {
	panic("boom")
}

func TestRead_WriteOnlyResource(t *testing.T) {
	d := &countingDoer{}
	g := NewGateway(d, testConfig("http://backend", 1), discardLogger(), nil)

	res := g.Read(resource.AgentTasks, getRequest(""))
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("StatusCode = %d, want 405", res.StatusCode)
	}
	if d.calls.Load() != 0 {
		t.Errorf("backend calls = %d, want 0", d.calls.Load())
	}
}

func TestRead_CoalescesConcurrentReads(t *testing.T) {
	d := &countingDoer{
		resp: &model.BackendResponse{StatusCode: http.StatusOK, Body: []byte(`{"database":"x","tables":[]}`)},
		gate: make(chan struct{}),
	}
	cfg := testConfig("http://backend", 5)
	cfg.Upstream.CoalesceReads = true
	g := NewGateway(d, cfg, discardLogger(), nil)

	const n = 10
	var wg sync.WaitGroup
	results := make([]*model.Result, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = g.Read(resource.SQLTables, getRequest(""))
		}()
	}

	time.Sleep(100 * time.Millisecond)
	close(d.gate)
	wg.Wait()

	if calls := d.calls.Load(); calls >= n {
		t.Errorf("backend calls = %d, want fewer than %d with coalescing", calls, n)
	}
	for i, r := range results {
		if r.Source != model.SourceBackend {
			t.Errorf("results[%d].Source = %q, want backend", i, r.Source)
		}
	}
}

func TestRead_CoalescingKeepsVariantsApart(t *testing.T) {
	d := &countingDoer{
		resp: &model.BackendResponse{StatusCode: http.StatusOK, Body: []byte(`{"database":"x","tables":[]}`)},
		gate: make(chan struct{}),
	}
	cfg := testConfig("http://backend", 5)
	cfg.Upstream.CoalesceReads = true
	g := NewGateway(d, cfg, discardLogger(), nil)

	var wg sync.WaitGroup
	for _, lang := range []string{"en", "de"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pr := getRequest("")
			pr.Header.Set("Accept-Language", lang)
			g.Read(resource.SQLTables, pr)
		}()
	}

	time.Sleep(100 * time.Millisecond)
	close(d.gate)
	wg.Wait()

	if calls := d.calls.Load(); calls != 2 {
		t.Errorf("backend calls = %d, want 2 for different Accept-Language", calls)
	}
}

func TestWrite_RelaysCreated(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary=") {
			t.Errorf("Content-Type = %q, want multipart boundary preserved", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprintf(w, `{"id":42,"title":%q}`, r.FormValue("title"))
	}))
	defer upstream.Close()

	body := "--XYZ\r\nContent-Disposition: form-data; name=\"title\"\r\n\r\nLogo\r\n--XYZ--\r\n"
	pr := &model.ProxyRequest{
		Ctx:    context.Background(),
		Method: http.MethodPost,
		Query:  url.Values{},
		Header: http.Header{"Content-Type": {"multipart/form-data; boundary=XYZ"}},
		Body:   strings.NewReader(body),
	}

	g := newTestGateway(testConfig(upstream.URL, 10), nil)
	res, err := g.Write(resource.Media, pr)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if res.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d, want 201", res.StatusCode)
	}
	if res.Source != model.SourceBackend {
		t.Errorf("Source = %q, want backend", res.Source)
	}

	var out map[string]any
	if err := json.Unmarshal(res.Raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["title"] != "Logo" {
		t.Errorf("title = %v, want Logo", out["title"])
	}
}

func TestWrite_JSONBodyGetsJSONContentType(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"task_id":"t-1","agent_id":"seo-optimizer","status":"queued","queued_at":"2024-01-15T10:00:00Z"}`))
	}))
	defer upstream.Close()

	pr := &model.ProxyRequest{
		Ctx:    context.Background(),
		Method: http.MethodPost,
		Query:  url.Values{},
		Header: http.Header{"Content-Type": {"text/plain"}},
		Body:   strings.NewReader(`{"agent_id":"seo-optimizer"}`),
	}

	g := newTestGateway(testConfig(upstream.URL, 10), nil)
	if _, err := g.Write(resource.AgentTasks, pr); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
}

func TestWrite_SurfacesFailures(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		g := newTestGateway(testConfig("http://127.0.0.1:1", 1), nil)
		pr := getRequest("")
		pr.Method = http.MethodPost
		pr.Body = strings.NewReader(`{}`)

		_, err := g.Write(resource.Leads, pr)
		if !errors.Is(err, ErrBackendUnavailable) {
			t.Errorf("Write() error = %v, want ErrBackendUnavailable", err)
		}
	})

	t.Run("non-2xx", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"email":["Enter a valid email address."]}`))
		}))
		defer upstream.Close()

		g := newTestGateway(testConfig(upstream.URL, 10), nil)
		pr := getRequest("")
		pr.Method = http.MethodPost
		pr.Body = strings.NewReader(`{"email":"x"}`)

		_, err := g.Write(resource.Leads, pr)
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("Write() error = %v, want *StatusError", err)
		}
		if se.StatusCode != http.StatusBadRequest {
			t.Errorf("StatusCode = %d, want 400", se.StatusCode)
		}
	})

	t.Run("method not served", func(t *testing.T) {
		g := NewGateway(&countingDoer{}, testConfig("http://backend", 1), discardLogger(), nil)
		_, err := g.Write(resource.Products, getRequest(""))
		if !errors.Is(err, ErrMethodNotAllowed) {
			t.Errorf("Write() error = %v, want ErrMethodNotAllowed", err)
		}
	})
}

func TestDelete_MissingIDMakesNoCall(t *testing.T) {
	for _, q := range []string{"", "mediaId=", "mediaId=%20%20", "id=12"} {
		t.Run(q, func(t *testing.T) {
			d := &countingDoer{}
			g := NewGateway(d, testConfig("http://backend", 1), discardLogger(), nil)

			_, err := g.Delete(resource.Media, getRequest(q))
			if !errors.Is(err, ErrMissingID) {
				t.Errorf("Delete() error = %v, want ErrMissingID", err)
			}
			if d.calls.Load() != 0 {
				t.Errorf("backend calls = %d, want 0", d.calls.Load())
			}
		})
	}
}

func TestDelete_ForwardsItemPath(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantEscaped string
	}{
		{"numeric", "mediaId=12&hard=true", "/api/v2/media/12/"},
		{"space", "mediaId=a%20b&hard=true", "/api/v2/media/a%20b/"},
		{"percent", "mediaId=50%25&hard=true", "/api/v2/media/50%25/"},
		{"opaque", "mediaId=UHJvZHVjdDo5&hard=true", "/api/v2/media/UHJvZHVjdDo5/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete {
					t.Errorf("method = %q, want DELETE", r.Method)
				}
				if got := r.URL.EscapedPath(); got != tt.wantEscaped {
					t.Errorf("path = %q, want %q", got, tt.wantEscaped)
				}
				if r.URL.Query().Has("mediaId") {
					t.Error("mediaId should move into the path, not the query")
				}
				if r.URL.Query().Get("hard") != "true" {
					t.Errorf("query = %q, want other params kept", r.URL.RawQuery)
				}
				_, _ = w.Write([]byte(`{"deleted":true}`))
			}))
			defer upstream.Close()

			g := newTestGateway(testConfig(upstream.URL, 10), nil)
			res, err := g.Delete(resource.Media, getRequest(tt.query))
			if err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if res.StatusCode != http.StatusOK {
				t.Errorf("StatusCode = %d, want 200", res.StatusCode)
			}
		})
	}
}

func TestDelete_InvalidIDMakesNoCall(t *testing.T) {
	tests := []struct {
		res   resource.Resource
		query string
	}{
		{resource.Media, "mediaId=.."},
		{resource.Media, "mediaId=x%2Fy"},
		{resource.Media, "mediaId=..%2F..%2Fadmin"},
		{resource.Leads, "leadId=."},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			d := &countingDoer{}
			g := NewGateway(d, testConfig("http://backend", 1), discardLogger(), nil)

			_, err := g.Delete(tt.res, getRequest(tt.query))
			if !errors.Is(err, resource.ErrInvalidID) {
				t.Errorf("Delete() error = %v, want ErrInvalidID", err)
			}
			if d.calls.Load() != 0 {
				t.Errorf("backend calls = %d, want 0", d.calls.Load())
			}
		})
	}
}

func TestFilterRequestHeaders(t *testing.T) {
	g := &Gateway{}
	src := http.Header{
		"Accept":          {"application/json"},
		"Authorization":   {"Bearer secret"},
		"Connection":      {"keep-alive"},
		"Cookie":          {"a=b"},
		"X-Tenant-Id":     {"t1"},
		"X-Request-Id":    {"req-1"},
		"X-Custom-Header": {"should-be-dropped"},
		"Host":            {"evil.example"},
	}

	dst := g.filterRequestHeaders(src, false)

	tests := []struct {
		name    string
		key     string
		wantLen int
	}{
		{"Accept forwarded", "Accept", 1},
		{"Authorization forwarded", "Authorization", 1},
		{"X-Tenant-Id forwarded", "X-Tenant-Id", 1},
		{"X-Request-Id forwarded", "X-Request-Id", 1},
		{"Connection stripped", "Connection", 0},
		{"Cookie stripped", "Cookie", 0},
		{"X-Custom-Header stripped", "X-Custom-Header", 0},
		{"Host stripped", "Host", 0},
		{"Content-Type set", "Content-Type", 1},
		{"User-Agent injected", "User-Agent", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(dst.Values(tt.key)); got != tt.wantLen {
				t.Errorf("header %q: got %d values, want %d", tt.key, got, tt.wantLen)
			}
		})
	}

	if ua := dst.Get("User-Agent"); ua != userAgent {
		t.Errorf("User-Agent = %q, want %q", ua, userAgent)
	}
}

func TestFilterRequestHeaders_DefaultAccept(t *testing.T) {
	dst := (&Gateway{}).filterRequestHeaders(http.Header{}, false)
	if dst.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q, want application/json", dst.Get("Accept"))
	}
}

func TestBuildURL(t *testing.T) {
	cfg := testConfig("http://brain:8001/prefix/", 1)
	g := &Gateway{cfg: cfg}

	got, err := g.buildURL(config.BackendBrain, "/api/brain/dashboard/stats", url.Values{"range": {"7d"}})
	if err != nil {
		t.Fatalf("buildURL() error = %v", err)
	}
	want := "http://brain:8001/prefix/api/brain/dashboard/stats?range=7d"
	if got != want {
		t.Errorf("buildURL() = %q, want %q", got, want)
	}

	if _, err := g.buildURL("nope", "/", nil); err == nil {
		t.Error("buildURL() expected error for unknown backend")
	}
}

func TestFailureReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", fmt.Errorf("%w: %w", ErrBackendUnavailable, context.DeadlineExceeded), "timeout"},
		{"canceled", fmt.Errorf("%w: %w", ErrBackendUnavailable, context.Canceled), "canceled"},
		{"refused", fmt.Errorf("%w: dial tcp: connection refused", ErrBackendUnavailable), "unavailable"},
		{"status", &StatusError{Backend: "crm", StatusCode: 502}, "status"},
		{"schema", fmt.Errorf("%w: x", resource.ErrSchemaMismatch), "schema_mismatch"},
		{"other", errors.New("panic: boom"), "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failureReason(tt.err); got != tt.want {
				t.Errorf("failureReason() = %q, want %q", got, tt.want)
			}
		})
	}
}
