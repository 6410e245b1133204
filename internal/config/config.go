// Package config handles TOML configuration loading and validation.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// configSearchPaths lists paths checked in order when no explicit config is given.
var configSearchPaths = []string{
	"/etc/brain-gateway/config.toml",
	"configs/config.toml",
}

// Backend names. Each resource is owned by exactly one of these.
const (
	BackendBrain    = "brain"
	BackendWagtail  = "wagtail"
	BackendSaleor   = "saleor"
	BackendCRM      = "crm"
	BackendAIAgents = "ai_agents"
	BackendSQLAdmin = "sqladmin"
)

// defaultBackendURLs are the local ports each service listens on in the
// development compose topology.
var defaultBackendURLs = map[string]string{
	BackendBrain:    "http://localhost:8001",
	BackendWagtail:  "http://localhost:8002",
	BackendSaleor:   "http://localhost:8003",
	BackendCRM:      "http://localhost:8004",
	BackendAIAgents: "http://localhost:8010",
	BackendSQLAdmin: "http://localhost:8005",
}

// CLI holds command-line arguments parsed by Kong.
type CLI struct {
	Config     string `kong:"short='c',help='Path to TOML config file.',env='CONFIG_PATH'"`
	Host       string `kong:"help='Listen host (overrides config).',env='HOST'"`
	Port       int    `kong:"short='p',help='Listen port (overrides config).',env='PORT'"`
	APIBaseURL string `kong:"name='api-base-url',help='Base URL used for every backend without an explicit base_url.',env='NEXT_PUBLIC_API_BASE_URL'"`
	LogLevel   string `kong:"help='Log level: debug|info|warn|error (overrides config).',env='LOG_LEVEL'"`
}

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig             `toml:"server"`
	Upstream UpstreamConfig           `toml:"upstream"`
	Backends map[string]BackendConfig `toml:"backends"`
	Log      LogConfig                `toml:"log"`
	Metrics  MetricsConfig            `toml:"metrics"`

	filePath string // resolved config file path (unexported)
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string          `toml:"host"`
	Port         int             `toml:"port"` // 0 means "use default" (3001)
	BodyMaxBytes int64           `toml:"body_max_bytes"`
	RateLimit    RateLimitConfig `toml:"rate_limit"`
}

// RateLimitConfig controls per-IP request rate limiting.
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// UpstreamConfig holds settings shared by every backend.
type UpstreamConfig struct {
	BaseURL         string `toml:"base_url"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	IdleConnections int    `toml:"idle_connections"`
	CoalesceReads   bool   `toml:"coalesce_reads"`
}

// BackendConfig holds per-backend connection settings.
type BackendConfig struct {
	BaseURL        string `toml:"base_url"`
	HostHeader     string `toml:"host_header"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-call deadline for the backend.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Load reads the TOML config file and applies CLI overrides.
// An explicit path (via --config or CONFIG_PATH) must exist. Without one, the
// search paths are tried and, if none exists, built-in defaults are used.
func Load(cli *CLI) (*Config, error) {
	var cfg Config

	path := cli.Config
	if path == "" {
		path = findConfig()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.filePath = path
	}

	cfg.applyCLI(cli)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// applyCLI overrides config values with non-zero CLI flags.
func (c *Config) applyCLI(cli *CLI) {
	if cli.Host != "" {
		c.Server.Host = cli.Host
	}
	if cli.Port != 0 {
		c.Server.Port = cli.Port
	}
	if cli.APIBaseURL != "" {
		c.Upstream.BaseURL = cli.APIBaseURL
	}
	if cli.LogLevel != "" {
		c.Log.Level = cli.LogLevel
	}
}

func (c *Config) validate() error {
	if c.Upstream.BaseURL != "" {
		if err := validateBaseURL("upstream.base_url", c.Upstream.BaseURL); err != nil {
			return err
		}
	}
	for name, b := range c.Backends {
		if _, ok := defaultBackendURLs[name]; !ok {
			return fmt.Errorf("backends.%s: unknown backend; known: %s", name, strings.Join(BackendNames(), ", "))
		}
		if b.BaseURL != "" {
			if err := validateBaseURL("backends."+name+".base_url", b.BaseURL); err != nil {
				return err
			}
		}
		if b.TimeoutSeconds < 0 {
			return fmt.Errorf("backends.%s.timeout_seconds must be non-negative; got %d", name, b.TimeoutSeconds)
		}
	}

	// Numeric bounds.
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 0–65535; got %d", c.Server.Port)
	}
	if c.Server.BodyMaxBytes < 0 {
		return fmt.Errorf("server.body_max_bytes must be non-negative; got %d", c.Server.BodyMaxBytes)
	}
	if c.Upstream.TimeoutSeconds < 0 {
		return fmt.Errorf("upstream.timeout_seconds must be non-negative; got %d", c.Upstream.TimeoutSeconds)
	}
	if c.Upstream.IdleConnections < 0 {
		return fmt.Errorf("upstream.idle_connections must be non-negative; got %d", c.Upstream.IdleConnections)
	}
	if c.Server.RateLimit.Enabled && c.Server.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("server.rate_limit.requests_per_second must be > 0 when rate limiting is enabled; got %v", c.Server.RateLimit.RequestsPerSecond)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "":
	default:
		return fmt.Errorf("log.format must be one of: json, text; got %q", c.Log.Format)
	}

	if c.Metrics.Enabled && c.Metrics.Path != "" {
		p := c.Metrics.Path
		if p[0] != '/' {
			return fmt.Errorf("metrics.path must start with '/'; got %q", p)
		}
		for _, reserved := range []string{"/api/brain", "/api/admin", "/healthz"} {
			if p == reserved || strings.HasPrefix(p, reserved+"/") {
				return fmt.Errorf("metrics.path %q conflicts with reserved route %q", p, reserved)
			}
		}
	}

	return nil
}

func validateBaseURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https; got %q", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host; got %q", field, raw)
	}
	return nil
}

// setDefaults fills zero-valued fields with sensible defaults.
// Every known backend gets an entry; its base URL falls back to
// upstream.base_url and then to the backend's local development port.
func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3001
	}
	if c.Server.BodyMaxBytes == 0 {
		c.Server.BodyMaxBytes = 25 * 1024 * 1024 // media uploads
	}
	if c.Upstream.TimeoutSeconds == 0 {
		c.Upstream.TimeoutSeconds = 10
	}
	if c.Upstream.IdleConnections == 0 {
		c.Upstream.IdleConnections = 100
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	if c.Backends == nil {
		c.Backends = make(map[string]BackendConfig, len(defaultBackendURLs))
	}
	for name, def := range defaultBackendURLs {
		b := c.Backends[name]
		if b.BaseURL == "" {
			b.BaseURL = c.Upstream.BaseURL
		}
		if b.BaseURL == "" {
			b.BaseURL = def
		}
		b.BaseURL = strings.TrimRight(b.BaseURL, "/")
		if b.TimeoutSeconds == 0 {
			b.TimeoutSeconds = c.Upstream.TimeoutSeconds
		}
		c.Backends[name] = b
	}
}

// Backend returns the resolved settings for the named backend.
func (c *Config) Backend(name string) (BackendConfig, bool) {
	b, ok := c.Backends[name]
	return b, ok
}

// BackendNames returns the known backend names in sorted order.
func BackendNames() []string {
	names := make([]string, 0, len(defaultBackendURLs))
	for name := range defaultBackendURLs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// findConfig returns the first config path that exists, or empty string.
func findConfig() string {
	return findConfigInPaths(configSearchPaths)
}

// findConfigInPaths returns the first path that exists on disk, or empty string.
func findConfigInPaths(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Addr returns the server listen address as host:port.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// WarnPermissions logs a warning if the config file is readable by group or others.
func (c *Config) WarnPermissions(logger *slog.Logger) {
	if c.filePath == "" {
		return
	}
	info, err := os.Stat(c.filePath)
	if err != nil {
		return
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		logger.Warn("config file is readable by group/others; consider chmod 600",
			"path", c.filePath,
			"mode", fmt.Sprintf("%04o", perm),
		)
	}
}
