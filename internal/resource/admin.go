package resource

import (
	"net/http"

	"brain-gateway/internal/config"
	"brain-gateway/internal/model"
)

// PlatformMetrics is the activity of one BizOSaaS frontend platform.
type PlatformMetrics struct {
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	ActiveUsers int     `json:"active_users"`
	Requests24h int     `json:"requests_24h"`
	Revenue     float64 `json:"revenue"`
	Uptime      float64 `json:"uptime"`
}

// MetricTotals aggregates all platforms.
type MetricTotals struct {
	ActiveUsers  int     `json:"active_users"`
	Requests24h  int     `json:"requests_24h"`
	Revenue      float64 `json:"revenue"`
	AvgUptime    float64 `json:"avg_uptime"`
	ErrorRatePct float64 `json:"error_rate_pct"`
}

// CrossPlatform is the admin cross-platform metrics schema.
type CrossPlatform struct {
	TotalPlatforms  int               `json:"total_platforms"`
	ActivePlatforms int               `json:"active_platforms"`
	Platforms       []PlatformMetrics `json:"platforms"`
	Totals          MetricTotals      `json:"totals"`
	GeneratedAt     string            `json:"generated_at"`
	Source          model.Source      `json:"source,omitempty"`
}

// CrossPlatformMetrics aggregates metrics across the four frontends for the
// admin dashboard.
var CrossPlatformMetrics = New(Descriptor{
	Name:    "admin/metrics/cross-platform",
	Route:   "/api/admin/metrics/cross-platform",
	Backend: config.BackendBrain,
	Path:    "/api/admin/metrics/cross-platform",
	Methods: []string{http.MethodGet},
}, fallbackCrossPlatform)

func fallbackCrossPlatform(Params) CrossPlatform {
	platforms := []PlatformMetrics{
		{Name: "client-portal", Status: "healthy", ActiveUsers: 1247, Requests24h: 45210, Revenue: 28450.5, Uptime: 99.9},
		{Name: "admin-dashboard", Status: "healthy", ActiveUsers: 38, Requests24h: 8123, Revenue: 0, Uptime: 99.95},
		{Name: "marketing-site", Status: "healthy", ActiveUsers: 3520, Requests24h: 61877, Revenue: 0, Uptime: 99.8},
		{Name: "ecommerce-storefront", Status: "degraded", ActiveUsers: 864, Requests24h: 23940, Revenue: 16781.39, Uptime: 98.7},
	}

	totals := MetricTotals{ErrorRatePct: 0.4}
	active := 0
	for _, p := range platforms {
		totals.ActiveUsers += p.ActiveUsers
		totals.Requests24h += p.Requests24h
		totals.Revenue += p.Revenue
		totals.AvgUptime += p.Uptime
		if p.Status == "healthy" {
			active++
		}
	}
	totals.AvgUptime /= float64(len(platforms))

	return CrossPlatform{
		TotalPlatforms:  len(platforms),
		ActivePlatforms: active,
		Platforms:       platforms,
		Totals:          totals,
		GeneratedAt:     "2024-01-15T10:30:00Z",
		Source:          model.SourceFallback,
	}
}
