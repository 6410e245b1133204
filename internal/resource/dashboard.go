package resource

import (
	"net/http"

	"brain-gateway/internal/config"
	"brain-gateway/internal/model"
)

// Growth holds period-over-period change in percent.
type Growth struct {
	Revenue   float64 `json:"revenue"`
	Orders    float64 `json:"orders"`
	Customers float64 `json:"customers"`
}

// Stats is the dashboard/stats schema.
type Stats struct {
	TotalRevenue    float64      `json:"total_revenue"`
	TotalOrders     int          `json:"total_orders"`
	TotalCustomers  int          `json:"total_customers"`
	ConversionRate  float64      `json:"conversion_rate"`
	ActiveCampaigns int          `json:"active_campaigns"`
	Growth          Growth       `json:"growth"`
	Source          model.Source `json:"source,omitempty"`
}

// DashboardStats feeds the client portal's headline cards.
var DashboardStats = New(Descriptor{
	Name:    "dashboard/stats",
	Route:   brainRoute("dashboard/stats"),
	Backend: config.BackendBrain,
	Path:    "/api/brain/dashboard/stats",
	Methods: []string{http.MethodGet},
}, fallbackStats)

func fallbackStats(Params) Stats {
	return Stats{
		TotalRevenue:    45231.89,
		TotalOrders:     1234,
		TotalCustomers:  892,
		ConversionRate:  3.2,
		ActiveCampaigns: 12,
		Growth:          Growth{Revenue: 20.1, Orders: 15.3, Customers: 8.7},
		Source:          model.SourceFallback,
	}
}

// Table describes one table in the SQL admin service.
type Table struct {
	Name      string `json:"name"`
	Schema    string `json:"schema"`
	RowCount  int64  `json:"row_count"`
	SizeBytes int64  `json:"size_bytes"`
}

// TableList is the sqladmin/tables schema.
type TableList struct {
	Database string       `json:"database"`
	Tables   []Table      `json:"tables"`
	Source   model.Source `json:"source,omitempty"`
}

// SQLTables lists tables known to the SQL admin service.
var SQLTables = New(Descriptor{
	Name:    "sqladmin/tables",
	Route:   brainRoute("sqladmin/tables"),
	Backend: config.BackendSQLAdmin,
	Path:    "/api/tables",
	Methods: []string{http.MethodGet},
}, fallbackTables)

func fallbackTables(Params) TableList {
	return TableList{
		Database: "bizosaas",
		Tables: []Table{
			{Name: "tenants", Schema: "public", RowCount: 42, SizeBytes: 65536},
			{Name: "users", Schema: "public", RowCount: 318, SizeBytes: 229376},
			{Name: "campaigns", Schema: "public", RowCount: 1207, SizeBytes: 1105920},
		},
		Source: model.SourceFallback,
	}
}
