package resource

import (
	"net/http"

	"brain-gateway/internal/config"
	"brain-gateway/internal/model"
)

// Lead is a Django CRM lead.
type Lead struct {
	ID         int    `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Company    string `json:"company"`
	Status     string `json:"status"`
	Score      int    `json:"score"`
	LeadSource string `json:"lead_source"`
	CreatedAt  string `json:"created_at"`
}

// LeadList is the crm/leads list schema.
type LeadList struct {
	Leads      []Lead       `json:"leads"`
	Pagination Pagination   `json:"pagination"`
	Source     model.Source `json:"source,omitempty"`
}

// Leads serves the CRM lead pipeline: list, create and delete.
var Leads = New(Descriptor{
	Name:              "crm/leads",
	Route:             brainRoute("crm/leads"),
	Backend:           config.BackendCRM,
	Path:              "/api/crm/leads/",
	Methods:           []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	IDParam:           "leadId",
	IDRequiredMessage: "Lead ID is required",
}, fallbackLeads)

func fallbackLeads(p Params) LeadList {
	leads := []Lead{
		{ID: 101, FirstName: "Sarah", LastName: "Johnson", Email: "sarah@techcorp.example", Company: "TechCorp", Status: "qualified", Score: 85, LeadSource: "website", CreatedAt: "2024-01-15T10:00:00Z"},
		{ID: 102, FirstName: "Michael", LastName: "Chen", Email: "m.chen@retailhub.example", Company: "RetailHub", Status: "contacted", Score: 62, LeadSource: "referral", CreatedAt: "2024-01-14T13:30:00Z"},
		{ID: 103, FirstName: "Priya", LastName: "Patel", Email: "priya@growthlabs.example", Company: "GrowthLabs", Status: "new", Score: 40, LeadSource: "social", CreatedAt: "2024-01-13T17:45:00Z"},
	}
	return LeadList{
		Leads:      leads,
		Pagination: NewPagination(p, len(leads)),
		Source:     model.SourceFallback,
	}
}
