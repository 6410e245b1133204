package resource

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// Params are the request parameters a fallback provider may echo back.
type Params struct {
	Page   int
	Limit  int
	Search string
}

// ParseParams reads page, limit and search from the query. Malformed or
// out-of-range values fall back to defaults; read paths never reject input.
func ParseParams(q url.Values) Params {
	p := Params{
		Page:   defaultPage,
		Limit:  defaultLimit,
		Search: strings.TrimSpace(q.Get("search")),
	}

	if v, err := strconv.Atoi(strings.TrimSpace(q.Get("page"))); err == nil && v > 0 {
		p.Page = v
	}

	raw := strings.TrimSpace(q.Get("limit"))
	if raw == "" {
		raw = strings.TrimSpace(q.Get("per_page"))
	}
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		p.Limit = v
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}

	return p
}

// Pagination is the paging block shared by every list schema.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	TotalItems  int  `json:"total_items"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewPagination echoes the requested page and limit for a list of total items.
func NewPagination(p Params, total int) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		CurrentPage: p.Page,
		PerPage:     p.Limit,
		TotalItems:  total,
		TotalPages:  pages,
		HasNext:     p.Page < pages,
		HasPrevious: p.Page > 1,
	}
}
