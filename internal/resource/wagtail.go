package resource

import (
	"net/http"

	"brain-gateway/internal/config"
	"brain-gateway/internal/model"
)

// MediaItem is an image or document in the Wagtail media library.
type MediaItem struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	FileName   string   `json:"file_name"`
	FileType   string   `json:"file_type"`
	FileSize   int64    `json:"file_size"`
	URL        string   `json:"url"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Tags       []string `json:"tags"`
	UploadedBy string   `json:"uploaded_by"`
	CreatedAt  string   `json:"created_at"`
}

// MediaList is the wagtail/media list schema.
type MediaList struct {
	Media      []MediaItem  `json:"media"`
	Pagination Pagination   `json:"pagination"`
	Source     model.Source `json:"source,omitempty"`
}

// Media serves the CMS media library: list, upload and delete.
var Media = New(Descriptor{
	Name:              "wagtail/media",
	Route:             brainRoute("wagtail/media"),
	Backend:           config.BackendWagtail,
	Path:              "/api/v2/media/",
	Methods:           []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	IDParam:           "mediaId",
	IDRequiredMessage: "Media ID is required",
}, fallbackMedia)

func fallbackMedia(p Params) MediaList {
	items := []MediaItem{
		{ID: 1, Title: "Hero banner", FileName: "hero-banner.jpg", FileType: "image", FileSize: 245760, URL: "/media/images/hero-banner.jpg", Width: 1920, Height: 1080, Tags: []string{"homepage", "banner"}, UploadedBy: "admin", CreatedAt: "2024-01-15T10:30:00Z"},
		{ID: 2, Title: "Product showcase", FileName: "product-showcase.png", FileType: "image", FileSize: 512000, URL: "/media/images/product-showcase.png", Width: 1200, Height: 800, Tags: []string{"products"}, UploadedBy: "admin", CreatedAt: "2024-01-14T15:45:00Z"},
		{ID: 3, Title: "Company brochure", FileName: "company-brochure.pdf", FileType: "document", FileSize: 1048576, URL: "/media/documents/company-brochure.pdf", Tags: []string{"marketing"}, UploadedBy: "marketing", CreatedAt: "2024-01-13T09:20:00Z"},
		{ID: 4, Title: "Team photo", FileName: "team-photo.jpg", FileType: "image", FileSize: 389120, URL: "/media/images/team-photo.jpg", Width: 1600, Height: 900, Tags: []string{"about", "team"}, UploadedBy: "admin", CreatedAt: "2024-01-12T14:10:00Z"},
		{ID: 5, Title: "Pricing sheet", FileName: "pricing-sheet.pdf", FileType: "document", FileSize: 204800, URL: "/media/documents/pricing-sheet.pdf", Tags: []string{"sales"}, UploadedBy: "sales", CreatedAt: "2024-01-11T11:00:00Z"},
	}
	return MediaList{
		Media:      items,
		Pagination: NewPagination(p, len(items)),
		Source:     model.SourceFallback,
	}
}

// Page is a Wagtail page summary.
type Page struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	ContentType     string `json:"content_type"`
	Status          string `json:"status"`
	URL             string `json:"url"`
	LastPublishedAt string `json:"last_published_at"`
}

// PageList is the wagtail/pages list schema.
type PageList struct {
	Pages      []Page       `json:"pages"`
	Pagination Pagination   `json:"pagination"`
	Source     model.Source `json:"source,omitempty"`
}

// Pages serves the CMS page tree: list and create.
var Pages = New(Descriptor{
	Name:    "wagtail/pages",
	Route:   brainRoute("wagtail/pages"),
	Backend: config.BackendWagtail,
	Path:    "/api/v2/pages/",
	Methods: []string{http.MethodGet, http.MethodPost},
}, fallbackPages)

func fallbackPages(p Params) PageList {
	pages := []Page{
		{ID: 3, Title: "Home", Slug: "home", ContentType: "home.HomePage", Status: "live", URL: "/", LastPublishedAt: "2024-01-15T08:00:00Z"},
		{ID: 4, Title: "Services", Slug: "services", ContentType: "services.ServiceIndexPage", Status: "live", URL: "/services/", LastPublishedAt: "2024-01-10T12:00:00Z"},
		{ID: 5, Title: "Blog", Slug: "blog", ContentType: "blog.BlogIndexPage", Status: "live", URL: "/blog/", LastPublishedAt: "2024-01-09T16:30:00Z"},
		{ID: 6, Title: "Spring campaign", Slug: "spring-campaign", ContentType: "marketing.LandingPage", Status: "draft", URL: "/spring-campaign/", LastPublishedAt: "2024-01-05T09:00:00Z"},
	}
	return PageList{
		Pages:      pages,
		Pagination: NewPagination(p, len(pages)),
		Source:     model.SourceFallback,
	}
}
