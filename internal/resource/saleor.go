package resource

import (
	"net/http"

	"brain-gateway/internal/config"
	"brain-gateway/internal/model"
)

// Money is an amount in a given currency.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Product is a Saleor catalogue product.
type Product struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Category      string `json:"category"`
	Price         Money  `json:"price"`
	StockQuantity int    `json:"stock_quantity"`
	IsPublished   bool   `json:"is_published"`
	Thumbnail     string `json:"thumbnail"`
}

// ProductList is the saleor/products list schema.
type ProductList struct {
	Products   []Product    `json:"products"`
	Pagination Pagination   `json:"pagination"`
	Source     model.Source `json:"source,omitempty"`
}

// Products lists the storefront catalogue.
var Products = New(Descriptor{
	Name:    "saleor/products",
	Route:   brainRoute("saleor/products"),
	Backend: config.BackendSaleor,
	Path:    "/api/products/",
	Methods: []string{http.MethodGet},
}, fallbackProducts)

func fallbackProducts(p Params) ProductList {
	products := []Product{
		{ID: "UHJvZHVjdDox", Name: "Wireless earbuds", Slug: "wireless-earbuds", Category: "Electronics", Price: Money{Amount: 49.99, Currency: "USD"}, StockQuantity: 120, IsPublished: true, Thumbnail: "/media/products/earbuds.jpg"},
		{ID: "UHJvZHVjdDoy", Name: "Yoga mat", Slug: "yoga-mat", Category: "Sports", Price: Money{Amount: 24.5, Currency: "USD"}, StockQuantity: 64, IsPublished: true, Thumbnail: "/media/products/yoga-mat.jpg"},
		{ID: "UHJvZHVjdDoz", Name: "Ceramic mug", Slug: "ceramic-mug", Category: "Home", Price: Money{Amount: 12, Currency: "USD"}, StockQuantity: 0, IsPublished: false, Thumbnail: "/media/products/mug.jpg"},
	}
	return ProductList{
		Products:   products,
		Pagination: NewPagination(p, len(products)),
		Source:     model.SourceFallback,
	}
}

// Order is a Saleor order summary.
type Order struct {
	ID        string `json:"id"`
	Number    string `json:"number"`
	Customer  string `json:"customer"`
	Status    string `json:"status"`
	Total     Money  `json:"total"`
	ItemCount int    `json:"item_count"`
	CreatedAt string `json:"created_at"`
}

// OrderSummary aggregates the listed orders.
type OrderSummary struct {
	TotalOrders       int     `json:"total_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	PendingOrders     int     `json:"pending_orders"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// OrderList is the saleor/orders list schema.
type OrderList struct {
	Orders     []Order      `json:"orders"`
	Summary    OrderSummary `json:"summary"`
	Pagination Pagination   `json:"pagination"`
	Source     model.Source `json:"source,omitempty"`
}

// Orders lists storefront orders.
var Orders = New(Descriptor{
	Name:    "saleor/orders",
	Route:   brainRoute("saleor/orders"),
	Backend: config.BackendSaleor,
	Path:    "/api/orders/",
	Methods: []string{http.MethodGet},
}, fallbackOrders)

func fallbackOrders(p Params) OrderList {
	orders := []Order{
		{ID: "T3JkZXI6MQ==", Number: "1001", Customer: "jane@example.com", Status: "fulfilled", Total: Money{Amount: 74.49, Currency: "USD"}, ItemCount: 2, CreatedAt: "2024-01-15T09:12:00Z"},
		{ID: "T3JkZXI6Mg==", Number: "1002", Customer: "raj@example.com", Status: "unfulfilled", Total: Money{Amount: 49.99, Currency: "USD"}, ItemCount: 1, CreatedAt: "2024-01-15T11:40:00Z"},
		{ID: "T3JkZXI6Mw==", Number: "1003", Customer: "li@example.com", Status: "unconfirmed", Total: Money{Amount: 36.5, Currency: "USD"}, ItemCount: 3, CreatedAt: "2024-01-16T08:05:00Z"},
	}
	return OrderList{
		Orders: orders,
		Summary: OrderSummary{
			TotalOrders:       3,
			TotalRevenue:      160.98,
			PendingOrders:     2,
			AverageOrderValue: 53.66,
		},
		Pagination: NewPagination(p, len(orders)),
		Source:     model.SourceFallback,
	}
}
