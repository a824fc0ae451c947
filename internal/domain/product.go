package domain

import "time"

// Product is a catalog entry keyed by its ASIN.
type Product struct {
	ASIN        string    `json:"asin"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	SellerID    *string   `json:"seller_id,omitempty"`
	Clicks      int       `json:"clicks"`
	InStock     bool      `json:"in_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryPreview is a single category with a representative product image,
// used on the storefront home page.
type CategoryPreview struct {
	Category    string `json:"category"`
	DisplayName string `json:"display_name"`
	ImageURL    string `json:"image_url"`
}
