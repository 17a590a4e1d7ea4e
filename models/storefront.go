// ════════════════════════════════════════════════════════════
// STOREFRONT MODELS (derived, never persisted)
// File: models/storefront.go
// ════════════════════════════════════════════════════════════

package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductListItem is one row of a catalog listing page.
type ProductListItem struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ImageURL  *string   `json:"image_url"` // nil → UI placeholder
	MinPrice  *float64  `json:"min_price"`
	MaxPrice  *float64  `json:"max_price"`
	CreatedAt time.Time `json:"created_at"`
	Subtitle  *string   `json:"subtitle,omitempty"` // gender label
	BrandName *string   `json:"brand_name,omitempty"`
	BrandLogo *string   `json:"brand_logo,omitempty"`
}

// ProductListing is one page of products plus the total match count.
type ProductListing struct {
	Products   []ProductListItem `json:"products"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

// EmptyListing is the degraded listing returned when the store fails.
func EmptyListing(page, limit int) ProductListing {
	return ProductListing{
		Products:   []ProductListItem{},
		TotalCount: 0,
		Page:       page,
		Limit:      limit,
	}
}

// TotalPages derives the page count from TotalCount and Limit.
func (l ProductListing) TotalPages() int {
	if l.Limit <= 0 {
		return 0
	}
	return (l.TotalCount + l.Limit - 1) / l.Limit
}

// RecommendedProduct always carries a non-empty ImageURL.
type RecommendedProduct struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Price    *float64  `json:"price"`
	ImageURL string    `json:"image_url"`
}

type PriceHistoryPoint struct {
	Date      string   `json:"date" example:"2024-05-01"`
	Price     float64  `json:"price" example:"129.99"`
	SalePrice *float64 `json:"sale_price,omitempty" example:"99.99"`
}

type BrandOption struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type CategoryOption struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}
