// models/filters.go
package models

import (
	"strconv"

	"github.com/google/uuid"
)

// SortKey is the closed set of listing orders understood by the catalog.
type SortKey string

const (
	SortFeatured    SortKey = "featured"
	SortNewest      SortKey = "newest"
	SortPriceAsc    SortKey = "price_asc"
	SortPriceDesc   SortKey = "price_desc"
	SortMostPopular SortKey = "most_popular"
)

// PriceBucket is a discrete price range, inclusive at both ends. A nil Max
// means "Min and over".
type PriceBucket struct {
	Min   float64  `json:"min"`
	Max   *float64 `json:"max"`
	Label string   `json:"label,omitempty"`
}

// Token renders the bucket the way it travels in a query string ("50-100", "200-").
func (b PriceBucket) Token() string {
	token := strconv.FormatFloat(b.Min, 'f', -1, 64) + "-"
	if b.Max != nil {
		token += strconv.FormatFloat(*b.Max, 'f', -1, 64)
	}
	return token
}

// FilterSet is the normalized intent of one listing request.
type FilterSet struct {
	GenderSlugs   []string      `json:"gender,omitempty"`
	BrandSlugs    []string      `json:"brand,omitempty"`
	CategorySlugs []string      `json:"category,omitempty"`
	ColorSlugs    []string      `json:"color,omitempty"`
	SizeSlugs     []string      `json:"size,omitempty"`
	PriceBuckets  []PriceBucket `json:"price,omitempty"`
	MinPrice      *float64      `json:"min_price,omitempty"`
	MaxPrice      *float64      `json:"max_price,omitempty"`
	Search        *string       `json:"search,omitempty"`
	Sort          SortKey       `json:"sort"`
	Page          int           `json:"page"`
	Limit         int           `json:"limit"`
}

// Offset is the number of rows skipped before the current page.
func (f FilterSet) Offset() int {
	return (f.Page - 1) * f.Limit
}

// IDSet is the outcome of resolving one facet's slugs. Requested records
// whether the caller supplied any slug at all, so that "nothing resolved"
// can be told apart from "facet not used".
type IDSet struct {
	Requested bool
	IDs       []uuid.UUID
}

// Unresolved reports whether slugs were supplied but none matched.
func (s IDSet) Unresolved() bool {
	return s.Requested && len(s.IDs) == 0
}

// ResolvedFilters holds the identifier sets for every slug-based facet.
type ResolvedFilters struct {
	Genders    IDSet
	Brands     IDSet
	Categories IDSet
	Colors     IDSet
	Sizes      IDSet
}
