package catalog

import (
	"time"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/catalog/filters"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/catalog/recommend"
)

// Tunables are the engine knobs that may change while it is serving.
type Tunables struct {
	DefaultPageSize       int
	RecommendFetchLimit   int
	RecommendLimit        int
	PriorityCategorySlugs []string
	QueryTimeout          time.Duration
}

// DefaultTunables mirrors the storefront's shipped configuration.
func DefaultTunables() Tunables {
	return Tunables{
		DefaultPageSize:       filters.DefaultLimit,
		RecommendFetchLimit:   recommend.DefaultFetchLimit,
		RecommendLimit:        recommend.DefaultLimit,
		PriorityCategorySlugs: []string{"sneakers", "running", "lifestyle", "basketball"},
		QueryTimeout:          10 * time.Second,
	}
}

// sanitized fills zero values from DefaultTunables and copies the slug list.
func (t Tunables) sanitized() Tunables {
	def := DefaultTunables()
	if t.DefaultPageSize <= 0 {
		t.DefaultPageSize = def.DefaultPageSize
	}
	t.DefaultPageSize = filters.ClampLimit(t.DefaultPageSize)
	if t.RecommendLimit <= 0 {
		t.RecommendLimit = def.RecommendLimit
	}
	if t.RecommendFetchLimit < t.RecommendLimit {
		t.RecommendFetchLimit = max(def.RecommendFetchLimit, t.RecommendLimit)
	}
	if t.QueryTimeout <= 0 {
		t.QueryTimeout = def.QueryTimeout
	}
	t.PriorityCategorySlugs = filters.Slugs(t.PriorityCategorySlugs)
	return t
}
