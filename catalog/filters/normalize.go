// Package filters turns raw storefront query parameters into a models.FilterSet.
//
// Normalization never fails: malformed tokens are dropped so that shared
// filter URLs keep working. Callers that need strict validation must
// validate before calling Normalize.
package filters

import (
	"math"
	"strconv"
	"strings"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

const (
	// MaxLimit bounds the size of a listing page.
	MaxLimit = 60
	// DefaultLimit is used when the caller passes a non-positive default.
	DefaultLimit = 12
	// MaxPage keeps (page-1)*limit inside 32 bits.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Query parameter names.
const (
	ParamGender   = "gender"
	ParamBrand    = "brand"
	ParamCategory = "category"
	ParamColor    = "color"
	ParamSize     = "size"
	ParamPrice    = "price"
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
	ParamSearch   = "search"
	ParamQuery    = "q"
	ParamSort     = "sort"
	ParamPage     = "page"
	ParamLimit    = "limit"
)

// DefaultPriceBuckets is the fixed bucket catalog offered by the storefront.
var DefaultPriceBuckets = []models.PriceBucket{
	{Min: 0, Max: ptr(50), Label: "Under $50"},
	{Min: 50, Max: ptr(100), Label: "$50 - $100"},
	{Min: 100, Max: ptr(150), Label: "$100 - $150"},
	{Min: 150, Max: ptr(200), Label: "$150 - $200"},
	{Min: 200, Label: "$200+"},
}

var sortKeys = map[string]models.SortKey{
	string(models.SortFeatured):    models.SortFeatured,
	string(models.SortNewest):      models.SortNewest,
	string(models.SortPriceAsc):    models.SortPriceAsc,
	string(models.SortPriceDesc):   models.SortPriceDesc,
	string(models.SortMostPopular): models.SortMostPopular,
}

// Normalize builds a canonical FilterSet from raw parameters. Values may be
// repeated and/or comma separated; url.Values can be passed directly.
func Normalize(raw map[string][]string, defaultLimit int) models.FilterSet {
	fs := models.FilterSet{
		GenderSlugs:   Slugs(raw[ParamGender]),
		BrandSlugs:    Slugs(raw[ParamBrand]),
		CategorySlugs: Slugs(raw[ParamCategory]),
		ColorSlugs:    Slugs(raw[ParamColor]),
		SizeSlugs:     Slugs(raw[ParamSize]),
		PriceBuckets:  buckets(raw[ParamPrice]),
		Search:        search(raw),
		Sort:          sortKey(raw[ParamSort]),
		Page:          min(positiveInt(raw[ParamPage], 1), MaxPage),
		Limit:         ClampLimit(positiveInt(raw[ParamLimit], ClampLimit(defaultLimit))),
	}

	fs.MinPrice = price(raw[ParamMinPrice])
	fs.MaxPrice = price(raw[ParamMaxPrice])
	if fs.MinPrice != nil && fs.MaxPrice != nil && *fs.MinPrice > *fs.MaxPrice {
		fs.MinPrice, fs.MaxPrice = fs.MaxPrice, fs.MinPrice
	}

	return fs
}

// ClampLimit forces a page size into [1, MaxLimit]; non-positive values
// fall back to DefaultLimit.
func ClampLimit(limit int) int {
	switch {
	case limit < 1:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// splitValues flattens repeated and comma separated values, trimming each.
func splitValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Slugs flattens repeated and comma separated values into distinct
// lowercase slugs in first-seen order.
func Slugs(values []string) []string {
	parts := splitValues(values)
	if len(parts) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		slug := strings.ToLower(part)
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
	}
	return out
}

func buckets(values []string) []models.PriceBucket {
	var out []models.PriceBucket
	seen := map[string]struct{}{}
	for _, token := range splitValues(values) {
		bucket, ok := ParseBucket(token)
		if !ok {
			continue
		}
		key := bucket.Token()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, bucket)
	}
	return out
}

// ParseBucket reads "<min>-<max>", "<min>-" or "<min>+". Both bounds must be
// non-negative and min must not exceed max.
func ParseBucket(token string) (models.PriceBucket, bool) {
	token = strings.TrimSpace(token)
	if rest, open := strings.CutSuffix(token, "+"); open {
		floor, ok := parseAmount(rest)
		return models.PriceBucket{Min: floor}, ok
	}

	lo, hi, found := strings.Cut(token, "-")
	if !found {
		return models.PriceBucket{}, false
	}
	floor, ok := parseAmount(lo)
	if !ok {
		return models.PriceBucket{}, false
	}
	if strings.TrimSpace(hi) == "" {
		return models.PriceBucket{Min: floor}, true
	}
	ceil, ok := parseAmount(hi)
	if !ok || floor > ceil {
		return models.PriceBucket{}, false
	}
	return models.PriceBucket{Min: floor, Max: &ceil}, true
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

func price(values []string) *float64 {
	for _, value := range values {
		if v, ok := parseAmount(value); ok {
			return &v
		}
	}
	return nil
}

func search(raw map[string][]string) *string {
	for _, key := range []string{ParamSearch, ParamQuery} {
		for _, value := range raw[key] {
			if term := strings.TrimSpace(value); term != "" {
				return &term
			}
		}
	}
	return nil
}

func sortKey(values []string) models.SortKey {
	for _, value := range values {
		if key, ok := sortKeys[strings.ToLower(strings.TrimSpace(value))]; ok {
			return key
		}
	}
	return models.SortFeatured
}

// positiveInt returns the first strictly positive integer among values.
func positiveInt(values []string, fallback int) int {
	for _, value := range values {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func ptr(v float64) *float64 { return &v }
