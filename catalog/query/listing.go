// Package query builds the catalog listing and count queries.
//
// A Listing is an immutable value computed from a normalized FilterSet and
// its resolved identifier sets. Predicates are squirrel Sqlizer trees, so
// every identifier and search term travels as a bound parameter.
package query

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// Listing describes one listing request. The zero value is not useful; use NewListing.
type Listing struct {
	filters            models.FilterSet
	ids                models.ResolvedFilters
	includeUnpublished bool
}

// NewListing captures a normalized filter set and its resolved ids.
func NewListing(fs models.FilterSet, ids models.ResolvedFilters) Listing {
	return Listing{filters: fs, ids: ids}
}

// IncludingUnpublished returns a copy that also lists unpublished products.
// Reserved for admin tooling; the storefront never sets it.
func (l Listing) IncludingUnpublished() Listing {
	l.includeUnpublished = true
	return l
}

// Where is the product-level predicate shared by the page and count queries.
// It expects products aliased p and brands left-joined as b.
func (l Listing) Where() sq.Sqlizer {
	conds := sq.And{}
	if !l.includeUnpublished {
		conds = append(conds, sq.Eq{"p.is_published": true})
	}
	if l.filters.Search != nil {
		conds = append(conds, searchPredicate(*l.filters.Search))
	}
	if l.ids.Genders.Requested {
		conds = append(conds, InSet("p.gender_id", l.ids.Genders.IDs))
	}
	if l.ids.Brands.Requested {
		conds = append(conds, InSet("p.brand_id", l.ids.Brands.IDs))
	}
	if l.ids.Categories.Requested {
		conds = append(conds, InSet("p.category_id", l.ids.Categories.IDs))
	}
	if variant, ok := l.variantPredicate(); ok {
		conds = append(conds, Exists(
			sq.Select("1").
				From("variants v").
				Where("v.product_id = p.id").
				Where(variant),
		))
	}
	if len(conds) == 0 {
		return sq.Expr("1 = 1")
	}
	return conds
}

// variantPredicate combines the size, color and price facets for a single
// variant aliased v. ok is false when no variant-level facet is active.
func (l Listing) variantPredicate() (pred sq.Sqlizer, ok bool) {
	conds := sq.And{}
	if l.ids.Sizes.Requested {
		conds = append(conds, InSet("v.size_id", l.ids.Sizes.IDs))
	}
	if l.ids.Colors.Requested {
		conds = append(conds, InSet("v.color_id", l.ids.Colors.IDs))
	}
	if price := pricePredicate(l.filters); price != nil {
		conds = append(conds, price)
	}
	if len(conds) == 0 {
		return nil, false
	}
	return conds, true
}

// pricePredicate ORs the explicit bounds with every bucket.
func pricePredicate(fs models.FilterSet) sq.Sqlizer {
	ranges := sq.Or{}
	if fs.MinPrice != nil || fs.MaxPrice != nil {
		bounds := sq.And{}
		if fs.MinPrice != nil {
			bounds = append(bounds, sq.GtOrEq{"v.price": *fs.MinPrice})
		}
		if fs.MaxPrice != nil {
			bounds = append(bounds, sq.LtOrEq{"v.price": *fs.MaxPrice})
		}
		ranges = append(ranges, bounds)
	}
	for _, bucket := range fs.PriceBuckets {
		r := sq.And{sq.GtOrEq{"v.price": bucket.Min}}
		if bucket.Max != nil {
			r = append(r, sq.LtOrEq{"v.price": *bucket.Max})
		}
		ranges = append(ranges, r)
	}
	if len(ranges) == 0 {
		return nil
	}
	return ranges
}

// searchPredicate matches name, description and brand name as substrings,
// plus whitespace-free name and brand name so "newbalance" finds "New Balance".
func searchPredicate(term string) sq.Sqlizer {
	plain := containsPattern(strings.ToLower(term))
	tight := containsPattern(compact(term))
	return sq.Or{
		sq.Expr(`LOWER(p.name) LIKE ? ESCAPE '\'`, plain),
		sq.Expr(`LOWER(p.description) LIKE ? ESCAPE '\'`, plain),
		sq.Expr(`LOWER(COALESCE(b.name, '')) LIKE ? ESCAPE '\'`, plain),
		compactLike("LOWER(p.name)", tight),
		compactLike("LOWER(COALESCE(b.name, ''))", tight),
	}
}

// priceAggregate is MIN/MAX(v.price) over the product's variants, narrowed
// to the variants matching the active variant-level facets.
func (l Listing) priceAggregate(fn string) sq.SelectBuilder {
	agg := sq.Select(fn + "(v.price)").
		From("variants v").
		Where("v.product_id = p.id")
	if variant, ok := l.variantPredicate(); ok {
		agg = agg.Where(variant)
	}
	return agg
}

// imageURL picks the representative image. With a color filter the first
// image of a variant in one of the selected colors wins, then the generic
// image; otherwise only generic images (variant_id IS NULL) are considered.
func (l Listing) imageURL() sq.Sqlizer {
	generic := sq.Select("pi.url").
		From("product_images pi").
		Where("pi.product_id = p.id").
		Where("pi.variant_id IS NULL").
		Where("TRIM(pi.url) <> ''").
		OrderBy(imageOrder...).
		Limit(1)

	if !l.ids.Colors.Requested || len(l.ids.Colors.IDs) == 0 {
		return generic
	}

	colored := sq.Select("pi.url").
		From("product_images pi").
		Join("variants iv ON iv.id = pi.variant_id").
		Where("pi.product_id = p.id").
		Where(InSet("iv.color_id", l.ids.Colors.IDs)).
		Where("TRIM(pi.url) <> ''").
		OrderBy(imageOrder...).
		Limit(1)

	return Coalesce(colored, generic)
}

var imageOrder = []string{"pi.is_primary DESC", "pi.sort_order ASC", "pi.id ASC"}

// orderBy returns the ORDER BY terms. Every sort ends with created_at DESC,
// id ASC so pages never overlap.
func (l Listing) orderBy() []string {
	tiebreak := []string{"p.created_at DESC", "p.id ASC"}
	switch l.filters.Sort {
	case models.SortPriceAsc:
		return append([]string{"min_price ASC NULLS LAST"}, tiebreak...)
	case models.SortPriceDesc:
		return append([]string{"max_price DESC NULLS LAST"}, tiebreak...)
	case models.SortMostPopular:
		return append([]string{"review_count DESC"}, tiebreak...)
	default:
		return tiebreak
	}
}

// Page is the SELECT producing one page of listing rows.
func (l Listing) Page() sq.SelectBuilder {
	reviews := sq.Select("COUNT(*)").
		From("reviews r").
		Where("r.product_id = p.id")

	return sq.Select("p.id", "p.name", "p.created_at").
		Column(sq.Alias(l.priceAggregate("MIN"), "min_price")).
		Column(sq.Alias(l.priceAggregate("MAX"), "max_price")).
		Column(sq.Alias(l.imageURL(), "image_url")).
		Column(sq.Alias(reviews, "review_count")).
		Column("g.name AS subtitle").
		Column("b.name AS brand_name").
		Column("b.logo_url AS brand_logo").
		From("products p").
		LeftJoin("brands b ON b.id = p.brand_id").
		LeftJoin("genders g ON g.id = p.gender_id").
		Where(l.Where()).
		OrderBy(l.orderBy()...).
		Limit(uint64(l.filters.Limit)).
		Offset(uint64(l.filters.Offset()))
}

// Count is the SELECT producing the number of distinct matching products,
// independent of page and limit.
func (l Listing) Count() sq.SelectBuilder {
	return sq.Select("COUNT(DISTINCT p.id)").
		From("products p").
		LeftJoin("brands b ON b.id = p.brand_id").
		Where(l.Where())
}

// ToSQL renders the page query.
func (l Listing) ToSQL() (string, []interface{}, error) {
	return l.Page().ToSql()
}

// CountSQL renders the count query.
func (l Listing) CountSQL() (string, []interface{}, error) {
	return l.Count().ToSql()
}
