package reference

import (
	"context"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/catalog/query"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// ListBrands returns every brand ordered by name.
func (r *Resolver) ListBrands(ctx context.Context) ([]models.BrandOption, error) {
	brands := []models.BrandOption{}
	err := r.db.WithContext(ctx).
		Model(&models.Brand{}).
		Select("id", "name", "slug").
		Order("name ASC").
		Order("id ASC").
		Scan(&brands).Error
	if err != nil {
		return nil, fmt.Errorf("listing brands: %w", err)
	}
	return brands, nil
}

// ListCategories returns the categories to offer as filters. With gender
// slugs only categories holding at least one published product for those
// genders are returned. Categories whose slug appears in prioritySlugs come
// first in that order; the rest are alphabetical.
func (r *Resolver) ListCategories(ctx context.Context, genderSlugs, prioritySlugs []string) ([]models.CategoryOption, error) {
	stmt := sq.Select("c.id", "c.name", "c.slug").From("categories c")

	if len(genderSlugs) > 0 {
		genders, err := r.resolve(ctx, "genders", genderSlugs)
		if err != nil {
			return nil, err
		}
		if genders.Unresolved() {
			return []models.CategoryOption{}, nil
		}
		stmt = stmt.Where(query.Exists(
			sq.Select("1").
				From("products p").
				Where("p.category_id = c.id").
				Where(sq.Eq{"p.is_published": true}).
				Where(query.InSet("p.gender_id", genders.IDs)),
		))
	}

	sql, args, err := stmt.OrderBy("c.name ASC", "c.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building category query: %w", err)
	}

	categories := []models.CategoryOption{}
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&categories).Error; err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	prioritize(categories, prioritySlugs)
	return categories, nil
}

// prioritize moves priority slugs to the front, keeping the relative order
// of everything else.
func prioritize(categories []models.CategoryOption, prioritySlugs []string) {
	if len(prioritySlugs) == 0 {
		return
	}
	rank := make(map[string]int, len(prioritySlugs))
	for i, slug := range prioritySlugs {
		if _, dup := rank[slug]; !dup {
			rank[slug] = i
		}
	}
	weight := func(c models.CategoryOption) int {
		if i, ok := rank[c.Slug]; ok {
			return i
		}
		return len(prioritySlugs)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return weight(categories[i]) < weight(categories[j])
	})
}
