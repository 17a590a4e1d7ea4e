// Package reference resolves storefront slugs to identifiers and lists the
// brand and category options shown next to a listing.
package reference

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// Resolver looks slugs up in the reference tables.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve maps every supplied facet's slugs to ids. Unknown slugs are
// dropped; facets are resolved independently of each other.
func (r *Resolver) Resolve(ctx context.Context, fs models.FilterSet) (models.ResolvedFilters, error) {
	var (
		out models.ResolvedFilters
		err error
	)

	lookups := []struct {
		table string
		slugs []string
		dst   *models.IDSet
	}{
		{"genders", fs.GenderSlugs, &out.Genders},
		{"brands", fs.BrandSlugs, &out.Brands},
		{"categories", fs.CategorySlugs, &out.Categories},
		{"colors", fs.ColorSlugs, &out.Colors},
		{"sizes", fs.SizeSlugs, &out.Sizes},
	}

	for _, l := range lookups {
		if *l.dst, err = r.resolve(ctx, l.table, l.slugs); err != nil {
			return models.ResolvedFilters{}, err
		}
	}
	return out, nil
}

func (r *Resolver) resolve(ctx context.Context, table string, slugs []string) (models.IDSet, error) {
	if len(slugs) == 0 {
		return models.IDSet{}, nil
	}

	ids := []uuid.UUID{}
	err := r.db.WithContext(ctx).
		Table(table).
		Where("slug IN ?", slugs).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return models.IDSet{}, fmt.Errorf("resolving %s slugs: %w", table, err)
	}
	return models.IDSet{Requested: true, IDs: ids}, nil
}
