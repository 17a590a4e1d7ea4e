// Package recommend ranks related products for a product detail page.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/catalog/query"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

const (
	DefaultFetchLimit = 8
	DefaultLimit      = 6
)

// Score weights for a candidate sharing the source product's key.
const (
	categoryWeight = 3
	brandWeight    = 2
	genderWeight   = 1
)

// Ranker scores published products against a source product. FetchLimit
// rows are read so that enough survive the image check to fill Limit.
type Ranker struct {
	db         *gorm.DB
	FetchLimit int
	Limit      int
}

func NewRanker(db *gorm.DB, fetchLimit, limit int) *Ranker {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if fetchLimit < limit {
		fetchLimit = max(DefaultFetchLimit, limit)
	}
	return &Ranker{db: db, FetchLimit: fetchLimit, Limit: limit}
}

type candidate struct {
	ID       uuid.UUID           `gorm:"column:id"`
	Name     string              `gorm:"column:name"`
	Price    decimal.NullDecimal `gorm:"column:price"`
	ImageURL *string             `gorm:"column:image_url"`
	Priority int                 `gorm:"column:priority"`
}

// Recommend returns up to Limit related products, never including the
// source. An unknown source yields an empty list.
func (r *Ranker) Recommend(ctx context.Context, productID uuid.UUID) ([]models.RecommendedProduct, error) {
	var src models.Product
	err := r.db.WithContext(ctx).
		Select("id", "category_id", "brand_id", "gender_id").
		Take(&src, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []models.RecommendedProduct{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading source product: %w", err)
	}

	sql, args, err := Candidates(src, r.FetchLimit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building recommendation query: %w", err)
	}

	var rows []candidate
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("executing recommendation query: %w", err)
	}
	return accept(rows, src.ID, r.Limit), nil
}

// Candidates is the ranked candidate query for src.
func Candidates(src models.Product, fetchLimit int) sq.SelectBuilder {
	var terms []sq.Sqlizer
	if src.CategoryID != nil {
		terms = append(terms, weighted("p.category_id", *src.CategoryID, categoryWeight))
	}
	if src.BrandID != nil {
		terms = append(terms, weighted("p.brand_id", *src.BrandID, brandWeight))
	}
	if src.GenderID != nil {
		terms = append(terms, weighted("p.gender_id", *src.GenderID, genderWeight))
	}

	defaultPrice := sq.Select("dv.price").
		From("variants dv").
		Where("dv.id = p.default_variant_id").
		Where("dv.product_id = p.id")
	lowestPrice := sq.Select("MIN(v.price)").
		From("variants v").
		Where("v.product_id = p.id")

	genericImage := sq.Select("pi.url").
		From("product_images pi").
		Where("pi.product_id = p.id").
		Where("pi.variant_id IS NULL").
		Where("TRIM(pi.url) <> ''").
		OrderBy("pi.is_primary DESC", "pi.sort_order ASC", "pi.id ASC").
		Limit(1)
	anyImage := sq.Select("pi.url").
		From("product_images pi").
		Where("pi.product_id = p.id").
		Where("TRIM(pi.url) <> ''").
		OrderBy("pi.is_primary DESC", "pi.sort_order ASC", "pi.id ASC").
		Limit(1)

	return sq.Select("p.id", "p.name").
		Column(sq.Alias(query.Coalesce(defaultPrice, lowestPrice), "price")).
		Column(sq.Alias(query.Coalesce(genericImage, anyImage), "image_url")).
		Column(sq.Alias(query.Sum(terms...), "priority")).
		From("products p").
		Where(sq.Expr("p.id <> ?", src.ID)).
		Where(sq.Eq{"p.is_published": true}).
		OrderBy("priority DESC", "p.created_at DESC", "p.id ASC").
		Limit(uint64(fetchLimit))
}

func weighted(column string, id uuid.UUID, weight int) sq.Sqlizer {
	return sq.Expr(fmt.Sprintf("CASE WHEN %s = ? THEN %d ELSE 0 END", column, weight), id)
}

// accept walks the ranked rows, skipping the source and rows without a
// usable image, until limit entries are collected.
func accept(rows []candidate, source uuid.UUID, limit int) []models.RecommendedProduct {
	out := make([]models.RecommendedProduct, 0, min(len(rows), limit))
	for _, row := range rows {
		if len(out) == limit {
			break
		}
		if row.ID == source || row.ImageURL == nil {
			continue
		}
		url := strings.TrimSpace(*row.ImageURL)
		if url == "" {
			continue
		}
		out = append(out, models.RecommendedProduct{
			ID:       row.ID,
			Title:    row.Name,
			Price:    query.Float(row.Price),
			ImageURL: url,
		})
	}
	return out
}
