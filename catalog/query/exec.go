package query

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// row mirrors the columns produced by Listing.Page.
type row struct {
	ID          uuid.UUID           `gorm:"column:id"`
	Name        string              `gorm:"column:name"`
	CreatedAt   time.Time           `gorm:"column:created_at"`
	MinPrice    decimal.NullDecimal `gorm:"column:min_price"`
	MaxPrice    decimal.NullDecimal `gorm:"column:max_price"`
	ImageURL    *string             `gorm:"column:image_url"`
	ReviewCount int64               `gorm:"column:review_count"`
	Subtitle    *string             `gorm:"column:subtitle"`
	BrandName   *string             `gorm:"column:brand_name"`
	BrandLogo   *string             `gorm:"column:brand_logo"`
}

func (r row) item() models.ProductListItem {
	return models.ProductListItem{
		ID:        r.ID,
		Name:      r.Name,
		ImageURL:  r.ImageURL,
		MinPrice:  Float(r.MinPrice),
		MaxPrice:  Float(r.MaxPrice),
		CreatedAt: r.CreatedAt,
		Subtitle:  r.Subtitle,
		BrandName: r.BrandName,
		BrandLogo: r.BrandLogo,
	}
}

// Fetch runs the page query.
func (l Listing) Fetch(ctx context.Context, db *gorm.DB) ([]models.ProductListItem, error) {
	sql, args, err := l.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building listing query: %w", err)
	}

	var rows []row
	if err := db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("executing listing query: %w", err)
	}

	items := make([]models.ProductListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.item())
	}
	return items, nil
}

// CountMatches runs the count query.
func (l Listing) CountMatches(ctx context.Context, db *gorm.DB) (int, error) {
	sql, args, err := l.CountSQL()
	if err != nil {
		return 0, fmt.Errorf("building count query: %w", err)
	}

	var total int64
	if err := db.WithContext(ctx).Raw(sql, args...).Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("executing count query: %w", err)
	}
	return int(total), nil
}

// Float converts a nullable decimal into a nullable float64.
func Float(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}
