// Package pricehistory exposes the recorded price points of a product as a
// chart-ready series.
package pricehistory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/catalog/query"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// DateLayout is the calendar date format of PriceHistoryPoint.Date.
const DateLayout = "2006-01-02"

// Series reads price_history. Now defaults to time.Now.
type Series struct {
	db  *gorm.DB
	Now func() time.Time
}

func NewSeries(db *gorm.DB) *Series {
	return &Series{db: db, Now: time.Now}
}

// Points returns the product's price points recorded within the last
// months months, oldest first. months <= 0 returns the full history.
func (s *Series) Points(ctx context.Context, productID uuid.UUID, months int) ([]models.PriceHistoryPoint, error) {
	tx := s.db.WithContext(ctx).
		Where("product_id = ?", productID)
	if months > 0 {
		tx = tx.Where("recorded_at >= ?", s.since(months))
	}

	var rows []models.PriceHistory
	if err := tx.Order("recorded_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading price history: %w", err)
	}

	points := make([]models.PriceHistoryPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, models.PriceHistoryPoint{
			Date:      row.RecordedAt.UTC().Format(DateLayout),
			Price:     row.Price.InexactFloat64(),
			SalePrice: query.Float(row.SalePrice),
		})
	}
	return points, nil
}

func (s *Series) since(months int) time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().UTC().Truncate(time.Second).AddDate(0, -months, 0)
}
