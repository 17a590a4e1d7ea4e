package product_controller

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// ─────────────────────────────────────────────────────────────
// Catalog wiring
// ─────────────────────────────────────────────────────────────

// ProductCatalog is the part of catalog.Engine the product handlers use.
type ProductCatalog interface {
	ListProducts(ctx context.Context, raw map[string][]string) models.ProductListing
	GetProduct(ctx context.Context, id uuid.UUID) *models.Product
	GetRecommendedProducts(ctx context.Context, id uuid.UUID) []models.RecommendedProduct
	GetProductPriceHistory(ctx context.Context, id uuid.UUID, months int) []models.PriceHistoryPoint
}

var store ProductCatalog

// InitCatalog sets the catalog every handler in this package reads from.
func InitCatalog(c ProductCatalog) {
	store = c
}

// ─────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────

// DefaultHistoryMonths is the price chart window when ?months is absent.
const DefaultHistoryMonths = 6

func parseProductID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// parseMonths reads ?months. Invalid values fall back to the default;
// zero asks for the full history.
func parseMonths(c *gin.Context) int {
	months, err := strconv.Atoi(c.DefaultQuery("months", strconv.Itoa(DefaultHistoryMonths)))
	if err != nil || months < 0 {
		return DefaultHistoryMonths
	}
	return months
}
