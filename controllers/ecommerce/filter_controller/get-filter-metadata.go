package filter_controller

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/catalog/filters"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// FilterCatalog is the part of catalog.Engine the filter menu needs.
type FilterCatalog interface {
	GetAllBrands(ctx context.Context) []models.BrandOption
	GetAllCategories(ctx context.Context, genderSlugs ...string) []models.CategoryOption
}

var store FilterCatalog

func InitCatalog(c FilterCatalog) {
	store = c
}

// FilterMetadata is everything the storefront filter sidebar renders.
type FilterMetadata struct {
	Brands       []models.BrandOption    `json:"brands"`
	Categories   []models.CategoryOption `json:"categories"`
	PriceBuckets []models.PriceBucket    `json:"price_buckets"`
}

// GetFilterMetadata godoc
// @Summary Get all filter metadata
// @Description Returns brands, categories (narrowed by gender when given) and the price buckets for storefront filters
// @Tags store
// @Produce json
// @Param gender query []string false "Gender slugs"
// @Success 200 {object} models.ApiResponse{data=FilterMetadata}
// @Router /store/filters/metadata [get]
func GetFilterMetadata(c *gin.Context) {
	ctx := c.Request.Context()
	genders := c.QueryArray("gender")

	metadata := FilterMetadata{PriceBuckets: filters.DefaultPriceBuckets}

	// Brands and categories are independent reads
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		metadata.Brands = store.GetAllBrands(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		metadata.Categories = store.GetAllCategories(ctx, genders...)
	}()

	wg.Wait()

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Filter metadata fetched", metadata))
}

// GetPriceBuckets godoc
// @Summary Get price buckets
// @Description The fixed price ranges offered as filters. Pass a bucket's token (min-max) as ?price=.
// @Tags store
// @Produce json
// @Success 200 {object} models.ApiResponse{data=[]models.PriceBucket}
// @Router /store/filters/price-buckets [get]
func GetPriceBuckets(c *gin.Context) {
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Price buckets fetched", filters.DefaultPriceBuckets))
}
