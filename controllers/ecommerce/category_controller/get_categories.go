package category_controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// ReferenceCatalog is the part of catalog.Engine the reference handlers use.
type ReferenceCatalog interface {
	GetAllBrands(ctx context.Context) []models.BrandOption
	GetAllCategories(ctx context.Context, genderSlugs ...string) []models.CategoryOption
}

var store ReferenceCatalog

func InitCatalog(c ReferenceCatalog) {
	store = c
}

// GetCategories godoc
// @Summary Get storefront categories
// @Description All categories, or only those with published products for the given genders. Featured categories come first.
// @Tags store
// @Produce json
// @Param gender query []string false "Gender slugs"
// @Success 200 {object} models.ApiResponse{data=[]models.CategoryOption}
// @Router /store/categories [get]
func GetCategories(c *gin.Context) {
	categories := store.GetAllCategories(c.Request.Context(), c.QueryArray("gender")...)
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Categories fetched successfully", categories))
}

// GetBrands godoc
// @Summary Get storefront brands
// @Description All brands ordered by name
// @Tags store
// @Produce json
// @Success 200 {object} models.ApiResponse{data=[]models.BrandOption}
// @Router /store/brands [get]
func GetBrands(c *gin.Context) {
	brands := store.GetAllBrands(c.Request.Context())
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Brands fetched successfully", brands))
}
