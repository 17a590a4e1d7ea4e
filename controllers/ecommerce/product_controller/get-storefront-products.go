package product_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// GetStorefrontProducts godoc
// @Summary Get storefront products
// @Description Get paginated products for storefront with optional search and filtering. Facets accept repeated or comma separated slugs.
// @Tags store
// @Produce json
// @Param search query string false "Search query (alias q)"
// @Param gender query []string false "Gender slugs"
// @Param brand query []string false "Brand slugs"
// @Param category query []string false "Category slugs"
// @Param color query []string false "Color slugs"
// @Param size query []string false "Size slugs"
// @Param price query []string false "Price buckets (0-50, 50-100, 200-)"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param sort query string false "Sort order" Enums(featured, newest, price_asc, price_desc, most_popular) default(featured)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 60)" default(12)
// @Success 200 {object} models.ApiResponse{data=[]models.ProductListItem}
// @Router /store/products [get]
func GetStorefrontProducts(c *gin.Context) {
	listing := store.ListProducts(c.Request.Context(), c.Request.URL.Query())

	c.JSON(http.StatusOK, models.PaginatedResponse(
		c,
		"Products fetched successfully",
		listing.Products,
		models.ListingPagination(listing),
	))
}
