package product_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// GetRecommendedProducts godoc
// @Summary Get related products
// @Description Up to six published products sharing category, brand or gender with the given product. Every entry has an image.
// @Tags store
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.ApiResponse{data=[]models.RecommendedProduct}
// @Failure 400 {object} models.ApiResponse
// @Router /store/products/{id}/recommended [get]
func GetRecommendedProducts(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid product ID"))
		return
	}

	products := store.GetRecommendedProducts(c.Request.Context(), productID)
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Recommended products fetched successfully", products))
}
