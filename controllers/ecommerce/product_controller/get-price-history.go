package product_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// GetProductPriceHistory godoc
// @Summary Get product price history
// @Description Recorded price points, oldest first. months=0 returns the full history.
// @Tags store
// @Produce json
// @Param id path string true "Product ID"
// @Param months query int false "Lookback window in months" default(6)
// @Success 200 {object} models.ApiResponse{data=[]models.PriceHistoryPoint}
// @Failure 400 {object} models.ApiResponse
// @Router /store/products/{id}/price-history [get]
func GetProductPriceHistory(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid product ID"))
		return
	}

	points := store.GetProductPriceHistory(c.Request.Context(), productID, parseMonths(c))
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Price history fetched successfully", points))
}
