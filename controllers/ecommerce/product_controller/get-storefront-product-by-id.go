package product_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// GetStorefrontProductByID godoc
// @Summary Get single product details for storefront
// @Description Get a published product with its brand, category, gender, variants and images
// @Tags store
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.ApiResponse{data=models.Product}
// @Failure 400 {object} models.ApiResponse
// @Failure 404 {object} models.ApiResponse
// @Router /store/products/{id} [get]
func GetStorefrontProductByID(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid product ID"))
		return
	}

	product := store.GetProduct(c.Request.Context(), productID)
	if product == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse(c, "Product not found"))
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Product fetched successfully", product))
}
