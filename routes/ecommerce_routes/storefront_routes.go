package ecommerce_routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/catalog"
	store_category "github.com/Modeva-Ecommerce/sneakverse-catalog/controllers/ecommerce/category_controller"
	store_filter "github.com/Modeva-Ecommerce/sneakverse-catalog/controllers/ecommerce/filter_controller"
	store_product "github.com/Modeva-Ecommerce/sneakverse-catalog/controllers/ecommerce/product_controller"
)

func SetupStorefrontRoutes(router *gin.RouterGroup, engine *catalog.Engine) {
	store_product.InitCatalog(engine)
	store_category.InitCatalog(engine)
	store_filter.InitCatalog(engine)

	// Storefront routes (public, no auth required)
	store := router.Group("/store")

	// Product routes
	products := store.Group("/products")
	{
		products.GET("", store_product.GetStorefrontProducts)                    // List with filters
		products.GET("/:id", store_product.GetStorefrontProductByID)             // Single product
		products.GET("/:id/recommended", store_product.GetRecommendedProducts)   // Related products
		products.GET("/:id/price-history", store_product.GetProductPriceHistory) // Price chart
	}

	store.GET("/brands", store_category.GetBrands)
	store.GET("/categories", store_category.GetCategories)

	filters := store.Group("/filters")
	{
		filters.GET("/metadata", store_filter.GetFilterMetadata)
		filters.GET("/price-buckets", store_filter.GetPriceBuckets)
	}
}
