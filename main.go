// @title Sneakverse Catalog API
// @version 1.0
// @description Storefront catalog: product listings, detail, recommendations and price history
// @host localhost:8081
// @BasePath /api/v1
// @schemes http
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/catalog"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/config"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/middleware"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/routes/ecommerce_routes"
)

func main() {
	// CATALOG_CONFIG names an optional yaml/json/toml file; env vars and .env always apply
	configFile := os.Getenv("CATALOG_CONFIG")
	source, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	settings := source.Settings()

	if settings.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to DB
	if err := config.InitDB(settings); err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer config.CloseDB()

	// Redis connection (optional, used for rate limiting)
	redisClient, err := config.ConnectRedis(settings)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer config.CloseRedis()

	engine := catalog.New(config.CatalogDB, catalog.WithTunables(settings.Tunables()))
	log.Println("✅ Catalog engine initialized")

	// ✅ Catalog tunables follow config file edits
	source.Subscribe(func(s config.Settings) {
		engine.SetTunables(s.Tunables())
		log.Println("✅ Catalog tunables updated")
	})
	if configFile != "" {
		source.EnableHotReload()
	}

	corsCfg := cors.Config{
		AllowOrigins:     settings.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
	}
	if len(corsCfg.AllowOrigins) == 0 {
		log.Println("⚠️ server.allowed_origins empty, allowing all origins")
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}

	router := gin.Default()
	router.Use(cors.New(corsCfg))

	api := router.Group("/api/v1")

	var counters middleware.CounterStore
	if redisClient != nil {
		counters = redisClient
	}
	api.Use(middleware.RateLimiter(counters, settings.RateLimit.Requests, settings.RateLimit.Window))

	ecommerce_routes.SetupStorefrontRoutes(api, engine)
	log.Println("✅ Storefront routes registered")

	fmt.Printf("🚀 Server is running on %s\n", settings.Server.Addr)
	if err := router.Run(settings.Server.Addr); err != nil {
		log.Printf("❌ Server stopped: %v", err)
	}
}
