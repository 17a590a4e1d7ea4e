package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/config"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/internal/seed"
)

// main fills an empty catalog with demo sneakers
// Usage: go run ./cmd/seed
// Reads the same CATALOG_CONFIG / .env / environment as the server
func main() {
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println("SNEAKVERSE CATALOG - Demo Data Seeder")
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println()

	source, err := config.Load(os.Getenv("CATALOG_CONFIG"))
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	settings := source.Settings()
	// the seeder always brings the schema up to date first
	settings.DB.AutoMigrate = true

	db, err := config.OpenDB(settings)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Println("✓ Connected to catalog database")

	ctx, cancel := config.WithCustomTimeout(2 * time.Minute)
	defer cancel()

	summary, err := seed.Catalog(ctx, db, time.Now())
	if errors.Is(err, seed.ErrNotEmpty) {
		fmt.Println("⚠️ Catalog already has products, nothing to do")
		return
	}
	if err != nil {
		log.Fatalf("❌ Failed to seed catalog: %v", err)
	}

	fmt.Println()
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println("✅ Demo Catalog Created Successfully!")
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Printf("Brands:       %d\n", summary.Brands)
	fmt.Printf("Categories:   %d\n", summary.Categories)
	fmt.Printf("Products:     %d\n", summary.Products)
	fmt.Printf("Variants:     %d\n", summary.Variants)
	fmt.Printf("Images:       %d\n", summary.Images)
	fmt.Printf("Reviews:      %d\n", summary.Reviews)
	fmt.Printf("Price points: %d\n", summary.PricePoints)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("1. Start the server: go run main.go")
	fmt.Println("2. Browse GET /api/v1/store/products?gender=men&sort=newest")
	fmt.Println("════════════════════════════════════════════════════════════")
}
