// Package seed loads a small demo sneaker catalog into an empty store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// ErrNotEmpty is returned when the store already holds products.
var ErrNotEmpty = errors.New("seed: catalog already has products")

type Summary struct {
	Brands, Categories, Products, Variants, Images, Reviews, PricePoints int
}

type demoProduct struct {
	name, brand, category, gender string
	price                        float64
	colors                       []string
	reviews                      int
}

var (
	genders = [][2]string{{"Men", "men"}, {"Women", "women"}, {"Kids", "kids"}}
	brands  = [][2]string{
		{"Nike", "nike"}, {"Adidas", "adidas"}, {"New Balance", "new-balance"},
		{"Puma", "puma"}, {"Asics", "asics"},
	}
	categories = [][2]string{
		{"Sneakers", "sneakers"}, {"Running", "running"}, {"Lifestyle", "lifestyle"},
		{"Basketball", "basketball"}, {"Boots", "boots"}, {"Sandals", "sandals"},
	}
	colors = [][3]string{
		{"Black", "black", "#000000"}, {"White", "white", "#FFFFFF"},
		{"Grey", "grey", "#8E8E8E"}, {"Red", "red", "#C8102E"}, {"Navy", "navy", "#1F2A44"},
	}
	sizes = []string{"38", "39", "40", "41", "42", "43", "44", "45", "46"}

	products = []demoProduct{
		{"Air Force 1 '07", "nike", "sneakers", "men", 115, []string{"white", "black"}, 42},
		{"Pegasus 41", "nike", "running", "men", 140, []string{"black", "navy"}, 18},
		{"Vomero 18", "nike", "running", "women", 160, []string{"grey"}, 7},
		{"Dunk Low Retro", "nike", "lifestyle", "women", 120, []string{"white", "red"}, 25},
		{"Samba OG", "adidas", "lifestyle", "men", 100, []string{"white", "black"}, 51},
		{"Gazelle Indoor", "adidas", "lifestyle", "women", 110, []string{"navy", "red"}, 12},
		{"Adizero Boston 12", "adidas", "running", "men", 180, []string{"black"}, 4},
		{"New Balance 2002R", "new-balance", "sneakers", "men", 150, []string{"grey"}, 33},
		{"990v6", "new-balance", "running", "men", 200, []string{"grey", "navy"}, 9},
		{"530", "new-balance", "sneakers", "women", 95, []string{"white"}, 16},
		{"Suede Classic", "puma", "sneakers", "kids", 45, []string{"red", "black"}, 3},
		{"MB.03", "puma", "basketball", "men", 125, []string{"red"}, 2},
		{"Gel-Kayano 31", "asics", "running", "women", 165, []string{"navy", "white"}, 11},
		{"Gel-1130", "asics", "lifestyle", "men", 110, []string{"white", "grey"}, 14},
		{"Trail Boot", "asics", "boots", "men", 210, []string{"black"}, 0},
		{"Slide Sandal", "adidas", "sandals", "kids", 30, []string{"black"}, 1},
	}
)

// Catalog inserts the demo catalog inside one transaction. now anchors
// product creation times and the six months of price history.
func Catalog(ctx context.Context, db *gorm.DB, now time.Time) (Summary, error) {
	var summary Summary
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Product{}).Count(&existing).Error; err != nil {
			return fmt.Errorf("counting products: %w", err)
		}
		if existing > 0 {
			return ErrNotEmpty
		}

		s := seeder{tx: tx, now: now.UTC().Truncate(time.Second), summary: &summary}
		return s.run()
	})
	return summary, err
}

type seeder struct {
	tx      *gorm.DB
	now     time.Time
	summary *Summary
}

func (s seeder) run() error {
	genderIDs := map[string]models.Gender{}
	for _, g := range genders {
		gender := models.Gender{Name: g[0], Slug: g[1]}
		if err := s.tx.Create(&gender).Error; err != nil {
			return fmt.Errorf("creating gender %s: %w", g[1], err)
		}
		genderIDs[g[1]] = gender
	}

	brandIDs := map[string]models.Brand{}
	for _, b := range brands {
		logo := fmt.Sprintf("https://cdn.sneakverse.test/brands/%s.svg", b[1])
		brand := models.Brand{Name: b[0], Slug: b[1], LogoURL: &logo}
		if err := s.tx.Create(&brand).Error; err != nil {
			return fmt.Errorf("creating brand %s: %w", b[1], err)
		}
		brandIDs[b[1]] = brand
		s.summary.Brands++
	}

	categoryIDs := map[string]models.Category{}
	for _, c := range categories {
		category := models.Category{Name: c[0], Slug: c[1]}
		if err := s.tx.Create(&category).Error; err != nil {
			return fmt.Errorf("creating category %s: %w", c[1], err)
		}
		categoryIDs[c[1]] = category
		s.summary.Categories++
	}

	colorIDs := map[string]models.Color{}
	for _, c := range colors {
		hex := c[2]
		color := models.Color{Name: c[0], Slug: c[1], Hex: &hex}
		if err := s.tx.Create(&color).Error; err != nil {
			return fmt.Errorf("creating color %s: %w", c[1], err)
		}
		colorIDs[c[1]] = color
	}

	var sizeRows []models.Size
	for i, label := range sizes {
		size := models.Size{Name: "EU " + label, Slug: label, SortOrder: i}
		if err := s.tx.Create(&size).Error; err != nil {
			return fmt.Errorf("creating size %s: %w", label, err)
		}
		sizeRows = append(sizeRows, size)
	}

	for i, demo := range products {
		brand, category, gender := brandIDs[demo.brand], categoryIDs[demo.category], genderIDs[demo.gender]
		product := models.Product{
			Name:        demo.name,
			Description: fmt.Sprintf("%s by %s.", demo.name, brand.Name),
			IsPublished: true,
			BrandID:     &brand.ID,
			CategoryID:  &category.ID,
			GenderID:    &gender.ID,
			// newest last, one day apart
			CreatedAt: s.now.AddDate(0, 0, i-len(products)),
		}
		if err := s.tx.Create(&product).Error; err != nil {
			return fmt.Errorf("creating product %q: %w", demo.name, err)
		}
		s.summary.Products++

		if err := s.variants(product, demo, colorIDs, sizeRows); err != nil {
			return err
		}
		if err := s.reviews(product, demo.reviews); err != nil {
			return err
		}
		if err := s.history(product, demo.price); err != nil {
			return err
		}
	}
	return nil
}

func (s seeder) variants(product models.Product, demo demoProduct, colorIDs map[string]models.Color, sizeRows []models.Size) error {
	image := models.ProductImage{
		ProductID: product.ID,
		URL:       imageURL(demo.name, "main"),
		IsPrimary: true,
	}
	if err := s.tx.Create(&image).Error; err != nil {
		return fmt.Errorf("creating image for %q: %w", demo.name, err)
	}
	s.summary.Images++

	var first *models.Variant
	for ci, colorSlug := range demo.colors {
		color := colorIDs[colorSlug]
		// later colorways cost a little more
		price := decimal.NewFromFloat(demo.price).Add(decimal.NewFromInt(int64(ci * 10)))

		for si := 2; si < len(sizeRows)-1; si++ {
			size := sizeRows[si]
			variant := models.Variant{
				ProductID:  product.ID,
				SKU:        fmt.Sprintf("%s-%s-%s", skuStem(demo.name), strings.ToUpper(colorSlug[:3]), size.Slug),
				Price:      price,
				Stock:      (si * 7) % 11,
				ColorID:    &color.ID,
				SizeID:     &size.ID,
				Weight:     decimal.NewNullDecimal(decimal.RequireFromString("0.850")),
				Dimensions: datatypes.NewJSONType(models.Dimensions{LengthCm: 33, WidthCm: 21, HeightCm: 12}),
			}
			if ci == 0 && demo.price >= 150 {
				variant.SalePrice = decimal.NewNullDecimal(price.Mul(decimal.RequireFromString("0.8")).Round(2))
			}
			if err := s.tx.Create(&variant).Error; err != nil {
				return fmt.Errorf("creating variant %s: %w", variant.SKU, err)
			}
			s.summary.Variants++
			if first == nil {
				first = &variant
			}
			if si == 2 {
				// one image per colorway, linked to its first size
				colorImage := models.ProductImage{
					ProductID: product.ID,
					VariantID: &variant.ID,
					URL:       imageURL(demo.name, colorSlug),
					SortOrder: ci + 1,
				}
				if err := s.tx.Create(&colorImage).Error; err != nil {
					return fmt.Errorf("creating %s image for %q: %w", colorSlug, demo.name, err)
				}
				s.summary.Images++
			}
		}
	}

	if first == nil {
		return nil
	}
	return s.tx.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("default_variant_id", first.ID).Error
}

func (s seeder) reviews(product models.Product, n int) error {
	for i := 0; i < n; i++ {
		review := models.Review{
			ProductID: product.ID,
			Rating:    3 + i%3,
			Comment:   "Great pair.",
		}
		if err := s.tx.Create(&review).Error; err != nil {
			return fmt.Errorf("creating review: %w", err)
		}
		s.summary.Reviews++
	}
	return nil
}

// history records one price point per month for the last six months,
// drifting down towards the current price.
func (s seeder) history(product models.Product, current float64) error {
	for m := 6; m >= 0; m-- {
		price := decimal.NewFromFloat(current).Add(decimal.NewFromInt(int64(m * 5)))
		point := models.PriceHistory{
			ProductID:  product.ID,
			Price:      price,
			RecordedAt: s.now.AddDate(0, -m, 0),
		}
		if m == 1 {
			point.SalePrice = decimal.NewNullDecimal(price.Mul(decimal.RequireFromString("0.9")).Round(2))
		}
		if err := s.tx.Create(&point).Error; err != nil {
			return fmt.Errorf("creating price point: %w", err)
		}
		s.summary.PricePoints++
	}
	return nil
}

func skuStem(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func imageURL(name, variant string) string {
	return fmt.Sprintf("https://cdn.sneakverse.test/products/%s/%s.jpg", strings.ToLower(skuStem(name)), variant)
}
