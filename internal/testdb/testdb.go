// Package testdb opens throwaway catalog stores for tests and seeds them
// with a small fluent builder.
package testdb

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// Epoch is the creation time of the first product made by a Builder.
var Epoch = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// Open returns a migrated in-memory SQLite store private to t.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the shared-cache database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// Close closes the underlying pool so every later query fails.
func Close(t testing.TB, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

// Builder inserts catalog rows. Products get strictly increasing
// CreatedAt values one minute apart starting at Epoch.
type Builder struct {
	t     testing.TB
	db    *gorm.DB
	ticks int
	skus  int
}

func NewBuilder(t testing.TB, db *gorm.DB) *Builder {
	return &Builder{t: t, db: db}
}

func (b *Builder) create(value interface{}) {
	b.t.Helper()
	require.NoError(b.t, b.db.Create(value).Error)
}

func (b *Builder) Brand(name, slug string) models.Brand {
	b.t.Helper()
	brand := models.Brand{Name: name, Slug: slug}
	b.create(&brand)
	return brand
}

func (b *Builder) Category(name, slug string) models.Category {
	b.t.Helper()
	category := models.Category{Name: name, Slug: slug}
	b.create(&category)
	return category
}

func (b *Builder) Gender(name, slug string) models.Gender {
	b.t.Helper()
	gender := models.Gender{Name: name, Slug: slug}
	b.create(&gender)
	return gender
}

func (b *Builder) Color(name, slug string) models.Color {
	b.t.Helper()
	color := models.Color{Name: name, Slug: slug}
	b.create(&color)
	return color
}

func (b *Builder) Size(name, slug string, order int) models.Size {
	b.t.Helper()
	size := models.Size{Name: name, Slug: slug, SortOrder: order}
	b.create(&size)
	return size
}

// ProductOption customizes a product before it is inserted.
type ProductOption func(*models.Product)

func Unpublished() ProductOption {
	return func(p *models.Product) { p.IsPublished = false }
}

func WithBrand(brand models.Brand) ProductOption {
	return func(p *models.Product) { p.BrandID = &brand.ID }
}

func WithCategory(category models.Category) ProductOption {
	return func(p *models.Product) { p.CategoryID = &category.ID }
}

func WithGender(gender models.Gender) ProductOption {
	return func(p *models.Product) { p.GenderID = &gender.ID }
}

func WithDescription(description string) ProductOption {
	return func(p *models.Product) { p.Description = description }
}

// Product inserts a published product created one tick after the previous one.
func (b *Builder) Product(name string, opts ...ProductOption) models.Product {
	b.t.Helper()
	product := models.Product{
		Name:        name,
		IsPublished: true,
		CreatedAt:   Epoch.Add(time.Duration(b.ticks) * time.Minute),
	}
	b.ticks++
	for _, opt := range opts {
		opt(&product)
	}
	b.create(&product)
	return product
}

// VariantOption customizes a variant before it is inserted.
type VariantOption func(*models.Variant)

func InColor(color models.Color) VariantOption {
	return func(v *models.Variant) { v.ColorID = &color.ID }
}

func InSize(size models.Size) VariantOption {
	return func(v *models.Variant) { v.SizeID = &size.ID }
}

func OnSale(price float64) VariantOption {
	return func(v *models.Variant) { v.SalePrice = decimal.NewNullDecimal(decimal.NewFromFloat(price)) }
}

// Variant inserts a variant with a generated SKU. Variants are created one
// second apart in insertion order.
func (b *Builder) Variant(product models.Product, price float64, opts ...VariantOption) models.Variant {
	b.t.Helper()
	b.skus++
	variant := models.Variant{
		ProductID: product.ID,
		SKU:       fmt.Sprintf("SKU-%05d", b.skus),
		Price:     decimal.NewFromFloat(price),
		Stock:     10,
		CreatedAt: Epoch.Add(time.Duration(b.skus) * time.Second),
	}
	for _, opt := range opts {
		opt(&variant)
	}
	b.create(&variant)
	return variant
}

// DefaultVariant points product at variant.
func (b *Builder) DefaultVariant(product models.Product, variant models.Variant) {
	b.t.Helper()
	require.NoError(b.t, b.db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("default_variant_id", variant.ID).Error)
}

// Image inserts a generic image when variant is nil.
func (b *Builder) Image(product models.Product, variant *models.Variant, url string, sortOrder int, primary bool) models.ProductImage {
	b.t.Helper()
	image := models.ProductImage{
		ProductID: product.ID,
		URL:       url,
		SortOrder: sortOrder,
		IsPrimary: primary,
	}
	if variant != nil {
		image.VariantID = &variant.ID
	}
	b.create(&image)
	return image
}

func (b *Builder) Reviews(product models.Product, n int) {
	b.t.Helper()
	for i := 0; i < n; i++ {
		b.create(&models.Review{ProductID: product.ID, Rating: 5})
	}
}

// PricePoint records a price history entry. sale may be nil.
func (b *Builder) PricePoint(product models.Product, at time.Time, price float64, sale *float64) models.PriceHistory {
	b.t.Helper()
	point := models.PriceHistory{
		ProductID:  product.ID,
		Price:      decimal.NewFromFloat(price),
		RecordedAt: at.UTC(),
	}
	if sale != nil {
		point.SalePrice = decimal.NewNullDecimal(decimal.NewFromFloat(*sale))
	}
	b.create(&point)
	return point
}
