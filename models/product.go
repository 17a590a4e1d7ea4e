package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ═══════════════════════════════════════════════════════════
// JSON Type Definitions
// ═══════════════════════════════════════════════════════════

// Dimensions holds the optional parcel size of a variant, in centimetres.
type Dimensions struct {
	LengthCm float64 `json:"length_cm,omitempty" example:"33"`
	WidthCm  float64 `json:"width_cm,omitempty" example:"21"`
	HeightCm float64 `json:"height_cm,omitempty" example:"12"`
}

// ═══════════════════════════════════════════════════════════
// Main Product Models (GORM)
// ═══════════════════════════════════════════════════════════

type Product struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name             string     `json:"name" gorm:"not null;index"`
	Description      string     `json:"description" gorm:"not null;default:''"`
	IsPublished      bool       `json:"is_published" gorm:"not null;default:false;index"`
	BrandID          *uuid.UUID `json:"brand_id,omitempty" gorm:"type:uuid;index"`
	CategoryID       *uuid.UUID `json:"category_id,omitempty" gorm:"type:uuid;index"`
	GenderID         *uuid.UUID `json:"gender_id,omitempty" gorm:"type:uuid;index"`
	DefaultVariantID *uuid.UUID `json:"default_variant_id,omitempty" gorm:"type:uuid"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Brand    *Brand         `json:"brand,omitempty" gorm:"foreignKey:BrandID;references:ID"`
	Category *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID"`
	Gender   *Gender        `json:"gender,omitempty" gorm:"foreignKey:GenderID;references:ID"`
	Variants []Variant      `json:"variants" gorm:"foreignKey:ProductID"`
	Images   []ProductImage `json:"images" gorm:"foreignKey:ProductID"`
}

// BeforeCreate hook - auto-generate UUID v7
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (Product) TableName() string {
	return "products"
}

// Variant is one purchasable SKU of a product (a colour + size combination).
type Variant struct {
	ID         uuid.UUID                      `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID  uuid.UUID                      `json:"product_id" gorm:"type:uuid;not null;index"`
	SKU        string                         `json:"sku" gorm:"column:sku;not null;uniqueIndex"`
	Price      decimal.Decimal                `json:"price" gorm:"type:numeric(12,2);not null;index"`
	SalePrice  decimal.NullDecimal            `json:"sale_price" gorm:"type:numeric(12,2)"`
	Stock      int                            `json:"stock" gorm:"not null;default:0"`
	ColorID    *uuid.UUID                     `json:"color_id,omitempty" gorm:"type:uuid;index"`
	SizeID     *uuid.UUID                     `json:"size_id,omitempty" gorm:"type:uuid;index"`
	Weight     decimal.NullDecimal            `json:"weight,omitempty" gorm:"type:numeric(10,3)"`
	Dimensions datatypes.JSONType[Dimensions] `json:"dimensions"`
	CreatedAt  time.Time                      `json:"created_at" gorm:"autoCreateTime"`

	Color *Color `json:"color,omitempty" gorm:"foreignKey:ColorID;references:ID"`
	Size  *Size  `json:"size,omitempty" gorm:"foreignKey:SizeID;references:ID"`
}

func (v *Variant) BeforeCreate(tx *gorm.DB) error {
	ensureID(&v.ID)
	return nil
}

func (Variant) TableName() string {
	return "variants"
}

// ProductImage belongs to a product. A nil VariantID marks a generic image;
// otherwise the image shows that specific variant.
type ProductImage struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;index"`
	VariantID *uuid.UUID `json:"variant_id,omitempty" gorm:"type:uuid;index"`
	URL       string     `json:"url" gorm:"column:url;not null"`
	SortOrder int        `json:"sort_order" gorm:"not null;default:0"`
	IsPrimary bool       `json:"is_primary" gorm:"not null;default:false"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

func (ProductImage) TableName() string {
	return "product_images"
}

// Review is only counted by the catalog (most_popular ordering).
type Review struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Rating    int       `json:"rating" gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment   string    `json:"comment" gorm:"not null;default:''"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

func (Review) TableName() string {
	return "reviews"
}

// PriceHistory is one recorded price point of a product.
type PriceHistory struct {
	ID         uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID  uuid.UUID           `json:"product_id" gorm:"type:uuid;not null;index:idx_price_history_product_time"`
	Price      decimal.Decimal     `json:"price" gorm:"type:numeric(12,2);not null"`
	SalePrice  decimal.NullDecimal `json:"sale_price" gorm:"type:numeric(12,2)"`
	RecordedAt time.Time           `json:"recorded_at" gorm:"not null;index:idx_price_history_product_time"`
}

func (h *PriceHistory) BeforeCreate(tx *gorm.DB) error {
	ensureID(&h.ID)
	return nil
}

func (PriceHistory) TableName() string {
	return "price_history"
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.Must(uuid.NewV7())
	}
}
