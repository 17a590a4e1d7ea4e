package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ═══════════════════════════════════════════════════════════
// Reference (lookup) entities, addressed by slug from the storefront
// ═══════════════════════════════════════════════════════════

// Category may be nested through ParentID.
type Category struct {
	ID       uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name     string     `json:"name" gorm:"not null"`
	Slug     string     `json:"slug" gorm:"not null;uniqueIndex"`
	ParentID *uuid.UUID `json:"parent_id" gorm:"type:uuid;index"`

	Parent *Category `json:"parent,omitempty" gorm:"foreignKey:ParentID;references:ID"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (Category) TableName() string {
	return "categories"
}

type Brand struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name    string    `json:"name" gorm:"not null;index"`
	Slug    string    `json:"slug" gorm:"not null;uniqueIndex"`
	LogoURL *string   `json:"logo_url,omitempty"`
}

func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

func (Brand) TableName() string {
	return "brands"
}

type Gender struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name string    `json:"name" gorm:"not null"`
	Slug string    `json:"slug" gorm:"not null;uniqueIndex"`
}

func (g *Gender) BeforeCreate(tx *gorm.DB) error {
	ensureID(&g.ID)
	return nil
}

func (Gender) TableName() string {
	return "genders"
}

type Color struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name string    `json:"name" gorm:"not null"`
	Slug string    `json:"slug" gorm:"not null;uniqueIndex"`
	Hex  *string   `json:"hex,omitempty" gorm:"type:varchar(7)"`
}

func (c *Color) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (Color) TableName() string {
	return "colors"
}

type Size struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"not null;uniqueIndex"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
}

func (s *Size) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (Size) TableName() string {
	return "sizes"
}

// AutoMigrate creates or updates every catalog table, lookup tables first.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Brand{}, &Category{}, &Gender{}, &Color{}, &Size{},
		&Product{}, &Variant{}, &ProductImage{}, &Review{}, &PriceHistory{},
	)
}
