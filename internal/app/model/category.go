package model

import (
	"time"

	"gorm.io/gorm"
)

// Category is a product family (e.g. wedding hearts, rock logo candy).
// It decides which weight tiers, jacket options and packaging apply.
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null;uniqueIndex" json:"name"` // display name
	Slug      string         `gorm:"type:varchar(100);index" json:"slug"`
	HasJacket bool           `gorm:"default:false" json:"has_jacket"` // category supports jacket extras
	SortOrder int            `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	WeightTiers []WeightTier `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"weight_tiers,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// WeightTier maps a candy weight range to a price within a category.
// When PerKg is set the price is multiplied by the order weight,
// otherwise it is flat for the whole range.
type WeightTier struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CategoryID uint           `gorm:"not null;index" json:"category_id"`
	MinKg      float64        `gorm:"not null" json:"min_kg"`
	MaxKg      float64        `gorm:"not null" json:"max_kg"`
	Price      float64        `gorm:"not null" json:"price"`
	PerKg      bool           `gorm:"default:false" json:"per_kg"`
	Notes      string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
}

func (WeightTier) TableName() string {
	return "weight_tiers"
}

// Contains reports whether a weight falls inside this tier's range.
func (t WeightTier) Contains(weightKg float64) bool {
	return weightKg >= t.MinKg && weightKg <= t.MaxKg
}
