package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type PackagingType string

const (
	PackagingBag    PackagingType = "bag"    // cello bag
	PackagingJar    PackagingType = "jar"    // glass jar, has lid colours
	PackagingTub    PackagingType = "tub"    // plastic tub
	PackagingCustom PackagingType = "custom" // priced manually
)

// PackagingOption is one orderable packaging line: a type/size combination
// with a fixed candy weight per unit and a unit price.
type PackagingOption struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Type         PackagingType  `gorm:"type:varchar(20);not null" json:"type"`
	SizeLabel    string         `gorm:"type:varchar(100);not null" json:"size_label"` // e.g. "Small jar 120g"
	CandyWeightG int            `gorm:"not null" json:"candy_weight_g"`               // candy weight per unit in grams
	UnitPrice    float64        `gorm:"not null" json:"unit_price"`
	LidColors    string         `gorm:"type:text" json:"lid_colors,omitempty"` // comma separated, jar types only
	MaxPackages  *int           `json:"max_packages,omitempty"`                // optional upper bound on ordered quantity
	SortOrder    int            `gorm:"default:0" json:"sort_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	AllowedCategories []Category `gorm:"many2many:packaging_option_categories" json:"allowed_categories,omitempty"`
}

func (PackagingOption) TableName() string {
	return "packaging_options"
}

// AllowsCategory reports whether the option may be ordered for the category.
// An option with no category rows is unrestricted.
func (p PackagingOption) AllowsCategory(categoryID uint) bool {
	if len(p.AllowedCategories) == 0 {
		return true
	}
	for _, c := range p.AllowedCategories {
		if c.ID == categoryID {
			return true
		}
	}
	return false
}

// LidColorList splits the stored lid colour string into individual colours.
func (p PackagingOption) LidColorList() []string {
	if p.LidColors == "" {
		return nil
	}
	parts := strings.Split(p.LidColors, ",")
	colors := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			colors = append(colors, trimmed)
		}
	}
	return colors
}
