package model

import (
	"time"

	"gorm.io/gorm"
)

// LabelRange is one supplier cost band for printed labels. The band with the
// smallest UpperBound that still covers the requested label count applies.
type LabelRange struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	UpperBound int            `gorm:"not null;uniqueIndex" json:"upper_bound"` // label count ceiling for this band
	RangeCost  float64        `gorm:"not null" json:"range_cost"`              // supplier cost at this band
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LabelRange) TableName() string {
	return "label_ranges"
}
