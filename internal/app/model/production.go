package model

import (
	"time"

	"gorm.io/gorm"
)

// BlockReasonOpenOverride is the reserved reason that un-blocks a date the
// weekly defaults would otherwise block. Any other reason is an explicit
// block and wins over an open override covering the same date.
const BlockReasonOpenOverride = "Open override"

// ProductionBlock force-blocks (or, with the open override reason,
// force-opens) a date range for production scheduling.
type ProductionBlock struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	StartDate time.Time      `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   time.Time      `gorm:"type:date;not null;index" json:"end_date"`
	Reason    string         `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProductionBlock) TableName() string {
	return "production_blocks"
}

// IsOpenOverride reports whether this block opens a date instead of closing it.
func (b ProductionBlock) IsOpenOverride() bool {
	return b.Reason == BlockReasonOpenOverride
}

// Covers reports whether the block's inclusive date range contains the date.
// Comparison is at day granularity.
func (b ProductionBlock) Covers(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(b.StartDate)) && !d.After(DateOnly(b.EndDate))
}

// QuoteBlock blocks a date range from customer-facing due date selection.
// Independent of production blocking; both sets are checked at their own
// decision points.
type QuoteBlock struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	StartDate time.Time      `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   time.Time      `gorm:"type:date;not null;index" json:"end_date"`
	Reason    string         `gorm:"type:varchar(255)" json:"reason,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (QuoteBlock) TableName() string {
	return "quote_blocks"
}

// Covers reports whether the quote block's inclusive range contains the date.
func (b QuoteBlock) Covers(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(b.StartDate)) && !d.After(DateOnly(b.EndDate))
}

type SlotStatus string

const (
	SlotStatusOpen   SlotStatus = "open"
	SlotStatusClosed SlotStatus = "closed"
)

// ProductionSlot is one (date, index) production capacity unit. Slots are
// created lazily when an order is first assigned to a date/index pair.
type ProductionSlot struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	SlotDate   time.Time      `gorm:"type:date;not null;uniqueIndex:idx_slot_date_index" json:"slot_date"`
	SlotIndex  int            `gorm:"not null;uniqueIndex:idx_slot_date_index" json:"slot_index"` // 1..Settings.ProductionSlotsPerDay
	CapacityKg float64        `gorm:"not null" json:"capacity_kg"`                                // defaults to Settings.MaxTotalKg
	Status     SlotStatus     `gorm:"type:varchar(20);default:'open'" json:"status"`
	Notes      string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Assignment *OrderSlot `gorm:"foreignKey:SlotID" json:"assignment,omitempty"`
}

func (ProductionSlot) TableName() string {
	return "production_slots"
}

// OrderSlot binds (part of) an order's weight to one production slot.
// The unique index on SlotID makes one-order-per-slot store-enforced.
type OrderSlot struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	OrderID    uint           `gorm:"not null;index" json:"order_id"`
	SlotID     uint           `gorm:"not null;uniqueIndex" json:"slot_id"`
	KgAssigned float64        `gorm:"not null" json:"kg_assigned"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Order Order          `gorm:"foreignKey:OrderID" json:"-"`
	Slot  ProductionSlot `gorm:"foreignKey:SlotID" json:"slot,omitempty"`
}

func (OrderSlot) TableName() string {
	return "order_slots"
}

// DateOnly truncates a time to its calendar date in local time. All slot and
// block comparisons happen at day granularity.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
