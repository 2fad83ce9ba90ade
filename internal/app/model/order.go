package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string    // order lifecycle status
type ScheduleStatus string // derived production schedule status, never stored
type ItemKind string       // custom-made vs premade stock item

const (
	OrderStatusPending        OrderStatus = "pending"         // created, unpaid quote accepted
	OrderStatusPendingPayment OrderStatus = "pending_payment" // checkout started, awaiting processor
	OrderStatusPaid           OrderStatus = "paid"            // payment recorded
	OrderStatusScheduled      OrderStatus = "scheduled"       // has a production slot assignment
	OrderStatusUnassigned     OrderStatus = "unassigned"      // assignment removed
	OrderStatusShipped        OrderStatus = "shipped"         // premade/additional items only
	OrderStatusRefunded       OrderStatus = "refunded"
	OrderStatusArchived       OrderStatus = "archived" // soft delete

	ScheduleArchived          ScheduleStatus = "archived"
	ScheduleUnassigned        ScheduleStatus = "unassigned"
	SchedulePendingCompletion ScheduleStatus = "pending completion" // slot date in the past, not yet shipped/archived
	ScheduleScheduled         ScheduleStatus = "scheduled"

	ItemKindCustom  ItemKind = "custom"
	ItemKindPremade ItemKind = "premade"
)

// Order is one production order. A combined custom+premade cart is split
// into two sibling rows sharing a base order number with "-a" (custom) and
// "-b" (premade) suffixes.
type Order struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	OrderNumber       string         `gorm:"type:varchar(30);not null;uniqueIndex" json:"order_number"`
	ItemKind          ItemKind       `gorm:"type:varchar(20);default:'custom'" json:"item_kind"`
	CustomerName      string         `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail     string         `gorm:"type:varchar(255);not null;index" json:"customer_email"`
	CustomerPhone     string         `gorm:"type:varchar(50)" json:"customer_phone,omitempty"`
	CategoryID        *uint          `gorm:"index" json:"category_id,omitempty"`
	PackagingOptionID *uint          `gorm:"index" json:"packaging_option_id,omitempty"`
	Quantity          int            `gorm:"default:0" json:"quantity"`
	TotalWeightKg     float64        `gorm:"not null;default:0" json:"total_weight_kg"`
	TotalPrice        float64        `gorm:"not null;default:0" json:"total_price"`
	LabelsCount       int            `gorm:"default:0" json:"labels_count"`
	Jacket            string         `gorm:"type:varchar(50)" json:"jacket,omitempty"` // rainbow, two_colour, pinstripe, two_colour_pinstripe
	LidColor          string         `gorm:"type:varchar(50)" json:"lid_color,omitempty"`
	Colours           string         `gorm:"type:text" json:"colours,omitempty"`
	Flavours          string         `gorm:"type:text" json:"flavours,omitempty"`
	DesignText        string         `gorm:"type:text" json:"design_text,omitempty"` // letters/logo through the candy
	DesignImageURL    string         `gorm:"type:text" json:"design_image_url,omitempty"`
	Notes             string         `gorm:"type:text" json:"notes,omitempty"` // carries the paired sibling reference for premade rows
	DueDate           *time.Time     `gorm:"type:date;index" json:"due_date,omitempty"`
	Status            OrderStatus    `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentProvider   string         `gorm:"type:varchar(20)" json:"payment_provider,omitempty"` // square or paypal
	PaymentTxnID      string         `gorm:"type:varchar(100);index" json:"payment_transaction_id,omitempty"`
	PaidAt            *time.Time     `json:"paid_at,omitempty"`
	RefundedAt        *time.Time     `json:"refunded_at,omitempty"`
	ShippedAt         *time.Time     `json:"shipped_at,omitempty"`
	PlatformOrderID   string         `gorm:"type:varchar(50)" json:"platform_order_id,omitempty"` // WooCommerce order id
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Category        *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	PackagingOption *PackagingOption `gorm:"foreignKey:PackagingOptionID" json:"packaging_option,omitempty"`
	Assignments     []OrderSlot      `gorm:"foreignKey:OrderID" json:"assignments,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// IsPaid reports whether a payment has been recorded for the order.
func (o Order) IsPaid() bool {
	return o.PaidAt != nil && o.PaymentTxnID != ""
}

// AssignedKg sums the weight bound to production slots across the loaded
// assignment rows.
func (o Order) AssignedKg() float64 {
	var total float64
	for _, a := range o.Assignments {
		total += a.KgAssigned
	}
	return total
}
