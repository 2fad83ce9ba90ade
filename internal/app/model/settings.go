package model

import (
	"time"
)

// Settings is the single row of global shop knobs. Exactly one row exists;
// repositories load and update it by its fixed primary key.
type Settings struct {
	ID                     uint      `gorm:"primarykey" json:"id"`
	LeadTimeDays           int       `gorm:"default:14" json:"lead_time_days"`            // minimum days from order to due date
	UrgencyFeePercent      float64   `gorm:"default:0" json:"urgency_fee_percent"`        // surcharge % inside the urgency window
	UrgencyWindowDays      int       `gorm:"default:7" json:"urgency_window_days"`        // days before due date that trigger the surcharge
	TransactionFeePercent  float64   `gorm:"default:0" json:"transaction_fee_percent"`    // card/wallet processing fee %
	JacketRainbow          float64   `gorm:"default:0" json:"jacket_rainbow"`             // flat surcharge, rainbow jacket
	JacketTwoColour        float64   `gorm:"default:0" json:"jacket_two_colour"`          // flat surcharge, two colour jacket
	JacketPinstripe        float64   `gorm:"default:0" json:"jacket_pinstripe"`           // flat surcharge, pinstripe jacket
	MaxTotalKg             float64   `gorm:"default:20" json:"max_total_kg"`              // per-order and default per-slot weight ceiling
	ProductionSlotsPerDay  int       `gorm:"default:2" json:"production_slots_per_day"`   // slot indexes run 1..N
	LabelsMarkupMultiplier float64   `gorm:"default:1.5" json:"labels_markup_multiplier"` // applied to the supplier band cost
	LabelsSupplierShipping float64   `gorm:"default:0" json:"labels_supplier_shipping"`   // flat shipping, once per order
	LabelsMaxBulk          int       `gorm:"default:1000" json:"labels_max_bulk"`         // above this, labels are a manual bulk quote
	NoProductionMon        bool      `gorm:"default:false" json:"no_production_mon"`
	NoProductionTue        bool      `gorm:"default:false" json:"no_production_tue"`
	NoProductionWed        bool      `gorm:"default:false" json:"no_production_wed"`
	NoProductionThu        bool      `gorm:"default:false" json:"no_production_thu"`
	NoProductionFri        bool      `gorm:"default:false" json:"no_production_fri"`
	NoProductionSat        bool      `gorm:"default:true" json:"no_production_sat"`
	NoProductionSun        bool      `gorm:"default:true" json:"no_production_sun"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func (Settings) TableName() string {
	return "settings"
}

// SettingsRowID is the fixed primary key of the singleton settings row.
const SettingsRowID uint = 1

// NoProductionOn reports the weekly default block flag for a weekday.
func (s Settings) NoProductionOn(day time.Weekday) bool {
	switch day {
	case time.Monday:
		return s.NoProductionMon
	case time.Tuesday:
		return s.NoProductionTue
	case time.Wednesday:
		return s.NoProductionWed
	case time.Thursday:
		return s.NoProductionThu
	case time.Friday:
		return s.NoProductionFri
	case time.Saturday:
		return s.NoProductionSat
	default:
		return s.NoProductionSun
	}
}
