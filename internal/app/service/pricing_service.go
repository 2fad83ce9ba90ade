package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/internal/app/repository"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrPackagingNotFound   = errors.New("packaging option not found")
	ErrInvalidQuantity     = errors.New("quantity must be a positive number")
	ErrEmptyPackaging      = errors.New("at least one packaging line is required")
	ErrNoTierMatch         = errors.New("no weight tier covers the order weight")
	ErrPackagingNotAllowed = errors.New("packaging option not available for this category")
	ErrQuantityOverMax     = errors.New("quantity exceeds the packaging option maximum")
	ErrLabelsBulkQuote     = errors.New("label count requires a manual bulk quote")
	ErrNoLabelBand         = errors.New("no label cost band covers the requested count")
	ErrInvalidExtra        = errors.New("unknown jacket extra")
	ErrDueDateBlocked      = errors.New("due date is not available for ordering")
	ErrDueDateTooSoon      = errors.New("due date is inside the minimum lead time")
)

// Jacket extra identifiers accepted in quote requests.
const (
	ExtraRainbow            = "rainbow"
	ExtraTwoColour          = "two_colour"
	ExtraPinstripe          = "pinstripe"
	ExtraTwoColourPinstripe = "two_colour_pinstripe" // decomposes into two_colour + pinstripe
)

// QuotePackagingLine is one packaging option and quantity in a quote request.
type QuotePackagingLine struct {
	OptionID uint `json:"option_id"`
	Quantity int  `json:"quantity"`
}

// QuoteInput describes the order being priced.
type QuoteInput struct {
	CategoryID  uint                 `json:"category_id"`
	Packaging   []QuotePackagingLine `json:"packaging"`
	LabelsCount int                  `json:"labels_count"`
	DueDate     *time.Time           `json:"due_date"`
	Extras      []string             `json:"extras"`
}

// PriceLine is one human-readable line in the quote breakdown.
type PriceLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// PriceBreakdown is the itemised result of pricing a quote.
type PriceBreakdown struct {
	BasePrice      float64     `json:"base_price"`
	PackagingPrice float64     `json:"packaging_price"`
	LabelsPrice    float64     `json:"labels_price"`
	ExtrasPrice    float64     `json:"extras_price"`
	UrgencyFee     float64     `json:"urgency_fee"`
	TransactionFee float64     `json:"transaction_fee"`
	Total          float64     `json:"total"`
	TotalWeightKg  float64     `json:"total_weight_kg"`
	Items          []PriceLine `json:"items"`
}

// PricingService turns an order description plus the loaded tables and
// settings into an itemised price breakdown. Quote has no side effects.
type PricingService interface {
	Quote(input QuoteInput) (*PriceBreakdown, error)
}

type pricingService struct {
	categoryRepo  repository.CategoryRepository
	packagingRepo repository.PackagingRepository
	labelRepo     repository.LabelRepository
	settingsRepo  repository.SettingsRepository
	blockRepo     repository.BlockRepository
	now           func() time.Time
}

func NewPricingService(
	categoryRepo repository.CategoryRepository,
	packagingRepo repository.PackagingRepository,
	labelRepo repository.LabelRepository,
	settingsRepo repository.SettingsRepository,
	blockRepo repository.BlockRepository,
	nowFn ...func() time.Time,
) PricingService {
	now := time.Now
	if len(nowFn) > 0 && nowFn[0] != nil {
		now = nowFn[0]
	}
	return &pricingService{
		categoryRepo:  categoryRepo,
		packagingRepo: packagingRepo,
		labelRepo:     labelRepo,
		settingsRepo:  settingsRepo,
		blockRepo:     blockRepo,
		now:           now,
	}
}

func (s *pricingService) Quote(input QuoteInput) (*PriceBreakdown, error) {
	logger.Debug("Pricing quote request", map[string]interface{}{
		"category_id":  input.CategoryID,
		"line_count":   len(input.Packaging),
		"labels_count": input.LabelsCount,
	})

	// All validation happens before any arithmetic.
	if input.CategoryID == 0 {
		return nil, ErrCategoryNotFound
	}
	if len(input.Packaging) == 0 {
		return nil, ErrEmptyPackaging
	}

	category, err := s.categoryRepo.FindByID(input.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, err
	}

	options := make([]*model.PackagingOption, 0, len(input.Packaging))
	for _, line := range input.Packaging {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		option, err := s.packagingRepo.FindByID(line.OptionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPackagingNotFound
			}
			return nil, err
		}
		if !option.AllowsCategory(category.ID) {
			logger.Warn("Packaging option not allowed for category", map[string]interface{}{
				"option_id":   option.ID,
				"category_id": category.ID,
			})
			return nil, ErrPackagingNotAllowed
		}
		if option.MaxPackages != nil && line.Quantity > *option.MaxPackages {
			return nil, ErrQuantityOverMax
		}
		options = append(options, option)
	}

	for _, extra := range input.Extras {
		switch extra {
		case ExtraRainbow, ExtraTwoColour, ExtraPinstripe, ExtraTwoColourPinstripe:
		default:
			return nil, ErrInvalidExtra
		}
	}

	if input.DueDate != nil {
		// Lead time is the hard floor; the urgency window prices rushed
		// dates above it.
		if daysUntil(s.now(), *input.DueDate) < settings.LeadTimeDays {
			logger.Warn("Quote rejected: due date inside lead time", map[string]interface{}{
				"due_date":       model.DateOnly(*input.DueDate),
				"lead_time_days": settings.LeadTimeDays,
			})
			return nil, ErrDueDateTooSoon
		}

		blocks, err := s.blockRepo.FindQuoteBlocksCovering(*input.DueDate)
		if err != nil {
			return nil, err
		}
		if len(blocks) > 0 {
			logger.Warn("Quote rejected: due date falls in a quote block", map[string]interface{}{
				"due_date": model.DateOnly(*input.DueDate),
			})
			return nil, ErrDueDateBlocked
		}
	}

	breakdown := &PriceBreakdown{}

	// 1. Total candy weight from packaging lines, grams to kg.
	var totalGrams int
	for i, line := range input.Packaging {
		totalGrams += options[i].CandyWeightG * line.Quantity
	}
	breakdown.TotalWeightKg = float64(totalGrams) / 1000.0

	// 2. Base price from the category's weight tier. First match by
	// ascending min_kg wins when ranges overlap.
	tiers, err := s.categoryRepo.FindTiers(category.ID)
	if err != nil {
		return nil, err
	}
	var tier *model.WeightTier
	for i := range tiers {
		if tiers[i].Contains(breakdown.TotalWeightKg) {
			tier = &tiers[i]
			break
		}
	}
	if tier == nil {
		logger.Warn("No weight tier covers quote weight", map[string]interface{}{
			"category_id": category.ID,
			"weight_kg":   breakdown.TotalWeightKg,
		})
		return nil, ErrNoTierMatch
	}
	if tier.PerKg {
		breakdown.BasePrice = roundCents(tier.Price * breakdown.TotalWeightKg)
	} else {
		breakdown.BasePrice = roundCents(tier.Price)
	}

	// 3. Packaging price.
	for i, line := range input.Packaging {
		breakdown.PackagingPrice += options[i].UnitPrice * float64(line.Quantity)
	}
	breakdown.PackagingPrice = roundCents(breakdown.PackagingPrice)

	// 4. Labels price from the smallest covering supplier band, with markup
	// and a single flat shipping charge per order.
	if input.LabelsCount > 0 {
		if input.LabelsCount > settings.LabelsMaxBulk {
			return nil, ErrLabelsBulkQuote
		}
		band, err := s.labelRepo.FindBandFor(input.LabelsCount)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoLabelBand
			}
			return nil, err
		}
		breakdown.LabelsPrice = roundCents(band.RangeCost*settings.LabelsMarkupMultiplier + settings.LabelsSupplierShipping)
	}

	// 5. Jacket extras. two_colour_pinstripe bills both components.
	extraLines := make([]PriceLine, 0, len(input.Extras)+1)
	addExtra := func(label string, amount float64) {
		amount = roundCents(amount)
		breakdown.ExtrasPrice += amount
		extraLines = append(extraLines, PriceLine{Label: label, Amount: amount})
	}
	for _, extra := range input.Extras {
		switch extra {
		case ExtraRainbow:
			addExtra("Rainbow jacket", settings.JacketRainbow)
		case ExtraTwoColour:
			addExtra("Two colour jacket", settings.JacketTwoColour)
		case ExtraPinstripe:
			addExtra("Pinstripe jacket", settings.JacketPinstripe)
		case ExtraTwoColourPinstripe:
			addExtra("Two colour jacket", settings.JacketTwoColour)
			addExtra("Pinstripe jacket", settings.JacketPinstripe)
		}
	}
	breakdown.ExtrasPrice = roundCents(breakdown.ExtrasPrice)

	subtotal := breakdown.BasePrice + breakdown.PackagingPrice + breakdown.LabelsPrice + breakdown.ExtrasPrice

	// 6. Urgency fee when the due date is inside the urgency window.
	// Dates compare at day granularity in the shop's local calendar.
	if input.DueDate != nil && settings.UrgencyFeePercent > 0 {
		days := daysUntil(s.now(), *input.DueDate)
		if days <= settings.UrgencyWindowDays {
			breakdown.UrgencyFee = roundCents(subtotal * settings.UrgencyFeePercent / 100)
		}
	}

	// 7. Transaction fee on the amount to be charged, uniform across
	// providers at quote time.
	if settings.TransactionFeePercent > 0 {
		breakdown.TransactionFee = roundCents((subtotal + breakdown.UrgencyFee) * settings.TransactionFeePercent / 100)
	}

	// 8. Total.
	breakdown.Total = roundCents(subtotal + breakdown.UrgencyFee + breakdown.TransactionFee)

	// 9. Display lines: base always, everything else only when non-zero.
	breakdown.Items = append(breakdown.Items, PriceLine{
		Label:  fmt.Sprintf("%s (%.2f kg)", category.Name, breakdown.TotalWeightKg),
		Amount: breakdown.BasePrice,
	})
	if breakdown.PackagingPrice != 0 {
		breakdown.Items = append(breakdown.Items, PriceLine{Label: "Packaging", Amount: breakdown.PackagingPrice})
	}
	if breakdown.LabelsPrice != 0 {
		breakdown.Items = append(breakdown.Items, PriceLine{
			Label:  fmt.Sprintf("Labels x%d", input.LabelsCount),
			Amount: breakdown.LabelsPrice,
		})
	}
	for _, line := range extraLines {
		if line.Amount != 0 {
			breakdown.Items = append(breakdown.Items, line)
		}
	}
	if breakdown.UrgencyFee != 0 {
		breakdown.Items = append(breakdown.Items, PriceLine{Label: "Urgency fee", Amount: breakdown.UrgencyFee})
	}
	if breakdown.TransactionFee != 0 {
		breakdown.Items = append(breakdown.Items, PriceLine{Label: "Transaction fee", Amount: breakdown.TransactionFee})
	}

	logger.Info("Quote priced successfully", map[string]interface{}{
		"category_id": category.ID,
		"weight_kg":   breakdown.TotalWeightKg,
		"total":       breakdown.Total,
	})
	return breakdown, nil
}

// daysUntil counts whole calendar days between now and the due date.
func daysUntil(now, due time.Time) int {
	return int(model.DateOnly(due).Sub(model.DateOnly(now)).Hours() / 24)
}

// roundCents rounds a dollar amount to the nearest cent.
func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
