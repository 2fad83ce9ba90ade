package service

import (
	"errors"
	"fmt"
	"time"

	apperrors "github.com/avlawson/candyshop-backend/internal/errors"
	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/internal/app/repository"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"github.com/avlawson/candyshop-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrOrderNumberExhausted = errors.New("could not allocate a unique order number")
	ErrMissingCustomer      = errors.New("customer name and email are required")
	ErrOrderNotShippable    = errors.New("only premade items can be marked shipped")
	ErrOrderArchived        = errors.New("order is archived")
)

// maxNumberRetries bounds regeneration attempts after an order number
// uniqueness violation.
const maxNumberRetries = 5

// PremadeItemInput is the optional premade line of a combined cart. It
// becomes the "-b" sibling order.
type PremadeItemInput struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	WeightKg    float64 `json:"weight_kg"`
	Quantity    int     `json:"quantity"`
}

// PlaceOrderInput is a priced checkout submission.
type PlaceOrderInput struct {
	CustomerName   string            `json:"customer_name"`
	CustomerEmail  string            `json:"customer_email"`
	CustomerPhone  string            `json:"customer_phone"`
	Quote          QuoteInput        `json:"quote"`
	Jacket         string            `json:"jacket"`
	LidColor       string            `json:"lid_color"`
	Colours        string            `json:"colours"`
	Flavours       string            `json:"flavours"`
	DesignText     string            `json:"design_text"`
	DesignImageURL string            `json:"design_image_url"`
	Notes          string            `json:"notes"`
	PremadeItem    *PremadeItemInput `json:"premade_item,omitempty"`
}

// OrderPatch carries partial order updates from the admin console. Nil
// fields leave the existing value untouched; the merge is explicit rather
// than field-by-field fallbacks at write sites.
type OrderPatch struct {
	CustomerName   *string    `json:"customer_name,omitempty"`
	CustomerEmail  *string    `json:"customer_email,omitempty"`
	CustomerPhone  *string    `json:"customer_phone,omitempty"`
	Quantity       *int       `json:"quantity,omitempty"`
	TotalWeightKg  *float64   `json:"total_weight_kg,omitempty"`
	TotalPrice     *float64   `json:"total_price,omitempty"`
	LabelsCount    *int       `json:"labels_count,omitempty"`
	Jacket         *string    `json:"jacket,omitempty"`
	LidColor       *string    `json:"lid_color,omitempty"`
	Colours        *string    `json:"colours,omitempty"`
	Flavours       *string    `json:"flavours,omitempty"`
	DesignText     *string    `json:"design_text,omitempty"`
	DesignImageURL *string    `json:"design_image_url,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}

// MergeOrderPatch applies the patch onto a copy of the existing order and
// returns the merged record. Pure; callers persist the result atomically.
func MergeOrderPatch(existing model.Order, patch OrderPatch) model.Order {
	merged := existing
	if patch.CustomerName != nil {
		merged.CustomerName = *patch.CustomerName
	}
	if patch.CustomerEmail != nil {
		merged.CustomerEmail = *patch.CustomerEmail
	}
	if patch.CustomerPhone != nil {
		merged.CustomerPhone = *patch.CustomerPhone
	}
	if patch.Quantity != nil {
		merged.Quantity = *patch.Quantity
	}
	if patch.TotalWeightKg != nil {
		merged.TotalWeightKg = *patch.TotalWeightKg
	}
	if patch.TotalPrice != nil {
		merged.TotalPrice = *patch.TotalPrice
	}
	if patch.LabelsCount != nil {
		merged.LabelsCount = *patch.LabelsCount
	}
	if patch.Jacket != nil {
		merged.Jacket = *patch.Jacket
	}
	if patch.LidColor != nil {
		merged.LidColor = *patch.LidColor
	}
	if patch.Colours != nil {
		merged.Colours = *patch.Colours
	}
	if patch.Flavours != nil {
		merged.Flavours = *patch.Flavours
	}
	if patch.DesignText != nil {
		merged.DesignText = *patch.DesignText
	}
	if patch.DesignImageURL != nil {
		merged.DesignImageURL = *patch.DesignImageURL
	}
	if patch.Notes != nil {
		merged.Notes = *patch.Notes
	}
	if patch.DueDate != nil {
		merged.DueDate = patch.DueDate
	}
	return merged
}

// OrderService owns order creation, numbering and the lifecycle state
// machine up to (but not including) payment capture and refunds.
type OrderService interface {
	PlaceOrder(input PlaceOrderInput) ([]model.Order, error)
	GetOrder(orderID uint) (*model.Order, error)
	GetOrderByNumber(number string) (*model.Order, error)
	ListOrders(status string) ([]model.Order, error)
	UpdateOrder(orderID uint, patch OrderPatch) (*model.Order, error)
	MarkPaid(orderID uint, provider, txnID string) error
	MarkShipped(orderID uint) error
	Archive(orderID uint) error
	RevertStaleShipped(olderThan time.Duration) (int, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	pricing      PricingService
	notification NotificationService
	db           *gorm.DB
	now          func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	pricing PricingService,
	notification NotificationService,
	db *gorm.DB,
	nowFn ...func() time.Time,
) OrderService {
	now := time.Now
	if len(nowFn) > 0 && nowFn[0] != nil {
		now = nowFn[0]
	}
	return &orderService{
		orderRepo:    orderRepo,
		pricing:      pricing,
		notification: notification,
		db:           db,
		now:          now,
	}
}

// PlaceOrder prices the submission, allocates order numbers and writes the
// order rows. A combined custom+premade cart yields two sibling rows. The
// placement notification is fire-and-forget.
func (s *orderService) PlaceOrder(input PlaceOrderInput) ([]model.Order, error) {
	logger.Info("Placing order", map[string]interface{}{
		"customer_email": input.CustomerEmail,
		"category_id":    input.Quote.CategoryID,
		"has_premade":    input.PremadeItem != nil,
	})

	if input.CustomerName == "" || input.CustomerEmail == "" {
		return nil, ErrMissingCustomer
	}

	breakdown, err := s.pricing.Quote(input.Quote)
	if err != nil {
		return nil, err
	}

	var quantity int
	for _, line := range input.Quote.Packaging {
		quantity += line.Quantity
	}

	custom := model.Order{
		ItemKind:       model.ItemKindCustom,
		CustomerName:   input.CustomerName,
		CustomerEmail:  input.CustomerEmail,
		CustomerPhone:  input.CustomerPhone,
		CategoryID:     &input.Quote.CategoryID,
		Quantity:       quantity,
		TotalWeightKg:  breakdown.TotalWeightKg,
		TotalPrice:     breakdown.Total,
		LabelsCount:    input.Quote.LabelsCount,
		Jacket:         input.Jacket,
		LidColor:       input.LidColor,
		Colours:        input.Colours,
		Flavours:       input.Flavours,
		DesignText:     input.DesignText,
		DesignImageURL: input.DesignImageURL,
		Notes:          input.Notes,
		DueDate:        input.Quote.DueDate,
		Status:         model.OrderStatusPendingPayment,
	}
	if len(input.Quote.Packaging) == 1 {
		custom.PackagingOptionID = &input.Quote.Packaging[0].OptionID
	}

	orders, err := s.createWithNumberRetry(custom, input.PremadeItem)
	if err != nil {
		return nil, err
	}

	// Email is a non-critical side channel: failure is logged, never
	// propagated.
	if s.notification != nil {
		s.notification.OrderPlaced(orders)
	}

	return orders, nil
}

// createWithNumberRetry allocates the next order number and inserts the
// order row(s), regenerating the number on a uniqueness violation up to
// maxNumberRetries attempts.
func (s *orderService) createWithNumberRetry(custom model.Order, premade *PremadeItemInput) ([]model.Order, error) {
	for attempt := 1; attempt <= maxNumberRetries; attempt++ {
		last, err := s.orderRepo.LastOrderNumber()
		if err != nil {
			return nil, err
		}
		base := util.NextOrderNumber(last)

		orders := []model.Order{custom}
		if premade != nil {
			customNumber, premadeNumber := util.SiblingNumbers(base)
			orders[0].OrderNumber = customNumber
			orders = append(orders, model.Order{
				OrderNumber:   premadeNumber,
				ItemKind:      model.ItemKindPremade,
				CustomerName:  custom.CustomerName,
				CustomerEmail: custom.CustomerEmail,
				CustomerPhone: custom.CustomerPhone,
				Quantity:      premade.Quantity,
				TotalWeightKg: premade.WeightKg,
				TotalPrice:    premade.Price,
				Notes:         fmt.Sprintf("%s (paired with order %s)", premade.Description, customNumber),
				Status:        model.OrderStatusPendingPayment,
			})
		} else {
			orders[0].OrderNumber = base
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			for i := range orders {
				if err := tx.Create(&orders[i]).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			logger.Info("Order placed successfully", map[string]interface{}{
				"order_number": base,
				"order_count":  len(orders),
				"attempt":      attempt,
			})
			return orders, nil
		}
		if !apperrors.IsUniqueViolation(err) {
			return nil, err
		}

		logger.Warn("Order number collision, regenerating", map[string]interface{}{
			"order_number": base,
			"attempt":      attempt,
		})
	}

	logger.Error("Order number retries exhausted", ErrOrderNumberExhausted, map[string]interface{}{
		"max_retries": maxNumberRetries,
	})
	return nil, ErrOrderNumberExhausted
}

func (s *orderService) GetOrder(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOrderByNumber(number string) (*model.Order, error) {
	order, err := s.orderRepo.FindByNumber(number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(status string) ([]model.Order, error) {
	return s.orderRepo.FindAll(status)
}

// UpdateOrder merges the patch onto the stored order and saves the result
// in one write.
func (s *orderService) UpdateOrder(orderID uint, patch OrderPatch) (*model.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == model.OrderStatusArchived {
		return nil, ErrOrderArchived
	}

	merged := MergeOrderPatch(*order, patch)
	if err := s.orderRepo.Update(&merged); err != nil {
		return nil, err
	}

	logger.Info("Order updated", map[string]interface{}{
		"order_id":     orderID,
		"order_number": merged.OrderNumber,
	})
	return s.orderRepo.FindByID(orderID)
}

// MarkPaid records the payment provider and transaction against the order.
func (s *orderService) MarkPaid(orderID uint, provider, txnID string) error {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return err
	}

	now := s.now()
	order.Status = model.OrderStatusPaid
	order.PaymentProvider = provider
	order.PaymentTxnID = txnID
	order.PaidAt = &now
	if err := s.orderRepo.Update(order); err != nil {
		return err
	}

	logger.Info("Order marked paid", map[string]interface{}{
		"order_id":     orderID,
		"order_number": order.OrderNumber,
		"provider":     provider,
	})
	return nil
}

// MarkShipped stamps a premade order as shipped. The display reverts
// automatically 24 hours later via the scheduler.
func (s *orderService) MarkShipped(orderID uint) error {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return err
	}
	if order.ItemKind != model.ItemKindPremade {
		return ErrOrderNotShippable
	}

	now := s.now()
	order.Status = model.OrderStatusShipped
	order.ShippedAt = &now
	if err := s.orderRepo.Update(order); err != nil {
		return err
	}

	logger.Info("Order marked shipped", map[string]interface{}{
		"order_id":     orderID,
		"order_number": order.OrderNumber,
	})
	return nil
}

// Archive soft-deletes an order from the working views. Assignments stay in
// place; the derived schedule status reports archived.
func (s *orderService) Archive(orderID uint) error {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return err
	}

	order.Status = model.OrderStatusArchived
	if err := s.orderRepo.Update(order); err != nil {
		return err
	}

	logger.Info("Order archived", map[string]interface{}{
		"order_id":     orderID,
		"order_number": order.OrderNumber,
	})
	return nil
}

// RevertStaleShipped flips shipped orders older than the window back to
// paid so the admin list stops showing them as freshly shipped.
func (s *orderService) RevertStaleShipped(olderThan time.Duration) (int, error) {
	cutoff := s.now().Add(-olderThan)
	orders, err := s.orderRepo.FindShippedBefore(cutoff)
	if err != nil {
		return 0, err
	}

	reverted := 0
	for i := range orders {
		if err := s.orderRepo.UpdateStatus(orders[i].ID, model.OrderStatusPaid); err != nil {
			logger.Error("Failed to revert shipped order", err, map[string]interface{}{
				"order_id": orders[i].ID,
			})
			continue
		}
		reverted++
	}

	if reverted > 0 {
		logger.Info("Stale shipped orders reverted", map[string]interface{}{
			"count": reverted,
		})
	}
	return reverted, nil
}
