package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/avlawson/candyshop-backend/config"
	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/internal/app/repository"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"github.com/avlawson/candyshop-backend/pkg/payment/paypal"
	"github.com/avlawson/candyshop-backend/pkg/payment/square"
	"github.com/avlawson/candyshop-backend/pkg/util"
)

var (
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")
	ErrOrderNotPaid            = errors.New("order has no completed payment")
	ErrUnknownProvider         = errors.New("unknown payment provider")
	ErrMissingPaymentSource    = errors.New("payment source is required")
)

// Payment provider identifiers stored on the order row.
const (
	ProviderSquare = "square"
	ProviderPayPal = "paypal"
)

// PaymentCaptureResponse reports a completed charge.
type PaymentCaptureResponse struct {
	OrderNumbers []string  `json:"order_numbers"`
	Provider     string    `json:"provider"`
	TxnID        string    `json:"txn_id"`
	Amount       float64   `json:"amount"`
	PaidAt       time.Time `json:"paid_at"`
}

// PaymentRefundResponse reports a completed refund.
type PaymentRefundResponse struct {
	OrderNumber string    `json:"order_number"`
	Provider    string    `json:"provider"`
	RefundID    string    `json:"refund_id"`
	Amount      float64   `json:"amount"`
	RefundedAt  time.Time `json:"refunded_at"`
}

// PaymentService routes charges and refunds to the configured provider and
// keeps the local payment state in step with the provider's answer. The
// local row only changes after the provider confirms.
type PaymentService interface {
	CaptureSquare(ctx context.Context, orderID uint, sourceID string) (*PaymentCaptureResponse, error)
	CapturePayPal(ctx context.Context, orderID uint, paypalOrderID string) (*PaymentCaptureResponse, error)
	Refund(ctx context.Context, orderID uint, reason string) (*PaymentRefundResponse, error)
}

type paymentService struct {
	orderRepo    repository.OrderRepository
	orders       OrderService
	squareClient *square.Client
	paypalClient *paypal.Client
	now          func() time.Time
}

// NewPaymentService creates a new payment service with both provider
// clients built from config.
func NewPaymentService(
	orderRepo repository.OrderRepository,
	orders OrderService,
	cfg *config.Config,
	nowFn ...func() time.Time,
) (PaymentService, error) {
	squareClient, err := square.NewClient(square.Config{
		AccessToken: cfg.Payment.Square.AccessToken,
		LocationID:  cfg.Payment.Square.LocationID,
		BaseURL:     cfg.Payment.Square.BaseURL,
		Currency:    cfg.Payment.Square.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create square client: %w", err)
	}

	paypalClient, err := paypal.NewClient(paypal.Config{
		ClientID:     cfg.Payment.PayPal.ClientID,
		ClientSecret: cfg.Payment.PayPal.ClientSecret,
		BaseURL:      cfg.Payment.PayPal.BaseURL,
		Currency:     cfg.Payment.PayPal.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create paypal client: %w", err)
	}

	now := time.Now
	if len(nowFn) > 0 && nowFn[0] != nil {
		now = nowFn[0]
	}

	return &paymentService{
		orderRepo:    orderRepo,
		orders:       orders,
		squareClient: squareClient,
		paypalClient: paypalClient,
		now:          now,
	}, nil
}

// CaptureSquare charges the card source for the order total, sibling
// included, then marks the rows paid.
func (s *paymentService) CaptureSquare(ctx context.Context, orderID uint, sourceID string) (*PaymentCaptureResponse, error) {
	if sourceID == "" {
		return nil, ErrMissingPaymentSource
	}

	orders, total, err := s.chargeableOrders(orderID)
	if err != nil {
		return nil, err
	}

	payment, err := s.squareClient.CreatePayment(ctx, sourceID, toCents(total), orders[0].OrderNumber)
	if err != nil {
		logger.Error("Square payment failed", err, map[string]interface{}{
			"order_id": orderID,
			"amount":   total,
		})
		return nil, err
	}

	return s.recordCapture(orders, ProviderSquare, payment.ID, total)
}

// CapturePayPal captures an approved PayPal checkout order, then marks the
// rows paid.
func (s *paymentService) CapturePayPal(ctx context.Context, orderID uint, paypalOrderID string) (*PaymentCaptureResponse, error) {
	if paypalOrderID == "" {
		return nil, ErrMissingPaymentSource
	}

	orders, total, err := s.chargeableOrders(orderID)
	if err != nil {
		return nil, err
	}

	capture, err := s.paypalClient.CaptureOrder(ctx, paypalOrderID)
	if err != nil {
		logger.Error("PayPal capture failed", err, map[string]interface{}{
			"order_id":        orderID,
			"paypal_order_id": paypalOrderID,
		})
		return nil, err
	}

	return s.recordCapture(orders, ProviderPayPal, capture.ID, total)
}

// Refund refunds a paid order in full via the provider that took the
// payment. A sibling order's payment state is never touched.
func (s *paymentService) Refund(ctx context.Context, orderID uint, reason string) (*PaymentRefundResponse, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == model.OrderStatusRefunded {
		return nil, ErrPaymentAlreadyProcessed
	}
	if !order.IsPaid() || order.PaymentTxnID == "" {
		return nil, ErrOrderNotPaid
	}

	var refundID string
	switch order.PaymentProvider {
	case ProviderSquare:
		refund, err := s.squareClient.RefundPayment(ctx, order.PaymentTxnID, toCents(order.TotalPrice), reason)
		if err != nil {
			logger.Error("Square refund failed", err, map[string]interface{}{
				"order_id": orderID,
				"txn_id":   order.PaymentTxnID,
			})
			return nil, err
		}
		refundID = refund.ID
	case ProviderPayPal:
		refund, err := s.paypalClient.RefundCapture(ctx, order.PaymentTxnID, fmt.Sprintf("%.2f", order.TotalPrice), reason)
		if err != nil {
			logger.Error("PayPal refund failed", err, map[string]interface{}{
				"order_id": orderID,
				"txn_id":   order.PaymentTxnID,
			})
			return nil, err
		}
		refundID = refund.ID
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, order.PaymentProvider)
	}

	now := s.now()
	order.Status = model.OrderStatusRefunded
	order.RefundedAt = &now
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Order refunded", map[string]interface{}{
		"order_id":     orderID,
		"order_number": order.OrderNumber,
		"provider":     order.PaymentProvider,
		"refund_id":    refundID,
	})

	return &PaymentRefundResponse{
		OrderNumber: order.OrderNumber,
		Provider:    order.PaymentProvider,
		RefundID:    refundID,
		Amount:      order.TotalPrice,
		RefundedAt:  now,
	}, nil
}

// chargeableOrders loads the order plus its combined-cart sibling (when
// present) and returns them with the summed total to charge.
func (s *paymentService) chargeableOrders(orderID uint) ([]*model.Order, float64, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, 0, ErrOrderNotFound
	}
	if order.IsPaid() {
		return nil, 0, ErrPaymentAlreadyProcessed
	}

	orders := []*model.Order{order}
	base := util.BaseOrderNumber(order.OrderNumber)
	if base != order.OrderNumber {
		customNumber, premadeNumber := util.SiblingNumbers(base)
		siblingNumber := premadeNumber
		if order.OrderNumber == premadeNumber {
			siblingNumber = customNumber
		}
		if sibling, err := s.orderRepo.FindByNumber(siblingNumber); err == nil && !sibling.IsPaid() {
			orders = append(orders, sibling)
		}
	}

	var total float64
	for _, o := range orders {
		total += o.TotalPrice
	}
	return orders, total, nil
}

func (s *paymentService) recordCapture(orders []*model.Order, provider, txnID string, total float64) (*PaymentCaptureResponse, error) {
	numbers := make([]string, 0, len(orders))
	for _, o := range orders {
		if err := s.orders.MarkPaid(o.ID, provider, txnID); err != nil {
			return nil, err
		}
		numbers = append(numbers, o.OrderNumber)
	}

	return &PaymentCaptureResponse{
		OrderNumbers: numbers,
		Provider:     provider,
		TxnID:        txnID,
		Amount:       total,
		PaidAt:       s.now(),
	}, nil
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
