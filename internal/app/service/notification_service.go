package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"github.com/avlawson/candyshop-backend/pkg/mailer"
)

// NotificationService sends order lifecycle mail. Every send is
// fire-and-forget: failures are logged and never surfaced to the caller,
// so a dead SMTP relay cannot break checkout.
type NotificationService interface {
	OrderPlaced(orders []model.Order)
	OrderPaid(order *model.Order)
	OrderRefunded(order *model.Order)
}

type notificationService struct {
	mail    *mailer.Mailer
	ownerTo string
}

func NewNotificationService(mail *mailer.Mailer, ownerTo string) NotificationService {
	return &notificationService{
		mail:    mail,
		ownerTo: ownerTo,
	}
}

// OrderPlaced mails the customer a confirmation and the shop owner an
// alert, in the background.
func (s *notificationService) OrderPlaced(orders []model.Order) {
	if len(orders) == 0 {
		return
	}
	primary := orders[0]

	numbers := make([]string, 0, len(orders))
	var total float64
	for _, o := range orders {
		numbers = append(numbers, o.OrderNumber)
		total += o.TotalPrice
	}

	customerBody := fmt.Sprintf(
		"Hi %s,\n\nThanks for your order! Your order number is %s.\n\nTotal: $%.2f\n\nWe'll be in touch once production is scheduled.\n",
		primary.CustomerName, strings.Join(numbers, " and "), total,
	)
	s.send([]string{primary.CustomerEmail}, fmt.Sprintf("Order %s received", numbers[0]), customerBody, "order placed (customer)")

	if s.ownerTo != "" {
		ownerBody := fmt.Sprintf(
			"New order %s from %s <%s>.\n\nTotal: $%.2f\nItems: %d\n",
			strings.Join(numbers, ", "), primary.CustomerName, primary.CustomerEmail, total, len(orders),
		)
		s.send([]string{s.ownerTo}, fmt.Sprintf("New order %s", numbers[0]), ownerBody, "order placed (owner)")
	}
}

// OrderPaid mails the customer a payment receipt, in the background.
func (s *notificationService) OrderPaid(order *model.Order) {
	if order == nil {
		return
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nWe've received your payment of $%.2f for order %s.\n\nThanks!\n",
		order.CustomerName, order.TotalPrice, order.OrderNumber,
	)
	s.send([]string{order.CustomerEmail}, fmt.Sprintf("Payment received for order %s", order.OrderNumber), body, "order paid")
}

// OrderRefunded mails the customer a refund notice, in the background.
func (s *notificationService) OrderRefunded(order *model.Order) {
	if order == nil {
		return
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nYour order %s has been refunded in full ($%.2f). The funds should appear within a few business days.\n",
		order.CustomerName, order.OrderNumber, order.TotalPrice,
	)
	s.send([]string{order.CustomerEmail}, fmt.Sprintf("Refund issued for order %s", order.OrderNumber), body, "order refunded")
}

func (s *notificationService) send(to []string, subject, body, kind string) {
	go func() {
		err := s.mail.Send(to, subject, body)
		if err == nil {
			logger.Info("Notification sent", map[string]interface{}{
				"kind":    kind,
				"subject": subject,
			})
			return
		}
		if errors.Is(err, mailer.ErrNotConfigured) {
			logger.Debug("Notification skipped, mail not configured", map[string]interface{}{
				"kind": kind,
			})
			return
		}
		logger.Error("Notification send failed", err, map[string]interface{}{
			"kind":    kind,
			"subject": subject,
		})
	}()
}
