package scheduler

import (
	"time"

	"github.com/avlawson/candyshop-backend/internal/app/service"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// shippedDisplayWindow is how long a premade order shows as shipped before
// it reverts to paid in the admin list.
const shippedDisplayWindow = 24 * time.Hour

// ShippedRevertScheduler reverts stale shipped orders on a timer.
type ShippedRevertScheduler struct {
	cron         *cron.Cron
	orderService service.OrderService
}

// NewShippedRevertScheduler creates the scheduler around the order service.
func NewShippedRevertScheduler(orderService service.OrderService) *ShippedRevertScheduler {
	return &ShippedRevertScheduler{
		cron:         cron.New(),
		orderService: orderService,
	}
}

// Start registers the hourly revert job and starts the cron loop.
func (s *ShippedRevertScheduler) Start() error {
	// Hourly is plenty, the display window is a day.
	_, err := s.cron.AddFunc("0 * * * *", func() {
		reverted, err := s.orderService.RevertStaleShipped(shippedDisplayWindow)
		if err != nil {
			logger.Error("Failed to revert stale shipped orders", err)
			return
		}
		if reverted > 0 {
			logger.Info("Scheduled shipped revert completed", map[string]interface{}{
				"reverted": reverted,
			})
		}
	})

	if err != nil {
		logger.Error("Failed to add cron job for shipped revert", err)
		return err
	}

	s.cron.Start()
	logger.Info("Shipped revert scheduler started (hourly)", nil)

	return nil
}

// Stop stops the scheduler.
func (s *ShippedRevertScheduler) Stop() {
	logger.Info("Stopping shipped revert scheduler...", nil)
	s.cron.Stop()
	logger.Info("Shipped revert scheduler stopped", nil)
}
