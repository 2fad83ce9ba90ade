package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/internal/app/repository"
	"github.com/avlawson/candyshop-backend/pkg/cache"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"github.com/avlawson/candyshop-backend/pkg/platform/woocommerce"
)

var ErrOrderNotSynced = errors.New("order has no platform counterpart")

// Platform order statuses the shop writes.
const (
	platformStatusProcessing = "processing"
	platformStatusRefunded   = "refunded"
)

// PlatformService mirrors paid orders onto the WooCommerce store and serves
// the store's category list through a TTL cache.
type PlatformService interface {
	SyncOrder(ctx context.Context, orderID uint) error
	MarkRefunded(ctx context.Context, orderID uint) error
	Categories(ctx context.Context) ([]cache.PlatformCategory, error)
	BustCategoryCache(ctx context.Context) error
}

type platformService struct {
	orderRepo     repository.OrderRepository
	client        *woocommerce.Client
	categoryCache *cache.CategoryCache
}

func NewPlatformService(
	orderRepo repository.OrderRepository,
	client *woocommerce.Client,
	categoryCache *cache.CategoryCache,
) PlatformService {
	return &platformService{
		orderRepo:     orderRepo,
		client:        client,
		categoryCache: categoryCache,
	}
}

// SyncOrder creates the platform mirror of a paid order and stores the
// platform id on the local row. Calling it again for an already synced
// order is a no-op.
func (s *platformService) SyncOrder(ctx context.Context, orderID uint) error {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return ErrOrderNotFound
	}
	if order.PlatformOrderID != "" {
		return nil
	}

	req := woocommerce.CreateOrderRequest{
		Status: platformStatusProcessing,
		Billing: woocommerce.Billing{
			FirstName: order.CustomerName,
			Email:     order.CustomerEmail,
			Phone:     order.CustomerPhone,
		},
		LineItems: []woocommerce.LineItem{
			{
				Name:     lineItemName(order),
				Quantity: maxInt(order.Quantity, 1),
				Total:    fmt.Sprintf("%.2f", order.TotalPrice),
				SKU:      order.OrderNumber,
			},
		},
		CustomerNote: order.Notes,
		SetPaid:      true,
	}

	platformOrder, err := s.client.CreateOrder(ctx, req)
	if err != nil {
		logger.Error("Platform order sync failed", err, map[string]interface{}{
			"order_id":     orderID,
			"order_number": order.OrderNumber,
		})
		return err
	}

	order.PlatformOrderID = strconv.FormatInt(platformOrder.ID, 10)
	if err := s.orderRepo.Update(order); err != nil {
		return err
	}

	logger.Info("Order synced to platform", map[string]interface{}{
		"order_id":          orderID,
		"order_number":      order.OrderNumber,
		"platform_order_id": platformOrder.ID,
	})
	return nil
}

// MarkRefunded flips the platform mirror to refunded. The local order row
// is owned by the payment flow, not touched here.
func (s *platformService) MarkRefunded(ctx context.Context, orderID uint) error {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return ErrOrderNotFound
	}
	if order.PlatformOrderID == "" {
		return ErrOrderNotSynced
	}

	platformID, err := strconv.ParseInt(order.PlatformOrderID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad platform id %q", ErrOrderNotSynced, order.PlatformOrderID)
	}

	if _, err := s.client.UpdateOrderStatus(ctx, platformID, platformStatusRefunded); err != nil {
		logger.Error("Platform refund sync failed", err, map[string]interface{}{
			"order_id":          orderID,
			"platform_order_id": platformID,
		})
		return err
	}

	logger.Info("Platform order marked refunded", map[string]interface{}{
		"order_id":          orderID,
		"platform_order_id": platformID,
	})
	return nil
}

// Categories serves the store category list, hitting the platform only on a
// cache miss.
func (s *platformService) Categories(ctx context.Context) ([]cache.PlatformCategory, error) {
	if cached, err := s.categoryCache.Get(ctx); err == nil && cached != nil {
		return cached, nil
	}

	remote, err := s.client.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	categories := make([]cache.PlatformCategory, 0, len(remote))
	for _, c := range remote {
		categories = append(categories, cache.PlatformCategory{
			ID:   c.ID,
			Name: c.Name,
			Slug: c.Slug,
		})
	}

	if err := s.categoryCache.Set(ctx, categories); err != nil {
		logger.Warn("Failed to cache platform categories", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return categories, nil
}

// BustCategoryCache drops the cached list after a category write.
func (s *platformService) BustCategoryCache(ctx context.Context) error {
	return s.categoryCache.Bust(ctx)
}

func lineItemName(order *model.Order) string {
	if order.ItemKind == model.ItemKindPremade {
		return "Premade candy"
	}
	if order.Category != nil {
		return fmt.Sprintf("Custom candy - %s", order.Category.Name)
	}
	return "Custom candy"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
