package repository

import (
	"time"

	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByNumber(orderNumber string) (*model.Order, error)
	FindAll(status string) ([]model.Order, error)
	FindShippedBefore(cutoff time.Time) ([]model.Order, error)
	Update(order *model.Order) error
	UpdateStatus(id uint, status model.OrderStatus) error
	LastOrderNumber() (string, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("Category").
		Preload("PackagingOption").
		Preload("Assignments.Slot")
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"order_number": order.OrderNumber,
		"item_kind":    order.ItemKind,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"order_number": order.OrderNumber,
		})
		return err
	}
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByNumber(orderNumber string) (*model.Order, error) {
	var order model.Order
	if err := r.preloadOrder().
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindAll(status string) ([]model.Order, error) {
	query := r.preloadOrder()
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to list orders in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return orders, nil
}

// FindShippedBefore returns shipped orders whose shipped_at stamp is older
// than the cutoff, for the display auto-revert job.
func (r *orderRepository) FindShippedBefore(cutoff time.Time) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.Where("status = ? AND shipped_at IS NOT NULL AND shipped_at < ?",
		model.OrderStatusShipped, cutoff).
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find shipped orders before cutoff", err, map[string]interface{}{
			"cutoff": cutoff,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}
	return nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		logger.Error("Failed to update order status in database", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return err
	}
	return nil
}

// LastOrderNumber returns the highest order number recorded, including
// soft-deleted rows so archived orders never free their numbers.
func (r *orderRepository) LastOrderNumber() (string, error) {
	var order model.Order
	err := r.db.Unscoped().
		Order("order_number DESC").
		Select("order_number").
		First(&order).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		logger.Error("Failed to read last order number", err)
		return "", err
	}
	return order.OrderNumber, nil
}
