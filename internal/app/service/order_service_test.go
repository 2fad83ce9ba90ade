package service

import (
	"testing"
	"time"

	"github.com/avlawson/candyshop-backend/internal/app/model"
	"github.com/avlawson/candyshop-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (OrderService, *gorm.DB, *model.Category, *model.PackagingOption) {
	pricing, testDB, category, bag := setupPricingServiceTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	svc := NewOrderService(orderRepo, pricing, nil, testDB, func() time.Time {
		return pricingTestNow
	})
	return svc, testDB, category, bag
}

func placeOrderInput(category *model.Category, bag *model.PackagingOption) PlaceOrderInput {
	return PlaceOrderInput{
		CustomerName:  "Avery Lawson",
		CustomerEmail: "avery@example.com",
		Quote: QuoteInput{
			CategoryID: category.ID,
			Packaging:  []QuotePackagingLine{{OptionID: bag.ID, Quantity: 10}},
		},
	}
}

func TestOrderService_PlaceOrder_FirstNumber(t *testing.T) {
	svc, _, category, bag := setupOrderServiceTest(t)

	orders, err := svc.PlaceOrder(placeOrderInput(category, bag))
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, "100001", order.OrderNumber)
	assert.Equal(t, model.ItemKindCustom, order.ItemKind)
	assert.Equal(t, model.OrderStatusPendingPayment, order.Status)
	assert.Equal(t, 10, order.Quantity)
	assert.Equal(t, 5.0, order.TotalWeightKg)
	assert.Equal(t, 30.0, order.TotalPrice)
	require.NotNil(t, order.PackagingOptionID)
	assert.Equal(t, bag.ID, *order.PackagingOptionID)
}

func TestOrderService_PlaceOrder_SequentialNumbers(t *testing.T) {
	svc, _, category, bag := setupOrderServiceTest(t)

	first, err := svc.PlaceOrder(placeOrderInput(category, bag))
	require.NoError(t, err)
	second, err := svc.PlaceOrder(placeOrderInput(category, bag))
	require.NoError(t, err)

	assert.Equal(t, "100001", first[0].OrderNumber)
	assert.Equal(t, "100002", second[0].OrderNumber)
}

func TestOrderService_PlaceOrder_CombinedCart(t *testing.T) {
	svc, _, category, bag := setupOrderServiceTest(t)

	input := placeOrderInput(category, bag)
	input.PremadeItem = &PremadeItemInput{
		Description: "Mixed humbugs 1kg",
		Price:       18,
		WeightKg:    1,
		Quantity:    2,
	}

	orders, err := svc.PlaceOrder(input)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	custom, premade := orders[0], orders[1]
	assert.Equal(t, "100001-a", custom.OrderNumber)
	assert.Equal(t, "100001-b", premade.OrderNumber)
	assert.Equal(t, model.ItemKindPremade, premade.ItemKind)
	assert.Equal(t, 18.0, premade.TotalPrice)
	assert.Equal(t, "Mixed humbugs 1kg (paired with order 100001-a)", premade.Notes)

	// Sibling suffixes do not disturb the sequence.
	next, err := svc.PlaceOrder(placeOrderInput(category, bag))
	require.NoError(t, err)
	assert.Equal(t, "100002", next[0].OrderNumber)
}

// staleNumberRepo serves a fixed last order number for the first reads,
// simulating another placement grabbing the next number first.
type staleNumberRepo struct {
	repository.OrderRepository
	stale      string
	staleReads int
	reads      int
}

func (r *staleNumberRepo) LastOrderNumber() (string, error) {
	r.reads++
	if r.reads <= r.staleReads {
		return r.stale, nil
	}
	return r.OrderRepository.LastOrderNumber()
}

func TestOrderService_PlaceOrder_RetriesOnNumberCollision(t *testing.T) {
	pricing, testDB, category, bag := setupPricingServiceTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	require.NoError(t, orderRepo.Create(&model.Order{
		OrderNumber:   "100002",
		CustomerName:  "Jordan Reyes",
		CustomerEmail: "jordan@example.com",
	}))

	// The first read reports 100001, so the first attempt lands on the
	// taken 100002 and has to regenerate.
	stale := &staleNumberRepo{OrderRepository: orderRepo, stale: "100001", staleReads: 1}
	svc := NewOrderService(stale, pricing, nil, testDB, func() time.Time {
		return pricingTestNow
	})

	orders, err := svc.PlaceOrder(placeOrderInput(category, bag))
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "100003", orders[0].OrderNumber)
	assert.Equal(t, 2, stale.reads)
}

func TestOrderService_PlaceOrder_NumberRetriesExhausted(t *testing.T) {
	pricing, testDB, category, bag := setupPricingServiceTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	require.NoError(t, orderRepo.Create(&model.Order{
		OrderNumber:   "100002",
		CustomerName:  "Jordan Reyes",
		CustomerEmail: "jordan@example.com",
	}))

	// Every read reports the stale number, so every attempt collides.
	stale := &staleNumberRepo{OrderRepository: orderRepo, stale: "100001", staleReads: maxNumberRetries}
	svc := NewOrderService(stale, pricing, nil, testDB, func() time.Time {
		return pricingTestNow
	})

	_, err := svc.PlaceOrder(placeOrderInput(category, bag))
	assert.ErrorIs(t, err, ErrOrderNumberExhausted)
	assert.Equal(t, maxNumberRetries, stale.reads)

	// The failed attempts left no half-written rows behind.
	var count int64
	require.NoError(t, testDB.Model(&model.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOrderService_PlaceOrder_MissingCustomer(t *testing.T) {
	svc, _, category, bag := setupOrderServiceTest(t)

	input := placeOrderInput(category, bag)
	input.CustomerEmail = ""
	_, err := svc.PlaceOrder(input)
	assert.ErrorIs(t, err, ErrMissingCustomer)

	input = placeOrderInput(category, bag)
	input.CustomerName = ""
	_, err = svc.PlaceOrder(input)
	assert.ErrorIs(t, err, ErrMissingCustomer)
}

func TestOrderService_PlaceOrder_PricingErrorsPropagate(t *testing.T) {
	svc, _, category, _ := setupOrderServiceTest(t)

	input := placeOrderInput(category, &model.PackagingOption{})
	input.Quote.Packaging = nil

	_, err := svc.PlaceOrder(input)
	assert.ErrorIs(t, err, ErrEmptyPackaging)
}

func TestMergeOrderPatch(t *testing.T) {
	existing := model.Order{
		CustomerName:  "Avery Lawson",
		CustomerEmail: "avery@example.com",
		Quantity:      10,
		TotalPrice:    30,
		Colours:       "red, white",
	}

	name := "Jordan Reyes"
	price := 45.0
	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	merged := MergeOrderPatch(existing, OrderPatch{
		CustomerName: &name,
		TotalPrice:   &price,
		DueDate:      &due,
	})

	assert.Equal(t, "Jordan Reyes", merged.CustomerName)
	assert.Equal(t, 45.0, merged.TotalPrice)
	require.NotNil(t, merged.DueDate)
	assert.Equal(t, due, *merged.DueDate)

	// Untouched fields keep their values.
	assert.Equal(t, "avery@example.com", merged.CustomerEmail)
	assert.Equal(t, 10, merged.Quantity)
	assert.Equal(t, "red, white", merged.Colours)

	// Empty patch is the identity.
	assert.Equal(t, existing, MergeOrderPatch(existing, OrderPatch{}))
}

func TestOrderService_UpdateOrder(t *testing.T) {
	svc, _, category, bag := setupOrderServiceTest(t)

	orders, err := svc.PlaceOrder(placeOrderInput(category, bag))
	require.NoError(t, err)

	phone := "0400 000 000"
	notes := "Deliver to side door"
	updated, err := svc.UpdateOrder(orders[0].ID, OrderPatch{
		CustomerPhone: &phone,
		Notes:         &notes,
	})
	require.NoError(t, err)

	assert.Equal(t, phone, updated.CustomerPhone)
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, "100001", updated.OrderNumber)
}

func TestOrderService_UpdateOrder_ArchivedRejected(t *testing.T) {
	svc, _, category, bag := setupOrderServiceTest(t)

	orders, err := svc.PlaceOrder(placeOrderInput(category, bag))
	require.NoError(t, err)
	require.NoError(t, svc.Archive(orders[0].ID))

	name := "Jordan Reyes"
	_, err = svc.UpdateOrder(orders[0].ID, OrderPatch{CustomerName: &name})
	assert.ErrorIs(t, err, ErrOrderArchived)
}

func TestOrderService_MarkPaid(t *testing.T) {
	svc, _, category, bag := setupOrderServiceTest(t)

	orders, err := svc.PlaceOrder(placeOrderInput(category, bag))
	require.NoError(t, err)

	require.NoError(t, svc.MarkPaid(orders[0].ID, "square", "txn_123"))

	order, err := svc.GetOrder(orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, order.Status)
	assert.Equal(t, "square", order.PaymentProvider)
	assert.Equal(t, "txn_123", order.PaymentTxnID)
	require.NotNil(t, order.PaidAt)
	assert.True(t, order.IsPaid())
}

func TestOrderService_MarkShipped_PremadeOnly(t *testing.T) {
	svc, _, category, bag := setupOrderServiceTest(t)

	input := placeOrderInput(category, bag)
	input.PremadeItem = &PremadeItemInput{Description: "Humbugs", Price: 18, WeightKg: 1, Quantity: 2}
	orders, err := svc.PlaceOrder(input)
	require.NoError(t, err)

	custom, premade := orders[0], orders[1]

	assert.ErrorIs(t, svc.MarkShipped(custom.ID), ErrOrderNotShippable)

	require.NoError(t, svc.MarkShipped(premade.ID))
	shipped, err := svc.GetOrder(premade.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, shipped.Status)
	require.NotNil(t, shipped.ShippedAt)
}

func TestOrderService_Archive(t *testing.T) {
	svc, _, category, bag := setupOrderServiceTest(t)

	orders, err := svc.PlaceOrder(placeOrderInput(category, bag))
	require.NoError(t, err)
	require.NoError(t, svc.Archive(orders[0].ID))

	// Archived orders stay readable; archiving is a status, not a delete.
	order, err := svc.GetOrder(orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusArchived, order.Status)
}

func TestOrderService_RevertStaleShipped(t *testing.T) {
	svc, testDB, _, _ := setupOrderServiceTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	staleTime := pricingTestNow.Add(-36 * time.Hour)
	freshTime := pricingTestNow.Add(-2 * time.Hour)

	stale := &model.Order{
		OrderNumber:   "200001",
		ItemKind:      model.ItemKindPremade,
		CustomerName:  "Avery Lawson",
		CustomerEmail: "avery@example.com",
		Status:        model.OrderStatusShipped,
		ShippedAt:     &staleTime,
	}
	require.NoError(t, orderRepo.Create(stale))

	fresh := &model.Order{
		OrderNumber:   "200002",
		ItemKind:      model.ItemKindPremade,
		CustomerName:  "Jordan Reyes",
		CustomerEmail: "jordan@example.com",
		Status:        model.OrderStatusShipped,
		ShippedAt:     &freshTime,
	}
	require.NoError(t, orderRepo.Create(fresh))

	reverted, err := svc.RevertStaleShipped(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, reverted)

	staleAfter, err := svc.GetOrder(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, staleAfter.Status)

	freshAfter, err := svc.GetOrder(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, freshAfter.Status)
}

func TestOrderService_GetOrderByNumber(t *testing.T) {
	svc, _, category, bag := setupOrderServiceTest(t)

	orders, err := svc.PlaceOrder(placeOrderInput(category, bag))
	require.NoError(t, err)

	found, err := svc.GetOrderByNumber("100001")
	require.NoError(t, err)
	assert.Equal(t, orders[0].ID, found.ID)

	_, err = svc.GetOrderByNumber("999999")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.GetOrder(9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
