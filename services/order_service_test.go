package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunik/tunik-api/models"
	"github.com/tunik/tunik-api/tests/testutil"
	"gorm.io/gorm"
)

func newOrderService(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()

	db := testutil.NewTestDB(t)
	testutil.Seed(t, db)
	return NewOrderService(db), db
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func productItem(id uint, qty int) map[string]interface{} {
	return map[string]interface{}{"idproductos": float64(id), "cantidad": float64(qty)}
}

func orderInput(supplierID uint, items ...interface{}) OrderInput {
	return OrderInput{
		SupplierID: uintPtr(supplierID),
		OrderDate:  timePtr(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)),
		Items:      items,
		ItemsSent:  true,
	}
}

func TestCreateOrderIncrementsStock(t *testing.T) {
	svc, db := newOrderService(t)

	order, err := svc.Create(context.Background(), orderInput(testutil.SupplierID, productItem(testutil.ProductID, 3)))
	require.NoError(t, err)

	assert.Equal(t, 13, testutil.OnHand(t, db, testutil.ProductID))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Details, 1)
	assert.Equal(t, "10", order.Details[0].UnitPrice.String())
	assert.Equal(t, "30", order.Total.String())
	assert.Equal(t, []models.OrderItem{{ProductID: testutil.ProductID, Quantity: 3}}, order.Items)
}

func TestCreateOrderUsesPriceOverride(t *testing.T) {
	svc, _ := newOrderService(t)

	item := productItem(testutil.ProductID, 2)
	item["precio_unitario"] = float64(12.5)
	order, err := svc.Create(context.Background(), orderInput(testutil.SupplierID, item))
	require.NoError(t, err)
	assert.Equal(t, "25", order.Total.String())
}

func TestCreateOrderRejections(t *testing.T) {
	tests := []struct {
		name  string
		input OrderInput
		kind  Kind
	}{
		{
			name:  "product from another supplier",
			input: orderInput(testutil.SupplierID, productItem(testutil.ForeignProductID, 3)),
			kind:  KindInvalidReference,
		},
		{
			name:  "unknown product",
			input: orderInput(testutil.SupplierID, productItem(testutil.ProductID, 1), productItem(404, 1)),
			kind:  KindInvalidReference,
		},
		{
			name:  "unknown supplier",
			input: orderInput(99, productItem(testutil.ProductID, 1)),
			kind:  KindInvalidReference,
		},
		{
			name:  "no usable items",
			input: orderInput(testutil.SupplierID, map[string]interface{}{"cantidad": float64(2)}),
			kind:  KindEmptyDetail,
		},
		{
			name:  "missing supplier",
			input: OrderInput{OrderDate: timePtr(time.Now()), Items: []interface{}{productItem(testutil.ProductID, 1)}, ItemsSent: true},
			kind:  KindValidation,
		},
		{
			name:  "missing date",
			input: OrderInput{SupplierID: uintPtr(testutil.SupplierID), Items: []interface{}{productItem(testutil.ProductID, 1)}, ItemsSent: true},
			kind:  KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := newOrderService(t)

			_, err := svc.Create(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))

			assert.Zero(t, testutil.CountRows(t, db, &models.Order{}, ""))
			assert.Zero(t, testutil.CountRows(t, db, &models.OrderDetail{}, ""))
			assert.Equal(t, 10, testutil.OnHand(t, db, testutil.ProductID))
			assert.Equal(t, 5, testutil.OnHand(t, db, testutil.ForeignProductID))
		})
	}
}

func TestUpdateOrderReplacesDetails(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, orderInput(testutil.SupplierID, productItem(testutil.ProductID, 3), productItem(testutil.LowStockProductID, 1)))
	require.NoError(t, err)
	require.Equal(t, 13, testutil.OnHand(t, db, testutil.ProductID))
	require.Equal(t, 3, testutil.OnHand(t, db, testutil.LowStockProductID))

	updated, err := svc.Update(ctx, order.ID, OrderInput{
		Status:    strPtr("Recibido"),
		Items:     []interface{}{productItem(testutil.ProductID, 5)},
		ItemsSent: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Recibido", updated.Status)
	require.Len(t, updated.Details, 1)
	assert.Equal(t, testutil.ProductID, updated.Details[0].ProductID)
	assert.Equal(t, 15, testutil.OnHand(t, db, testutil.ProductID))
	assert.Equal(t, 2, testutil.OnHand(t, db, testutil.LowStockProductID))
	assert.Equal(t, int64(0), testutil.CountRows(t, db, &models.OrderDetail{}, "product_id = ?", testutil.LowStockProductID))
}

func TestUpdateOrderMetadataOnlyKeepsDetails(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, orderInput(testutil.SupplierID, productItem(testutil.ProductID, 2)))
	require.NoError(t, err)

	newDate := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Update(ctx, order.ID, OrderInput{OrderDate: &newDate, SupplierID: uintPtr(testutil.SupplierID)})
	require.NoError(t, err)

	assert.True(t, newDate.Equal(updated.OrderDate))
	assert.Len(t, updated.Details, 1)
	assert.Equal(t, 12, testutil.OnHand(t, db, testutil.ProductID))
}

func TestUpdateOrderSupplierChangeNeedsItems(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, orderInput(testutil.SupplierID, productItem(testutil.ProductID, 2)))
	require.NoError(t, err)

	_, err = svc.Update(ctx, order.ID, OrderInput{SupplierID: uintPtr(testutil.OtherSupplierID)})
	require.Error(t, err)
	assert.Equal(t, KindInvalidOperation, KindOf(err))

	updated, err := svc.Update(ctx, order.ID, OrderInput{
		SupplierID: uintPtr(testutil.OtherSupplierID),
		Items:      []interface{}{productItem(testutil.ForeignProductID, 4)},
		ItemsSent:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, testutil.OtherSupplierID, updated.SupplierID)
	assert.Equal(t, 10, testutil.OnHand(t, db, testutil.ProductID))
	assert.Equal(t, 9, testutil.OnHand(t, db, testutil.ForeignProductID))
}

func TestUpdateOrderStockViolationRollsBack(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, orderInput(testutil.SupplierID, productItem(testutil.LowStockProductID, 4)))
	require.NoError(t, err)
	require.Equal(t, 6, testutil.OnHand(t, db, testutil.LowStockProductID))

	// Stock left the shelf after the order arrived
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", testutil.LowStockProductID).
		Update("on_hand_quantity", 1).Error)

	_, err = svc.Update(ctx, order.ID, OrderInput{
		Status:    strPtr("Recibido"),
		Items:     []interface{}{productItem(testutil.ProductID, 1)},
		ItemsSent: true,
	})
	require.Error(t, err)
	assert.Equal(t, KindStockViolation, KindOf(err))

	current, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, current.Status)
	require.Len(t, current.Details, 1)
	assert.Equal(t, testutil.LowStockProductID, current.Details[0].ProductID)
	assert.Equal(t, 1, testutil.OnHand(t, db, testutil.LowStockProductID))
	assert.Equal(t, 10, testutil.OnHand(t, db, testutil.ProductID))
}

func TestUpdateOrderEmptyItems(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, orderInput(testutil.SupplierID, productItem(testutil.ProductID, 2)))
	require.NoError(t, err)

	_, err = svc.Update(ctx, order.ID, OrderInput{Items: []interface{}{}, ItemsSent: true})
	assert.Equal(t, KindEmptyDetail, KindOf(err))
}

func TestUpdateOrderNotFound(t *testing.T) {
	svc, _ := newOrderService(t)

	_, err := svc.Update(context.Background(), 42, OrderInput{Status: strPtr("Recibido")})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDeleteOrderReversesStock(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, orderInput(testutil.SupplierID, productItem(testutil.ProductID, 3)))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, order.ID))
	assert.Equal(t, 10, testutil.OnHand(t, db, testutil.ProductID))
	assert.Zero(t, testutil.CountRows(t, db, &models.Order{}, ""))
	assert.Zero(t, testutil.CountRows(t, db, &models.OrderDetail{}, ""))

	assert.Equal(t, KindNotFound, KindOf(svc.Delete(ctx, order.ID)))
}

func TestDeleteOrderStockViolationKeepsOrder(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, orderInput(testutil.SupplierID,
		productItem(testutil.ProductID, 1), productItem(testutil.LowStockProductID, 3)))
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", testutil.LowStockProductID).
		Update("on_hand_quantity", 2).Error)

	err = svc.Delete(ctx, order.ID)
	require.Error(t, err)
	assert.Equal(t, KindStockViolation, KindOf(err))

	assert.Equal(t, int64(1), testutil.CountRows(t, db, &models.Order{}, ""))
	assert.Equal(t, int64(2), testutil.CountRows(t, db, &models.OrderDetail{}, "order_id = ?", order.ID))
	assert.Equal(t, 11, testutil.OnHand(t, db, testutil.ProductID))
	assert.Equal(t, 2, testutil.OnHand(t, db, testutil.LowStockProductID))
}

func TestListOrders(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, orderInput(testutil.SupplierID, productItem(testutil.ProductID, 2)))
	require.NoError(t, err)
	_, err = svc.Create(ctx, orderInput(testutil.OtherSupplierID, productItem(testutil.ForeignProductID, 1)))
	require.NoError(t, err)

	all, err := svc.List(ctx, OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "3", all[0].Total.String())
	assert.Equal(t, "20", all[1].Total.String())
	assert.NotNil(t, all[0].Supplier)

	filtered, err := svc.List(ctx, OrderFilter{SupplierID: uintPtr(testutil.OtherSupplierID)})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, testutil.OtherSupplierID, filtered[0].SupplierID)

	byStatus, err := svc.List(ctx, OrderFilter{Status: "Recibido"})
	require.NoError(t, err)
	assert.Empty(t, byStatus)
}
