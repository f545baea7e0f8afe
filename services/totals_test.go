package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunik/tunik-api/models"
	"github.com/tunik/tunik-api/tests/testutil"
)

func TestOrderTotals(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	testutil.Seed(t, db)

	order := models.Order{SupplierID: testutil.SupplierID, Status: models.OrderStatusPending}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&[]models.OrderDetail{
		{OrderID: order.ID, ProductID: testutil.ProductID, SupplierID: testutil.SupplierID, Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		{OrderID: order.ID, ProductID: testutil.LowStockProductID, SupplierID: testutil.SupplierID, Quantity: 1, UnitPrice: decimal.NewFromInt(5)},
	}).Error)

	empty := models.Order{SupplierID: testutil.SupplierID, Status: models.OrderStatusPending}
	require.NoError(t, db.Create(&empty).Error)

	totals, err := OrderTotals(ctx, db, order.ID, empty.ID, 999)
	require.NoError(t, err)
	assert.Equal(t, "25", totals[order.ID].String())
	assert.Equal(t, "0", totals[empty.ID].String())
	assert.Equal(t, "0", totals[999].String())
}

func TestQuoteTotalsSumPricesOnly(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	testutil.Seed(t, db)

	quote := models.Quote{Plate: testutil.Plate, PaymentMethodID: testutil.PaymentMethodID, Status: models.QuoteStatusPending}
	require.NoError(t, db.Create(&quote).Error)
	require.NoError(t, db.Create(&[]models.QuoteDetail{
		{QuoteID: quote.ID, ServiceID: testutil.OilChangeID, Price: decimal.RequireFromString("19.99")},
		{QuoteID: quote.ID, ServiceID: testutil.WashID, Price: decimal.RequireFromString("0.01")},
	}).Error)

	totals, err := QuoteTotals(ctx, db, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "20", totals[quote.ID].String())
}

func TestAppointmentTotals(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	testutil.Seed(t, db)

	appointment := models.Appointment{Plate: testutil.Plate, Status: models.AppointmentStatusPending}
	require.NoError(t, db.Create(&appointment).Error)
	require.NoError(t, db.Create(&[]models.AppointmentDetail{
		{AppointmentID: appointment.ID, ServiceID: testutil.OilChangeID, Quantity: 3, UnitPrice: decimal.NewFromInt(10)},
		{AppointmentID: appointment.ID, ServiceID: testutil.AlignmentID, Quantity: 1, UnitPrice: decimal.RequireFromString("40.50")},
	}).Error)

	totals, err := AppointmentTotals(ctx, db, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, "70.5", totals[appointment.ID].String())
}

func TestTotalsWithNoIDs(t *testing.T) {
	db := testutil.NewTestDB(t)

	totals, err := QuoteTotals(context.Background(), db)
	require.NoError(t, err)
	assert.Empty(t, totals)
}
