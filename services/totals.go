package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tunik/tunik-api/models"
	"gorm.io/gorm"
)

// totalSpec describes how one family's detail table contributes to its parent total
type totalSpec struct {
	table     string
	parentCol string
	amount    string
}

var (
	orderTotals       = totalSpec{table: models.OrderDetail{}.TableName(), parentCol: "order_id", amount: "quantity * unit_price"}
	quoteTotals       = totalSpec{table: models.QuoteDetail{}.TableName(), parentCol: "quote_id", amount: "price"}
	appointmentTotals = totalSpec{table: models.AppointmentDetail{}.TableName(), parentCol: "appointment_id", amount: "quantity * unit_price"}
)

type parentTotal struct {
	ParentID uint
	Total    decimal.Decimal
}

// sumByParent returns the total for every id in ids. Parents without detail
// rows map to zero.
func sumByParent(ctx context.Context, db *gorm.DB, family totalSpec, ids []uint) (map[uint]decimal.Decimal, error) {
	totals := make(map[uint]decimal.Decimal, len(ids))
	for _, id := range ids {
		totals[id] = decimal.Zero
	}
	if len(ids) == 0 {
		return totals, nil
	}

	var rows []parentTotal
	err := db.WithContext(ctx).
		Table(family.table).
		Select(fmt.Sprintf("%s AS parent_id, COALESCE(SUM(%s), 0) AS total", family.parentCol, family.amount)).
		Where(family.parentCol+" IN ?", ids).
		Group(family.parentCol).
		Scan(&rows).Error
	if err != nil {
		return nil, Internal(err, "Failed to compute totals")
	}

	for _, row := range rows {
		totals[row.ParentID] = row.Total.Round(2)
	}
	return totals, nil
}

// OrderTotals sums quantity times unit price per order
func OrderTotals(ctx context.Context, db *gorm.DB, ids ...uint) (map[uint]decimal.Decimal, error) {
	return sumByParent(ctx, db, orderTotals, ids)
}

// QuoteTotals sums the quoted price per quote
func QuoteTotals(ctx context.Context, db *gorm.DB, ids ...uint) (map[uint]decimal.Decimal, error) {
	return sumByParent(ctx, db, quoteTotals, ids)
}

// AppointmentTotals sums quantity times unit price per appointment
func AppointmentTotals(ctx context.Context, db *gorm.DB, ids ...uint) (map[uint]decimal.Decimal, error) {
	return sumByParent(ctx, db, appointmentTotals, ids)
}
