package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/tunik/tunik-api/models"
	"github.com/tunik/tunik-api/store"
	"gorm.io/gorm"
)

// AdjustStock applies delta to a product's on-hand quantity inside tx. The
// product row stays locked until tx ends, so concurrent adjustments to the
// same product serialize. A result below zero fails with StockViolation and
// writes nothing.
func AdjustStock(ctx context.Context, tx *gorm.DB, productID uint, delta int) error {
	if delta == 0 {
		return nil
	}

	var product models.Product
	err := store.ForUpdate(tx.WithContext(ctx)).
		Select("id", "name", "on_hand_quantity").
		First(&product, productID).Error
	if err != nil {
		err = store.Translate(err)
		if errors.Is(err, store.ErrNotFound) {
			return InvalidReference("Product %d does not exist", productID)
		}
		return Internal(err, "Failed to read product stock")
	}

	if product.OnHandQuantity+delta < 0 {
		return StockViolation("Stock for product %d would become negative (on hand %d, change %d)",
			productID, product.OnHandQuantity, delta)
	}

	// The guard repeats the check in SQL for engines without row locks
	res := tx.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND on_hand_quantity + ? >= 0", productID, delta).
		UpdateColumn("on_hand_quantity", gorm.Expr("on_hand_quantity + ?", delta))
	if res.Error != nil {
		return Internal(store.Translate(res.Error), "Failed to update product stock")
	}
	if res.RowsAffected == 0 {
		return StockViolation("Stock for product %d would become negative", productID)
	}

	log.Debug().
		Uint("product_id", productID).
		Int("delta", delta).
		Int("on_hand", product.OnHandQuantity+delta).
		Msg("Adjusted product stock")
	return nil
}
