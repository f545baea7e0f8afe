package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tunik/tunik-api/models"
	"github.com/tunik/tunik-api/store"
	"github.com/tunik/tunik-api/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderInput carries the coerced fields of an order write. Nil fields were
// not sent. Items is only meaningful when ItemsSent is true.
type OrderInput struct {
	SupplierID *uint         `json:"idproveedor" validate:"required"`
	OrderDate  *time.Time    `json:"fechaPedido" validate:"required"`
	Status     *string       `json:"estado"`
	Items      []interface{} `json:"-"`
	ItemsSent  bool          `json:"-"`
}

// OrderFilter narrows the order list
type OrderFilter struct {
	SupplierID *uint
	Status     string
}

// OrderService manages orders, their product lines and the stock they move
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an order service backed by db
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// List returns orders with their supplier and computed totals, newest first
func (s *OrderService) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Preload("Supplier").Order("id DESC")
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, storageError(err, "Failed to list orders")
	}

	ids := make([]uint, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	totals, err := OrderTotals(ctx, s.db, ids...)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Total = totals[orders[i].ID]
	}
	return orders, nil
}

// Get returns one order with its supplier, detail lines and total
func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("product_id") }).
		Preload("Details.Product").
		First(&order, id).Error
	if err != nil {
		return nil, notFoundOr(err, "Order not found", "Failed to load order")
	}

	totals, err := OrderTotals(ctx, s.db, order.ID)
	if err != nil {
		return nil, err
	}
	order.Total = totals[order.ID]

	order.Items = make([]models.OrderItem, len(order.Details))
	for i, d := range order.Details {
		order.Items[i] = models.OrderItem{ProductID: d.ProductID, Quantity: d.Quantity}
	}
	return &order, nil
}

// Create inserts an order with its product lines and raises stock for each line
func (s *OrderService) Create(ctx context.Context, in OrderInput) (*models.Order, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, ValidationError("%s", utils.ValidationMessage(err))
	}
	items := NormalizeItems(in.Items, ProductFields)

	order := models.Order{
		SupplierID: *in.SupplierID,
		OrderDate:  *in.OrderDate,
		Status:     statusOrDefault(in.Status, models.OrderStatusPending),
	}

	err := store.Transact(ctx, s.db, func(tx *gorm.DB) error {
		if err := requireSupplier(tx, order.SupplierID); err != nil {
			return err
		}
		if len(items) == 0 {
			return EmptyDetail("Add at least one product to the order")
		}
		lines, err := resolveOrderLines(tx, order.SupplierID, items)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return storageError(err, "Failed to create order")
		}
		return insertOrderLines(ctx, tx, order.ID, lines)
	})
	if err != nil {
		return nil, AsError(err)
	}

	log.Info().Uint("order_id", order.ID).Int("lines", len(items)).Msg("Order created")
	return s.Get(ctx, order.ID)
}

// Update patches an order. When items are sent the detail set is replaced:
// old stock is reversed, old lines deleted, the order saved, new lines
// inserted and new stock applied, all in one transaction.
func (s *OrderService) Update(ctx context.Context, id uint, in OrderInput) (*models.Order, error) {
	err := store.Transact(ctx, s.db, func(tx *gorm.DB) error {
		var order models.Order
		if err := store.ForUpdate(tx).First(&order, id).Error; err != nil {
			return notFoundOr(err, "Order not found", "Failed to load order")
		}

		if in.SupplierID != nil && *in.SupplierID != order.SupplierID {
			if !in.ItemsSent {
				return InvalidOperation("Changing the supplier requires sending the order items")
			}
			if err := requireSupplier(tx, *in.SupplierID); err != nil {
				return err
			}
			order.SupplierID = *in.SupplierID
		}
		if in.OrderDate != nil {
			order.OrderDate = *in.OrderDate
		}
		if in.Status != nil {
			order.Status = statusOrDefault(in.Status, models.OrderStatusPending)
		}

		if !in.ItemsSent {
			return saveOrder(tx, &order)
		}

		items := NormalizeItems(in.Items, ProductFields)
		if len(items) == 0 {
			return EmptyDetail("Items cannot be empty")
		}
		lines, err := resolveOrderLines(tx, order.SupplierID, items)
		if err != nil {
			return err
		}

		if err := removeOrderLines(ctx, tx, order.ID); err != nil {
			return err
		}
		if err := saveOrder(tx, &order); err != nil {
			return err
		}
		return insertOrderLines(ctx, tx, order.ID, lines)
	})
	if err != nil {
		return nil, AsError(err)
	}

	log.Info().Uint("order_id", id).Bool("items_replaced", in.ItemsSent).Msg("Order updated")
	return s.Get(ctx, id)
}

// Delete reverses the order's stock, then removes its lines and the order
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	err := store.Transact(ctx, s.db, func(tx *gorm.DB) error {
		var order models.Order
		if err := store.ForUpdate(tx).First(&order, id).Error; err != nil {
			return notFoundOr(err, "Order not found", "Failed to load order")
		}
		if err := removeOrderLines(ctx, tx, order.ID); err != nil {
			return err
		}
		if err := tx.Delete(&order).Error; err != nil {
			return storageError(err, "Failed to delete order")
		}
		return nil
	})
	if err != nil {
		return AsError(err)
	}

	log.Info().Uint("order_id", id).Msg("Order deleted")
	return nil
}

// resolveOrderLines checks every product exists and belongs to the supplier,
// and snapshots its price unless the item overrides it.
func resolveOrderLines(tx *gorm.DB, supplierID uint, items []LineItem) ([]models.OrderDetail, error) {
	lines := make([]models.OrderDetail, 0, len(items))
	for _, it := range items {
		var product models.Product
		if err := tx.Select("id", "supplier_id", "price").First(&product, it.CatalogID).Error; err != nil {
			return nil, notFoundAs(err, InvalidReference("Product %d does not exist", it.CatalogID), "Failed to look up product")
		}
		if product.SupplierID != supplierID {
			return nil, InvalidReference("Product %d does not belong to supplier %d", it.CatalogID, supplierID)
		}
		lines = append(lines, models.OrderDetail{
			ProductID:  it.CatalogID,
			SupplierID: supplierID,
			Quantity:   it.Quantity,
			UnitPrice:  it.priceOr(product.Price),
		})
	}
	return lines, nil
}

func insertOrderLines(ctx context.Context, tx *gorm.DB, orderID uint, lines []models.OrderDetail) error {
	for i := range lines {
		lines[i].OrderID = orderID
	}
	if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
		return storageError(err, "Failed to save order details")
	}
	for _, line := range lines {
		if err := AdjustStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// removeOrderLines takes back the stock each line added, then deletes the lines
func removeOrderLines(ctx context.Context, tx *gorm.DB, orderID uint) error {
	var old []models.OrderDetail
	if err := tx.Where("order_id = ?", orderID).Find(&old).Error; err != nil {
		return storageError(err, "Failed to load order details")
	}
	for _, line := range old {
		if err := AdjustStock(ctx, tx, line.ProductID, -line.Quantity); err != nil {
			return err
		}
	}
	if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderDetail{}).Error; err != nil {
		return storageError(err, "Failed to delete order details")
	}
	return nil
}

func saveOrder(tx *gorm.DB, order *models.Order) error {
	if err := tx.Omit(clause.Associations).Save(order).Error; err != nil {
		return storageError(err, "Failed to save order")
	}
	return nil
}

func requireSupplier(tx *gorm.DB, supplierID uint) error {
	ok, err := store.Exists(tx, &models.Supplier{}, "id", supplierID)
	if err != nil {
		return Internal(err, "Failed to look up supplier")
	}
	if !ok {
		return InvalidReference("Supplier %d does not exist", supplierID)
	}
	return nil
}

func statusOrDefault(status *string, fallback string) string {
	if status == nil || strings.TrimSpace(*status) == "" {
		return fallback
	}
	return strings.TrimSpace(*status)
}
