package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status values
const (
	OrderStatusPending = "Pendiente"
)

// Order is a purchase placed with a supplier. Its details raise product stock.
type Order struct {
	ID         uint            `gorm:"primaryKey" json:"idpedidos"`
	SupplierID uint            `gorm:"not null;index" json:"idproveedor"`
	Supplier   *Supplier       `gorm:"foreignKey:SupplierID" json:"proveedor,omitempty"`
	OrderDate  time.Time       `gorm:"not null" json:"fechaPedido"`
	Status     string          `gorm:"size:50;not null;default:'Pendiente'" json:"estado"`
	Details    []OrderDetail   `gorm:"foreignKey:OrderID" json:"detalles,omitempty"`
	Items      []OrderItem     `gorm:"-" json:"items,omitempty"`
	Total      decimal.Decimal `gorm:"-" json:"total"` // computed from details, never stored
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderDetail is one product line of an order. (OrderID, ProductID) is unique.
type OrderDetail struct {
	OrderID    uint            `gorm:"primaryKey;autoIncrement:false" json:"idpedidos"`
	ProductID  uint            `gorm:"primaryKey;autoIncrement:false" json:"idproductos"`
	SupplierID uint            `gorm:"not null" json:"idproveedor"`
	Quantity   int             `gorm:"not null" json:"cantidad"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precio_unitario"`
	Product    *Product        `gorm:"foreignKey:ProductID" json:"producto,omitempty"`
}

// TableName specifies the table name for the OrderDetail model
func (OrderDetail) TableName() string {
	return "order_details"
}

// OrderItem is the compact product/quantity view of a detail line
type OrderItem struct {
	ProductID uint `json:"idproductos"`
	Quantity  int  `json:"cantidad"`
}
