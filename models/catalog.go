package models

import "github.com/shopspring/decimal"

func init() {
	// Totals and prices are rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Supplier provides products; every order is placed with exactly one supplier
type Supplier struct {
	ID          uint   `gorm:"primaryKey" json:"idproveedor"`
	Name        string `gorm:"not null" json:"nombre"`
	Phone       string `gorm:"not null" json:"telefono"`
	Email       string `gorm:"not null" json:"correo"`
	CompanyName string `gorm:"not null" json:"nombreempresa"`
}

// TableName specifies the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}

// Product is a stock-tracked catalog entry. OnHandQuantity is the stock ledger.
type Product struct {
	ID             uint            `gorm:"primaryKey" json:"idproductos"`
	SupplierID     uint            `gorm:"not null;index" json:"idproveedor"`
	Supplier       *Supplier       `gorm:"foreignKey:SupplierID" json:"proveedor,omitempty"`
	Name           string          `gorm:"size:100;not null" json:"nombreproductos"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precio"`
	OnHandQuantity int             `gorm:"not null;default:0" json:"cantidadexistente"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// ServiceCategory groups services
type ServiceCategory struct {
	ID          uint   `gorm:"primaryKey" json:"idcategoriaservicios"`
	Name        string `gorm:"size:100;not null" json:"nombrecategorias"`
	Description string `json:"descripcion"`
}

// TableName specifies the table name for the ServiceCategory model
func (ServiceCategory) TableName() string {
	return "service_categories"
}

// Service is a catalog entry sold through quotes and appointments
type Service struct {
	ID         uint             `gorm:"primaryKey" json:"idservicios"`
	Name       string           `gorm:"size:100;not null" json:"nombreservicios"`
	CategoryID uint             `gorm:"not null;index" json:"idcategoriaservicios"`
	Category   *ServiceCategory `gorm:"foreignKey:CategoryID" json:"categoriaservicios,omitempty"`
	UnitPrice  decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"preciounitario"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}
