package testutil

import (
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tunik/tunik-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test for the duration of the test.
// Use this in suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	t.Setenv("GO_ENV", "test")
	RequireTestEnvironment(t)
}

// NewTestDB opens a migrated in-memory SQLite database. A single connection
// keeps every query on the same in-memory database, so code under test must
// only use the transaction handle inside a transaction.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.Migrate(db), "Failed to migrate test database")
	return db
}

// Well-known fixture ids
const (
	SupplierID      uint = 1
	OtherSupplierID uint = 2

	// ProductID belongs to SupplierID with 10 on hand at price 10
	ProductID uint = 7
	// LowStockProductID belongs to SupplierID with 2 on hand at price 5
	LowStockProductID uint = 8
	// ForeignProductID belongs to OtherSupplierID with 5 on hand at price 3
	ForeignProductID uint = 9

	PaymentMethodID uint = 1

	// OilChangeID, WashID and AlignmentID are services priced 10, 5 and 40
	OilChangeID uint = 1
	WashID      uint = 2
	AlignmentID uint = 3

	Plate         = "ABC123"
	OtherPlate    = "XYZ789"
	OwnerDocument = "1001"
)

// Seed inserts the catalog, subjects and payment method every test relies on
func Seed(t *testing.T, db *gorm.DB) {
	t.Helper()

	rows := []interface{}{
		&models.User{DocumentNumber: OwnerDocument, DocumentType: "CC", Name: "Ana Torres", Phone: "3001234567", Email: "ana@example.com"},
		&models.User{DocumentNumber: "1002", DocumentType: "CC", Name: "Luis Gomez", Phone: "3007654321", Email: "luis@example.com"},
		&models.Vehicle{Plate: Plate, Model: "Corolla", Color: "Red", OwnerDocument: OwnerDocument},
		&models.Vehicle{Plate: OtherPlate, Model: "Sprint", Color: "Blue", OwnerDocument: "1002"},
		&models.PaymentMethod{ID: PaymentMethodID, Name: "Efectivo"},
		&models.Supplier{ID: SupplierID, Name: "Carlos", Phone: "555-0101", Email: "ventas@repuestos.com", CompanyName: "Repuestos SAS"},
		&models.Supplier{ID: OtherSupplierID, Name: "Marta", Phone: "555-0202", Email: "info@lubricantes.com", CompanyName: "Lubricantes Ltda"},
		&models.Product{ID: ProductID, SupplierID: SupplierID, Name: "Oil filter", Price: decimal.NewFromInt(10), OnHandQuantity: 10},
		&models.Product{ID: LowStockProductID, SupplierID: SupplierID, Name: "Spark plug", Price: decimal.NewFromInt(5), OnHandQuantity: 2},
		&models.Product{ID: ForeignProductID, SupplierID: OtherSupplierID, Name: "Engine oil", Price: decimal.NewFromInt(3), OnHandQuantity: 5},
		&models.ServiceCategory{ID: 1, Name: "Maintenance"},
		&models.Service{ID: OilChangeID, Name: "Oil change", CategoryID: 1, UnitPrice: decimal.NewFromInt(10)},
		&models.Service{ID: WashID, Name: "Wash", CategoryID: 1, UnitPrice: decimal.NewFromInt(5)},
		&models.Service{ID: AlignmentID, Name: "Alignment", CategoryID: 1, UnitPrice: decimal.NewFromInt(40)},
	}
	for _, row := range rows {
		require.NoError(t, db.Create(row).Error)
	}
}

// OnHand reads a product's current stock
func OnHand(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()

	var product models.Product
	require.NoError(t, db.First(&product, productID).Error)
	return product.OnHandQuantity
}

// CountRows counts the rows of model matching an optional condition
func CountRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&count).Error)
	return count
}
