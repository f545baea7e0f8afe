package models

import "gorm.io/gorm"

// All returns every model in dependency order for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&User{},
		&Vehicle{},
		&PaymentMethod{},
		&Supplier{},
		&Product{},
		&ServiceCategory{},
		&Service{},
		&Appointment{},
		&AppointmentDetail{},
		&Quote{},
		&QuoteDetail{},
		&Order{},
		&OrderDetail{},
	}
}

// Migrate creates or updates the schema for all models
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
