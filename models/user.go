package models

// User is a shop customer identified by their document number
type User struct {
	DocumentNumber string `gorm:"primaryKey;size:20" json:"numero_documento"`
	DocumentType   string `gorm:"size:20;not null" json:"tipo_documento"`
	Name           string `gorm:"size:100;not null" json:"nombre"`
	Phone          string `gorm:"size:20;not null" json:"telefono"`
	Email          string `gorm:"size:100;not null" json:"email"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// Vehicle is the subject of quotes and appointments, keyed by its plate
type Vehicle struct {
	Plate         string `gorm:"primaryKey;size:10" json:"placa"`
	Model         string `gorm:"size:50;not null" json:"modelo"`
	Color         string `gorm:"size:30;not null" json:"color"`
	OwnerDocument string `gorm:"size:20;not null;index" json:"numero_documento"`
	Owner         *User  `gorm:"foreignKey:OwnerDocument;references:DocumentNumber" json:"usuario,omitempty"`
}

// TableName specifies the table name for the Vehicle model
func (Vehicle) TableName() string {
	return "vehicles"
}

// PaymentMethod is referenced by quotes
type PaymentMethod struct {
	ID   uint   `gorm:"primaryKey" json:"idmpago"`
	Name string `gorm:"size:100;not null" json:"nombremetodo"`
}

// TableName specifies the table name for the PaymentMethod model
func (PaymentMethod) TableName() string {
	return "payment_methods"
}
