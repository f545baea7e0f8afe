package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Appointment status default; any non-empty status is accepted
const (
	AppointmentStatusPending = "Pendiente"
)

// Appointment books a vehicle into the shop with the services it will receive
type Appointment struct {
	ID        uint                `gorm:"primaryKey" json:"idagendacitas"`
	Plate     string              `gorm:"size:10;not null;index" json:"placa"`
	Vehicle   *Vehicle            `gorm:"foreignKey:Plate;references:Plate" json:"vehiculo,omitempty"`
	Date      time.Time           `gorm:"not null" json:"fecha"`
	Status    string              `gorm:"size:50;not null;default:'Pendiente'" json:"estado"`
	Details   []AppointmentDetail `gorm:"foreignKey:AppointmentID" json:"detalles,omitempty"`
	Total     decimal.Decimal     `gorm:"-" json:"total"` // computed from details, never stored
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// TableName specifies the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// AppointmentDetail is one service line of an appointment
type AppointmentDetail struct {
	AppointmentID uint            `gorm:"primaryKey;autoIncrement:false" json:"idagendacitas"`
	ServiceID     uint            `gorm:"primaryKey;autoIncrement:false" json:"idservicios"`
	Quantity      int             `gorm:"not null;default:1" json:"cantidad"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precio_unitario"`
	Service       *Service        `gorm:"foreignKey:ServiceID" json:"servicio,omitempty"`
}

// TableName specifies the table name for the AppointmentDetail model
func (AppointmentDetail) TableName() string {
	return "appointment_details"
}
