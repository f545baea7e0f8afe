package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote status values. These are the only accepted states.
const (
	QuoteStatusApproved  = "Aprobado"
	QuoteStatusCancelled = "Cancelado"
	QuoteStatusPending   = "Pendiente"
)

// Quote is a priced estimate for a vehicle, optionally generated from an appointment
type Quote struct {
	ID              uint            `gorm:"primaryKey" json:"idcotizaciones"`
	Plate           string          `gorm:"size:10;not null;index" json:"placa"`
	Vehicle         *Vehicle        `gorm:"foreignKey:Plate;references:Plate" json:"vehiculo,omitempty"`
	PaymentMethodID uint            `gorm:"not null" json:"idmpago"`
	PaymentMethod   *PaymentMethod  `gorm:"foreignKey:PaymentMethodID" json:"metodoPago,omitempty"`
	Status          string          `gorm:"size:50;not null;default:'Pendiente'" json:"estado"`
	Date            time.Time       `gorm:"not null" json:"fecha"`
	AppointmentID   *uint           `gorm:"index" json:"idagendacitas"`
	Appointment     *Appointment    `gorm:"foreignKey:AppointmentID" json:"-"`
	Details         []QuoteDetail   `gorm:"foreignKey:QuoteID" json:"detalles,omitempty"`
	Total           decimal.Decimal `gorm:"-" json:"total"` // computed from details, never stored
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Quote model
func (Quote) TableName() string {
	return "quotes"
}

// QuoteDetail is one service line of a quote with its quoted price
type QuoteDetail struct {
	QuoteID   uint            `gorm:"primaryKey;autoIncrement:false" json:"idcotizaciones"`
	ServiceID uint            `gorm:"primaryKey;autoIncrement:false" json:"idservicios"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"preciochange"`
	Service   *Service        `gorm:"foreignKey:ServiceID" json:"servicio,omitempty"`
}

// TableName specifies the table name for the QuoteDetail model
func (QuoteDetail) TableName() string {
	return "quote_details"
}
