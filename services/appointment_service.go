package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tunik/tunik-api/models"
	"github.com/tunik/tunik-api/store"
	"github.com/tunik/tunik-api/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppointmentInput carries the coerced fields of an appointment write. Plate
// is already normalized. Nil fields were not sent.
type AppointmentInput struct {
	Plate     *string       `json:"placa" validate:"required,plate"`
	Date      *time.Time    `json:"fecha" validate:"required"`
	Status    *string       `json:"estado"`
	Items     []interface{} `json:"-"`
	ItemsSent bool          `json:"-"`
}

// AppointmentFilter narrows the appointment list
type AppointmentFilter struct {
	Plate         string
	Status        string
	OwnerDocument string
}

// DetailPatch changes one detail line. Nil fields keep their value.
type DetailPatch struct {
	Quantity  *int
	UnitPrice *decimal.Decimal
}

// AppointmentService manages appointments and their service lines
type AppointmentService struct {
	db *gorm.DB
}

// NewAppointmentService creates an appointment service backed by db
func NewAppointmentService(db *gorm.DB) *AppointmentService {
	return &AppointmentService{db: db}
}

// List returns appointments with their vehicle and computed totals, newest first
func (s *AppointmentService) List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	db := s.db.WithContext(ctx)
	query := db.Preload("Vehicle").Order("id DESC")
	if filter.Plate != "" {
		query = query.Where("plate = ?", utils.NormalizePlate(filter.Plate))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OwnerDocument != "" {
		query = query.Where("plate IN (?)", ownedPlates(db, filter.OwnerDocument))
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, storageError(err, "Failed to list appointments")
	}

	ids := make([]uint, len(appointments))
	for i := range appointments {
		ids[i] = appointments[i].ID
	}
	totals, err := AppointmentTotals(ctx, s.db, ids...)
	if err != nil {
		return nil, err
	}
	for i := range appointments {
		appointments[i].Total = totals[appointments[i].ID]
	}
	return appointments, nil
}

// Get returns one appointment with its vehicle, service lines and total
func (s *AppointmentService) Get(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("service_id") }).
		Preload("Details.Service").
		First(&appointment, id).Error
	if err != nil {
		return nil, notFoundOr(err, "Appointment not found", "Failed to load appointment")
	}

	totals, err := AppointmentTotals(ctx, s.db, appointment.ID)
	if err != nil {
		return nil, err
	}
	appointment.Total = totals[appointment.ID]
	return &appointment, nil
}

// Create inserts an appointment with its service lines. Items are optional,
// but when they are sent they must not normalize to nothing.
func (s *AppointmentService) Create(ctx context.Context, in AppointmentInput) (*models.Appointment, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, ValidationError("%s", utils.ValidationMessage(err))
	}
	items := NormalizeItems(in.Items, ServiceFields)

	appointment := models.Appointment{
		Plate:  *in.Plate,
		Date:   *in.Date,
		Status: statusOrDefault(in.Status, models.AppointmentStatusPending),
	}

	err := store.Transact(ctx, s.db, func(tx *gorm.DB) error {
		if err := requireVehicle(tx, appointment.Plate); err != nil {
			return err
		}
		if in.ItemsSent && len(items) == 0 {
			return EmptyDetail("Add at least one service to the appointment")
		}
		lines, err := resolveAppointmentLines(tx, items)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(&appointment).Error; err != nil {
			return storageError(err, "Failed to create appointment")
		}
		return insertAppointmentLines(tx, appointment.ID, lines)
	})
	if err != nil {
		return nil, AsError(err)
	}

	log.Info().Uint("appointment_id", appointment.ID).Int("lines", len(items)).Msg("Appointment created")
	return s.Get(ctx, appointment.ID)
}

// Update patches an appointment and, when items are sent, replaces its lines
func (s *AppointmentService) Update(ctx context.Context, id uint, in AppointmentInput) (*models.Appointment, error) {
	err := store.Transact(ctx, s.db, func(tx *gorm.DB) error {
		var appointment models.Appointment
		if err := store.ForUpdate(tx).First(&appointment, id).Error; err != nil {
			return notFoundOr(err, "Appointment not found", "Failed to load appointment")
		}

		if in.Plate != nil {
			if !utils.IsValidPlate(*in.Plate) {
				return ValidationError("placa must be 1 to %d characters without spaces", utils.MaxPlateLength)
			}
			if err := requireVehicle(tx, *in.Plate); err != nil {
				return err
			}
			if err := requireNoQuotesOnOtherPlate(tx, id, *in.Plate); err != nil {
				return err
			}
			appointment.Plate = *in.Plate
		}
		if in.Date != nil {
			appointment.Date = *in.Date
		}
		if in.Status != nil {
			status := strings.TrimSpace(*in.Status)
			if status == "" {
				return ValidationError("estado cannot be empty")
			}
			appointment.Status = status
		}

		if err := tx.Omit(clause.Associations).Save(&appointment).Error; err != nil {
			return storageError(err, "Failed to save appointment")
		}
		if !in.ItemsSent {
			return nil
		}

		items := NormalizeItems(in.Items, ServiceFields)
		if len(items) == 0 {
			return EmptyDetail("Items cannot be empty")
		}
		lines, err := resolveAppointmentLines(tx, items)
		if err != nil {
			return err
		}
		if err := tx.Where("appointment_id = ?", id).Delete(&models.AppointmentDetail{}).Error; err != nil {
			return storageError(err, "Failed to delete appointment details")
		}
		return insertAppointmentLines(tx, id, lines)
	})
	if err != nil {
		return nil, AsError(err)
	}

	log.Info().Uint("appointment_id", id).Bool("items_replaced", in.ItemsSent).Msg("Appointment updated")
	return s.Get(ctx, id)
}

// Delete removes an appointment and its lines. An appointment that a quote
// still references fails with Conflict.
func (s *AppointmentService) Delete(ctx context.Context, id uint) error {
	err := store.Transact(ctx, s.db, func(tx *gorm.DB) error {
		var appointment models.Appointment
		if err := store.ForUpdate(tx).First(&appointment, id).Error; err != nil {
			return notFoundOr(err, "Appointment not found", "Failed to load appointment")
		}
		if err := tx.Where("appointment_id = ?", id).Delete(&models.AppointmentDetail{}).Error; err != nil {
			return storageError(err, "Failed to delete appointment details")
		}
		if err := tx.Delete(&appointment).Error; err != nil {
			return storageError(err, "Failed to delete appointment")
		}
		return nil
	})
	if err != nil {
		return AsError(err)
	}

	log.Info().Uint("appointment_id", id).Msg("Appointment deleted")
	return nil
}

// Details returns the service lines of an appointment
func (s *AppointmentService) Details(ctx context.Context, id uint) ([]models.AppointmentDetail, error) {
	db := s.db.WithContext(ctx)
	if err := requireParent(db, &models.Appointment{}, id, "Appointment not found"); err != nil {
		return nil, err
	}

	var details []models.AppointmentDetail
	err := db.Preload("Service").Where("appointment_id = ?", id).Order("service_id").Find(&details).Error
	if err != nil {
		return nil, storageError(err, "Failed to load appointment details")
	}
	return details, nil
}

// Total returns the computed total of an appointment
func (s *AppointmentService) Total(ctx context.Context, id uint) (decimal.Decimal, error) {
	if err := requireParent(s.db.WithContext(ctx), &models.Appointment{}, id, "Appointment not found"); err != nil {
		return decimal.Zero, err
	}
	totals, err := AppointmentTotals(ctx, s.db, id)
	if err != nil {
		return decimal.Zero, err
	}
	return totals[id], nil
}

// AddDetail appends one service line. A service already on the appointment
// fails with Conflict.
func (s *AppointmentService) AddDetail(ctx context.Context, id uint, raw map[string]interface{}) (*models.AppointmentDetail, error) {
	items := NormalizeItems([]interface{}{raw}, ServiceFields)
	if len(items) == 0 {
		return nil, ValidationError("idservicios is required")
	}
	item := items[0]

	var line models.AppointmentDetail
	err := store.Transact(ctx, s.db, func(tx *gorm.DB) error {
		if err := requireParent(store.ForUpdate(tx), &models.Appointment{}, id, "Appointment not found"); err != nil {
			return err
		}
		if err := requireNoLine(tx, &models.AppointmentDetail{}, "appointment_id", id, item.CatalogID); err != nil {
			return err
		}
		lines, err := resolveAppointmentLines(tx, items)
		if err != nil {
			return err
		}
		line = lines[0]
		line.AppointmentID = id
		if err := tx.Omit(clause.Associations).Create(&line).Error; err != nil {
			return storageError(err, "Failed to add appointment detail")
		}
		return nil
	})
	if err != nil {
		return nil, AsError(err)
	}
	return &line, nil
}

// UpdateDetail changes the quantity or unit price of one service line
func (s *AppointmentService) UpdateDetail(ctx context.Context, id, serviceID uint, patch DetailPatch) (*models.AppointmentDetail, error) {
	if patch.Quantity != nil && *patch.Quantity <= 0 {
		return nil, ValidationError("cantidad must be a positive integer")
	}

	var line models.AppointmentDetail
	err := store.Transact(ctx, s.db, func(tx *gorm.DB) error {
		err := store.ForUpdate(tx).
			Where("appointment_id = ? AND service_id = ?", id, serviceID).
			First(&line).Error
		if err != nil {
			return notFoundOr(err, "Appointment detail not found", "Failed to load appointment detail")
		}
		if patch.Quantity != nil {
			line.Quantity = *patch.Quantity
		}
		if patch.UnitPrice != nil {
			line.UnitPrice = *patch.UnitPrice
		}
		err = tx.Model(&models.AppointmentDetail{}).
			Where("appointment_id = ? AND service_id = ?", id, serviceID).
			Updates(map[string]interface{}{"quantity": line.Quantity, "unit_price": line.UnitPrice}).Error
		if err != nil {
			return storageError(err, "Failed to update appointment detail")
		}
		return nil
	})
	if err != nil {
		return nil, AsError(err)
	}
	return &line, nil
}

// RemoveDetail deletes one service line
func (s *AppointmentService) RemoveDetail(ctx context.Context, id, serviceID uint) error {
	res := s.db.WithContext(ctx).
		Where("appointment_id = ? AND service_id = ?", id, serviceID).
		Delete(&models.AppointmentDetail{})
	if res.Error != nil {
		return storageError(res.Error, "Failed to delete appointment detail")
	}
	if res.RowsAffected == 0 {
		return NotFound("Appointment detail not found")
	}
	return nil
}

// resolveAppointmentLines checks every service exists and snapshots its
// price unless the item overrides it.
func resolveAppointmentLines(tx *gorm.DB, items []LineItem) ([]models.AppointmentDetail, error) {
	lines := make([]models.AppointmentDetail, 0, len(items))
	for _, it := range items {
		service, err := lookupService(tx, it.CatalogID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, models.AppointmentDetail{
			ServiceID: it.CatalogID,
			Quantity:  it.Quantity,
			UnitPrice: it.priceOr(service.UnitPrice),
		})
	}
	return lines, nil
}

func insertAppointmentLines(tx *gorm.DB, appointmentID uint, lines []models.AppointmentDetail) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].AppointmentID = appointmentID
	}
	if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
		return storageError(err, "Failed to save appointment details")
	}
	return nil
}
