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

var quoteStatuses = []string{
	models.QuoteStatusApproved,
	models.QuoteStatusCancelled,
	models.QuoteStatusPending,
}

// QuoteInput carries the coerced fields of a quote write. Nil fields were not
// sent. A sent link with a nil AppointmentID clears the link on update.
type QuoteInput struct {
	Plate           *string
	PaymentMethodID *uint
	Status          *string
	Date            *time.Time
	AppointmentID   *uint
	AppointmentSent bool
	Items           []interface{}
	ItemsSent       bool
}

// QuoteFilter narrows the quote list
type QuoteFilter struct {
	Plate         string
	Status        string
	OwnerDocument string
}

// QuoteService manages quotes, their service lines and their link to the
// appointment they were generated from
type QuoteService struct {
	db *gorm.DB
}

// NewQuoteService creates a quote service backed by db
func NewQuoteService(db *gorm.DB) *QuoteService {
	return &QuoteService{db: db}
}

// List returns quotes with vehicle, payment method and computed totals, newest first
func (s *QuoteService) List(ctx context.Context, filter QuoteFilter) ([]models.Quote, error) {
	db := s.db.WithContext(ctx)
	query := db.Preload("Vehicle").Preload("PaymentMethod").Order("id DESC")
	if filter.Plate != "" {
		query = query.Where("plate = ?", utils.NormalizePlate(filter.Plate))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OwnerDocument != "" {
		query = query.Where("plate IN (?)", ownedPlates(db, filter.OwnerDocument))
	}

	var quotes []models.Quote
	if err := query.Find(&quotes).Error; err != nil {
		return nil, storageError(err, "Failed to list quotes")
	}

	ids := make([]uint, len(quotes))
	for i := range quotes {
		ids[i] = quotes[i].ID
	}
	totals, err := QuoteTotals(ctx, s.db, ids...)
	if err != nil {
		return nil, err
	}
	for i := range quotes {
		quotes[i].Total = totals[quotes[i].ID]
	}
	return quotes, nil
}

// Get returns one quote with its vehicle, payment method, service lines and total
func (s *QuoteService) Get(ctx context.Context, id uint) (*models.Quote, error) {
	var quote models.Quote
	err := s.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("PaymentMethod").
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("service_id") }).
		Preload("Details.Service").
		First(&quote, id).Error
	if err != nil {
		return nil, notFoundOr(err, "Quote not found", "Failed to load quote")
	}

	totals, err := QuoteTotals(ctx, s.db, quote.ID)
	if err != nil {
		return nil, err
	}
	quote.Total = totals[quote.ID]
	return &quote, nil
}

// Create inserts a quote. When it is generated from an appointment, the
// appointment's service lines come first and the quote's own items override
// them by service id.
func (s *QuoteService) Create(ctx context.Context, in QuoteInput) (*models.Quote, error) {
	status := models.QuoteStatusPending
	if in.Status != nil && strings.TrimSpace(*in.Status) != "" {
		var err error
		if status, err = canonicalQuoteStatus(*in.Status); err != nil {
			return nil, err
		}
	}

	quote := models.Quote{Status: status, Date: time.Now()}
	if in.Date != nil {
		quote.Date = *in.Date
	}

	var lineCount int
	err := store.Transact(ctx, s.db, func(tx *gorm.DB) error {
		var source []LineItem
		if in.AppointmentID != nil {
			appointment, err := loadAppointmentHeader(tx, *in.AppointmentID)
			if err != nil {
				return notFoundOr(err, "The selected appointment does not exist", "Failed to load appointment")
			}
			if in.Plate != nil && *in.Plate != "" && *in.Plate != appointment.Plate {
				return Conflict("Quote plate %s does not match appointment plate %s", *in.Plate, appointment.Plate)
			}
			if in.Plate == nil || *in.Plate == "" {
				plate := appointment.Plate
				in.Plate = &plate
			}
			if source, err = appointmentLineItems(tx, appointment.ID); err != nil {
				return err
			}
			quote.AppointmentID = in.AppointmentID
		}

		if in.Plate == nil || *in.Plate == "" {
			return ValidationError("placa is required")
		}
		if in.PaymentMethodID == nil {
			return ValidationError("idmpago is required")
		}
		quote.Plate = *in.Plate
		quote.PaymentMethodID = *in.PaymentMethodID

		items := MergeItems(source, NormalizeItems(in.Items, ServiceFields))

		if err := requireVehicle(tx, quote.Plate); err != nil {
			return err
		}
		if err := requirePaymentMethod(tx, quote.PaymentMethodID); err != nil {
			return err
		}
		if (in.AppointmentID != nil || in.ItemsSent) && len(items) == 0 {
			return EmptyDetail("The appointment has no services and no extra services were added")
		}
		lines, err := resolveQuoteLines(tx, items)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(&quote).Error; err != nil {
			return storageError(err, "Failed to create quote")
		}
		lineCount = len(lines)
		return insertQuoteLines(tx, quote.ID, lines)
	})
	if err != nil {
		return nil, AsError(err)
	}

	log.Info().Uint("quote_id", quote.ID).Int("lines", lineCount).Msg("Quote created")
	return s.Get(ctx, quote.ID)
}

// Update patches a quote. Its lines are replaced when items are sent or the
// appointment link is sent, following mergeQuoteLines.
func (s *QuoteService) Update(ctx context.Context, id uint, in QuoteInput) (*models.Quote, error) {
	err := store.Transact(ctx, s.db, func(tx *gorm.DB) error {
		var quote models.Quote
		if err := store.ForUpdate(tx).First(&quote, id).Error; err != nil {
			return notFoundOr(err, "Quote not found", "Failed to load quote")
		}

		if in.Status != nil {
			status, err := canonicalQuoteStatus(*in.Status)
			if err != nil {
				return err
			}
			quote.Status = status
		}
		if in.Date != nil {
			quote.Date = *in.Date
		}
		if in.PaymentMethodID != nil {
			if err := requirePaymentMethod(tx, *in.PaymentMethodID); err != nil {
				return err
			}
			quote.PaymentMethodID = *in.PaymentMethodID
		}

		switch {
		case in.AppointmentSent && in.AppointmentID == nil:
			quote.AppointmentID = nil
			if err := s.applyPlate(tx, &quote, in.Plate); err != nil {
				return err
			}
		case in.AppointmentSent:
			appointment, err := loadAppointmentHeader(tx, *in.AppointmentID)
			if err != nil {
				return notFoundAs(err, InvalidReference("The selected appointment does not exist"), "Failed to load appointment")
			}
			if in.Plate != nil && *in.Plate != "" && *in.Plate != appointment.Plate {
				return Conflict("Plate %s does not match appointment plate %s", *in.Plate, appointment.Plate)
			}
			quote.Plate = appointment.Plate
			quote.AppointmentID = &appointment.ID
		default:
			if err := s.applyPlate(tx, &quote, in.Plate); err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Save(&quote).Error; err != nil {
			return storageError(err, "Failed to save quote")
		}
		if !in.ItemsSent && !in.AppointmentSent {
			return nil
		}

		var source, previous []LineItem
		var err error
		if quote.AppointmentID != nil {
			if source, err = appointmentLineItems(tx, *quote.AppointmentID); err != nil {
				return err
			}
		}
		if !in.ItemsSent {
			if previous, err = quoteLineItems(tx, quote.ID); err != nil {
				return err
			}
		}
		items := mergeQuoteLines(source, previous, NormalizeItems(in.Items, ServiceFields), in.ItemsSent)
		if len(items) == 0 {
			return EmptyDetail("The quote must keep at least one service")
		}
		lines, err := resolveQuoteLines(tx, items)
		if err != nil {
			return err
		}
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteDetail{}).Error; err != nil {
			return storageError(err, "Failed to delete quote details")
		}
		return insertQuoteLines(tx, quote.ID, lines)
	})
	if err != nil {
		return nil, AsError(err)
	}

	log.Info().Uint("quote_id", id).Bool("items_sent", in.ItemsSent).Bool("link_sent", in.AppointmentSent).Msg("Quote updated")
	return s.Get(ctx, id)
}

// applyPlate changes the quote's vehicle when a new plate was sent. A quote
// that stays linked must keep the appointment's plate.
func (s *QuoteService) applyPlate(tx *gorm.DB, quote *models.Quote, plate *string) error {
	if plate == nil || *plate == "" || *plate == quote.Plate {
		return nil
	}
	if quote.AppointmentID != nil {
		return Conflict("Plate %s does not match the linked appointment", *plate)
	}
	if err := requireVehicle(tx, *plate); err != nil {
		return err
	}
	quote.Plate = *plate
	return nil
}

// Delete removes a quote and its lines
func (s *QuoteService) Delete(ctx context.Context, id uint) error {
	err := store.Transact(ctx, s.db, func(tx *gorm.DB) error {
		var quote models.Quote
		if err := store.ForUpdate(tx).First(&quote, id).Error; err != nil {
			return notFoundOr(err, "Quote not found", "Failed to load quote")
		}
		if err := tx.Where("quote_id = ?", id).Delete(&models.QuoteDetail{}).Error; err != nil {
			return storageError(err, "Failed to delete quote details")
		}
		if err := tx.Delete(&quote).Error; err != nil {
			return storageError(err, "Failed to delete quote")
		}
		return nil
	})
	if err != nil {
		return AsError(err)
	}

	log.Info().Uint("quote_id", id).Msg("Quote deleted")
	return nil
}

// Details returns the service lines of a quote
func (s *QuoteService) Details(ctx context.Context, id uint) ([]models.QuoteDetail, error) {
	db := s.db.WithContext(ctx)
	if err := requireParent(db, &models.Quote{}, id, "Quote not found"); err != nil {
		return nil, err
	}

	var details []models.QuoteDetail
	if err := db.Preload("Service").Where("quote_id = ?", id).Order("service_id").Find(&details).Error; err != nil {
		return nil, storageError(err, "Failed to load quote details")
	}
	return details, nil
}

// Total returns the computed total of a quote
func (s *QuoteService) Total(ctx context.Context, id uint) (decimal.Decimal, error) {
	if err := requireParent(s.db.WithContext(ctx), &models.Quote{}, id, "Quote not found"); err != nil {
		return decimal.Zero, err
	}
	totals, err := QuoteTotals(ctx, s.db, id)
	if err != nil {
		return decimal.Zero, err
	}
	return totals[id], nil
}

// AddDetail appends one service line. A service already on the quote fails
// with Conflict.
func (s *QuoteService) AddDetail(ctx context.Context, id uint, raw map[string]interface{}) (*models.QuoteDetail, error) {
	items := NormalizeItems([]interface{}{raw}, ServiceFields)
	if len(items) == 0 {
		return nil, ValidationError("idservicios is required")
	}

	var line models.QuoteDetail
	err := store.Transact(ctx, s.db, func(tx *gorm.DB) error {
		if err := requireParent(store.ForUpdate(tx), &models.Quote{}, id, "Quote not found"); err != nil {
			return err
		}
		if err := requireNoLine(tx, &models.QuoteDetail{}, "quote_id", id, items[0].CatalogID); err != nil {
			return err
		}
		lines, err := resolveQuoteLines(tx, items)
		if err != nil {
			return err
		}
		line = lines[0]
		line.QuoteID = id
		if err := tx.Omit(clause.Associations).Create(&line).Error; err != nil {
			return storageError(err, "Failed to add quote detail")
		}
		return nil
	})
	if err != nil {
		return nil, AsError(err)
	}
	return &line, nil
}

// UpdateDetail changes the quoted price of one service line
func (s *QuoteService) UpdateDetail(ctx context.Context, id, serviceID uint, price *decimal.Decimal) (*models.QuoteDetail, error) {
	if price == nil {
		return nil, ValidationError("preciochange is required")
	}

	var line models.QuoteDetail
	err := store.Transact(ctx, s.db, func(tx *gorm.DB) error {
		err := store.ForUpdate(tx).Where("quote_id = ? AND service_id = ?", id, serviceID).First(&line).Error
		if err != nil {
			return notFoundOr(err, "Quote detail not found", "Failed to load quote detail")
		}
		line.Price = *price
		err = tx.Model(&models.QuoteDetail{}).
			Where("quote_id = ? AND service_id = ?", id, serviceID).
			Update("price", line.Price).Error
		if err != nil {
			return storageError(err, "Failed to update quote detail")
		}
		return nil
	})
	if err != nil {
		return nil, AsError(err)
	}
	return &line, nil
}

// RemoveDetail deletes one service line
func (s *QuoteService) RemoveDetail(ctx context.Context, id, serviceID uint) error {
	res := s.db.WithContext(ctx).
		Where("quote_id = ? AND service_id = ?", id, serviceID).
		Delete(&models.QuoteDetail{})
	if res.Error != nil {
		return storageError(res.Error, "Failed to delete quote detail")
	}
	if res.RowsAffected == 0 {
		return NotFound("Quote detail not found")
	}
	return nil
}

// mergeQuoteLines builds the replacement detail set of a quote update from
// three sources: the linked appointment's lines, the quote's previous lines
// and the items sent with the request.
//
// When items were sent the previous lines are discarded and the sent items
// override appointment lines with the same service. When only the link was
// sent the previous lines are kept and override appointment lines, so prices
// negotiated on the quote survive re-linking.
func mergeQuoteLines(source, previous, sent []LineItem, itemsSent bool) []LineItem {
	if itemsSent {
		return MergeItems(source, sent)
	}
	return MergeItems(source, previous)
}

// canonicalQuoteStatus matches status case-insensitively against the allowed states
func canonicalQuoteStatus(status string) (string, error) {
	status = strings.TrimSpace(status)
	for _, allowed := range quoteStatuses {
		if strings.EqualFold(status, allowed) {
			return allowed, nil
		}
	}
	return "", ValidationError("estado must be one of: %s", strings.Join(quoteStatuses, ", "))
}

func loadAppointmentHeader(tx *gorm.DB, id uint) (models.Appointment, error) {
	var appointment models.Appointment
	err := store.FindByID(tx.Select("id", "plate"), &appointment, id)
	return appointment, err
}

// appointmentLineItems reads an appointment's lines as quote items priced at
// the appointment's unit price
func appointmentLineItems(tx *gorm.DB, appointmentID uint) ([]LineItem, error) {
	var details []models.AppointmentDetail
	if err := tx.Where("appointment_id = ?", appointmentID).Order("service_id").Find(&details).Error; err != nil {
		return nil, storageError(err, "Failed to load appointment details")
	}
	items := make([]LineItem, len(details))
	for i, d := range details {
		price := d.UnitPrice
		items[i] = LineItem{CatalogID: d.ServiceID, Quantity: 1, UnitPrice: &price}
	}
	return items, nil
}

func quoteLineItems(tx *gorm.DB, quoteID uint) ([]LineItem, error) {
	var details []models.QuoteDetail
	if err := tx.Where("quote_id = ?", quoteID).Order("service_id").Find(&details).Error; err != nil {
		return nil, storageError(err, "Failed to load quote details")
	}
	items := make([]LineItem, len(details))
	for i, d := range details {
		price := d.Price
		items[i] = LineItem{CatalogID: d.ServiceID, Quantity: 1, UnitPrice: &price}
	}
	return items, nil
}

func resolveQuoteLines(tx *gorm.DB, items []LineItem) ([]models.QuoteDetail, error) {
	lines := make([]models.QuoteDetail, 0, len(items))
	for _, it := range items {
		service, err := lookupService(tx, it.CatalogID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, models.QuoteDetail{
			ServiceID: it.CatalogID,
			Price:     it.priceOr(service.UnitPrice),
		})
	}
	return lines, nil
}

func insertQuoteLines(tx *gorm.DB, quoteID uint, lines []models.QuoteDetail) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].QuoteID = quoteID
	}
	if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
		return storageError(err, "Failed to save quote details")
	}
	return nil
}
