package services

import (
	"github.com/tunik/tunik-api/models"
	"github.com/tunik/tunik-api/store"
	"gorm.io/gorm"
)

// requireParent fails with NotFound unless the row with id exists. Callers
// may pass a locking query to hold the row for the rest of the transaction.
func requireParent(db *gorm.DB, model interface{}, id uint, notFoundMsg string) error {
	if err := db.Select("id").First(model, id).Error; err != nil {
		return notFoundOr(err, notFoundMsg, "Failed to look up record")
	}
	return nil
}

// requireNoLine fails with Conflict when the parent already has a line for serviceID
func requireNoLine(tx *gorm.DB, model interface{}, parentCol string, parentID, serviceID uint) error {
	var count int64
	err := tx.Model(model).
		Where(parentCol+" = ? AND service_id = ?", parentID, serviceID).
		Count(&count).Error
	if err != nil {
		return storageError(err, "Failed to look up detail")
	}
	if count > 0 {
		return Conflict("Service %d is already on this record", serviceID)
	}
	return nil
}

// requireNoQuotesOnOtherPlate fails with Conflict when a quote linked to the
// appointment is for a vehicle other than plate
func requireNoQuotesOnOtherPlate(tx *gorm.DB, appointmentID uint, plate string) error {
	var count int64
	err := tx.Model(&models.Quote{}).
		Where("appointment_id = ? AND plate <> ?", appointmentID, plate).
		Count(&count).Error
	if err != nil {
		return storageError(err, "Failed to look up linked quotes")
	}
	if count > 0 {
		return Conflict("Appointment %d has quotes for another vehicle; unlink them before changing the plate", appointmentID)
	}
	return nil
}

func requireVehicle(tx *gorm.DB, plate string) error {
	ok, err := store.Exists(tx, &models.Vehicle{}, "plate", plate)
	if err != nil {
		return Internal(err, "Failed to look up vehicle")
	}
	if !ok {
		return InvalidReference("Vehicle %s does not exist", plate)
	}
	return nil
}

func requirePaymentMethod(tx *gorm.DB, id uint) error {
	ok, err := store.Exists(tx, &models.PaymentMethod{}, "id", id)
	if err != nil {
		return Internal(err, "Failed to look up payment method")
	}
	if !ok {
		return InvalidReference("Payment method %d does not exist", id)
	}
	return nil
}

func lookupService(tx *gorm.DB, id uint) (models.Service, error) {
	var service models.Service
	if err := tx.Select("id", "unit_price").First(&service, id).Error; err != nil {
		return service, notFoundAs(err, InvalidReference("Service %d does not exist", id), "Failed to look up service")
	}
	return service, nil
}

// ownedPlates is a subquery of the plates registered to an owner
func ownedPlates(db *gorm.DB, ownerDocument string) *gorm.DB {
	return db.Model(&models.Vehicle{}).Select("plate").Where("owner_document = ?", ownerDocument)
}
