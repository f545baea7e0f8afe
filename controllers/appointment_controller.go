package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tunik/tunik-api/config"
	"github.com/tunik/tunik-api/services"
	"github.com/tunik/tunik-api/utils"
)

func appointmentInputFromBody(body map[string]interface{}) (services.AppointmentInput, error) {
	var in services.AppointmentInput
	var err error

	if in.Plate, err = optionalPlate(body); err != nil {
		return in, paramError(err)
	}
	if in.Date, err = utils.OptionalDate(body, "fecha", "date"); err != nil {
		return in, paramError(err)
	}
	if in.Status, err = utils.OptionalString(body, "estado", "status"); err != nil {
		return in, paramError(err)
	}
	if in.Items, in.ItemsSent, err = optionalItems(body); err != nil {
		return in, paramError(err)
	}
	return in, nil
}

// detailPatchFromBody reads a quantity and unit price change. Unlike item
// normalization, a sent value that cannot be used is rejected.
func detailPatchFromBody(body map[string]interface{}) (services.DetailPatch, error) {
	var patch services.DetailPatch

	if v, ok := utils.FirstPresent(body, services.ServiceFields.Quantity...); ok && v != nil {
		f, valid := utils.ToNumber(v)
		if !valid || f <= 0 || f != float64(int(f)) {
			return patch, services.ValidationError("cantidad must be a positive integer")
		}
		qty := int(f)
		patch.Quantity = &qty
	}
	if v, ok := utils.FirstPresent(body, services.ServiceFields.Price...); ok && v != nil {
		price := utils.ToMoney(v)
		if price == nil {
			return patch, services.ValidationError("precio_unitario must be a number")
		}
		patch.UnitPrice = price
	}
	return patch, nil
}

// ListAppointments handles GET /api/v1/appointments
func ListAppointments(c *gin.Context) {
	appointments, err := services.NewAppointmentService(config.GetDB()).List(c.Request.Context(), services.AppointmentFilter{
		Plate:         firstQuery(c, "plate", "placa"),
		Status:        firstQuery(c, "status", "estado"),
		OwnerDocument: firstQuery(c, "owner_document", "numero_documento"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, appointments)
}

// GetAppointment handles GET /api/v1/appointments/:id
func GetAppointment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	appointment, err := services.NewAppointmentService(config.GetDB()).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, appointment)
}

// CreateAppointment handles POST /api/v1/appointments
func CreateAppointment(c *gin.Context) {
	body, err := bindBody(c)
	if err != nil {
		respondError(c, err)
		return
	}
	in, err := appointmentInputFromBody(body)
	if err != nil {
		respondError(c, err)
		return
	}

	appointment, err := services.NewAppointmentService(config.GetDB()).Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, appointment)
}

// UpdateAppointment handles PUT /api/v1/appointments/:id
func UpdateAppointment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	body, err := bindBody(c)
	if err != nil {
		respondError(c, err)
		return
	}
	in, err := appointmentInputFromBody(body)
	if err != nil {
		respondError(c, err)
		return
	}

	appointment, err := services.NewAppointmentService(config.GetDB()).Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, appointment)
}

// DeleteAppointment handles DELETE /api/v1/appointments/:id
func DeleteAppointment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := services.NewAppointmentService(config.GetDB()).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Appointment deleted")
}

// ListAppointmentDetails handles GET /api/v1/appointments/:id/details
func ListAppointmentDetails(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	details, err := services.NewAppointmentService(config.GetDB()).Details(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, details)
}

// GetAppointmentTotal handles GET /api/v1/appointments/:id/total
func GetAppointmentTotal(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	total, err := services.NewAppointmentService(config.GetDB()).Total(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"idagendacitas": id, "total": total})
}

// AddAppointmentDetail handles POST /api/v1/appointments/:id/details
func AddAppointmentDetail(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	body, err := bindBody(c)
	if err != nil {
		respondError(c, err)
		return
	}

	line, err := services.NewAppointmentService(config.GetDB()).AddDetail(c.Request.Context(), id, body)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, line)
}

// UpdateAppointmentDetail handles PUT /api/v1/appointments/:id/details/:serviceId
func UpdateAppointmentDetail(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	serviceID, err := pathID(c, "serviceId")
	if err != nil {
		respondError(c, err)
		return
	}
	body, err := bindBody(c)
	if err != nil {
		respondError(c, err)
		return
	}
	patch, err := detailPatchFromBody(body)
	if err != nil {
		respondError(c, err)
		return
	}

	line, err := services.NewAppointmentService(config.GetDB()).UpdateDetail(c.Request.Context(), id, serviceID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, line)
}

// DeleteAppointmentDetail handles DELETE /api/v1/appointments/:id/details/:serviceId
func DeleteAppointmentDetail(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	serviceID, err := pathID(c, "serviceId")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := services.NewAppointmentService(config.GetDB()).RemoveDetail(c.Request.Context(), id, serviceID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Appointment detail deleted")
}
