package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tunik/tunik-api/config"
	"github.com/tunik/tunik-api/services"
	"github.com/tunik/tunik-api/utils"
)

var appointmentLinkKeys = []string{"idagendacitas", "idAgendaCitas", "idagenda", "appointment_id"}

func quoteInputFromBody(body map[string]interface{}) (services.QuoteInput, error) {
	var in services.QuoteInput
	var err error

	if in.Plate, err = optionalPlate(body); err != nil {
		return in, paramError(err)
	}
	if in.PaymentMethodID, err = utils.OptionalID(body, "idmpago", "metodo_pago_id", "payment_method_id"); err != nil {
		return in, paramError(err)
	}
	if in.Status, err = utils.OptionalString(body, "estado", "status"); err != nil {
		return in, paramError(err)
	}
	if in.Date, err = utils.OptionalDate(body, "fecha", "date"); err != nil {
		return in, paramError(err)
	}
	_, in.AppointmentSent = utils.FirstPresent(body, appointmentLinkKeys...)
	if in.AppointmentID, err = utils.OptionalID(body, appointmentLinkKeys...); err != nil {
		return in, paramError(err)
	}
	if in.Items, in.ItemsSent, err = optionalItems(body); err != nil {
		return in, paramError(err)
	}
	return in, nil
}

// ListQuotes handles GET /api/v1/quotes
func ListQuotes(c *gin.Context) {
	quotes, err := services.NewQuoteService(config.GetDB()).List(c.Request.Context(), services.QuoteFilter{
		Plate:         firstQuery(c, "plate", "placa"),
		Status:        firstQuery(c, "status", "estado"),
		OwnerDocument: firstQuery(c, "owner_document", "numero_documento"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, quotes)
}

// GetQuote handles GET /api/v1/quotes/:id
func GetQuote(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	quote, err := services.NewQuoteService(config.GetDB()).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, quote)
}

// CreateQuote handles POST /api/v1/quotes - optionally generated from an appointment
func CreateQuote(c *gin.Context) {
	body, err := bindBody(c)
	if err != nil {
		respondError(c, err)
		return
	}
	in, err := quoteInputFromBody(body)
	if err != nil {
		respondError(c, err)
		return
	}

	quote, err := services.NewQuoteService(config.GetDB()).Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, quote)
}

// UpdateQuote handles PUT /api/v1/quotes/:id
func UpdateQuote(c *gin.Context) {
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
	in, err := quoteInputFromBody(body)
	if err != nil {
		respondError(c, err)
		return
	}

	quote, err := services.NewQuoteService(config.GetDB()).Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, quote)
}

// DeleteQuote handles DELETE /api/v1/quotes/:id
func DeleteQuote(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := services.NewQuoteService(config.GetDB()).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Quote deleted")
}

// ListQuoteDetails handles GET /api/v1/quotes/:id/details
func ListQuoteDetails(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	details, err := services.NewQuoteService(config.GetDB()).Details(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, details)
}

// GetQuoteTotal handles GET /api/v1/quotes/:id/total
func GetQuoteTotal(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	total, err := services.NewQuoteService(config.GetDB()).Total(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"idcotizaciones": id, "total": total})
}

// AddQuoteDetail handles POST /api/v1/quotes/:id/details
func AddQuoteDetail(c *gin.Context) {
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

	line, err := services.NewQuoteService(config.GetDB()).AddDetail(c.Request.Context(), id, body)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, line)
}

// UpdateQuoteDetail handles PUT /api/v1/quotes/:id/details/:serviceId
func UpdateQuoteDetail(c *gin.Context) {
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

	raw, _ := utils.FirstPresent(body, services.ServiceFields.Price...)
	line, err := services.NewQuoteService(config.GetDB()).UpdateDetail(c.Request.Context(), id, serviceID, utils.ToMoney(raw))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, line)
}

// DeleteQuoteDetail handles DELETE /api/v1/quotes/:id/details/:serviceId
func DeleteQuoteDetail(c *gin.Context) {
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

	if err := services.NewQuoteService(config.GetDB()).RemoveDetail(c.Request.Context(), id, serviceID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Quote detail deleted")
}
