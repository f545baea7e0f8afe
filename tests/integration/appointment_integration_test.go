package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/tunik/tunik-api/models"
	"github.com/tunik/tunik-api/tests/testutil"
)

// AppointmentIntegrationTestSuite covers appointments and their service lines
type AppointmentIntegrationTestSuite struct {
	apiSuite
}

func (s *AppointmentIntegrationTestSuite) createAppointment(plate string, items ...map[string]interface{}) uint {
	body := map[string]interface{}{"placa": plate, "fecha": "2025-07-10T09:00:00"}
	if items != nil {
		body["items"] = items
	}
	return s.create("/api/v1/appointments", "idagendacitas", body)
}

func (s *AppointmentIntegrationTestSuite) TestTotalIsSumOfLines() {
	id := s.createAppointment(testutil.Plate,
		map[string]interface{}{"idservicios": testutil.OilChangeID, "cantidad": 2, "precio_unitario": 10},
		map[string]interface{}{"idservicios": testutil.WashID, "cantidad": 1, "precio_unitario": 5},
	)
	empty := s.createAppointment(testutil.OtherPlate)

	code, response := s.request(http.MethodGet, fmt.Sprintf("/api/v1/appointments/%d/total", id), nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(float64(25), data(response)["total"])

	code, response = s.request(http.MethodGet, "/api/v1/appointments", nil)
	s.Require().Equal(http.StatusOK, code)
	totals := map[uint]float64{}
	for _, raw := range list(response) {
		appointment := raw.(map[string]interface{})
		totals[uint(appointment["idagendacitas"].(float64))] = appointment["total"].(float64)
	}
	s.Equal(map[uint]float64{id: 25, empty: 0}, totals)
}

func (s *AppointmentIntegrationTestSuite) TestReplacementDropsMissingLines() {
	id := s.createAppointment(testutil.Plate,
		map[string]interface{}{"idservicios": testutil.OilChangeID},
		map[string]interface{}{"idservicios": testutil.WashID},
	)

	code, response := s.request(http.MethodPut, fmt.Sprintf("/api/v1/appointments/%d", id), map[string]interface{}{
		"detalles": []map[string]interface{}{{"idservicios": testutil.WashID, "cantidad": 3}},
	})
	s.Require().Equal(http.StatusOK, code, response)
	s.Equal(float64(15), data(response)["total"])

	s.Zero(testutil.CountRows(s.T(), s.db, &models.AppointmentDetail{}, "appointment_id = ? AND service_id = ?", id, testutil.OilChangeID))
	s.Equal(int64(1), testutil.CountRows(s.T(), s.db, &models.AppointmentDetail{}, "appointment_id = ?", id))
}

func (s *AppointmentIntegrationTestSuite) TestFailedReplacementKeepsLines() {
	id := s.createAppointment(testutil.Plate, map[string]interface{}{"idservicios": testutil.OilChangeID})
	path := fmt.Sprintf("/api/v1/appointments/%d", id)

	code, response := s.request(http.MethodPut, path, map[string]interface{}{
		"estado": "Confirmada",
		"items":  []map[string]interface{}{{"idservicios": testutil.WashID}, {"idservicios": 808}},
	})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("INVALID_REFERENCE", response["error"])

	code, response = s.request(http.MethodPut, path, map[string]interface{}{"estado": "Confirmada", "items": []interface{}{}})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("EMPTY_DETAIL", response["error"])

	code, response = s.request(http.MethodGet, path, nil)
	s.Require().Equal(http.StatusOK, code)
	appointment := data(response)
	s.Equal("Pendiente", appointment["estado"])
	s.Equal(float64(10), appointment["total"])
}

func (s *AppointmentIntegrationTestSuite) TestFiltersByOwnerAndStatus() {
	s.createAppointment(testutil.Plate)
	other := s.createAppointment(testutil.OtherPlate)

	code, response := s.request(http.MethodPut, fmt.Sprintf("/api/v1/appointments/%d", other), map[string]interface{}{"estado": "Cerrada"})
	s.Require().Equal(http.StatusOK, code, response)

	code, response = s.request(http.MethodGet, "/api/v1/appointments?owner_document="+testutil.OwnerDocument, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Len(list(response), 1)
	s.Equal(testutil.Plate, list(response)[0].(map[string]interface{})["placa"])

	code, response = s.request(http.MethodGet, "/api/v1/appointments?estado=Cerrada", nil)
	s.Require().Equal(http.StatusOK, code)
	s.Len(list(response), 1)
	s.Equal(float64(other), list(response)[0].(map[string]interface{})["idagendacitas"])
}

func (s *AppointmentIntegrationTestSuite) TestDeleteRemovesLines() {
	id := s.createAppointment(testutil.Plate, map[string]interface{}{"idservicios": testutil.OilChangeID})

	code, response := s.request(http.MethodDelete, fmt.Sprintf("/api/v1/appointments/%d", id), nil)
	s.Require().Equal(http.StatusOK, code, response)
	s.Equal("Appointment deleted", response["msg"])
	s.Zero(testutil.CountRows(s.T(), s.db, &models.AppointmentDetail{}, ""))
	s.Zero(testutil.CountRows(s.T(), s.db, &models.Appointment{}, ""))
}

func TestAppointmentIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AppointmentIntegrationTestSuite))
}
