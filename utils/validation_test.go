package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type plateInput struct {
	Plate  string `json:"placa" validate:"required,plate"`
	Status string `json:"estado" validate:"omitempty,oneof=Aprobado Cancelado Pendiente"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(plateInput{Plate: "ABC123", Status: "Aprobado"}))

	err := ValidateStruct(plateInput{})
	if assert.Error(t, err) {
		assert.Equal(t, "placa is required", ValidationMessage(err))
	}

	err = ValidateStruct(plateInput{Plate: "ABCDEFGHIJKL"})
	if assert.Error(t, err) {
		assert.Contains(t, ValidationMessage(err), "placa must be at most 10")
	}

	err = ValidateStruct(plateInput{Plate: "ABC123", Status: "Lost"})
	if assert.Error(t, err) {
		assert.Equal(t, "estado must be one of: Aprobado Cancelado Pendiente", ValidationMessage(err))
	}
}

func TestIsValidPlate(t *testing.T) {
	assert.True(t, IsValidPlate("ABC123"))
	assert.False(t, IsValidPlate(""))
	assert.False(t, IsValidPlate("abc123"))
	assert.False(t, IsValidPlate("AB C123"))
	assert.False(t, IsValidPlate("ABCDEFGHIJK"))
}
