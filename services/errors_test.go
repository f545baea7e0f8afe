package services

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestErrorHTTPStatus(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{ValidationError("bad"), http.StatusBadRequest},
		{InvalidReference("missing"), http.StatusBadRequest},
		{EmptyDetail("empty"), http.StatusBadRequest},
		{InvalidOperation("nope"), http.StatusBadRequest},
		{StockViolation("short"), http.StatusBadRequest},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("clash"), http.StatusConflict},
		{Internal(fmt.Errorf("boom"), "failed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindStockViolation, KindOf(StockViolation("short")))
	assert.Equal(t, KindConflict, KindOf(errors.Wrap(Conflict("clash"), "context")))
	assert.Equal(t, KindInternal, KindOf(fmt.Errorf("plain")))
}

func TestAsErrorHidesCause(t *testing.T) {
	cause := fmt.Errorf("pq: connection refused")
	err := AsError(cause)

	assert.Equal(t, KindInternal, err.Kind)
	assert.NotContains(t, err.Message, "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestStorageError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{name: "foreign key", err: errors.Wrap(gorm.ErrForeignKeyViolated, "delete"), kind: KindConflict},
		{name: "duplicate key", err: gorm.ErrDuplicatedKey, kind: KindConflict},
		{name: "missing row", err: gorm.ErrRecordNotFound, kind: KindNotFound},
		{name: "other", err: fmt.Errorf("disk full"), kind: KindInternal},
		{name: "service error passes through", err: StockViolation("short"), kind: KindStockViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(storageError(tt.err, "Failed")))
		})
	}

	assert.Nil(t, storageError(nil, "Failed"))
}
