package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	orderdomain "github.com/smallbiznis/labelworks/internal/order/domain"
	reportdomain "github.com/smallbiznis/labelworks/internal/report/domain"
	"github.com/smallbiznis/labelworks/internal/schema"
	supplierdomain "github.com/smallbiznis/labelworks/internal/supplier/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		typ    string
		field  string
	}{
		{"schema", schema.Invalid("quantity", schema.CodeOutOfRange, "too small"), http.StatusBadRequest, "validation_error", "quantity"},
		{"invalid id", orderdomain.ErrInvalidID, http.StatusBadRequest, "validation_error", "id"},
		{"report range", reportdomain.ErrInvalidRange, http.StatusBadRequest, "validation_error", "dateTo"},
		{"not found", fmt.Errorf("load: %w", orderdomain.ErrNotFound), http.StatusNotFound, "not_found", ""},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, "not_found", ""},
		{"transition", orderdomain.ErrInvalidTransition, http.StatusConflict, "conflict", ""},
		{"supplier registration", supplierdomain.ErrDuplicateRegistration, http.StatusConflict, "conflict", ""},
		{"duplicate key", gorm.ErrDuplicatedKey, http.StatusConflict, "conflict", ""},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "internal_error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payload := mapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.typ, payload.Type)
			if tt.field != "" {
				if assert.Len(t, payload.Errors, 1) {
					assert.Equal(t, tt.field, payload.Errors[0].Field)
				}
			}
		})
	}
}

func TestInternalErrorsHideDetail(t *testing.T) {
	_, payload := mapError(errors.New("pq: relation does not exist"))
	assert.Equal(t, "internal server error", payload.Message)
}

func TestClassifyErrorForLog(t *testing.T) {
	typ, code := classifyErrorForLog(schema.Invalid("status", schema.CodeEnumMismatch, "bad"))
	assert.Equal(t, "validation_error", typ)
	assert.Equal(t, schema.CodeEnumMismatch, code)

	typ, code = classifyErrorForLog(errors.New("boom"))
	assert.Equal(t, "internal_error", typ)
	assert.Equal(t, "internal_error", code)
}
