package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/labelworks/internal/audit/domain"
	customerdomain "github.com/smallbiznis/labelworks/internal/customer/domain"
	labeldomain "github.com/smallbiznis/labelworks/internal/labelspec/domain"
	materialdomain "github.com/smallbiznis/labelworks/internal/material/domain"
	orderdomain "github.com/smallbiznis/labelworks/internal/order/domain"
	reportdomain "github.com/smallbiznis/labelworks/internal/report/domain"
	"github.com/smallbiznis/labelworks/internal/schema"
	supplierdomain "github.com/smallbiznis/labelworks/internal/supplier/domain"
	userdomain "github.com/smallbiznis/labelworks/internal/user/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return schema.Invalid(field, code, message)
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	var vErr *schema.Errors
	if errors.As(err, &vErr) && vErr != nil {
		out := make([]ValidationError, 0, len(vErr.Fields))
		for _, f := range vErr.Fields {
			out = append(out, ValidationError{Field: f.Field, Code: f.Code, Message: f.Message})
		}
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  out,
		}
	}

	if field, code, ok := badRequestField(err); ok {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Field: field, Code: code, Message: err.Error()},
			},
		}
	}

	switch {
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// badRequestField maps domain sentinels that reject client input to the
// field they concern.
func badRequestField(err error) (string, string, bool) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "request", "invalid_request", true
	case errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, labeldomain.ErrInvalidID),
		errors.Is(err, materialdomain.ErrInvalidID),
		errors.Is(err, supplierdomain.ErrInvalidID),
		errors.Is(err, userdomain.ErrInvalidID),
		errors.Is(err, orderdomain.ErrInvalidID):
		return "id", schema.CodeInvalidFormat, true
	case errors.Is(err, reportdomain.ErrInvalidRange),
		errors.Is(err, auditdomain.ErrInvalidTimeRange):
		return "dateTo", schema.CodeOutOfRange, true
	case errors.Is(err, auditdomain.ErrInvalidPageToken):
		return "pageToken", schema.CodeInvalidFormat, true
	case errors.Is(err, auditdomain.ErrInvalidAction):
		return "action", schema.CodeRequired, true
	default:
		return "", "", false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, labeldomain.ErrNotFound),
		errors.Is(err, materialdomain.ErrNotFound),
		errors.Is(err, supplierdomain.ErrNotFound),
		errors.Is(err, supplierdomain.ErrContactNotFound),
		errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, orderdomain.ErrInvalidTransition),
		errors.Is(err, orderdomain.ErrDuplicateOrderNumber),
		errors.Is(err, orderdomain.ErrOrderNumberUnavailable),
		errors.Is(err, supplierdomain.ErrInvalidTransition),
		errors.Is(err, supplierdomain.ErrDuplicateRegistration),
		errors.Is(err, userdomain.ErrDuplicateUsername),
		errors.Is(err, gorm.ErrDuplicatedKey):
		return true
	default:
		return false
	}
}

func conflictMessage(err error) string {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrConflict) {
		return "conflict"
	}
	return err.Error()
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch status {
	case http.StatusBadRequest:
		code := "invalid_request"
		if len(payload.Errors) > 0 {
			code = payload.Errors[0].Code
		}
		return payload.Type, code
	case http.StatusInternalServerError:
		return payload.Type, "internal_error"
	default:
		return payload.Type, payload.Message
	}
}
