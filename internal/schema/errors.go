package schema

import (
	"fmt"
	"strings"
)

// Validation error codes returned to clients.
const (
	CodeRequired      = "required"
	CodeWrongType     = "wrong_type"
	CodeEnumMismatch  = "enum_mismatch"
	CodeOutOfRange    = "out_of_range"
	CodeInvalidFormat = "invalid_format"
)

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Errors lists every invalid field of a rejected payload.
type Errors struct {
	Fields []FieldError `json:"errors"`
}

func (e *Errors) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Code))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *Errors) Add(field, code, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Code: code, Message: message})
}

// HasField reports whether field failed with the given code.
func (e *Errors) HasField(field, code string) bool {
	if e == nil {
		return false
	}
	for _, f := range e.Fields {
		if f.Field == field && f.Code == code {
			return true
		}
	}
	return false
}

func (e *Errors) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Invalid builds a single-field validation error.
func Invalid(field, code, message string) error {
	return &Errors{Fields: []FieldError{{Field: field, Code: code, Message: message}}}
}
