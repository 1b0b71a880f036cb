package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Decode unmarshals a JSON object body into dst, reporting type mismatches
// as validation errors. Every mistyped field is reported, not just the first.
func Decode(raw []byte, dst any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Invalid("body", CodeRequired, "request body is required")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		if ferr := fieldErrors(raw, dst); ferr != nil {
			return ferr
		}
		return decodeError(err)
	}
	return nil
}

// DecodePatch unmarshals a partial JSON object into dst and returns the Go
// field names of the top-level keys it contained. Keys that do not map to a
// field of dst are dropped.
func DecodePatch(raw []byte, dst any) ([]string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, Invalid("body", CodeRequired, "request body is required")
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, decodeError(err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		if ferr := fieldErrors(raw, dst); ferr != nil {
			return nil, ferr
		}
		return nil, decodeError(err)
	}

	names := make([]string, 0, len(keys))
	for key := range keys {
		names = append(names, key)
	}
	return FieldsFromJSON(reflect.TypeOf(dst), names), nil
}

// FieldsFromJSON maps JSON keys to the Go field names of typ, in declaration
// order.
func FieldsFromJSON(typ reflect.Type, keys []string) []string {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	wanted := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		wanted[k] = struct{}{}
	}

	fields := make([]string, 0, len(keys))
	for i := 0; i < typ.NumField(); i++ {
		fld := typ.Field(i)
		if !fld.IsExported() {
			continue
		}
		name := jsonName(fld)
		if name == "" {
			continue
		}
		if _, ok := wanted[name]; ok {
			fields = append(fields, fld.Name)
		}
	}
	return fields
}

// Merge copies the named top-level fields from src into dst. Both must be
// pointers to the same struct type.
func Merge(dst, src any, fields []string) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()
	for _, name := range fields {
		target := dv.FieldByName(name)
		if !target.IsValid() || !target.CanSet() {
			continue
		}
		target.Set(sv.FieldByName(name))
	}
}

// Without returns fields minus the excluded names.
func Without(fields []string, excluded ...string) []string {
	skip := make(map[string]struct{}, len(excluded))
	for _, e := range excluded {
		skip[e] = struct{}{}
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := skip[f]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Contains reports whether fields names field.
func Contains(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}

// fieldErrors decodes each top-level key of a JSON object on its own so that
// all type mismatches surface together. It returns nil when raw is not an
// object or no single field fails.
func fieldErrors(raw []byte, dst any) error {
	typ := reflect.TypeOf(dst)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil
	}

	errs := &Errors{}
	for i := 0; i < typ.NumField(); i++ {
		fld := typ.Field(i)
		if !fld.IsExported() {
			continue
		}
		name := jsonName(fld)
		if name == "" {
			continue
		}
		value, ok := lookupKey(keys, name)
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, reflect.New(fld.Type).Interface()); err != nil {
			addFieldError(errs, name, err)
		}
	}
	return errs.orNil()
}

// lookupKey finds name in keys the way encoding/json does, preferring an
// exact match over a case-insensitive one.
func lookupKey(keys map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if v, ok := keys[name]; ok {
		return v, true
	}
	for k, v := range keys {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func addFieldError(errs *Errors, field string, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field != "" {
			field += "." + typeErr.Field
		}
		errs.Add(field, CodeWrongType, fmt.Sprintf("expected %s, got %s", typeName(typeErr.Type), typeErr.Value))
		return
	}
	errs.Add(field, CodeWrongType, strings.TrimSpace(err.Error()))
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return Invalid(field, CodeWrongType, fmt.Sprintf("expected %s, got %s", typeName(typeErr.Type), typeErr.Value))
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return Invalid("body", CodeInvalidFormat, "malformed JSON")
	}

	msg := strings.TrimSpace(err.Error())
	return Invalid("body", CodeInvalidFormat, msg)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return t.String()
	}
}
