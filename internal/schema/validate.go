package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validateOnce sync.Once
	instance     *validator.Validate
)

// Validator returns the shared validator with the custom tags registered:
//
//	enum=<name>     value must belong to the named Enum
//	otherfor=<Fld>  required when sibling Fld is (or contains) "other"
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("enum", validateEnum)
		_ = v.RegisterValidation("otherfor", validateOtherFor)
		instance = v
	})
	return instance
}

// Validate checks every rule declared on v.
func Validate(v any) error {
	return translate(Validator().Struct(v))
}

// ValidatePartial checks only the named top-level fields (Go field names) of
// v, so updates reuse the create rules restricted to the submitted subset.
func ValidatePartial(v any, fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	present := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		present[f] = struct{}{}
	}
	err := Validator().StructFiltered(v, func(ns []byte) bool {
		_, ok := present[topLevelField(string(ns))]
		return !ok
	})
	return translate(err)
}

// topLevelField turns "Order.Items[0].Name" into "Items".
func topLevelField(ns string) string {
	if idx := strings.IndexByte(ns, '.'); idx >= 0 {
		ns = ns[idx+1:]
	}
	if idx := strings.IndexAny(ns, ".["); idx >= 0 {
		ns = ns[:idx]
	}
	return ns
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("schema: %w", err)
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Errors{}
	for _, fe := range verrs {
		code := codeFor(fe.Tag())
		out.Add(fieldPath(fe.Namespace()), code, messageFor(fe, code))
	}
	return out.orNil()
}

func fieldPath(ns string) string {
	if idx := strings.IndexByte(ns, '.'); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

func codeFor(tag string) string {
	switch tag {
	case "required", "required_if", "required_with", "required_without", "otherfor":
		return CodeRequired
	case "enum", "oneof":
		return CodeEnumMismatch
	case "gt", "gte", "lt", "lte", "min", "max", "len":
		return CodeOutOfRange
	default:
		return CodeInvalidFormat
	}
}

func messageFor(fe validator.FieldError, code string) string {
	switch code {
	case CodeRequired:
		return "is required"
	case CodeEnumMismatch:
		if e, ok := lookupEnum(fe.Param()); ok {
			return fmt.Sprintf("must be one of: %s", strings.Join(e.Values(), ", "))
		}
		return "must be one of: " + fe.Param()
	case CodeOutOfRange:
		return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("is not a valid %s", fe.Tag())
	}
}

func validateEnum(fl validator.FieldLevel) bool {
	e, ok := lookupEnum(fl.Param())
	if !ok {
		return false
	}
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return e.Has(field.String())
}

func validateOtherFor(fl validator.FieldLevel) bool {
	if strings.TrimSpace(fl.Field().String()) != "" {
		return true
	}
	sibling := fl.Parent().FieldByName(fl.Param())
	if !sibling.IsValid() {
		return true
	}
	return !selectsOther(sibling)
}

func selectsOther(v reflect.Value) bool {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.String:
		return v.String() == Other
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			item := v.Index(i)
			if item.Kind() == reflect.String && item.String() == Other {
				return true
			}
		}
	}
	return false
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}
