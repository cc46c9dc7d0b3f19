package inventory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/erp/inventory/internal/domain/failure"
	"github.com/erp/inventory/internal/domain/shared"
	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports JSON field names
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct runs tag validation on s. Values that are not structs are accepted.
func checkStruct(v *validator.Validate, s any) error {
	if v == nil {
		return nil
	}
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}
	return err
}

// toValidationFailure converts validator and domain field errors into a typed
// ValidationFailure. Other errors are returned unchanged.
func toValidationFailure(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		raw := fmt.Errorf("validation failed on field %q: %s", fe.Field(), validationMessage(fe))
		e := failure.NewValidationFailure(fe.Field(), fmt.Sprint(fe.Value()), raw)
		e.UserMessage = fmt.Sprintf("%s: %s", fe.Field(), validationMessage(fe))
		return e
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		e := failure.NewValidationFailure(domainErr.Field, "", err)
		e.UserMessage = domainErr.Message
		return e
	}
	return err
}

// validationMessage returns a human-readable validation message
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}
