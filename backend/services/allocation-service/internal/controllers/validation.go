package controllers

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	shared_dtos "github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-dtos"
)

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
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

// fieldPath drops the root struct name, e.g. "units[2].grossArea".
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// formatValidationErrors converts validator errors into a user-friendly format.
func formatValidationErrors(errs validator.ValidationErrors) []shared_dtos.ValidationErrorDetail {
	details := make([]shared_dtos.ValidationErrorDetail, 0, len(errs))
	for _, err := range errs {
		field := fieldPath(err)
		var message string
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("Field '%s' is required", field)
		case "min":
			message = fmt.Sprintf("Field '%s' must contain at least %s item(s)", field, err.Param())
		case "max":
			message = fmt.Sprintf("Field '%s' must not exceed %s", field, err.Param())
		case "gt":
			message = fmt.Sprintf("Field '%s' must be greater than %s", field, err.Param())
		case "gtefield":
			message = fmt.Sprintf("Field '%s' must be greater than or equal to %s", field, err.Param())
		case "oneof":
			message = fmt.Sprintf("Field '%s' must be one of [%s]", field, err.Param())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", field, err.Tag())
		}
		details = append(details, shared_dtos.ValidationErrorDetail{
			Field:   field,
			Message: message,
			Code:    "validation_" + err.Tag(),
			Param:   err.Param(),
		})
	}
	return details
}
