package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// validateStruct runs struct tag validation and reports the first failure
// as an ErrValidation with a readable message.
func validateStruct(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	fe := fieldErrors[0]
	switch fe.Tag() {
	case "required":
		return validationError("%s is required", fe.Field())
	case "oneof":
		return validationError("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return validationError("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return validationError("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return validationError("%s is invalid", fe.Field())
	}
}
