package server

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	recorddomain "github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
)

var registerOnce sync.Once

// registerValidators installs the catalog tags on gin's binding validator
// and reports fields by their json names.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("pest_service", func(fl validator.FieldLevel) bool {
			_, err := recorddomain.ParseService(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
			_, err := recorddomain.ParsePaymentMethod(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("service_status", func(fl validator.FieldLevel) bool {
			_, err := recorddomain.ParseStatus(fl.Field().String())
			return err == nil
		})
	})
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// bindError turns a binding failure into field-level validation errors.
// Malformed bodies collapse into a single invalid_request entry.
func bindError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return invalidRequestError()
	}

	out := &ValidationErrors{}
	for _, fe := range fieldErrs {
		field := fe.Field()
		code := "invalid_" + field
		message := "invalid value"
		if fe.Tag() == "required" {
			code = "required"
			message = field + " is required"
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Code:    code,
			Message: message,
		})
	}
	return out
}
