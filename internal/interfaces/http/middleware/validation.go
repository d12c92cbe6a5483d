package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/feedoffice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// SetupValidator configures gin's validator: JSON field names in errors,
// decimals validated as numbers and the decimal_gt0 tag.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return v.RegisterValidation("decimal_gt0", decimalGreaterThanZero)
}

// decimalValue exposes a decimal to the validator as a float64 so the
// numeric tags (required, gt, min) apply to it
func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func decimalGreaterThanZero(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		return field.Float() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return field.Int() > 0
	case reflect.String:
		d, err := decimal.NewFromString(field.String())
		return err == nil && d.IsPositive()
	}
	return false
}

// ValidationDetails converts binding errors to field details. Malformed
// bodies that never reached the validator yield a single "body" entry.
func ValidationDetails(err error) []dto.ValidationDetail {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []dto.ValidationDetail{{Field: "body", Message: "Malformed request: " + err.Error()}}
	}
	details := make([]dto.ValidationDetail, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, dto.ValidationDetail{Field: e.Field(), Message: validationMessage(e)})
	}
	return details
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " item(s)"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "decimal_gt0":
		return "Must be greater than 0"
	default:
		return "Invalid value"
	}
}
