package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/clube/backend/internal/domain/shared/valueobject"
	"github.com/clube/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var setupOnce sync.Once

// SetupValidator configures gin's validator: JSON field names in errors plus
// the club-specific tags document, uf, yearmonth and timezone
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
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
		RegisterClubValidations(v)
	})
}

// RegisterClubValidations adds the custom tags to v
func RegisterClubValidations(v *validator.Validate) {
	_ = v.RegisterValidation("document", func(fl validator.FieldLevel) bool {
		_, err := valueobject.ParseDocument(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("uf", func(fl validator.FieldLevel) bool {
		return valueobject.IsValidState(strings.ToUpper(fl.Field().String()))
	})
	_ = v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01", fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		if name == "" || name == "Local" {
			return false
		}
		_, err := time.LoadLocation(name)
		return err == nil
	})
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
				Code:    e.Tag(),
			})
		}
	} else {
		details = append(details, dto.ValidationDetail{Field: "body", Message: "Malformed request body"})
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes a 400 for a binding failure
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "len":
		return "Must be exactly " + e.Param() + " characters"
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "lt":
		return "Must be less than " + e.Param()
	case "document":
		return "Invalid CPF or CNPJ"
	case "uf":
		return "Invalid state abbreviation"
	case "yearmonth":
		return "Must be a month in YYYY-MM format"
	case "timezone":
		return "Unknown IANA time zone"
	case "datetime":
		return "Must match the format " + e.Param()
	default:
		return "Invalid value"
	}
}
