package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

// TagNotBlank rejects strings that are empty after trimming whitespace.
const TagNotBlank = "notblank"

// SetupValidator makes gin's validator report JSON (or form) field names and
// registers the notblank tag. Call it once before serving.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(fieldName)
	_ = v.RegisterValidation(TagNotBlank, notBlank)
}

func fieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
	}
	return name
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// FormatValidationErrors turns binding errors into the validation envelope.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: validationMessage(e),
			})
		}
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError answers 400 with the validation envelope.
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

// Messages keyed by tag; "{p}" is replaced with the tag parameter.
var validationMessages = map[string]string{
	"required":  "This field is required",
	TagNotBlank: "This field must not be blank",
	"email":     "Invalid email format",
	"len":       "Must be exactly {p} characters",
	"datetime":  "Must be a date in {p} format",
	"oneof":     "Must be one of: {p}",
	"gte":       "Must be greater than or equal to {p}",
	"lte":       "Must be less than or equal to {p}",
	"gt":        "Must be greater than {p}",
	"lt":        "Must be less than {p}",
	"numeric":   "Must be numeric",
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "min", "max":
		bound := "at least"
		if e.Tag() == "max" {
			bound = "at most"
		}
		if e.Kind() == reflect.String {
			return "Must be " + bound + " " + e.Param() + " characters"
		}
		return "Must be " + bound + " " + e.Param()
	}
	if msg, ok := validationMessages[e.Tag()]; ok {
		return strings.ReplaceAll(msg, "{p}", e.Param())
	}
	return "Invalid value"
}
