// Package security provides command validation and session tokens
package security

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/fitpantry/coach/internal/domain/shared"
	"github.com/fitpantry/coach/pkg/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ValidationService validates command structs against their tags
type ValidationService struct {
	logger    *zap.Logger
	validator *validator.Validate
}

// NewValidationService creates a new validation service
func NewValidationService(logger *zap.Logger) *ValidationService {
	validate := validator.New()

	// Report JSON names so error fields match the request body
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Register custom validation rules
	validate.RegisterValidation("clock", validateClock)
	validate.RegisterValidation("weekday", validateWeekday)
	validate.RegisterValidation("ingredient", validateIngredient)
	validate.RegisterValidation("no_xss", validateNoXSS)

	return &ValidationService{
		logger:    logger.Named("validation"),
		validator: validate,
	}
}

// Validate checks a struct and returns a VALIDATION_FAILED AppError listing every failed field
func (v *ValidationService) Validate(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewValidationError(err.Error())
	}

	fields := make([]errors.ValidationError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, errors.ValidationError{
			Field:   e.Field(),
			Value:   e.Value(),
			Tag:     e.Tag(),
			Message: message(e),
		})
	}

	v.logger.Debug("Command rejected",
		zap.String("type", fmt.Sprintf("%T", s)),
		zap.Int("fields", len(fields)),
	)
	return errors.NewValidationErrors(fields)
}

func message(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "clock":
		return fmt.Sprintf("%s must be a HH:MM time", field)
	case "weekday":
		return fmt.Sprintf("%s must be a weekday (%s)", field, strings.Join(shared.Weekdays, ", "))
	case "ingredient":
		return "Invalid ingredient name"
	case "no_xss":
		return "Input contains potential XSS"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Custom validation functions

func validateClock(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

// validateWeekday accepts any spelling CanonicalWeekday can fold
func validateWeekday(fl validator.FieldLevel) bool {
	_, ok := shared.CanonicalWeekday(fl.Field().String())
	return ok
}

func validateIngredient(fl validator.FieldLevel) bool {
	ingredient := fl.Field().String()

	if len(strings.TrimSpace(ingredient)) < 1 || len(ingredient) > 200 {
		return false
	}

	dangerous := []string{"<", ">", "script", "javascript:", "onload", "onerror"}
	ingredientLower := strings.ToLower(ingredient)
	for _, danger := range dangerous {
		if strings.Contains(ingredientLower, danger) {
			return false
		}
	}

	return true
}

func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())

	xssPatterns := []string{
		"<script", "</script>", "javascript:", "vbscript:",
		"onload=", "onerror=", "onclick=", "onmouseover=", "onfocus=",
		"eval(", "alert(", "document.cookie", "document.write", "window.location",
	}

	for _, pattern := range xssPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}

	return true
}
