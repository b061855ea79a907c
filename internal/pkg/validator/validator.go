package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/Pesokrava/product_marketplace/internal/domain"
)

// Shared validator instance to avoid creating multiple instances
var validate *validator.Validate

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("notblank", validators.NotBlank)

	// Field-level rules for the moderation enums
	_ = validate.RegisterValidation("report_type", func(fl validator.FieldLevel) bool {
		return domain.ReportType(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("report_status", func(fl validator.FieldLevel) bool {
		return domain.ReportStatus(fl.Field().String()).Valid()
	})
}

// Get returns the shared validator instance
func Get() *validator.Validate {
	return validate
}

// Fields returns the names of the struct fields that failed validation
func Fields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}
