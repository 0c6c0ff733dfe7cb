// Package validation builds the go-playground validator shared by the registration
// form and the reference backend. Besides the built-in rules it knows:
//   - notblank: the value is not empty after trimming whitespace;
//   - state: the value is a key of the geo table;
//   - a struct-level rule on models.UserPayload requiring the city to belong to the state.
package validation

import (
	"sync"

	validator "github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/patric-chuzhbe/usersignup/internal/geo"
	"github.com/patric-chuzhbe/usersignup/internal/models"
)

var (
	once     sync.Once
	instance *validator.Validate
	initErr  error
)

func validateState(fieldLevel validator.FieldLevel) bool {
	return geo.IsState(fieldLevel.Field().String())
}

func validateCityBelongsToState(structLevel validator.StructLevel) {
	payload := structLevel.Current().Interface().(models.UserPayload)
	if payload.State == "" || payload.City == "" {
		return
	}
	if !geo.HasCity(payload.State, payload.City) {
		structLevel.ReportError(payload.City, "City", "city", "city", payload.State)
	}
}

func build() (*validator.Validate, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, err
	}

	if err := validate.RegisterValidation("state", validateState); err != nil {
		return nil, err
	}

	validate.RegisterStructValidation(validateCityBelongsToState, models.UserPayload{})

	return validate, nil
}

// New returns the process-wide validator. It is safe for concurrent use.
func New() (*validator.Validate, error) {
	once.Do(func() {
		instance, initErr = build()
	})

	return instance, initErr
}
