// Package validation validates HTTP request bodies at the transport boundary.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"samarth/internal/interfaces/http/dto"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with JSON field names and
// readable messages.
type Validator struct {
	validate *validator.Validate
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the shared validator instance
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate validates a struct and returns dto.ValidationErrors on failure.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := dto.ValidationErrors{}
	for _, e := range verrs {
		out.Errors = append(out.Errors, dto.ValidationError{
			Field:   e.Field(),
			Message: message(e.Tag(), e.Param()),
			Code:    strings.ToUpper(e.Tag()),
		})
	}
	return out
}

func message(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", param)
	case "min":
		return fmt.Sprintf("Must be at least %s characters", param)
	default:
		return fmt.Sprintf("Failed %s validation", tag)
	}
}
