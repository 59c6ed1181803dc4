package request

import (
	"hotel-reservation/internal/domain/stay"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding rules to gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("dateonly", isDateOnly)
}

// dateonly: YYYY-MM-DD
func isDateOnly(fl validator.FieldLevel) bool {
	_, err := stay.ParseDay(fl.Field().String())
	return err == nil
}
