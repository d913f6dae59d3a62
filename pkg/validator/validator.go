package validator

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// contactNumberPattern accepts international numbers: optional +, then 7 to
// 15 digits, with spaces or dashes as separators.
var contactNumberPattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{5,18}[0-9]$`)

func validContactNumber(fl validator.FieldLevel) bool {
	return contactNumberPattern.MatchString(fl.Field().String())
}

// RegisterCustomValidations adds domain rules to gin's binding validator.
// Call once at startup, before the first request is bound.
func RegisterCustomValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("contact_number", validContactNumber)
}
