// Package validator runs go-playground struct validation and reports
// failures as a field->tag map that handlers can render directly.
package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldErrors maps a failing field to the validation tag it broke. It
// implements error so services can hand it up through their normal error
// return without losing the per-field detail.
type FieldErrors map[string]string

func (e FieldErrors) Error() string { return "validation error" }

// Validate checks v's validate tags and returns nil when everything passes.
func Validate(v interface{}) FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	out := make(FieldErrors)
	for _, fe := range err.(validator.ValidationErrors) {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
