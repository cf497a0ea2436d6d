package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var candidateStatuses = map[string]bool{
	"ACTIVE":      true,
	"INACTIVE":    true,
	"BLACKLISTED": true,
}

// New returns a validator that reports JSON field names and knows the
// custom tags below.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("notblank", NotBlank)
	_ = v.RegisterValidation("candidate_status", CandidateStatus)
}

// NotBlank rejects strings made only of whitespace.
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// CandidateStatus accepts the three statuses the backend produces.
func CandidateStatus(fl validator.FieldLevel) bool {
	return candidateStatuses[fl.Field().String()]
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
