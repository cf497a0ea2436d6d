package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps JSON field names to user-friendly labels
var FieldLabels = map[string]string{
	"email":         "Email",
	"firstName":     "First name",
	"lastName":      "Last name",
	"phone":         "Phone",
	"resumeUrl":     "Resume URL",
	"linkedinUrl":   "LinkedIn URL",
	"skills":        "Skills",
	"experience":    "Experience",
	"location":      "Location",
	"salary":        "Salary",
	"page":          "Page",
	"limit":         "Limit",
	"minExperience": "Minimum experience",
	"maxExperience": "Maximum experience",
	"status":        "Status",
}

// FieldErrors converts validator.ValidationErrors to a field -> message map.
// Non-validation errors come back under the "_" key.
func FieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": err.Error()}
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		if _, seen := fields[e.Field()]; seen {
			continue
		}
		fields[e.Field()] = formatSingleError(e)
	}
	return fields
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)

	case "notblank":
		return fmt.Sprintf("%s must not be blank", label)

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		if param == "0" {
			return fmt.Sprintf("%s cannot be negative", label)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s too long (max %s characters)", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)

	case "email":
		return "Invalid email address"

	case "url":
		return fmt.Sprintf("%s: Invalid URL", label)

	case "candidate_status":
		return fmt.Sprintf("%s must be one of: ACTIVE, INACTIVE, BLACKLISTED", label)

	default:
		// Fallback for unknown tags
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	// Return field name with spaces between camelCase words
	return formatCamelCase(fieldName)
}

// formatCamelCase converts camelCase to capitalised, spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i == 0 {
			r = unicode.ToUpper(r)
		} else if unicode.IsUpper(r) {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
