package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kbukum/fluency/errors"
)

// FieldError is one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates field errors through chained checks:
//
//	err := validation.New().
//	    Required("text", f.Text).
//	    Ordered("end", start, end).
//	    Validate()
type Validator struct {
	fields []FieldError
}

// New returns an empty Validator.
func New() *Validator { return &Validator{} }

func (v *Validator) add(field, message string) *Validator {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
	return v
}

// Errors returns the failures collected so far, in check order.
func (v *Validator) Errors() []FieldError { return v.fields }

// Validate returns nil when every check passed. Otherwise it returns a
// VALIDATION_FAILED error listing each field, with the FieldErrors under
// Details["fields"].
func (v *Validator) Validate() *errors.AppError {
	return fieldErrors(v.fields)
}

func fieldErrors(fields []FieldError) *errors.AppError {
	if len(fields) == 0 {
		return nil
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", fields)
}

// Required fails on empty or whitespace-only values.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.add(field, "is required")
	}
	return v
}

// Seconds fails unless value is a finite, non-negative decimal.
func (v *Validator) Seconds(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.add(field, "is required")
	}
	if _, ok := ParseSeconds(value); !ok {
		return v.add(field, secondsMessage)
	}
	return v
}

// Ordered fails on field when lo > hi.
func (v *Validator) Ordered(field string, lo, hi float64) *Validator {
	if lo > hi {
		return v.add(field, fmt.Sprintf("must not be before %g", lo))
	}
	return v
}

// FloatRange fails unless lo <= value <= hi.
func (v *Validator) FloatRange(field string, value, lo, hi float64) *Validator {
	if value < lo || value > hi {
		return v.add(field, fmt.Sprintf("must be between %g and %g", lo, hi))
	}
	return v
}

// OneOf fails when a non-empty value is not in allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if value != "" && !slices.Contains(allowed, value) {
		return v.add(field, "must be one of: "+strings.Join(allowed, ", "))
	}
	return v
}

// Custom fails on field with message unless ok.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		return v.add(field, message)
	}
	return v
}
