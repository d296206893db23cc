// Package validation checks user input before it reaches domain state.
//
// It supports struct tag validation (go-playground/validator, with JSON tag
// names in messages) and a programmatic Validator that collects field errors.
// Both report failures as an errors.AppError with code VALIDATION_FAILED.
//
// # Struct Tag Validation
//
//	type EditForm struct {
//	    Text  string `json:"text" validate:"required"`
//	    Start string `json:"start" validate:"required,seconds"`
//	}
//	err := validation.Validate(form)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("text", text).Seconds("start", start)
//	err := v.Validate()
package validation
