// Package errors defines AppError, the single error type that crosses
// package boundaries in fluency.
//
// An AppError carries a machine-readable code, the HTTP status a handler
// should answer with, and whether retrying can help. Kind groups codes into
// the categories the editor reacts to:
//
//	if errors.Kind(err) == errors.KindValidation {
//	    // keep the edit form open
//	}
//
// Handlers serialize errors with ToResponse:
//
//	{"error":{"code":"NOT_FOUND","kind":"input","message":"...","retryable":false}}
package errors
