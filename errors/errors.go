package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is a coded, classifiable error.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	// Retryable reports whether repeating the operation can succeed.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status a handler answers with.
	HTTPStatus int   `json:"-"`
	Cause      error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause records the underlying error and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets one detail and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// New creates an AppError whose Retryable flag follows code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

func newWithDetails(code ErrorCode, message string, httpStatus int, details map[string]any) *AppError {
	e := New(code, message, httpStatus)
	e.Details = details
	return e
}

// Wrap returns the first AppError in err's chain, or an internal error
// wrapping err. Wrap(nil) is nil.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// InvalidInput reports a request field that cannot be used.
func InvalidInput(field, reason string) *AppError {
	details := map[string]any{}
	if field != "" {
		details["field"] = field
	}
	return newWithDetails(ErrCodeInvalidInput, "Invalid input: "+reason, http.StatusBadRequest, details)
}

// InvalidFormat reports a value that does not parse as expected.
func InvalidFormat(field, expected string) *AppError {
	return newWithDetails(ErrCodeInvalidFormat,
		fmt.Sprintf("Invalid format for %s. Expected: %s", field, expected),
		http.StatusBadRequest,
		map[string]any{"field": field, "expected_format": expected})
}

// Validation reports a rejected edit form.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message, http.StatusUnprocessableEntity)
}

// NotFound reports a missing resource. A non-empty id is kept in Details.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return newWithDetails(ErrCodeNotFound, fmt.Sprintf("The requested %s was not found.", resource), http.StatusNotFound, details)
}

// FormatResourceError is NotFound for ids that are not strings.
func FormatResourceError(resource string, id any) *AppError {
	return NotFound(resource, fmt.Sprint(id))
}

// ServiceUnavailable reports a dependency that cannot take calls right now.
func ServiceUnavailable(service string) *AppError {
	return newWithDetails(ErrCodeServiceUnavailable,
		fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		http.StatusServiceUnavailable,
		map[string]any{"service": service})
}

// RateLimited reports a client over its request budget.
func RateLimited() *AppError {
	return New(ErrCodeRateLimited, "Too many requests. Please wait a moment and try again.", http.StatusTooManyRequests)
}

// Timeout reports an operation that ran out of time or was canceled.
func Timeout(operation string) *AppError {
	return newWithDetails(ErrCodeTimeout, "The request took too long. Please try again.",
		http.StatusGatewayTimeout, map[string]any{"operation": operation})
}

// ExternalServiceError wraps a failed call to service.
func ExternalServiceError(service string, cause error) *AppError {
	return newWithDetails(ErrCodeExternalService,
		fmt.Sprintf("The %s service encountered an error. Please try again.", service),
		http.StatusBadGateway,
		map[string]any{"service": service}).WithCause(cause)
}

// StorageError wraps a failed blob store operation.
func StorageError(cause error) *AppError {
	return New(ErrCodeStorageError, "A storage error occurred. Please try again.", http.StatusInternalServerError).WithCause(cause)
}

// Internal wraps an unexpected failure. It is never retryable.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.", http.StatusInternalServerError).WithCause(cause)
}
