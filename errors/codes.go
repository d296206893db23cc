package errors

// ErrorCode is a machine-readable error code.
type ErrorCode string

const (
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	// ErrCodeValidation is a submitted edit form that failed validation.
	ErrCodeValidation ErrorCode = "VALIDATION_FAILED"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	// ErrCodeConflict is an operation that does not fit the current state,
	// such as committing an edit against a replaced transcript.
	ErrCodeConflict ErrorCode = "CONFLICT"

	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	// ErrCodeExternalService is a failed call to another service.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeStorageError    ErrorCode = "STORAGE_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// IsRetryableCode reports whether an error with code may succeed if the
// same operation is attempted again.
func IsRetryableCode(code ErrorCode) bool {
	switch code {
	case ErrCodeServiceUnavailable, ErrCodeRateLimited, ErrCodeTimeout, ErrCodeExternalService, ErrCodeStorageError:
		return true
	}
	return false
}
