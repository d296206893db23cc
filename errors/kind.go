package errors

// ErrorKind groups error codes into the categories the editor reacts to.
type ErrorKind string

const (
	// KindInput is a problem with what the user supplied, caught before any network call.
	KindInput ErrorKind = "input"
	// KindTransport is a failed or non-2xx exchange with a remote endpoint.
	KindTransport ErrorKind = "transport"
	// KindValidation is a rejected edit form. The edit session stays open.
	KindValidation ErrorKind = "validation"
	// KindConflict is an operation that does not fit the current state.
	KindConflict ErrorKind = "conflict"
	// KindInternal is everything else.
	KindInternal ErrorKind = "internal"
)

var codeKinds = map[ErrorCode]ErrorKind{
	ErrCodeInvalidInput:       KindInput,
	ErrCodeInvalidFormat:      KindInput,
	ErrCodeNotFound:           KindInput,
	ErrCodeValidation:         KindValidation,
	ErrCodeConflict:           KindConflict,
	ErrCodeServiceUnavailable: KindTransport,
	ErrCodeRateLimited:        KindTransport,
	ErrCodeTimeout:            KindTransport,
	ErrCodeExternalService:    KindTransport,
}

// Kind classifies err. A nil error has no kind and returns "".
func Kind(err error) ErrorKind {
	if err == nil {
		return ""
	}
	appErr, ok := AsAppError(err)
	if !ok {
		return KindInternal
	}
	if k, ok := codeKinds[appErr.Code]; ok {
		return k
	}
	return KindInternal
}
