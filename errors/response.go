package errors

// ErrorResponse is the JSON envelope handlers write for a failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the client-visible part of an AppError.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Kind      ErrorKind      `json:"kind"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse builds the response envelope for e. The cause is not exposed.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Code:      e.Code,
		Kind:      Kind(e),
		Message:   e.Message,
		Retryable: e.Retryable,
		Details:   e.Details,
	}}
}
