package errors

import (
	"fmt"
	"net/http"
)

// --- Editor Error Constructors ---

// NoFileSelected reports an upload attempted before any audio file was chosen.
func NoFileSelected() *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: "Please select a file to upload.",
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": "file"},
	}
}

// UnsupportedAudio reports an audio file whose extension is not accepted.
func UnsupportedAudio(ext string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidFormat, Message: fmt.Sprintf("Unsupported audio format %q.", ext),
		HTTPStatus: http.StatusUnsupportedMediaType, Retryable: false,
		Details: map[string]any{"field": "file", "extension": ext},
	}
}

// StaleEdit reports a commit whose word reference no longer matches the transcript.
func StaleEdit(index int, generation uint64) *AppError {
	return &AppError{
		Code: ErrCodeConflict, Message: "The transcript changed while this word was being edited.",
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"index": index, "generation": generation},
	}
}

// NotEditable reports an attempt to edit a word outside the current region.
func NotEditable(index int) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Word %d is not inside the selected region.", index),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"index": index},
	}
}

// NotReady reports an operation that needs loaded audio or a transcript.
func NotReady(operation string) *AppError {
	return &AppError{
		Code: ErrCodeConflict, Message: fmt.Sprintf("Cannot %s yet.", operation),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"operation": operation},
	}
}

// RegionOutOfBounds reports a region that does not satisfy 0 <= start < end <= duration.
func RegionOutOfBounds(start, end, duration float64) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Region [%.3f, %.3f] is outside [0, %.3f].", start, end, duration),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"start": start, "end": end, "duration": duration},
	}
}

// RegionTooShort reports a region narrower than the configured minimum length.
func RegionTooShort(length, minLength float64) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Region length %.3fs is below the minimum %.3fs.", length, minLength),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"length": length, "min_length": minLength},
	}
}
