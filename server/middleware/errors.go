package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kbukum/fluency/errors"
)

func tooLarge(limit int64) *errors.AppError {
	return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("Request body exceeds %d bytes.", limit), http.StatusRequestEntityTooLarge).
		WithDetail("limit", limit)
}

func writeError(w http.ResponseWriter, appErr *errors.AppError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(appErr.ToResponse())
}
