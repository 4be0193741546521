package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joestump/superheroes/internal/heroes"
	"github.com/joestump/superheroes/internal/store"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeStoreError maps a store failure onto the error response.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrSuperseded):
		writeError(w, http.StatusConflict, err.Error(), "SUPERSEDED")
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, err.Error(), "CANCELED")
		return
	}
	e := heroes.Classify(err)
	writeError(w, statusFor(e.Code), e.Message, string(e.Code))
}

func statusFor(code heroes.Code) int {
	switch code {
	case heroes.CodeInvalidName:
		return http.StatusBadRequest
	case heroes.CodeNotFound:
		return http.StatusNotFound
	case heroes.CodeDuplicateID, heroes.CodeDuplicateName:
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}
