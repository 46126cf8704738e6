package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"trolleyseal/store"
	"trolleyseal/workflow"
)

type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusForError maps the store error taxonomy onto HTTP statuses. Raw
// driver errors never reach here; the stores guarantee that.
func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, store.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, store.ErrPersistFailed):
		return http.StatusBadGateway
	case errors.Is(err, workflow.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeOperationError(w http.ResponseWriter, err error, context string) {
	msg := err.Error()
	if context != "" {
		msg = context + ": " + msg
	}
	writeJSON(w, statusForError(err), ApiResponse{
		Success: false,
		Message: msg,
	})
}
