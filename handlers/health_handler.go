package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthHandler reports whether the service can reach its backing store.
type HealthHandler struct {
	Ping func(ctx context.Context) error
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, ApiResponse{
				Success: false,
				Message: "Database unreachable: " + err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "OK",
	})
}
