package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"trolleyseal/middleware"
	"trolleyseal/models"
	"trolleyseal/store"
)

type FlightHandler struct {
	Store *store.FlightStore
}

// List handles GET /api/flights: recent non-archived flights plus the
// per-flight seal counts the dashboard badges need.
func (h *FlightHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}

	windowHours := store.DefaultWindowHours
	if raw := r.URL.Query().Get("window_hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, ApiResponse{
				Success: false,
				Message: "window_hours must be a positive integer",
			})
			return
		}
		windowHours = parsed
	}

	flights, err := h.Store.ListActive(r.Context(), windowHours)
	if err != nil {
		writeOperationError(w, err, "Failed to fetch flights")
		return
	}

	counts, err := h.Store.SealCounts(r.Context())
	if err != nil {
		writeOperationError(w, err, "Failed to fetch seal counts")
		return
	}

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Flights fetched successfully",
		Data: map[string]interface{}{
			"flights":     flights,
			"seal_counts": counts,
		},
	})
}

// Get handles GET /api/flights/get?id=...
func (h *FlightHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "id query parameter is required",
		})
		return
	}

	flight, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		writeOperationError(w, err, "Failed to fetch flight")
		return
	}

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Flight fetched successfully",
		Data:    flight,
	})
}

// Create handles POST /api/flights/create.
func (h *FlightHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ApiResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}

	var req struct {
		FlightNumber  string    `json:"flight_number"`
		Destination   string    `json:"destination"`
		DepartureTime time.Time `json:"departure_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "Invalid request payload: " + err.Error(),
		})
		return
	}

	flight, err := h.Store.Create(r.Context(), req.FlightNumber, req.Destination, req.DepartureTime, models.StatusPending, user)
	if err != nil {
		writeOperationError(w, err, "Failed to create flight")
		return
	}

	writeJSON(w, http.StatusCreated, ApiResponse{
		Success: true,
		Message: "Flight created successfully",
		Data:    flight,
	})
}

// Archive handles POST /api/flights/archive?id=... The flight is retained
// with deleted status so its scan history stays auditable.
func (h *FlightHandler) Archive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "id query parameter is required",
		})
		return
	}

	if err := h.Store.Archive(r.Context(), id); err != nil {
		writeOperationError(w, err, "Failed to archive flight")
		return
	}

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Flight archived successfully",
	})
}

// UpdateAuxiliary handles PATCH /api/flights/auxiliary?id=... with a partial
// update of hi-lift seals, padlock total and driver details.
func (h *FlightHandler) UpdateAuxiliary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch && r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "id query parameter is required",
		})
		return
	}

	var aux models.FlightAuxiliary
	if err := json.NewDecoder(r.Body).Decode(&aux); err != nil {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "Invalid request payload: " + err.Error(),
		})
		return
	}

	if err := h.Store.UpdateAuxiliary(r.Context(), id, aux); err != nil {
		writeOperationError(w, err, "Failed to update flight details")
		return
	}

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Flight details updated successfully",
	})
}
