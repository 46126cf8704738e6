package handlers

import (
	"encoding/json"
	"net/http"

	"trolleyseal/middleware"
	"trolleyseal/models"
	"trolleyseal/store"
)

type SealHandler struct {
	Stores *store.SealStores
}

// List handles GET /api/seals?flight_id=...&equipment_type=... and returns
// the scans in scan order, refreshed from the remote store.
func (h *SealHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}

	flightID := r.URL.Query().Get("flight_id")
	if flightID == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "flight_id query parameter is required",
		})
		return
	}

	sealStore := h.Stores.ForFlight(flightID)
	scans, err := sealStore.LoadAll(r.Context())
	if err != nil {
		writeOperationError(w, err, "Failed to fetch seal scans")
		return
	}

	if kind := r.URL.Query().Get("equipment_type"); kind != "" {
		if !models.ValidEquipmentKind(kind) {
			writeJSON(w, http.StatusBadRequest, ApiResponse{
				Success: false,
				Message: "Unknown equipment type: " + kind,
			})
			return
		}
		scans = sealStore.Kind(models.EquipmentKind(kind))
	}

	if scans == nil {
		scans = []models.SealScan{}
	}

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Seal scans fetched successfully",
		Data:    scans,
	})
}

// Add handles POST /api/seals/add. A blank seal number is accepted and
// dropped without touching the store; scanners occasionally fire empty
// reads and those must not become rows.
func (h *SealHandler) Add(w http.ResponseWriter, r *http.Request) {
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
		FlightID      string `json:"flight_id"`
		EquipmentType string `json:"equipment_type"`
		SealNumber    string `json:"seal_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "Invalid request payload: " + err.Error(),
		})
		return
	}

	if req.FlightID == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "flight_id is required",
		})
		return
	}

	sealStore := h.Stores.ForFlight(req.FlightID)
	scan, err := sealStore.Add(r.Context(), models.EquipmentKind(req.EquipmentType), req.SealNumber, user)
	if err != nil {
		writeOperationError(w, err, "Failed to record seal scan")
		return
	}
	if scan == nil {
		writeJSON(w, http.StatusOK, ApiResponse{
			Success: true,
			Message: "Blank seal number ignored",
		})
		return
	}

	writeJSON(w, http.StatusCreated, ApiResponse{
		Success: true,
		Message: "Seal scan recorded successfully",
		Data:    scan,
	})
}

// Remove handles DELETE /api/seals/remove?flight_id=...&id=...
func (h *SealHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}

	flightID := r.URL.Query().Get("flight_id")
	sealID := r.URL.Query().Get("id")
	if flightID == "" || sealID == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "flight_id and id query parameters are required",
		})
		return
	}

	sealStore := h.Stores.ForFlight(flightID)
	if err := sealStore.Remove(r.Context(), sealID); err != nil {
		writeOperationError(w, err, "Failed to remove seal scan")
		return
	}

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Seal scan removed successfully",
	})
}
