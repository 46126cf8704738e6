package handlers

import (
	"encoding/json"
	"net/http"

	"trolleyseal/middleware"
	"trolleyseal/models"
	"trolleyseal/store"
	"trolleyseal/workflow"
)

// WorkflowHandler exposes the per-session capture workflow: flight list,
// equipment selection, scanning, preview, plus the archive confirmation
// modal. Every endpoint operates on the signed-in user's own controller.
type WorkflowHandler struct {
	Manager *workflow.Manager
	Flights *store.FlightStore
	Seals   *store.SealStores
}

func (h *WorkflowHandler) controller(r *http.Request) (*workflow.Controller, bool) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return nil, false
	}
	return h.Manager.For(user.ID), true
}

// State handles GET /api/workflow/state.
func (h *WorkflowHandler) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}
	ctl, ok := h.controller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ApiResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Workflow state fetched successfully",
		Data:    ctl.State(),
	})
}

// SelectFlight handles POST /api/workflow/select-flight.
func (h *WorkflowHandler) SelectFlight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}
	ctl, ok := h.controller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ApiResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}

	var req struct {
		FlightID string `json:"flight_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "Invalid request payload: " + err.Error(),
		})
		return
	}

	// The flight must exist and be active before the workflow advances.
	if _, err := h.Flights.GetByID(r.Context(), req.FlightID); err != nil {
		writeOperationError(w, err, "Failed to select flight")
		return
	}

	if err := ctl.SelectFlight(req.FlightID); err != nil {
		writeOperationError(w, err, "Failed to select flight")
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Flight selected",
		Data:    ctl.State(),
	})
}

// SelectEquipment handles POST /api/workflow/select-equipment.
func (h *WorkflowHandler) SelectEquipment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}
	ctl, ok := h.controller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ApiResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}

	var req struct {
		EquipmentType string `json:"equipment_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "Invalid request payload: " + err.Error(),
		})
		return
	}

	if err := ctl.SelectEquipment(models.EquipmentKind(req.EquipmentType)); err != nil {
		writeOperationError(w, err, "Failed to select equipment")
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Equipment selected",
		Data:    ctl.State(),
	})
}

// Preview handles POST /api/workflow/preview.
func (h *WorkflowHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}
	ctl, ok := h.controller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ApiResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}
	if err := ctl.ToPreview(); err != nil {
		writeOperationError(w, err, "Failed to open preview")
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Preview opened",
		Data:    ctl.State(),
	})
}

// Back handles POST /api/workflow/back.
func (h *WorkflowHandler) Back(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}
	ctl, ok := h.controller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ApiResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}
	ctl.Back()
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Navigated back",
		Data:    ctl.State(),
	})
}

// RequestArchive handles POST /api/workflow/archive/request.
func (h *WorkflowHandler) RequestArchive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}
	ctl, ok := h.controller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ApiResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}

	var req struct {
		FlightID string `json:"flight_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "Invalid request payload: " + err.Error(),
		})
		return
	}

	if err := ctl.RequestArchive(req.FlightID); err != nil {
		writeOperationError(w, err, "Failed to open archive confirmation")
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Archive confirmation opened",
		Data:    ctl.State(),
	})
}

// ConfirmArchive handles POST /api/workflow/archive/confirm. The flight is
// archived only after this explicit confirmation.
func (h *WorkflowHandler) ConfirmArchive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}
	ctl, ok := h.controller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ApiResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}

	flightID, err := ctl.ConfirmArchive()
	if err != nil {
		writeOperationError(w, err, "Failed to confirm archive")
		return
	}

	if err := h.Flights.Archive(r.Context(), flightID); err != nil {
		writeOperationError(w, err, "Failed to archive flight")
		return
	}
	h.Seals.Release(flightID)

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Flight archived successfully",
		Data:    ctl.State(),
	})
}

// CancelArchive handles POST /api/workflow/archive/cancel.
func (h *WorkflowHandler) CancelArchive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}
	ctl, ok := h.controller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ApiResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}
	ctl.CancelArchive()
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Archive cancelled",
		Data:    ctl.State(),
	})
}

// Reset handles POST /api/workflow/reset, returning to the flight list
// after printing or at logout.
func (h *WorkflowHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}
	ctl, ok := h.controller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ApiResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}
	ctl.Reset()
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Workflow reset",
		Data:    ctl.State(),
	})
}

// EquipmentCatalog handles GET /api/workflow/equipment and returns the
// selectable equipment kinds with their seal requirements.
func (h *WorkflowHandler) EquipmentCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Equipment catalog fetched successfully",
		Data:    models.EquipmentCatalog(),
	})
}
