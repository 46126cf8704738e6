package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"trolleyseal/realtime"

	"go.uber.org/zap"
)

// EventsHandler streams change notifications to browsers over SSE so the
// scan view and the dashboard refresh without polling.
type EventsHandler struct {
	Hub *realtime.Hub
	Log *zap.Logger
}

// Stream handles GET /api/events?flight_id=... Each event names the table
// that changed; the client re-fetches the affected list. The subscription
// is cancelled when the client disconnects.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, ApiResponse{
			Success: false,
			Message: "Streaming unsupported",
		})
		return
	}

	flightID := r.URL.Query().Get("flight_id")

	flightSub := h.Hub.Subscribe(realtime.TableFlights, flightID)
	defer flightSub.Cancel()
	sealSub := h.Hub.Subscribe(realtime.TableSealScans, flightID)
	defer sealSub.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Comment lines keep intermediaries from closing an idle stream.
	keepalive := time.NewTicker(25 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-flightSub.C:
			if !open {
				return
			}
			h.writeEvent(w, flusher, ev)
		case ev, open := <-sealSub.C:
			if !open {
				return
			}
			h.writeEvent(w, flusher, ev)
		case <-keepalive.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *EventsHandler) writeEvent(w http.ResponseWriter, flusher http.Flusher, ev realtime.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.Log.Warn("failed to encode realtime event", zap.Error(err))
		return
	}
	if _, err := w.Write([]byte("event: change\ndata: " + string(payload) + "\n\n")); err != nil {
		return
	}
	flusher.Flush()
}
