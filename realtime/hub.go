// Package realtime delivers change-notification events from the remote
// store to in-process subscribers. Events carry no payload beyond which
// table and flight changed; consumers re-fetch rather than patch.
package realtime

import (
	"sync"

	"go.uber.org/zap"
)

type Table string

const (
	TableFlights   Table = "flights"
	TableSealScans Table = "seal_scans"
)

// Event is a pure invalidation signal. FlightID may be empty for changes
// that are not scoped to one flight.
type Event struct {
	Table    Table  `json:"table"`
	FlightID string `json:"flight_id,omitempty"`
}

// Subscription is a cancellable event feed. Callers must Cancel when the
// consuming view is torn down, on every exit path.
type Subscription struct {
	C      <-chan Event
	cancel func()
	once   sync.Once
}

func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

type subscriber struct {
	table    Table
	flightID string
	ch       chan Event
}

// Hub fans invalidation events out to subscribers. Sends never block: a
// subscriber that cannot keep up loses intermediate events, which is safe
// because every event means the same thing: re-fetch.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]*subscriber
	nextID int
	closed bool
	log    *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		subs: make(map[int]*subscriber),
		log:  log,
	}
}

// Subscribe registers for events on one table, optionally filtered to one
// flight. An empty flightID matches every flight.
func (h *Hub) Subscribe(table Table, flightID string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	sub := &subscriber{
		table:    table,
		flightID: flightID,
		ch:       make(chan Event, 8),
	}
	if !h.closed {
		h.subs[id] = sub
	} else {
		close(sub.ch)
	}

	return &Subscription{
		C: sub.ch,
		cancel: func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if s, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(s.ch)
			}
		},
	}
}

// Publish delivers an event to every matching subscriber.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		if sub.table != ev.Table {
			continue
		}
		if sub.flightID != "" && ev.FlightID != "" && sub.flightID != ev.FlightID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			h.log.Debug("dropping realtime event for slow subscriber",
				zap.String("table", string(ev.Table)),
				zap.String("flight_id", ev.FlightID))
		}
	}
}

// Close cancels every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}
