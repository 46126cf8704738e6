package realtime

import (
	"testing"
	"time"
)

func recvEvent(t *testing.T, c <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-c:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event arrived")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, c <-chan Event) {
	t.Helper()
	select {
	case ev := <-c:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubFiltersByTableAndFlight(t *testing.T) {
	h := NewHub(nil)
	defer h.Close()

	flights := h.Subscribe(TableFlights, "")
	defer flights.Cancel()
	oneFlight := h.Subscribe(TableSealScans, "flight-1")
	defer oneFlight.Cancel()

	h.Publish(Event{Table: TableFlights, FlightID: "flight-2"})
	ev := recvEvent(t, flights.C)
	if ev.FlightID != "flight-2" {
		t.Errorf("event = %+v", ev)
	}
	assertNoEvent(t, oneFlight.C)

	h.Publish(Event{Table: TableSealScans, FlightID: "flight-1"})
	recvEvent(t, oneFlight.C)
	assertNoEvent(t, flights.C)

	// Scoped subscribers still see unscoped invalidations.
	h.Publish(Event{Table: TableSealScans})
	recvEvent(t, oneFlight.C)
}

func TestHubCancelStopsDelivery(t *testing.T) {
	h := NewHub(nil)
	defer h.Close()

	sub := h.Subscribe(TableFlights, "")
	sub.Cancel()
	sub.Cancel() // idempotent

	if _, open := <-sub.C; open {
		t.Error("cancelled subscription channel should be closed")
	}
}

func TestHubSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	h := NewHub(nil)
	defer h.Close()

	sub := h.Subscribe(TableFlights, "")
	defer sub.Cancel()

	done := make(chan struct{})
	go func() {
		// Nobody drains sub.C; the buffer fills and the rest drop.
		for i := 0; i < 100; i++ {
			h.Publish(Event{Table: TableFlights, FlightID: "flight-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestHubClose(t *testing.T) {
	h := NewHub(nil)
	sub := h.Subscribe(TableFlights, "")
	h.Close()

	if _, open := <-sub.C; open {
		t.Error("close should end every subscription")
	}

	// Subscribing after close yields an already-closed feed.
	late := h.Subscribe(TableFlights, "")
	if _, open := <-late.C; open {
		t.Error("post-close subscription should be closed immediately")
	}
}
