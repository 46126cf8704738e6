package realtime

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// NotifyChannel is the Postgres NOTIFY channel the row-change triggers
// publish on (see db/migrations).
const NotifyChannel = "row_changes"

type notifyPayload struct {
	Table    string `json:"table"`
	FlightID string `json:"flight_id"`
}

// PGListener bridges Postgres LISTEN/NOTIFY into the hub so that writes
// from other server instances invalidate local caches too.
type PGListener struct {
	listener *pq.Listener
	hub      *Hub
	log      *zap.Logger
	done     chan struct{}
}

func NewPGListener(conninfo string, hub *Hub, log *zap.Logger) *PGListener {
	if log == nil {
		log = zap.NewNop()
	}
	l := pq.NewListener(conninfo, 10*time.Second, time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Warn("postgres listener event", zap.Int("event", int(ev)), zap.Error(err))
			}
		})
	return &PGListener{
		listener: l,
		hub:      hub,
		log:      log,
		done:     make(chan struct{}),
	}
}

// Start begins listening and pumping notifications into the hub.
func (p *PGListener) Start() error {
	if err := p.listener.Listen(NotifyChannel); err != nil {
		return err
	}
	go p.loop()
	return nil
}

func (p *PGListener) loop() {
	for {
		select {
		case <-p.done:
			return
		case n, ok := <-p.listener.Notify:
			if !ok {
				return
			}
			// A nil notification means the connection was re-established;
			// subscribers cannot tell what changed meanwhile, so fan out a
			// blanket invalidation for both tables.
			if n == nil {
				p.hub.Publish(Event{Table: TableFlights})
				p.hub.Publish(Event{Table: TableSealScans})
				continue
			}
			var payload notifyPayload
			if err := json.Unmarshal([]byte(n.Extra), &payload); err != nil {
				p.log.Warn("malformed notify payload", zap.String("payload", n.Extra), zap.Error(err))
				continue
			}
			p.hub.Publish(Event{Table: Table(payload.Table), FlightID: payload.FlightID})
		case <-time.After(90 * time.Second):
			// Keep the connection honest during quiet periods.
			go func() {
				if err := p.listener.Ping(); err != nil {
					p.log.Warn("postgres listener ping failed", zap.Error(err))
				}
			}()
		}
	}
}

func (p *PGListener) Close() error {
	close(p.done)
	return p.listener.Close()
}
