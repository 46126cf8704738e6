package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trolleyseal/models"
	"trolleyseal/realtime"
	"trolleyseal/repository"

	"go.uber.org/zap"
)

// DefaultWindowHours is the rolling recency window for the active flight
// dashboard.
const DefaultWindowHours = 6

// FlightStore owns per-flight metadata and the derived per-flight seal
// counts shown on the dashboard.
type FlightStore struct {
	flights repository.FlightRepository
	seals   repository.SealScanRepository
	users   repository.UserRepository
	hub     *realtime.Hub
	log     *zap.Logger
}

func NewFlightStore(flights repository.FlightRepository, seals repository.SealScanRepository, users repository.UserRepository, hub *realtime.Hub, log *zap.Logger) *FlightStore {
	if log == nil {
		log = zap.NewNop()
	}
	if hub == nil {
		hub = realtime.NewHub(log)
	}
	return &FlightStore{
		flights: flights,
		seals:   seals,
		users:   users,
		hub:     hub,
		log:     log,
	}
}

// ListActive returns non-archived flights created within the window, newest
// first, with creator display names resolved by one batched lookup per
// distinct creator rather than one per flight.
func (s *FlightStore) ListActive(ctx context.Context, windowHours int) ([]*models.Flight, error) {
	if windowHours <= 0 {
		windowHours = DefaultWindowHours
	}
	since := time.Now().UTC().Add(-time.Duration(windowHours) * time.Hour)

	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	flights, err := s.flights.ListActive(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	distinct := make(map[string]struct{})
	var ids []string
	for _, f := range flights {
		if f.CreatedBy == "" {
			continue
		}
		if _, seen := distinct[f.CreatedBy]; !seen {
			distinct[f.CreatedBy] = struct{}{}
			ids = append(ids, f.CreatedBy)
		}
	}

	creators, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		// Names are decoration on the dashboard; the list itself is the
		// answer, so a failed lookup degrades rather than fails.
		s.log.Warn("creator name resolution failed", zap.Error(err))
		return flights, nil
	}
	for _, f := range flights {
		if u, ok := creators[f.CreatedBy]; ok {
			f.CreatedByUser = u
		}
	}
	return flights, nil
}

// SealCounts returns the total scan count per flight from a single
// aggregate fetch.
func (s *FlightStore) SealCounts(ctx context.Context) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()
	counts, err := s.seals.CountByFlight(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	return counts, nil
}

// GetByID fetches one flight; ErrNotFound when it does not exist.
func (s *FlightStore) GetByID(ctx context.Context, id string) (*models.Flight, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()
	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if flight == nil {
		return nil, ErrNotFound
	}
	return flight, nil
}

// Create validates the flight number locally and persists a new pending
// flight attributed to the acting user. Destination and departure time fall
// back to placeholders when unset; staff fill them in during the workflow.
func (s *FlightStore) Create(ctx context.Context, flightNumber, destination string, departureTime time.Time, status models.FlightStatus, actingUser *models.AppUser) (*models.Flight, error) {
	if actingUser == nil || actingUser.ID == "" {
		return nil, fmt.Errorf("%w: flight creation requires a signed-in user", ErrValidation)
	}
	flightNumber = strings.ToUpper(strings.TrimSpace(flightNumber))
	if !models.ValidFlightNumber(flightNumber) {
		return nil, fmt.Errorf("%w: flight number %q must be a two-letter carrier code followed by digits", ErrValidation, flightNumber)
	}
	if destination == "" {
		destination = "TBD"
	}
	if departureTime.IsZero() {
		departureTime = time.Now().UTC().Add(2 * time.Hour)
	}
	if status == "" {
		status = models.StatusPending
	}

	flight := &models.Flight{
		FlightNumber:  flightNumber,
		Destination:   destination,
		DepartureTime: departureTime,
		Status:        status,
		CreatedBy:     actingUser.ID,
		CreatedAt:     time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()
	if err := s.flights.Insert(ctx, flight); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	s.publish(flight.ID)
	return flight, nil
}

// Archive soft-deletes a flight. Archiving an already-archived flight is a
// no-op success; the record is retained for seal-scan audit history.
func (s *FlightStore) Archive(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if flight == nil {
		return ErrNotFound
	}
	if flight.Status == models.StatusDeleted {
		return nil
	}

	if err := s.flights.SetStatus(ctx, id, models.StatusDeleted); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	s.publish(id)
	return nil
}

// UpdateAuxiliary applies a partial update of the hi-lift, padlock and
// driver fields. Fields absent from aux stay untouched. Concurrent edits
// follow last-write-wins at the remote layer.
func (s *FlightStore) UpdateAuxiliary(ctx context.Context, id string, aux models.FlightAuxiliary) error {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()
	if err := s.flights.UpdateAuxiliary(ctx, id, aux); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	s.publish(id)
	return nil
}

// MarkPrinted records the post-print status transition. It is
// fire-and-forget bookkeeping: a persistence failure is logged, never
// surfaced, and the printed report is unaffected. A flight archived
// between print and this write stays archived; deleted is terminal.
func (s *FlightStore) MarkPrinted(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		s.log.Warn("failed to mark flight printed", zap.String("flight_id", id), zap.Error(err))
		return
	}
	if flight == nil {
		s.log.Warn("cannot mark unknown flight printed", zap.String("flight_id", id))
		return
	}
	if flight.Status == models.StatusDeleted {
		s.log.Info("flight archived before print status recorded", zap.String("flight_id", id))
		return
	}

	if err := s.flights.SetStatus(ctx, id, models.StatusPrinted); err != nil {
		s.log.Warn("failed to mark flight printed", zap.String("flight_id", id), zap.Error(err))
		return
	}
	s.publish(id)
}

// RecordReportFile stores where the rendered report PDF was archived.
func (s *FlightStore) RecordReportFile(ctx context.Context, id, path string, createdAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()
	if err := s.flights.UpdatePDFInfo(ctx, id, path, createdAt); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return nil
}

// Subscribe registers onChange for flight-table invalidations. Cancel the
// subscription when the consuming view goes away.
func (s *FlightStore) Subscribe(flightID string, onChange func()) *realtime.Subscription {
	sub := s.hub.Subscribe(realtime.TableFlights, flightID)
	go func() {
		for range sub.C {
			onChange()
		}
	}()
	return sub
}

func (s *FlightStore) publish(flightID string) {
	s.hub.Publish(realtime.Event{Table: realtime.TableFlights, FlightID: flightID})
}
