package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"trolleyseal/models"
	"trolleyseal/realtime"
	"trolleyseal/repository"

	"go.uber.org/zap"
)

const remoteTimeout = 10 * time.Second

// SealScanStore is the authoritative local cache of one flight's seal
// scans. It is either in sync with the last successful fetch or stale
// pending refresh; no half-applied state is ever visible to callers.
type SealScanStore struct {
	flightID string
	repo     repository.SealScanRepository
	hub      *realtime.Hub
	log      *zap.Logger

	mu    sync.Mutex
	seals []models.SealScan
}

func NewSealScanStore(repo repository.SealScanRepository, hub *realtime.Hub, log *zap.Logger, flightID string) *SealScanStore {
	if log == nil {
		log = zap.NewNop()
	}
	if hub == nil {
		hub = realtime.NewHub(log)
	}
	return &SealScanStore{
		flightID: flightID,
		repo:     repo,
		hub:      hub,
		log:      log,
	}
}

// LoadAll re-fetches the full scan list, ordered by scanned_at ascending.
// On failure the previous cache is returned untouched alongside
// ErrRemoteUnavailable; a failed fetch never destroys confirmed state.
func (s *SealScanStore) LoadAll(ctx context.Context) ([]models.SealScan, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	scans, err := s.repo.ListByFlight(ctx, s.flightID, "")
	if err != nil {
		return s.Snapshot(), fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	s.mu.Lock()
	s.seals = scans
	s.mu.Unlock()
	return s.Snapshot(), nil
}

// Kind returns the cached scans for one equipment kind, in scan order.
func (s *SealScanStore) Kind(kind models.EquipmentKind) []models.SealScan {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SealScan
	for _, scan := range s.seals {
		if scan.EquipmentKind == kind {
			out = append(out, scan)
		}
	}
	return out
}

// Snapshot returns a copy of the cached scan list.
func (s *SealScanStore) Snapshot() []models.SealScan {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SealScan, len(s.seals))
	copy(out, s.seals)
	return out
}

// Add records one seal for the flight. A blank seal number is a silent
// no-op, not an error: nothing is sent to the remote store and the cache
// is untouched. The cache is appended only after the insert is confirmed,
// so local state never runs ahead of persisted state.
func (s *SealScanStore) Add(ctx context.Context, kind models.EquipmentKind, sealNumber string, actingUser *models.AppUser) (*models.SealScan, error) {
	trimmed := strings.TrimSpace(sealNumber)
	if trimmed == "" {
		return nil, nil
	}
	if actingUser == nil || actingUser.ID == "" {
		return nil, fmt.Errorf("%w: seal scans require a signed-in user", ErrValidation)
	}
	if !models.ValidEquipmentKind(string(kind)) {
		return nil, fmt.Errorf("%w: unknown equipment kind %q", ErrValidation, kind)
	}

	scan := &models.SealScan{
		FlightID:      s.flightID,
		EquipmentKind: kind,
		SealNumber:    trimmed,
		ScannedAt:     time.Now().UTC(),
		CreatedBy:     actingUser.ID,
	}

	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()
	if err := s.repo.Insert(ctx, scan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	s.mu.Lock()
	s.seals = append(s.seals, *scan)
	s.mu.Unlock()

	s.hub.Publish(realtime.Event{Table: realtime.TableSealScans, FlightID: s.flightID})
	return scan, nil
}

// Remove deletes a scan by id. The policy is remove-then-confirm: the scan
// disappears locally first, and is re-added if the remote delete fails. A
// remote not-found is treated as success since the end state matches the
// caller's intent.
func (s *SealScanStore) Remove(ctx context.Context, sealID string) error {
	s.mu.Lock()
	idx := -1
	var removed models.SealScan
	for i, scan := range s.seals {
		if scan.ID == sealID {
			idx = i
			removed = scan
			break
		}
	}
	if idx >= 0 {
		s.seals = append(s.seals[:idx], s.seals[idx+1:]...)
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()
	err := s.repo.Delete(ctx, sealID)
	if err == nil || errors.Is(err, repository.ErrNotFound) {
		s.hub.Publish(realtime.Event{Table: realtime.TableSealScans, FlightID: s.flightID})
		return nil
	}

	if idx >= 0 {
		s.mu.Lock()
		s.seals = append(s.seals, removed)
		sort.SliceStable(s.seals, func(i, j int) bool {
			return s.seals[i].ScannedAt.Before(s.seals[j].ScannedAt)
		})
		s.mu.Unlock()
	}
	return fmt.Errorf("%w: %v", ErrPersistFailed, err)
}

// Subscribe registers onChange to run with a fresh snapshot whenever the
// remote store reports a change to this flight's scans. The full list is
// re-fetched on every event; per-flight datasets are small enough that
// this beats incremental patching. The returned subscription must be
// cancelled when the consuming view is torn down.
func (s *SealScanStore) Subscribe(onChange func([]models.SealScan)) *realtime.Subscription {
	sub := s.hub.Subscribe(realtime.TableSealScans, s.flightID)
	go func() {
		for range sub.C {
			scans, err := s.LoadAll(context.Background())
			if err != nil {
				s.log.Warn("seal refetch after change notification failed",
					zap.String("flight_id", s.flightID), zap.Error(err))
				continue
			}
			onChange(scans)
		}
	}()
	return sub
}
