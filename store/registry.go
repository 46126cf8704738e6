package store

import (
	"sync"

	"trolleyseal/realtime"
	"trolleyseal/repository"

	"go.uber.org/zap"
)

// SealStores hands out one SealScanStore per flight so that every caller
// touching the same flight shares one cache.
type SealStores struct {
	repo repository.SealScanRepository
	hub  *realtime.Hub
	log  *zap.Logger

	mu     sync.Mutex
	stores map[string]*SealScanStore
}

func NewSealStores(repo repository.SealScanRepository, hub *realtime.Hub, log *zap.Logger) *SealStores {
	return &SealStores{
		repo:   repo,
		hub:    hub,
		log:    log,
		stores: make(map[string]*SealScanStore),
	}
}

func (r *SealStores) ForFlight(flightID string) *SealScanStore {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[flightID]
	if !ok {
		s = NewSealScanStore(r.repo, r.hub, r.log, flightID)
		r.stores[flightID] = s
	}
	return s
}

// Release drops the cached store for a flight, e.g. after archival.
func (r *SealStores) Release(flightID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, flightID)
}
