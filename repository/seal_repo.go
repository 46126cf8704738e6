package repository

import (
	"context"

	"trolleyseal/models"
)

type SealScanRepository interface {
	// ListByFlight returns every scan for the flight ordered by scanned_at
	// ascending. An empty kind returns all equipment kinds.
	ListByFlight(ctx context.Context, flightID string, kind models.EquipmentKind) ([]models.SealScan, error)
	// Insert persists a new scan; the store assigns scan.ID.
	Insert(ctx context.Context, scan *models.SealScan) error
	// Delete removes a scan by id, returning ErrNotFound if it is gone.
	Delete(ctx context.Context, sealID string) error
	// CountByFlight returns total scan counts keyed by flight id, computed
	// in a single aggregate query.
	CountByFlight(ctx context.Context) (map[string]int, error)
}
