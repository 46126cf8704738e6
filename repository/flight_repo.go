package repository

import (
	"context"
	"time"

	"trolleyseal/models"
)

type FlightRepository interface {
	// ListActive returns non-deleted flights created at or after since,
	// newest first.
	ListActive(ctx context.Context, since time.Time) ([]*models.Flight, error)
	// GetByID returns nil, nil when the flight does not exist.
	GetByID(ctx context.Context, id string) (*models.Flight, error)
	// Insert persists a new flight; the store assigns flight.ID.
	Insert(ctx context.Context, flight *models.Flight) error
	SetStatus(ctx context.Context, id string, status models.FlightStatus) error
	// UpdateAuxiliary applies only the non-nil fields of aux.
	UpdateAuxiliary(ctx context.Context, id string, aux models.FlightAuxiliary) error
	UpdatePDFInfo(ctx context.Context, id string, path string, createdAt time.Time) error
}
