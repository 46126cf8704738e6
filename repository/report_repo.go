package repository

import (
	"context"

	"trolleyseal/models"
)

// ReportRepository provides methods to fetch data for report rendering
type ReportRepository struct {
	FlightRepo FlightRepository
	SealRepo   SealScanRepository
}

func NewReportRepository(flightRepo FlightRepository, sealRepo SealScanRepository) *ReportRepository {
	return &ReportRepository{
		FlightRepo: flightRepo,
		SealRepo:   sealRepo,
	}
}

// GetFlightForReport fetches a single flight by ID for rendering
func (r *ReportRepository) GetFlightForReport(ctx context.Context, id string) (*models.Flight, error) {
	return r.FlightRepo.GetByID(ctx, id)
}

// GetScansForReport fetches all seal scans for the flight in scan order
func (r *ReportRepository) GetScansForReport(ctx context.Context, flightID string) ([]models.SealScan, error) {
	return r.SealRepo.ListByFlight(ctx, flightID, "")
}
