package repository

import (
	"context"
	"database/sql"
	"time"

	"trolleyseal/models"
)

type PostgresSealRepo struct {
	DB *sql.DB
}

func NewPostgresSealRepo(db *sql.DB) *PostgresSealRepo {
	return &PostgresSealRepo{DB: db}
}

func (r *PostgresSealRepo) ListByFlight(ctx context.Context, flightID string, kind models.EquipmentKind) ([]models.SealScan, error) {
	query := `
		SELECT id, flight_id, equipment_type, seal_number, scanned_at, created_by
		FROM seal_scans
		WHERE flight_id = $1
	`
	args := []interface{}{flightID}
	if kind != "" {
		query += ` AND equipment_type = $2`
		args = append(args, string(kind))
	}
	query += ` ORDER BY scanned_at ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.SealScan
	for rows.Next() {
		var s models.SealScan
		if err := rows.Scan(&s.ID, &s.FlightID, &s.EquipmentKind, &s.SealNumber, &s.ScannedAt, &s.CreatedBy); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *PostgresSealRepo) Insert(ctx context.Context, scan *models.SealScan) error {
	if scan.ScannedAt.IsZero() {
		scan.ScannedAt = time.Now().UTC()
	}
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO seal_scans(flight_id, equipment_type, seal_number, scanned_at, created_by)
		VALUES($1,$2,$3,$4,$5)
		RETURNING id
	`, scan.FlightID, string(scan.EquipmentKind), scan.SealNumber, scan.ScannedAt, scan.CreatedBy).Scan(&scan.ID)
}

func (r *PostgresSealRepo) Delete(ctx context.Context, sealID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM seal_scans WHERE id = $1`, sealID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresSealRepo) CountByFlight(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT flight_id, COUNT(*)
		FROM seal_scans
		GROUP BY flight_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var flightID string
		var n int
		if err := rows.Scan(&flightID, &n); err != nil {
			return nil, err
		}
		counts[flightID] = n
	}
	return counts, rows.Err()
}
