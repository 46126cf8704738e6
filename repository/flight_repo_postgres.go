package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"trolleyseal/models"
)

type PostgresFlightRepo struct {
	DB *sql.DB
}

func NewPostgresFlightRepo(db *sql.DB) *PostgresFlightRepo {
	return &PostgresFlightRepo{DB: db}
}

const flightColumns = `
	id, flight_number, destination, departure_time, status,
	created_by, created_at, hi_lift_1, hi_lift_2,
	padlock_total, driver_name, driver_id, pdf_created_at, pdf_path
`

func scanFlight(scanner interface{ Scan(...interface{}) error }) (*models.Flight, error) {
	var f models.Flight
	var hiLift1JSON, hiLift2JSON []byte
	err := scanner.Scan(
		&f.ID, &f.FlightNumber, &f.Destination, &f.DepartureTime, &f.Status,
		&f.CreatedBy, &f.CreatedAt, &hiLift1JSON, &hiLift2JSON,
		&f.PadlockTotal, &f.DriverName, &f.DriverID, &f.PdfCreatedAt, &f.PdfPath,
	)
	if err != nil {
		return nil, err
	}
	if len(hiLift1JSON) > 0 {
		if err := json.Unmarshal(hiLift1JSON, &f.HiLift1); err != nil {
			return nil, err
		}
	}
	if len(hiLift2JSON) > 0 {
		if err := json.Unmarshal(hiLift2JSON, &f.HiLift2); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

func (r *PostgresFlightRepo) ListActive(ctx context.Context, since time.Time) ([]*models.Flight, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+flightColumns+`
		FROM flights
		WHERE status <> $1 AND created_at >= $2
		ORDER BY created_at DESC
	`, string(models.StatusDeleted), since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

func (r *PostgresFlightRepo) GetByID(ctx context.Context, id string) (*models.Flight, error) {
	f, err := scanFlight(r.DB.QueryRowContext(ctx, `
		SELECT `+flightColumns+`
		FROM flights
		WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *PostgresFlightRepo) Insert(ctx context.Context, flight *models.Flight) error {
	if flight.CreatedAt.IsZero() {
		flight.CreatedAt = time.Now().UTC()
	}
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO flights(flight_number, destination, departure_time, status, created_by, created_at)
		VALUES($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, flight.FlightNumber, flight.Destination, flight.DepartureTime,
		string(flight.Status), flight.CreatedBy, flight.CreatedAt).Scan(&flight.ID)
}

// SetStatus writes the new status. Deleted is terminal: once a flight is
// archived no other status may overwrite it.
func (r *PostgresFlightRepo) SetStatus(ctx context.Context, id string, status models.FlightStatus) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE flights
		SET status = $1
		WHERE id = $2 AND (status <> $3 OR $1 = $3)
	`, string(status), id, string(models.StatusDeleted))
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

// UpdateAuxiliary writes only the fields present in aux, leaving the rest
// of the row untouched.
func (r *PostgresFlightRepo) UpdateAuxiliary(ctx context.Context, id string, aux models.FlightAuxiliary) error {
	set := []string{}
	args := []interface{}{}
	i := 1

	appendJSON := func(column string, v *models.HiLift) error {
		if v == nil {
			return nil
		}
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		set = append(set, fmt.Sprintf("%s = $%d", column, i))
		args = append(args, data)
		i++
		return nil
	}
	if err := appendJSON("hi_lift_1", aux.HiLift1); err != nil {
		return err
	}
	if err := appendJSON("hi_lift_2", aux.HiLift2); err != nil {
		return err
	}
	if aux.PadlockTotal != nil {
		set = append(set, fmt.Sprintf("padlock_total = $%d", i))
		args = append(args, *aux.PadlockTotal)
		i++
	}
	if aux.DriverName != nil {
		set = append(set, fmt.Sprintf("driver_name = $%d", i))
		args = append(args, *aux.DriverName)
		i++
	}
	if aux.DriverID != nil {
		set = append(set, fmt.Sprintf("driver_id = $%d", i))
		args = append(args, *aux.DriverID)
		i++
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE flights SET %s WHERE id = $%d", strings.Join(set, ", "), i)
	res, err := r.DB.ExecContext(ctx, query, args...)
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

func (r *PostgresFlightRepo) UpdatePDFInfo(ctx context.Context, id string, path string, createdAt time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE flights
		SET pdf_path = $1, pdf_created_at = $2
		WHERE id = $3
	`, path, createdAt, id)
	return err
}
