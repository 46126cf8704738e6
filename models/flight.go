package models

import (
	"regexp"
	"time"
)

type FlightStatus string

const (
	StatusPending    FlightStatus = "pending"
	StatusInProgress FlightStatus = "in-progress"
	StatusCompleted  FlightStatus = "completed"
	StatusPrinted    FlightStatus = "printed"
	StatusDeleted    FlightStatus = "deleted"
)

// HiLift records the seals applied to one hi-lift truck serving the flight.
type HiLift struct {
	UnitNumber string `json:"unit_number" bson:"unit_number" db:"unit_number"`
	FrontSeal  string `json:"front_seal" bson:"front_seal" db:"front_seal"`
	RearSeal   string `json:"rear_seal" bson:"rear_seal" db:"rear_seal"`
}

type Flight struct {
	ID            string       `json:"id" bson:"_id,omitempty" db:"id"`
	FlightNumber  string       `json:"flight_number" bson:"flight_number" db:"flight_number"`
	Destination   string       `json:"destination" bson:"destination" db:"destination"`
	DepartureTime time.Time    `json:"departure_time" bson:"departure_time" db:"departure_time"`
	Status        FlightStatus `json:"status" bson:"status" db:"status"`
	CreatedBy     string       `json:"created_by" bson:"created_by" db:"created_by"`
	CreatedAt     time.Time    `json:"created_at" bson:"created_at" db:"created_at"`

	HiLift1      *HiLift `json:"hi_lift_1,omitempty" bson:"hi_lift_1,omitempty"`
	HiLift2      *HiLift `json:"hi_lift_2,omitempty" bson:"hi_lift_2,omitempty"`
	PadlockTotal *int    `json:"padlock_total,omitempty" bson:"padlock_total,omitempty" db:"padlock_total"`
	DriverName   *string `json:"driver_name,omitempty" bson:"driver_name,omitempty" db:"driver_name"`
	DriverID     *string `json:"driver_id,omitempty" bson:"driver_id,omitempty" db:"driver_id"`

	PdfCreatedAt *time.Time `json:"pdf_created_at,omitempty" bson:"pdf_created_at,omitempty" db:"pdf_created_at"`
	PdfPath      *string    `json:"pdf_path,omitempty" bson:"pdf_path,omitempty" db:"pdf_path"`

	// Denormalized for list responses.
	CreatedByUser *AppUser `json:"created_by_user,omitempty" bson:"-"`
}

// FlightAuxiliary carries a partial update of the optional flight fields.
// Nil fields are left untouched by UpdateAuxiliary.
type FlightAuxiliary struct {
	HiLift1      *HiLift `json:"hi_lift_1,omitempty"`
	HiLift2      *HiLift `json:"hi_lift_2,omitempty"`
	PadlockTotal *int    `json:"padlock_total,omitempty"`
	DriverName   *string `json:"driver_name,omitempty"`
	DriverID     *string `json:"driver_id,omitempty"`
}

// Flight numbers follow the two-letter carrier prefix plus digits
// convention, e.g. "TR123".
var flightNumberPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]+$`)

func ValidFlightNumber(s string) bool {
	return flightNumberPattern.MatchString(s)
}
