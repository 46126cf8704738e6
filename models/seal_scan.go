package models

import "time"

// SealScan is one physical seal applied to one equipment unit. Scans are
// never updated in place; correcting a seal means delete and re-add.
type SealScan struct {
	ID            string        `json:"id" bson:"_id,omitempty" db:"id"`
	FlightID      string        `json:"flight_id" bson:"flight_id" db:"flight_id"`
	EquipmentKind EquipmentKind `json:"equipment_type" bson:"equipment_type" db:"equipment_type"`
	SealNumber    string        `json:"seal_number" bson:"seal_number" db:"seal_number"`
	ScannedAt     time.Time     `json:"scanned_at" bson:"scanned_at" db:"scanned_at"`
	CreatedBy     string        `json:"created_by" bson:"created_by" db:"created_by"`
}
