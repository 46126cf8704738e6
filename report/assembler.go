// Package report turns a flight's seal scans into the fixed-layout
// printable seal manifest. The assembly is pure: all data comes from the
// caller, and well-formed input never fails.
package report

import (
	"strconv"
	"strings"
	"time"

	"trolleyseal/models"
)

const (
	// DefaultWrapWidth is the widest seal-number line that fits the
	// printed column without clipping.
	DefaultWrapWidth = 50
	// DefaultTargetRows is the fixed row count of the printed table. The
	// form always shows this many rows; real data beyond it overflows the
	// page rather than being dropped.
	DefaultTargetRows = 25
)

type Options struct {
	WrapWidth  int
	TargetRows int
}

func (o Options) withDefaults() Options {
	if o.WrapWidth <= 0 {
		o.WrapWidth = DefaultWrapWidth
	}
	if o.TargetRows <= 0 {
		o.TargetRows = DefaultTargetRows
	}
	return o
}

// Row is one printed table row. Serial and Equipment are set only on the
// first row of a group; continuation rows carry seal numbers only.
type Row struct {
	Serial    string `json:"serial"`
	Equipment string `json:"equipment"`
	Seals     string `json:"seals"`
	Remarks   string `json:"remarks"`
	Blank     bool   `json:"blank"`
}

// Group is the per-equipment-kind summary preceding row layout.
type Group struct {
	Kind         models.EquipmentKind `json:"kind"`
	Label        string               `json:"label"`
	DisplayCount int                  `json:"display_count"`
	SealNumbers  []string             `json:"seal_numbers"`
	Lines        []string             `json:"lines"`
}

// Document is the assembled printable report.
type Document struct {
	FlightNumber string    `json:"flight_number"`
	Destination  string    `json:"destination"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	GeneratedAt  time.Time `json:"generated_at"`

	HiLift1 *models.HiLift `json:"hi_lift_1,omitempty"`
	HiLift2 *models.HiLift `json:"hi_lift_2,omitempty"`

	Groups []Group `json:"groups"`
	Rows   []Row   `json:"rows"`

	PadlockTotal string `json:"padlock_total"`
	DriverName   string `json:"driver_name"`
	DriverID     string `json:"driver_id"`
}

// DataRows counts the rows carrying seal data, excluding blank separator
// and padding rows.
func (d *Document) DataRows() int {
	n := 0
	for _, r := range d.Rows {
		if !r.Blank {
			n++
		}
	}
	return n
}

// Assemble lays out the seal manifest for one flight. Groups follow catalog
// order regardless of scan order; within a group scans keep their
// scanned-at order. Full-size trolleys carry two seals per unit, so their
// display count reports units, not seals; an odd scan count truncates.
func Assemble(flight *models.Flight, scans []models.SealScan, opts Options) *Document {
	opts = opts.withDefaults()

	doc := &Document{
		GeneratedAt: time.Now(),
	}
	if flight != nil {
		doc.FlightNumber = flight.FlightNumber
		doc.Destination = flight.Destination
		doc.Date = doc.GeneratedAt.Format("02/01/2006")
		doc.Time = doc.GeneratedAt.Format("15:04")
		doc.HiLift1 = flight.HiLift1
		doc.HiLift2 = flight.HiLift2
		if flight.PadlockTotal != nil {
			doc.PadlockTotal = strconv.Itoa(*flight.PadlockTotal)
		}
		if flight.DriverName != nil {
			doc.DriverName = *flight.DriverName
		}
		if flight.DriverID != nil {
			doc.DriverID = *flight.DriverID
		}
	}

	byKind := make(map[models.EquipmentKind][]string)
	for _, s := range scans {
		byKind[s.EquipmentKind] = append(byKind[s.EquipmentKind], s.SealNumber)
	}

	for _, e := range models.EquipmentCatalog() {
		numbers := byKind[e.Kind]
		if len(numbers) == 0 {
			continue
		}
		count := len(numbers)
		if e.Kind == models.FullTrolley {
			count = count / 2
		}
		doc.Groups = append(doc.Groups, Group{
			Kind:         e.Kind,
			Label:        e.Name,
			DisplayCount: count,
			SealNumbers:  numbers,
			Lines:        wrapSeals(numbers, opts.WrapWidth),
		})
	}

	serial := 0
	for _, g := range doc.Groups {
		serial++
		for i, line := range g.Lines {
			row := Row{Seals: line}
			if i == 0 {
				row.Serial = strconv.Itoa(serial)
				row.Equipment = strconv.Itoa(g.DisplayCount) + " " + g.Label
			}
			doc.Rows = append(doc.Rows, row)
		}
		doc.Rows = append(doc.Rows, Row{Blank: true})
	}

	for len(doc.Rows) < opts.TargetRows {
		doc.Rows = append(doc.Rows, Row{Blank: true})
	}

	return doc
}

// wrapSeals joins seal numbers with ", " and breaks into lines no wider
// than width, never splitting inside a number. A number wider than the
// whole line gets a line to itself.
func wrapSeals(numbers []string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, n := range numbers {
		if line.Len() == 0 {
			line.WriteString(n)
			continue
		}
		if line.Len()+2+len(n) > width {
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(n)
			continue
		}
		line.WriteString(", ")
		line.WriteString(n)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

