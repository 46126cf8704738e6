// Package workflow drives the page-level capture flow: flight selection,
// equipment selection, seal scanning, then preview and print. State lives
// per session, never in a process-wide global.
package workflow

import (
	"errors"
	"fmt"
	"sync"

	"trolleyseal/models"
)

type Step string

const (
	StepFlightList      Step = "flight-list"
	StepEquipmentSelect Step = "equipment-select"
	StepScan            Step = "scan"
	StepPreview         Step = "preview"
)

var ErrInvalidTransition = errors.New("invalid workflow transition")

// Controller is the linear state machine for one staff session. Forward
// transitions require the context they carry (flight, then equipment);
// backward navigation is unconditional. Unsaved scan input is discarded on
// back navigation, which is safe because seals persist on add, not in a
// batch at the end.
type Controller struct {
	mu             sync.Mutex
	step           Step
	flightID       string
	equipmentKind  models.EquipmentKind
	archivePending string
}

type Snapshot struct {
	Step           Step                 `json:"step"`
	FlightID       string               `json:"flight_id,omitempty"`
	EquipmentKind  models.EquipmentKind `json:"equipment_kind,omitempty"`
	ArchivePending string               `json:"archive_pending,omitempty"`
}

func NewController() *Controller {
	return &Controller{step: StepFlightList}
}

func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Step:           c.step,
		FlightID:       c.flightID,
		EquipmentKind:  c.equipmentKind,
		ArchivePending: c.archivePending,
	}
}

// SelectFlight moves from the flight list into equipment selection.
func (c *Controller) SelectFlight(flightID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepFlightList {
		return fmt.Errorf("%w: cannot select a flight from %s", ErrInvalidTransition, c.step)
	}
	if c.archivePending != "" {
		return fmt.Errorf("%w: archive confirmation is open", ErrInvalidTransition)
	}
	if flightID == "" {
		return fmt.Errorf("%w: flight id required", ErrInvalidTransition)
	}
	c.flightID = flightID
	c.step = StepEquipmentSelect
	return nil
}

// SelectEquipment moves from equipment selection into scanning.
func (c *Controller) SelectEquipment(kind models.EquipmentKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepEquipmentSelect {
		return fmt.Errorf("%w: cannot select equipment from %s", ErrInvalidTransition, c.step)
	}
	if !models.ValidEquipmentKind(string(kind)) {
		return fmt.Errorf("%w: unknown equipment kind %q", ErrInvalidTransition, kind)
	}
	c.equipmentKind = kind
	c.step = StepScan
	return nil
}

// ToPreview moves from scanning to the report preview.
func (c *Controller) ToPreview() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepScan {
		return fmt.Errorf("%w: cannot preview from %s", ErrInvalidTransition, c.step)
	}
	c.step = StepPreview
	return nil
}

// Back navigates one step backward unconditionally, clearing the context
// the abandoned step carried.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.step {
	case StepPreview:
		c.step = StepScan
	case StepScan:
		c.equipmentKind = ""
		c.step = StepEquipmentSelect
	case StepEquipmentSelect:
		c.flightID = ""
		c.step = StepFlightList
	case StepFlightList:
		// already at the start
	}
}

// RequestArchive opens the archive confirmation modal. It is a sub-state
// of the flight list and blocks only that view.
func (c *Controller) RequestArchive(flightID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepFlightList {
		return fmt.Errorf("%w: archive is only offered on the flight list", ErrInvalidTransition)
	}
	if flightID == "" {
		return fmt.Errorf("%w: flight id required", ErrInvalidTransition)
	}
	c.archivePending = flightID
	return nil
}

// ConfirmArchive closes the modal and returns the flight to archive.
func (c *Controller) ConfirmArchive() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.archivePending == "" {
		return "", fmt.Errorf("%w: no archive confirmation open", ErrInvalidTransition)
	}
	id := c.archivePending
	c.archivePending = ""
	return id, nil
}

// CancelArchive dismisses the confirmation modal.
func (c *Controller) CancelArchive() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.archivePending = ""
}

// Reset returns the controller to the flight list, e.g. after printing.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = StepFlightList
	c.flightID = ""
	c.equipmentKind = ""
	c.archivePending = ""
}

// Manager hands out one controller per session user.
type Manager struct {
	mu          sync.Mutex
	controllers map[string]*Controller
}

func NewManager() *Manager {
	return &Manager{controllers: make(map[string]*Controller)}
}

func (m *Manager) For(userID string) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.controllers[userID]
	if !ok {
		c = NewController()
		m.controllers[userID] = c
	}
	return c
}

// Drop discards a session's workflow state, e.g. at logout.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.controllers, userID)
}
