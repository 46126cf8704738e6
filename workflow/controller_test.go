package workflow

import (
	"errors"
	"testing"

	"trolleyseal/models"
)

func TestControllerForwardPath(t *testing.T) {
	c := NewController()
	if c.State().Step != StepFlightList {
		t.Fatalf("initial step = %s, want flight-list", c.State().Step)
	}

	if err := c.SelectFlight("flight-1"); err != nil {
		t.Fatalf("select flight: %v", err)
	}
	if err := c.SelectEquipment(models.FullTrolley); err != nil {
		t.Fatalf("select equipment: %v", err)
	}
	if err := c.ToPreview(); err != nil {
		t.Fatalf("to preview: %v", err)
	}

	snap := c.State()
	if snap.Step != StepPreview || snap.FlightID != "flight-1" || snap.EquipmentKind != models.FullTrolley {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestControllerRejectsOutOfOrderTransitions(t *testing.T) {
	c := NewController()

	if err := c.SelectEquipment(models.FullTrolley); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("equipment before flight: err = %v", err)
	}
	if err := c.ToPreview(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("preview from flight list: err = %v", err)
	}
	if err := c.SelectFlight(""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("empty flight id: err = %v", err)
	}

	c.SelectFlight("flight-1")
	if err := c.SelectFlight("flight-2"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("re-selecting a flight mid-flow: err = %v", err)
	}
	if err := c.SelectEquipment("wheelbarrow"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("unknown equipment: err = %v", err)
	}
}

func TestControllerBackClearsAbandonedContext(t *testing.T) {
	c := NewController()
	c.SelectFlight("flight-1")
	c.SelectEquipment(models.HalfTrolley)
	c.ToPreview()

	c.Back()
	if c.State().Step != StepScan {
		t.Fatalf("step = %s, want scan", c.State().Step)
	}
	// Equipment survives the hop back from preview to scanning.
	if c.State().EquipmentKind != models.HalfTrolley {
		t.Error("equipment should survive preview -> scan")
	}

	c.Back()
	if c.State().Step != StepEquipmentSelect || c.State().EquipmentKind != "" {
		t.Errorf("scan -> equipment should clear the kind, got %+v", c.State())
	}

	c.Back()
	if c.State().Step != StepFlightList || c.State().FlightID != "" {
		t.Errorf("equipment -> list should clear the flight, got %+v", c.State())
	}

	// Back at the start is a no-op.
	c.Back()
	if c.State().Step != StepFlightList {
		t.Errorf("back past the start moved to %s", c.State().Step)
	}
}

func TestControllerArchiveConfirmation(t *testing.T) {
	c := NewController()

	if _, err := c.ConfirmArchive(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("confirm with no request: err = %v", err)
	}

	if err := c.RequestArchive("flight-1"); err != nil {
		t.Fatalf("request archive: %v", err)
	}
	// The confirmation modal blocks flight selection.
	if err := c.SelectFlight("flight-2"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("select during confirmation: err = %v", err)
	}

	id, err := c.ConfirmArchive()
	if err != nil || id != "flight-1" {
		t.Fatalf("confirm = %q, %v", id, err)
	}
	if c.State().ArchivePending != "" {
		t.Error("confirmation should close the modal")
	}

	c.RequestArchive("flight-3")
	c.CancelArchive()
	if c.State().ArchivePending != "" {
		t.Error("cancel should close the modal")
	}
	// Cancelled confirmation must not archive anything later.
	if _, err := c.ConfirmArchive(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("confirm after cancel: err = %v", err)
	}
}

func TestControllerArchiveOnlyFromFlightList(t *testing.T) {
	c := NewController()
	c.SelectFlight("flight-1")
	if err := c.RequestArchive("flight-1"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("archive away from the list: err = %v", err)
	}
}

func TestControllerReset(t *testing.T) {
	c := NewController()
	c.SelectFlight("flight-1")
	c.SelectEquipment(models.FoodContainer)
	c.Reset()

	snap := c.State()
	if snap.Step != StepFlightList || snap.FlightID != "" || snap.EquipmentKind != "" {
		t.Errorf("reset left %+v", snap)
	}
}

func TestManagerSessionIsolation(t *testing.T) {
	m := NewManager()

	a := m.For("user-a")
	b := m.For("user-b")
	if a == b {
		t.Fatal("sessions must not share a controller")
	}
	if m.For("user-a") != a {
		t.Error("same session should get the same controller")
	}

	a.SelectFlight("flight-1")
	if b.State().Step != StepFlightList {
		t.Error("one session's progress leaked into another")
	}

	m.Drop("user-a")
	if m.For("user-a") == a {
		t.Error("dropped session should start fresh")
	}
}
