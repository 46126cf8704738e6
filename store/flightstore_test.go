package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"trolleyseal/models"
	"trolleyseal/realtime"
	"trolleyseal/repository"
)

type fakeFlightRepo struct {
	mu      sync.Mutex
	flights map[string]*models.Flight
	nextID  int

	listErr   error
	insertErr error
	statusErr error
}

func newFakeFlightRepo() *fakeFlightRepo {
	return &fakeFlightRepo{flights: make(map[string]*models.Flight)}
}

func (f *fakeFlightRepo) ListActive(ctx context.Context, since time.Time) ([]*models.Flight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Flight
	for _, fl := range f.flights {
		if fl.Status == models.StatusDeleted {
			continue
		}
		if fl.CreatedAt.Before(since) {
			continue
		}
		cp := *fl
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeFlightRepo) GetByID(ctx context.Context, id string) (*models.Flight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fl, ok := f.flights[id]
	if !ok {
		return nil, nil
	}
	cp := *fl
	return &cp, nil
}

func (f *fakeFlightRepo) Insert(ctx context.Context, flight *models.Flight) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	flight.ID = fmt.Sprintf("flight-%d", f.nextID)
	cp := *flight
	f.flights[flight.ID] = &cp
	return nil
}

func (f *fakeFlightRepo) SetStatus(ctx context.Context, id string, status models.FlightStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return f.statusErr
	}
	fl, ok := f.flights[id]
	if !ok {
		return repository.ErrNotFound
	}
	// Deleted is terminal, as in the real repositories.
	if fl.Status == models.StatusDeleted && status != models.StatusDeleted {
		return repository.ErrNotFound
	}
	fl.Status = status
	return nil
}

func (f *fakeFlightRepo) UpdateAuxiliary(ctx context.Context, id string, aux models.FlightAuxiliary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fl, ok := f.flights[id]
	if !ok {
		return repository.ErrNotFound
	}
	if aux.HiLift1 != nil {
		fl.HiLift1 = aux.HiLift1
	}
	if aux.HiLift2 != nil {
		fl.HiLift2 = aux.HiLift2
	}
	if aux.PadlockTotal != nil {
		fl.PadlockTotal = aux.PadlockTotal
	}
	if aux.DriverName != nil {
		fl.DriverName = aux.DriverName
	}
	if aux.DriverID != nil {
		fl.DriverID = aux.DriverID
	}
	return nil
}

func (f *fakeFlightRepo) UpdatePDFInfo(ctx context.Context, id string, path string, createdAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fl, ok := f.flights[id]
	if !ok {
		return repository.ErrNotFound
	}
	fl.PdfPath = &path
	fl.PdfCreatedAt = &createdAt
	return nil
}

func (f *fakeFlightRepo) status(id string) models.FlightStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flights[id].Status
}

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*models.AppUser
	lookups int
	lookErr error
}

func newFakeUserRepo(users ...*models.AppUser) *fakeUserRepo {
	m := make(map[string]*models.AppUser)
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.AppUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.lookErr != nil {
		return nil, f.lookErr
	}
	out := make(map[string]*models.AppUser)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func newTestFlightStore(flights *fakeFlightRepo, users *fakeUserRepo) *FlightStore {
	return NewFlightStore(flights, &fakeSealRepo{}, users, realtime.NewHub(nil), nil)
}

func TestFlightStoreCreate(t *testing.T) {
	flights := newFakeFlightRepo()
	s := newTestFlightStore(flights, newFakeUserRepo())

	flight, err := s.Create(context.Background(), "tr123", "SIN", time.Time{}, "", testUser())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if flight.ID == "" {
		t.Error("created flight has no id")
	}
	if flight.FlightNumber != "TR123" {
		t.Errorf("flight number = %q, want TR123 (uppercased)", flight.FlightNumber)
	}
	if flight.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", flight.Status)
	}
	if flight.CreatedBy != "user-1" {
		t.Errorf("created_by = %q, want user-1", flight.CreatedBy)
	}
	if flight.DepartureTime.IsZero() {
		t.Error("departure time should default when unset")
	}
}

func TestFlightStoreCreateValidation(t *testing.T) {
	s := newTestFlightStore(newFakeFlightRepo(), newFakeUserRepo())

	cases := []string{"123", "T123", "TRX", "tr", "TR12A", ""}
	for _, num := range cases {
		if _, err := s.Create(context.Background(), num, "SIN", time.Time{}, "", testUser()); !errors.Is(err, ErrValidation) {
			t.Errorf("flight number %q: err = %v, want ErrValidation", num, err)
		}
	}

	if _, err := s.Create(context.Background(), "TR123", "SIN", time.Time{}, "", nil); !errors.Is(err, ErrValidation) {
		t.Errorf("nil user: err = %v, want ErrValidation", err)
	}
}

func TestFlightStoreArchiveIdempotent(t *testing.T) {
	flights := newFakeFlightRepo()
	s := newTestFlightStore(flights, newFakeUserRepo())

	flight, err := s.Create(context.Background(), "TR200", "KUL", time.Time{}, "", testUser())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.Archive(context.Background(), flight.ID); err != nil {
		t.Fatalf("first archive: %v", err)
	}
	if flights.status(flight.ID) != models.StatusDeleted {
		t.Errorf("status = %q, want deleted", flights.status(flight.ID))
	}

	// Archiving again is a no-op success.
	if err := s.Archive(context.Background(), flight.ID); err != nil {
		t.Errorf("second archive: %v", err)
	}

	if err := s.Archive(context.Background(), "no-such-flight"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing flight: err = %v, want ErrNotFound", err)
	}
}

func TestFlightStoreArchivedFlightsLeaveActiveList(t *testing.T) {
	flights := newFakeFlightRepo()
	s := newTestFlightStore(flights, newFakeUserRepo(testUser()))

	kept, _ := s.Create(context.Background(), "TR300", "BKK", time.Time{}, "", testUser())
	archived, _ := s.Create(context.Background(), "TR301", "HKG", time.Time{}, "", testUser())
	if err := s.Archive(context.Background(), archived.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	active, err := s.ListActive(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].ID != kept.ID {
		t.Errorf("active list = %v, want only %s", active, kept.ID)
	}

	// The record itself survives for audit history.
	got, err := flights.GetByID(context.Background(), archived.ID)
	if err != nil || got == nil {
		t.Fatalf("archived flight record was destroyed: %v", err)
	}
	if got.Status != models.StatusDeleted {
		t.Errorf("archived status = %q, want deleted", got.Status)
	}
}

func TestFlightStoreListActiveBatchesCreatorLookup(t *testing.T) {
	flights := newFakeFlightRepo()
	users := newFakeUserRepo(testUser())
	s := newTestFlightStore(flights, users)

	for i := 0; i < 4; i++ {
		if _, err := s.Create(context.Background(), fmt.Sprintf("TR40%d", i), "SIN", time.Time{}, "", testUser()); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	active, err := s.ListActive(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if users.lookups != 1 {
		t.Errorf("creator lookup ran %d times, want one batched call", users.lookups)
	}
	for _, fl := range active {
		if fl.CreatedByUser == nil || fl.CreatedByUser.Name != "Ops Staff" {
			t.Errorf("flight %s missing resolved creator", fl.ID)
		}
	}
}

func TestFlightStoreListActiveDegradesWithoutNames(t *testing.T) {
	flights := newFakeFlightRepo()
	users := newFakeUserRepo(testUser())
	users.lookErr = errors.New("connection reset")
	s := newTestFlightStore(flights, users)

	if _, err := s.Create(context.Background(), "TR500", "SIN", time.Time{}, "", testUser()); err != nil {
		t.Fatalf("create: %v", err)
	}

	active, err := s.ListActive(context.Background(), 0)
	if err != nil {
		t.Fatalf("a failed name lookup must not fail the list: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 flight, got %d", len(active))
	}
	if active[0].CreatedByUser != nil {
		t.Error("creator should be unresolved when the lookup fails")
	}
}

func TestFlightStoreUpdateAuxiliaryPartial(t *testing.T) {
	flights := newFakeFlightRepo()
	s := newTestFlightStore(flights, newFakeUserRepo())

	flight, _ := s.Create(context.Background(), "TR600", "SIN", time.Time{}, "", testUser())

	padlocks := 3
	if err := s.UpdateAuxiliary(context.Background(), flight.ID, models.FlightAuxiliary{PadlockTotal: &padlocks}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	driver := "J. Tan"
	if err := s.UpdateAuxiliary(context.Background(), flight.ID, models.FlightAuxiliary{DriverName: &driver}); err != nil {
		t.Fatalf("second update: %v", err)
	}

	got, _ := flights.GetByID(context.Background(), flight.ID)
	if got.PadlockTotal == nil || *got.PadlockTotal != 3 {
		t.Error("padlock total lost by the second partial update")
	}
	if got.DriverName == nil || *got.DriverName != driver {
		t.Error("driver name not applied")
	}

	if err := s.UpdateAuxiliary(context.Background(), "no-such-flight", models.FlightAuxiliary{DriverName: &driver}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing flight: err = %v, want ErrNotFound", err)
	}
}

func TestFlightStoreMarkPrintedSwallowsFailure(t *testing.T) {
	flights := newFakeFlightRepo()
	s := newTestFlightStore(flights, newFakeUserRepo())

	flight, _ := s.Create(context.Background(), "TR700", "SIN", time.Time{}, "", testUser())

	flights.statusErr = errors.New("connection reset")
	s.MarkPrinted(flight.ID) // must not panic or surface the failure
	flights.statusErr = nil

	s.MarkPrinted(flight.ID)
	if flights.status(flight.ID) != models.StatusPrinted {
		t.Errorf("status = %q, want printed", flights.status(flight.ID))
	}
}

func TestFlightStoreMarkPrintedNeverResurrectsArchived(t *testing.T) {
	flights := newFakeFlightRepo()
	s := newTestFlightStore(flights, newFakeUserRepo())

	flight, _ := s.Create(context.Background(), "TR710", "SIN", time.Time{}, "", testUser())
	if err := s.Archive(context.Background(), flight.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	// The report path marks printed after rendering; a flight archived
	// meanwhile must stay archived.
	s.MarkPrinted(flight.ID)
	if flights.status(flight.ID) != models.StatusDeleted {
		t.Errorf("status = %q, want deleted to remain terminal", flights.status(flight.ID))
	}

	active, err := s.ListActive(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("archived flight reappeared on the active list: %v", active)
	}
}

func TestFlightStoreRecordReportFile(t *testing.T) {
	flights := newFakeFlightRepo()
	s := newTestFlightStore(flights, newFakeUserRepo())

	flight, _ := s.Create(context.Background(), "TR800", "SIN", time.Time{}, "", testUser())
	created := time.Now().UTC()
	if err := s.RecordReportFile(context.Background(), flight.ID, "https://cdn.example.com/r.pdf", created); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, _ := flights.GetByID(context.Background(), flight.ID)
	if got.PdfPath == nil || *got.PdfPath != "https://cdn.example.com/r.pdf" {
		t.Error("pdf path not recorded")
	}
	if got.PdfCreatedAt == nil || !got.PdfCreatedAt.Equal(created) {
		t.Error("pdf timestamp not recorded")
	}
}

func TestFlightStoreGetByID(t *testing.T) {
	flights := newFakeFlightRepo()
	s := newTestFlightStore(flights, newFakeUserRepo())

	flight, _ := s.Create(context.Background(), "TR900", "SIN", time.Time{}, "", testUser())
	got, err := s.GetByID(context.Background(), flight.ID)
	if err != nil || got.ID != flight.ID {
		t.Fatalf("get: %v", err)
	}

	if _, err := s.GetByID(context.Background(), "no-such-flight"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing flight: err = %v, want ErrNotFound", err)
	}
}

func TestFlightStoreSealCounts(t *testing.T) {
	flights := newFakeFlightRepo()
	seals := &fakeSealRepo{}
	s := NewFlightStore(flights, seals, newFakeUserRepo(), realtime.NewHub(nil), nil)

	seals.Insert(context.Background(), &models.SealScan{FlightID: "f1", EquipmentKind: models.FullTrolley, SealNumber: "A1"})
	seals.Insert(context.Background(), &models.SealScan{FlightID: "f1", EquipmentKind: models.FullTrolley, SealNumber: "A2"})
	seals.Insert(context.Background(), &models.SealScan{FlightID: "f2", EquipmentKind: models.HalfTrolley, SealNumber: "B1"})

	counts, err := s.SealCounts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["f1"] != 2 || counts["f2"] != 1 {
		t.Errorf("counts = %v, want f1:2 f2:1", counts)
	}
}
