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

// fakeSealRepo is an in-memory SealScanRepository with injectable failures.
type fakeSealRepo struct {
	mu      sync.Mutex
	scans   []models.SealScan
	nextID  int
	inserts int
	deletes int
	lists   int

	listErr   error
	insertErr error
	deleteErr error
}

func (f *fakeSealRepo) ListByFlight(ctx context.Context, flightID string, kind models.EquipmentKind) ([]models.SealScan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.SealScan
	for _, s := range f.scans {
		if s.FlightID != flightID {
			continue
		}
		if kind != "" && s.EquipmentKind != kind {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSealRepo) Insert(ctx context.Context, scan *models.SealScan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	scan.ID = fmt.Sprintf("seal-%d", f.nextID)
	f.scans = append(f.scans, *scan)
	return nil
}

func (f *fakeSealRepo) Delete(ctx context.Context, sealID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, s := range f.scans {
		if s.ID == sealID {
			f.scans = append(f.scans[:i], f.scans[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeSealRepo) CountByFlight(ctx context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, s := range f.scans {
		counts[s.FlightID]++
	}
	return counts, nil
}

func testUser() *models.AppUser {
	return &models.AppUser{ID: "user-1", Name: "Ops Staff", Email: "ops@example.com"}
}

func TestSealStoreAddAppendsInScanOrder(t *testing.T) {
	repo := &fakeSealRepo{}
	s := NewSealScanStore(repo, realtime.NewHub(nil), nil, "flight-1")
	ctx := context.Background()

	for _, n := range []string{"AA111", "AA112", "BB200"} {
		if _, err := s.Add(ctx, models.FullTrolley, n, testUser()); err != nil {
			t.Fatalf("add %s: %v", n, err)
		}
	}

	scans := s.Snapshot()
	if len(scans) != 3 {
		t.Fatalf("expected 3 scans, got %d", len(scans))
	}
	for i, want := range []string{"AA111", "AA112", "BB200"} {
		if scans[i].SealNumber != want {
			t.Errorf("scan %d = %q, want %q", i, scans[i].SealNumber, want)
		}
	}
	for i := 1; i < len(scans); i++ {
		if scans[i].ScannedAt.Before(scans[i-1].ScannedAt) {
			t.Errorf("scan %d out of order", i)
		}
	}
}

func TestSealStoreAddBlankIsSilentNoOp(t *testing.T) {
	repo := &fakeSealRepo{}
	s := NewSealScanStore(repo, realtime.NewHub(nil), nil, "flight-1")

	for _, blank := range []string{"", "   ", "\t\n"} {
		scan, err := s.Add(context.Background(), models.HalfTrolley, blank, testUser())
		if err != nil {
			t.Errorf("blank input %q returned error: %v", blank, err)
		}
		if scan != nil {
			t.Errorf("blank input %q produced a scan", blank)
		}
	}

	if repo.inserts != 0 {
		t.Errorf("blank input reached the repository %d times", repo.inserts)
	}
	if len(s.Snapshot()) != 0 {
		t.Error("blank input landed in the cache")
	}
}

func TestSealStoreAddTrimsWhitespace(t *testing.T) {
	repo := &fakeSealRepo{}
	s := NewSealScanStore(repo, realtime.NewHub(nil), nil, "flight-1")

	scan, err := s.Add(context.Background(), models.HalfTrolley, "  CC300  ", testUser())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if scan.SealNumber != "CC300" {
		t.Errorf("seal number = %q, want CC300", scan.SealNumber)
	}
}

func TestSealStoreAddValidation(t *testing.T) {
	repo := &fakeSealRepo{}
	s := NewSealScanStore(repo, realtime.NewHub(nil), nil, "flight-1")

	if _, err := s.Add(context.Background(), models.HalfTrolley, "AA1", nil); !errors.Is(err, ErrValidation) {
		t.Errorf("nil user: err = %v, want ErrValidation", err)
	}
	if _, err := s.Add(context.Background(), "wheelbarrow", "AA1", testUser()); !errors.Is(err, ErrValidation) {
		t.Errorf("bad kind: err = %v, want ErrValidation", err)
	}
	if repo.inserts != 0 {
		t.Errorf("invalid input reached the repository %d times", repo.inserts)
	}
}

func TestSealStoreAddPersistFailureLeavesCacheUntouched(t *testing.T) {
	repo := &fakeSealRepo{insertErr: errors.New("connection reset")}
	s := NewSealScanStore(repo, realtime.NewHub(nil), nil, "flight-1")

	_, err := s.Add(context.Background(), models.FoodContainer, "DD400", testUser())
	if !errors.Is(err, ErrPersistFailed) {
		t.Fatalf("err = %v, want ErrPersistFailed", err)
	}
	if len(s.Snapshot()) != 0 {
		t.Error("failed insert must not appear in the cache")
	}
}

func TestSealStoreRemoveConfirmed(t *testing.T) {
	repo := &fakeSealRepo{}
	s := NewSealScanStore(repo, realtime.NewHub(nil), nil, "flight-1")
	scan, err := s.Add(context.Background(), models.FullTrolley, "EE500", testUser())
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.Remove(context.Background(), scan.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(s.Snapshot()) != 0 {
		t.Error("removed scan still cached")
	}
	if len(repo.scans) != 0 {
		t.Error("removed scan still persisted")
	}
}

func TestSealStoreRemoveNotFoundIsSuccess(t *testing.T) {
	repo := &fakeSealRepo{}
	s := NewSealScanStore(repo, realtime.NewHub(nil), nil, "flight-1")

	if err := s.Remove(context.Background(), "already-gone"); err != nil {
		t.Errorf("removing a missing scan should succeed, got %v", err)
	}
}

func TestSealStoreRemoveFailureRestoresScan(t *testing.T) {
	repo := &fakeSealRepo{}
	s := NewSealScanStore(repo, realtime.NewHub(nil), nil, "flight-1")

	first, _ := s.Add(context.Background(), models.FullTrolley, "FF600", testUser())
	second, _ := s.Add(context.Background(), models.FullTrolley, "FF601", testUser())

	repo.deleteErr = errors.New("connection reset")
	err := s.Remove(context.Background(), first.ID)
	if !errors.Is(err, ErrPersistFailed) {
		t.Fatalf("err = %v, want ErrPersistFailed", err)
	}

	scans := s.Snapshot()
	if len(scans) != 2 {
		t.Fatalf("expected both scans back in the cache, got %d", len(scans))
	}
	// Restoration must preserve scan order.
	if scans[0].ID != first.ID || scans[1].ID != second.ID {
		t.Errorf("restored order = %q, %q; want %q, %q", scans[0].ID, scans[1].ID, first.ID, second.ID)
	}
}

func TestSealStoreLoadAllFailureKeepsPreviousCache(t *testing.T) {
	repo := &fakeSealRepo{}
	s := NewSealScanStore(repo, realtime.NewHub(nil), nil, "flight-1")
	s.Add(context.Background(), models.HalfTrolley, "GG700", testUser())

	repo.listErr = errors.New("connection reset")
	scans, err := s.LoadAll(context.Background())
	if !errors.Is(err, ErrRemoteUnavailable) {
		t.Fatalf("err = %v, want ErrRemoteUnavailable", err)
	}
	if len(scans) != 1 || scans[0].SealNumber != "GG700" {
		t.Errorf("previous cache should survive a failed fetch, got %v", scans)
	}
}

func TestSealStoreKindFiltersCache(t *testing.T) {
	repo := &fakeSealRepo{}
	s := NewSealScanStore(repo, realtime.NewHub(nil), nil, "flight-1")
	s.Add(context.Background(), models.FullTrolley, "AA1", testUser())
	s.Add(context.Background(), models.FoodContainer, "BB1", testUser())
	s.Add(context.Background(), models.FullTrolley, "AA2", testUser())

	got := s.Kind(models.FullTrolley)
	if len(got) != 2 {
		t.Fatalf("expected 2 full-trolley scans, got %d", len(got))
	}
	if got[0].SealNumber != "AA1" || got[1].SealNumber != "AA2" {
		t.Errorf("filtered scans out of order: %v", got)
	}
}

func TestSealStoreSubscribeRefetchesOnChange(t *testing.T) {
	repo := &fakeSealRepo{}
	hub := realtime.NewHub(nil)
	s := NewSealScanStore(repo, hub, nil, "flight-1")

	changed := make(chan []models.SealScan, 1)
	sub := s.Subscribe(func(scans []models.SealScan) {
		select {
		case changed <- scans:
		default:
		}
	})
	defer sub.Cancel()

	// Simulate another instance writing a scan directly.
	repo.Insert(context.Background(), &models.SealScan{
		FlightID:      "flight-1",
		EquipmentKind: models.HalfTrolley,
		SealNumber:    "HH800",
		ScannedAt:     time.Now(),
	})
	hub.Publish(realtime.Event{Table: realtime.TableSealScans, FlightID: "flight-1"})

	select {
	case scans := <-changed:
		if len(scans) != 1 || scans[0].SealNumber != "HH800" {
			t.Errorf("refetched scans = %v, want the remote write", scans)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("change notification never triggered a refetch")
	}
}

func TestSealStoreNilHubDefaultsToPrivateHub(t *testing.T) {
	repo := &fakeSealRepo{}
	s := NewSealScanStore(repo, nil, nil, "flight-1")

	changed := make(chan []models.SealScan, 1)
	sub := s.Subscribe(func(scans []models.SealScan) {
		select {
		case changed <- scans:
		default:
		}
	})
	defer sub.Cancel()

	if _, err := s.Add(context.Background(), models.HalfTrolley, "JJ900", testUser()); err != nil {
		t.Fatalf("add: %v", err)
	}

	select {
	case scans := <-changed:
		if len(scans) != 1 || scans[0].SealNumber != "JJ900" {
			t.Errorf("refetched scans = %v", scans)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("local write never reached the subscriber")
	}
}

func TestSealStoresSharedPerFlight(t *testing.T) {
	repo := &fakeSealRepo{}
	stores := NewSealStores(repo, realtime.NewHub(nil), nil)

	a := stores.ForFlight("flight-1")
	b := stores.ForFlight("flight-1")
	if a != b {
		t.Error("same flight must share one store")
	}
	if stores.ForFlight("flight-2") == a {
		t.Error("different flights must not share a store")
	}

	stores.Release("flight-1")
	if stores.ForFlight("flight-1") == a {
		t.Error("released store should be rebuilt on next use")
	}
}
