package models

import "testing"

func TestEquipmentCatalogSealCounts(t *testing.T) {
	want := map[EquipmentKind]int{
		FullTrolley:      2,
		HalfTrolley:      1,
		FoodContainer:    1,
		ServiceContainer: 1,
	}
	catalog := EquipmentCatalog()
	if len(catalog) != len(want) {
		t.Fatalf("catalog has %d kinds, want %d", len(catalog), len(want))
	}
	for kind, seals := range want {
		if got := RequiredSeals(kind); got != seals {
			t.Errorf("%s requires %d seals, want %d", kind, got, seals)
		}
	}
}

func TestKindOf(t *testing.T) {
	kind, err := KindOf("full-trolley")
	if err != nil || kind != FullTrolley {
		t.Errorf("KindOf(full-trolley) = %v, %v", kind, err)
	}
	if _, err := KindOf("wheelbarrow"); err == nil {
		t.Error("unknown kind should error")
	}
	if ValidEquipmentKind("wheelbarrow") {
		t.Error("wheelbarrow is not a valid kind")
	}
}

func TestValidFlightNumber(t *testing.T) {
	valid := []string{"TR123", "SQ1", "MH370"}
	for _, s := range valid {
		if !ValidFlightNumber(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	invalid := []string{"", "123", "T123", "TRX", "tr123", "TR12A", "TR 12"}
	for _, s := range invalid {
		if ValidFlightNumber(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}
