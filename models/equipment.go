package models

import "fmt"

// EquipmentKind identifies one of the four fixed galley equipment types.
// The set is business data and never changes at runtime.
type EquipmentKind string

const (
	FullTrolley      EquipmentKind = "full-trolley"
	HalfTrolley      EquipmentKind = "half-trolley"
	FoodContainer    EquipmentKind = "food-container"
	ServiceContainer EquipmentKind = "service-container"
)

type EquipmentInfo struct {
	Kind        EquipmentKind `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	SealCount   int           `json:"seal_count"`
}

var equipmentCatalog = []EquipmentInfo{
	{Kind: FullTrolley, Name: "Full-Size Trolley", Description: "2 doors, requires 2 seals", SealCount: 2},
	{Kind: HalfTrolley, Name: "Half-Size Trolley", Description: "1 door, requires 1 seal", SealCount: 1},
	{Kind: FoodContainer, Name: "Food Container", Description: "1 door, requires 1 seal", SealCount: 1},
	{Kind: ServiceContainer, Name: "Service Container", Description: "1 door, requires 1 seal", SealCount: 1},
}

// EquipmentCatalog returns the four equipment kinds in display order.
func EquipmentCatalog() []EquipmentInfo {
	out := make([]EquipmentInfo, len(equipmentCatalog))
	copy(out, equipmentCatalog)
	return out
}

// KindOf resolves a kind identifier. Unknown ids indicate a programming
// error, never user input that made it past validation.
func KindOf(id string) (EquipmentKind, error) {
	for _, e := range equipmentCatalog {
		if string(e.Kind) == id {
			return e.Kind, nil
		}
	}
	return "", fmt.Errorf("unknown equipment kind %q", id)
}

func RequiredSeals(kind EquipmentKind) int {
	for _, e := range equipmentCatalog {
		if e.Kind == kind {
			return e.SealCount
		}
	}
	return 0
}

func EquipmentDisplayName(kind EquipmentKind) string {
	for _, e := range equipmentCatalog {
		if e.Kind == kind {
			return e.Name
		}
	}
	return string(kind)
}

func ValidEquipmentKind(id string) bool {
	_, err := KindOf(id)
	return err == nil
}
