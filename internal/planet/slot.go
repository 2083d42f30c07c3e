package planet

// SlotType :
// The kind of building (if any) occupying a slot. `SlotEmpty` is the
// only type allowed to coexist with `StatusEmpty`, per the data
// model invariant `type = empty ⇔ status = empty`.
type SlotType string

const (
	SlotEmpty    SlotType = "empty"
	SlotFarm     SlotType = "farm"
	SlotMine     SlotType = "mine"
	SlotRefine   SlotType = "refine"
	SlotIndustry SlotType = "industry"
	SlotEnergy   SlotType = "energy"
	SlotScience  SlotType = "science"
)

// SlotStatus :
// The construction state of a slot.
type SlotStatus string

const (
	StatusEmpty             SlotStatus = "empty"
	StatusUnderConstruction SlotStatus = "under_construction"
	StatusBuilt             SlotStatus = "built"
)

// Slot :
// An atomic build site on a planet. Exactly `population_max` slots
// exist per planet, created empty with the planet and never
// reallocated — only ever mutated in place by build commands and
// build-queue completion.
//
// The `Type` is the kind of building occupying this slot, or `empty`.
//
// The `Status` is the construction state.
//
// The `Active` flag lets a player pause a built slot's contribution to
// production without demolishing it; defaults to `true`.
//
// The `BuildingID` references the registry entry currently assigned to
// this slot (empty when the slot itself is empty). A slot never owns
// its building definition, only a key into the registry.
type Slot struct {
	Type       SlotType   `json:"type" msgpack:"type"`
	Status     SlotStatus `json:"status" msgpack:"status"`
	Active     bool       `json:"active" msgpack:"active"`
	BuildingID string     `json:"building_id,omitempty" msgpack:"building_id,omitempty"`
}

// NewSlot :
// Creates a fresh, empty slot.
func NewSlot() Slot {
	return Slot{Type: SlotEmpty, Status: StatusEmpty, Active: true}
}

// IsEmpty :
// Reports whether this slot holds no building.
func (s Slot) IsEmpty() bool {
	return s.Type == SlotEmpty
}

// Clear :
// Resets this slot back to its empty state.
func (s *Slot) Clear() {
	s.Type = SlotEmpty
	s.Status = StatusEmpty
	s.Active = true
	s.BuildingID = ""
}

// ToggleActive :
// Flips the active flag.
func (s *Slot) ToggleActive() {
	s.Active = !s.Active
}
