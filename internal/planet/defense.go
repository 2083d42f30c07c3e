package planet

import "github.com/ironreach/starforge/internal/registry"

// DefenseLayer :
// The altitude band a defense unit operates at. Fixed iteration and
// serialization order (`DEEP_SPACE`..`GROUND`) so wire output stays
// deterministic across runs, per `original_source/core/defense.py`.
type DefenseLayer int

const (
	DeepSpace DefenseLayer = iota + 1
	Orbital
	HighAltitude
	LowAltitude
	Ground
)

// DefenseLayers :
// The canonical iteration order over every layer, used whenever a
// defense bag is serialized.
var DefenseLayers = [...]DefenseLayer{DeepSpace, Orbital, HighAltitude, LowAltitude, Ground}

var layerNames = map[DefenseLayer]string{
	DeepSpace:    "DEEP_SPACE",
	Orbital:      "ORBITAL",
	HighAltitude: "HIGH_ALTITUDE",
	LowAltitude:  "LOW_ALTITUDE",
	Ground:       "GROUND",
}

var layerByName = map[string]DefenseLayer{
	"DEEP_SPACE":    DeepSpace,
	"ORBITAL":       Orbital,
	"HIGH_ALTITUDE": HighAltitude,
	"LOW_ALTITUDE":  LowAltitude,
	"GROUND":        Ground,
}

// String :
// Returns the layer's registry/wire name.
func (l DefenseLayer) String() string {
	return layerNames[l]
}

// ParseDefenseLayer :
// Resolves a registry/wire layer name back to its enum value.
//
// Returns the layer and true if `name` is recognized.
func ParseDefenseLayer(name string) (DefenseLayer, bool) {
	l, ok := layerByName[name]
	return l, ok
}

// DefenseBag :
// A multiset of unit registry ids keyed by layer. Total defense value
// is the sum of `registry.DefenseValue` across the bag, or across a
// single layer.
type DefenseBag struct {
	units map[DefenseLayer][]string
}

// NewDefenseBag :
// Creates an empty defense bag.
func NewDefenseBag() *DefenseBag {
	return &DefenseBag{units: make(map[DefenseLayer][]string)}
}

// AddUnit :
// Adds one instance of the unit registry entry to its layer.
func (d *DefenseBag) AddUnit(layer DefenseLayer, unitID string) {
	d.units[layer] = append(d.units[layer], unitID)
}

// RemoveUnit :
// Removes the first instance of `unitID` found in any layer.
//
// Returns true if a unit was removed.
func (d *DefenseBag) RemoveUnit(unitID string) bool {
	for layer, ids := range d.units {
		for i, id := range ids {
			if id == unitID {
				d.units[layer] = append(ids[:i], ids[i+1:]...)
				return true
			}
		}
	}
	return false
}

// UnitCounts :
// Returns the number of units held per layer, keyed by layer name.
func (d *DefenseBag) UnitCounts() map[string]int {
	out := make(map[string]int, len(DefenseLayers))
	for _, layer := range DefenseLayers {
		out[layer.String()] = len(d.units[layer])
	}
	return out
}

// TotalDefenseValue :
// Sums `registry.DefenseValue` across the bag, or across a single
// layer when `layer` is non-nil.
func (d *DefenseBag) TotalDefenseValue(reg *registry.Registry, layer *DefenseLayer) float64 {
	total := 0.0

	sumLayer := func(l DefenseLayer) {
		for _, id := range d.units[l] {
			if entry, ok := reg.Category(registry.DefenseUnits, id); ok {
				total += entry.DefenseValue
			}
		}
	}

	if layer != nil {
		sumLayer(*layer)
		return total
	}

	for _, l := range DefenseLayers {
		sumLayer(l)
	}
	return total
}

// Units :
// Returns a copy of the unit ids held at a given layer, in the order
// they were added.
func (d *DefenseBag) Units(layer DefenseLayer) []string {
	out := make([]string, len(d.units[layer]))
	copy(out, d.units[layer])
	return out
}

// ToWire :
// Produces the `{layer_name: [unit_id...]}` serialization used by both
// persistence and `planet_update` snapshots.
func (d *DefenseBag) ToWire() map[string][]string {
	out := make(map[string][]string, len(DefenseLayers))
	for _, layer := range DefenseLayers {
		out[layer.String()] = d.Units(layer)
	}
	return out
}

// DefenseBagFromWire :
// Rebuilds a defense bag from the `{layer_name: [unit_id...]}` mapping
// produced by `ToWire`. Unrecognized layer names are skipped.
func DefenseBagFromWire(wire map[string][]string) *DefenseBag {
	bag := NewDefenseBag()
	for name, ids := range wire {
		layer, ok := ParseDefenseLayer(name)
		if !ok {
			continue
		}
		bag.units[layer] = append([]string{}, ids...)
	}
	return bag
}
