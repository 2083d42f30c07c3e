package planet

// PlanetTypeCode :
// Small fixed integer standing in for a planet type's registry id on
// the wire, mirroring how `galaxy.Feature` encodes a hex's feature as
// an int rather than a string, per §6: "`planet_type` is a small
// integer via a parallel enum." The registry id itself (`Planet.PlanetTypeID`)
// remains the simulation's internal key — this enum exists purely at
// the `Snapshot` boundary.
type PlanetTypeCode int

// The fixed planet-type enum, ordered to match `data/content/planet_types.json`.
// `PlanetTypeUnknown` is the zero value and covers any registry id added
// to the content catalog without a matching enum member.
const (
	PlanetTypeUnknown PlanetTypeCode = iota
	PlanetTypeTerrestrial
	PlanetTypeVolcanic
	PlanetTypeBarren
	PlanetTypeHydrogenGiant
	PlanetTypeIonizedGiant
	PlanetTypeQuantumGiant
	PlanetTypeOceanic
	PlanetTypeJungle
	PlanetTypeSymbiotic
)

var planetTypeNames = [...]string{
	PlanetTypeUnknown:       "",
	PlanetTypeTerrestrial:   "terrestrial",
	PlanetTypeVolcanic:      "volcanic",
	PlanetTypeBarren:        "barren",
	PlanetTypeHydrogenGiant: "hydrogen_giant",
	PlanetTypeIonizedGiant:  "ionized_giant",
	PlanetTypeQuantumGiant:  "quantum_giant",
	PlanetTypeOceanic:       "oceanic",
	PlanetTypeJungle:        "jungle",
	PlanetTypeSymbiotic:     "symbiotic",
}

var planetTypeByName = map[string]PlanetTypeCode{
	"terrestrial":    PlanetTypeTerrestrial,
	"volcanic":       PlanetTypeVolcanic,
	"barren":         PlanetTypeBarren,
	"hydrogen_giant": PlanetTypeHydrogenGiant,
	"ionized_giant":  PlanetTypeIonizedGiant,
	"quantum_giant":  PlanetTypeQuantumGiant,
	"oceanic":        PlanetTypeOceanic,
	"jungle":         PlanetTypeJungle,
	"symbiotic":      PlanetTypeSymbiotic,
}

// String :
// Returns the registry id this code stands for, or "" for
// `PlanetTypeUnknown`.
func (c PlanetTypeCode) String() string {
	if int(c) < 0 || int(c) >= len(planetTypeNames) {
		return ""
	}
	return planetTypeNames[c]
}

// ParsePlanetType :
// Resolves a registry planet-type id to its wire code, falling back to
// `PlanetTypeUnknown` for any id outside the fixed enum (e.g. a content
// catalog extended with a new planet type the enum hasn't caught up
// with yet).
func ParsePlanetType(id string) PlanetTypeCode {
	return planetTypeByName[id]
}
