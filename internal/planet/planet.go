package planet

import (
	"math/rand"
	"strconv"
	"sync/atomic"

	"github.com/ironreach/starforge/internal/registry"
)

// nextGlobalID :
// Backs the monotonic, process-wide `global_id` counter. Planets are
// never deleted, so a simple increasing counter (rather than a uuid)
// keeps ids compact and orderable, matching
// `original_source/core/planet.py`'s `_next_global_id`.
var nextGlobalID int64

// NextGlobalID :
// Allocates the next process-wide planet global id.
func NextGlobalID() int64 {
	return atomic.AddInt64(&nextGlobalID, 1)
}

// Patent :
// A transferable bonus that conditionally multiplies a production
// yield. Present in the data model but never populated by the
// dispatcher in this server — no command grants one — so production
// always runs with an empty patent collection today; the hook exists
// because §4.5.4 describes patent application as part of the formula.
type Patent struct {
	TargetType string
	Multiplier float64
}

// applyPatents :
// Multiplies `yield` by every patent targeting `targetType`.
func applyPatents(yield float64, patents []Patent, targetType string) float64 {
	for _, p := range patents {
		if p.TargetType == targetType {
			yield *= p.Multiplier
		}
	}
	return yield
}

// Planet :
// The core simulation entity: a colonizable body within a star system,
// holding slots, production caches, a build queue and a defense bag.
// Created with its star system and never deleted; mutated only by the
// command dispatcher and the tick scheduler.
//
// No field below carries its own `json`/`msgpack` tag: `Planet`'s wire
// and persisted shape is its `Snapshot` (see snapshot.go), produced and
// consumed through `MarshalJSON`/`UnmarshalJSON`/`EncodeMsgpack`/
// `DecodeMsgpack` rather than per-field struct tags, so that `Defense`
// and `BuildQueue` — which carry no tag-friendly shape of their own —
// round-trip along with everything else instead of being silently
// dropped.
type Planet struct {
	GlobalID int64
	ID       int
	Name     string

	PlanetTypeID string
	Climate      string
	Features     []string

	ResourceBonus map[string]float64
	DefenseBonus  float64

	PopulationMax int
	Population    int
	IsColonized   bool

	Mode            string
	CurrentResource string

	Slots []Slot

	Resources      map[string]float64
	IndustryPoints float64
	Statistics     map[string]float64

	Defense    *DefenseBag
	BuildQueue *BuildQueue

	RotationArtHint string

	cacheSignatures map[string]string
	cacheYields     map[string]float64
	lastSentActive  []bool
}

// NewPlanet :
// Creates a fresh, uncolonized planet: picks a planet type weighted by
// rarity, assigns a climate from that type's `possible_climates`,
// derives per-resource bonuses for whatever resources the type allows,
// and creates exactly `population_max` empty slots.
//
// The `reg` supplies planet types, planet features and resources.
//
// The `localID` is this planet's id within its star system.
//
// The `rng` drives every random choice. Candidate planet types and
// features are gathered from registry maps, whose iteration order varies
// between runs, so a seeded source repeats its result only when the
// registry offers a single candidate for each pick.
//
// Returns the created planet.
func NewPlanet(reg *registry.Registry, localID int, rng *rand.Rand) *Planet {
	planetTypeID := pickPlanetType(reg, rng)
	planetType, _ := reg.Category(registry.Planets, planetTypeID)

	climate := "unknown"
	if len(planetType.PossibleClimates) > 0 {
		climate = planetType.PossibleClimates[rng.Intn(len(planetType.PossibleClimates))]
	}

	populationMax := 1 + rng.Intn(20)

	slots := make([]Slot, populationMax)
	for i := range slots {
		slots[i] = NewSlot()
	}

	p := &Planet{
		GlobalID:      NextGlobalID(),
		ID:            localID,
		Name:          planetName(rng),
		PlanetTypeID:  planetTypeID,
		Climate:       climate,
		Features:      pickFeatures(reg, planetTypeID, rng),
		ResourceBonus: resourceBonuses(reg, planetTypeID, rng),
		DefenseBonus:  planetType.DefenseBaseBonus,
		PopulationMax: populationMax,
		Population:    0,
		IsColonized:   false,
		Mode:          "",
		Slots:         slots,
		Resources:     make(map[string]float64),
		IndustryPoints: 1000,
		Statistics: map[string]float64{
			"mine": 0, "refine": 0, "farm": 0, "industry": 0, "energy": 0, "science": 0,
		},
		Defense:         NewDefenseBag(),
		BuildQueue:      NewBuildQueue(),
		cacheSignatures: make(map[string]string),
		cacheYields:     make(map[string]float64),
		lastSentActive:  make([]bool, populationMax),
	}

	for i := range p.lastSentActive {
		p.lastSentActive[i] = true
	}

	return p
}

var rarityWeight = map[string]float64{
	"common":    0.25,
	"uncommon":  0.15,
	"rare":      0.05,
	"very_rare": 0.02,
}

// planetTypeAllowedResources :
// Fixed map of which resources each planet type can extract or refine,
// ported from `original_source/core/config.py`'s `PLANET_TYPE_ALLOWED`.
// Not registry-driven: the original hardcodes this table rather than
// storing it per planet-type catalog entry, so it stays a static table
// here too instead of inventing a registry field for it.
var planetTypeAllowedResources = map[string][]string{
	"volcanic":       {"metal_bars", "alloy", "quantum_alloy"},
	"quantum_giant":  {"quantum_plasma", "plasma"},
	"barren":         {"basaltic_ore"},
	"hydrogen_giant": {"hydrogen_gas"},
	"ionized_giant":  {"fuel", "plasma"},
	"oceanic":        {"water_ice"},
	"jungle":         {"wetware", "genetic_gel"},
	"symbiotic":      {"genetic_gel", "neural_symbionts"},
}

// planetTypeRarityBonus :
// Scales the random bonus multiplier assigned to a planet's allowed
// resources, ported from `PLANET_RARITY_BONUS` in the same module.
// Types absent from the table scale at 1.0.
var planetTypeRarityBonus = map[string]float64{
	"volcanic":       2,
	"quantum_giant":  3.0,
	"barren":         2,
	"hydrogen_giant": 2,
	"ionized_giant":  1.5,
	"oceanic":        1.5,
	"jungle":         1.3,
	"symbiotic":      1.4,
}

// pickPlanetType :
// Weighted-random selection of a planet type id from the registry,
// falling back to any loaded type if rarity weighting yields nothing.
func pickPlanetType(reg *registry.Registry, rng *rand.Rand) string {
	types := reg.All(registry.Planets)
	if len(types) == 0 {
		return ""
	}

	ids := make([]string, 0, len(types))
	weights := make([]float64, 0, len(types))
	total := 0.0

	for id, entry := range types {
		w, ok := rarityWeight[entry.Rarity]
		if !ok {
			w = 0.1
		}
		ids = append(ids, id)
		weights = append(weights, w)
		total += w
	}

	if total <= 0 {
		return ids[0]
	}

	pick := rng.Float64() * total
	for i, w := range weights {
		pick -= w
		if pick <= 0 {
			return ids[i]
		}
	}
	return ids[len(ids)-1]
}

func pickFeatures(reg *registry.Registry, planetTypeID string, rng *rand.Rand) []string {
	var candidates []string
	for id, entry := range reg.All(registry.PlanetFeatures) {
		if pt, ok := entry.Extra["planet_type"].(string); ok && pt == planetTypeID {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	count := 1 + rng.Intn(3)
	if count > len(candidates) {
		count = len(candidates)
	}

	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	return append([]string{}, candidates[:count]...)
}

// resourceBonuses :
// Assigns a per-resource yield multiplier for every resource
// `planetTypeAllowedResources` allows this planet type to extract or
// refine, scaled by `planetTypeRarityBonus`, per
// `assign_planet_bonuses` in `original_source/core/planet.py`.
func resourceBonuses(reg *registry.Registry, planetTypeID string, rng *rand.Rand) map[string]float64 {
	allowed := planetTypeAllowedResources[planetTypeID]
	if len(allowed) == 0 {
		return map[string]float64{}
	}

	rarityMult, ok := planetTypeRarityBonus[planetTypeID]
	if !ok {
		rarityMult = 1.0
	}

	resources := reg.All(registry.Resources)
	bonuses := make(map[string]float64, len(allowed))

	for _, id := range allowed {
		if _, ok := resources[id]; !ok {
			continue
		}
		base := 1.1 + rng.Float64()*0.4
		bonuses[id] = base * rarityMult
	}

	return bonuses
}

func planetName(rng *rand.Rand) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffix := 1000 + rng.Intn(9000)
	return "Planet-" + string(letters[rng.Intn(len(letters))]) + strconv.Itoa(suffix)
}
