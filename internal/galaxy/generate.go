package galaxy

import (
	"math/rand"

	"github.com/ironreach/starforge/internal/protocol"
	"github.com/ironreach/starforge/internal/registry"
)

// Map :
// A generated galaxy's hex grid, per §4.6 and
// `original_source/core/galaxy/galaxy_map.py`.
type Map struct {
	Width         int                 `json:"width" msgpack:"width"`
	Height        int                 `json:"height" msgpack:"height"`
	StarDensity   int                 `json:"-" msgpack:"-"`
	NebulaDensity int                 `json:"-" msgpack:"-"`
	Grid          []*Hex              `json:"grid" msgpack:"grid"`
	StartingHex   *protocol.HexCoord  `json:"starting_hex,omitempty" msgpack:"starting_hex,omitempty"`
	OwnerID       string              `json:"owner_id" msgpack:"owner_id"`
}

// pickFeature :
// Weighted-random pick of a feature from `weights` (in enum order).
func pickFeature(weights [5]float64, rng *rand.Rand) Feature {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	pick := rng.Float64() * total
	for i, w := range weights {
		pick -= w
		if pick <= 0 {
			return Feature(i)
		}
	}
	return Feature(len(weights) - 1)
}

// generateHexes :
// Builds the offset-q grid, per `_generate_hexes`: for each column `q`
// in `[0, width)`, rows run from `-floor(q/2)` to `height-floor(q/2)-1`.
// Every tile gets a weighted-random feature; `star_system` tiles get a
// freshly generated `StarSystem`.
func generateHexes(reg *registry.Registry, width, height, starDensity, nebulaDensity int, rng *rand.Rand) []*Hex {
	weights := featureWeights(starDensity, nebulaDensity)

	var grid []*Hex
	for q := 0; q < width; q++ {
		qOffset := q / 2
		for r := -qOffset; r < height-qOffset; r++ {
			feature := pickFeature(weights, rng)

			h := &Hex{
				Coord:   protocol.NewHexCoord(int32(q), int32(r)),
				Feature: feature,
			}
			if feature == FeatureStarSystem {
				h.Contents = NewStarSystem(reg, rng)
			}
			grid = append(grid, h)
		}
	}
	return grid
}

// NewMap :
// Generates a galaxy grid of the given dimensions and densities, with
// no ownership or reservation assigned.
func NewMap(reg *registry.Registry, width, height, starDensity, nebulaDensity int, rng *rand.Rand) *Map {
	return &Map{
		Width:         width,
		Height:        height,
		StarDensity:   starDensity,
		NebulaDensity: nebulaDensity,
		Grid:          generateHexes(reg, width, height, starDensity, nebulaDensity, rng),
	}
}

// GenerateForPlayer :
// Generates a galaxy for `playerID`, retrying whole-grid generation
// until at least one `star_system` tile exists, then assigns ownership
// of that tile (and colonizes its planets) to the player while
// reserving every other tile for them, per `generate_for_player`.
func GenerateForPlayer(reg *registry.Registry, playerID string, width, height, starDensity, nebulaDensity int, rng *rand.Rand) *Map {
	var m *Map
	var startHex *Hex

	for startHex == nil {
		m = NewMap(reg, width, height, starDensity, nebulaDensity, rng)
		for _, h := range m.Grid {
			if h.Feature == FeatureStarSystem {
				startHex = h
				break
			}
		}
	}

	for _, h := range m.Grid {
		if h == startHex {
			h.OwnerID = playerID
			h.ReservedID = playerID
			for _, p := range h.Contents.Planets {
				p.IsColonized = true
			}
		} else {
			h.OwnerID = ""
			h.ReservedID = playerID
		}
	}

	coord := startHex.Coord
	m.StartingHex = &coord
	m.OwnerID = playerID

	return m
}
