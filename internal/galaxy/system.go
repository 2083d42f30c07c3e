package galaxy

import (
	"math/rand"
	"strconv"

	"github.com/ironreach/starforge/internal/planet"
	"github.com/ironreach/starforge/internal/registry"
)

// StarSystem :
// The contents of a `star_system` hex: a name and 1-4 planets, per
// `original_source/core/galaxy/star_system.py`.
type StarSystem struct {
	Name    string           `json:"name" msgpack:"name"`
	Planets []*planet.Planet `json:"planets" msgpack:"planets"`
}

// NewStarSystem :
// Creates a star system with a random name and between 1 and 4 freshly
// generated planets, local-numbered starting at 1.
func NewStarSystem(reg *registry.Registry, rng *rand.Rand) *StarSystem {
	count := 1 + rng.Intn(4)
	planets := make([]*planet.Planet, count)
	for i := range planets {
		planets[i] = planet.NewPlanet(reg, i+1, rng)
	}
	return &StarSystem{
		Name:    "System-" + strconv.Itoa(100+rng.Intn(900)),
		Planets: planets,
	}
}
