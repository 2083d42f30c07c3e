package planet

// ClimateEffect :
// The multipliers a climate applies to a planet. A `ResourceYield` or
// `RefiningSpeed` left at its zero value defaults to `1.0` when read
// through the `resourceYield`/`refiningSpeed` accessors below — not every
// climate in the table specifies every effect. `DefenseModifier` has no
// such accessor; a climate that leaves it unset holds `0`.
type ClimateEffect struct {
	ResourceYield   float64
	RefiningSpeed   float64
	DefenseModifier float64
}

// climateEffects :
// Enumerated climate configuration keyed by climate name, per §4.5.4.
// Not every climate sets every field; a missing yield or refining
// speed reads as 1.0 through the accessor methods below.
var climateEffects = map[string]ClimateEffect{
	"sandstorm":    {ResourceYield: 0.85, RefiningSpeed: 1.0, DefenseModifier: 1.1},
	"drought":      {ResourceYield: 0.8, RefiningSpeed: 1.0, DefenseModifier: 1.0},
	"dry_winds":    {ResourceYield: 0.9, DefenseModifier: 1.05},
	"temperate":    {ResourceYield: 1.0, RefiningSpeed: 1.0, DefenseModifier: 1.0},
	"lava_rain":    {ResourceYield: 0.9, DefenseModifier: 1.3},
	"toxic_fumes":  {RefiningSpeed: 0.9},
	"acid_storms":  {ResourceYield: 0.85, DefenseModifier: 1.2},
	"megastorms":   {ResourceYield: 0.9, DefenseModifier: 1.1},
	"ion_winds":    {RefiningSpeed: 1.1},
	"plasma_storms": {DefenseModifier: 1.3},
	"quantum_flux": {ResourceYield: 1.2, RefiningSpeed: 0.8},
	"monsoon":      {ResourceYield: 1.1, DefenseModifier: 0.9},
	"humid":        {ResourceYield: 1.1},
	"dense_fog":    {DefenseModifier: 1.15, RefiningSpeed: 0.95},
}

// climate :
// Looks up the effect table for a climate name, falling back to
// `temperate`'s neutral multipliers for an unrecognized climate
// (including "unknown", assigned when a planet type has no
// `possible_climates`).
func climate(name string) ClimateEffect {
	if effect, ok := climateEffects[name]; ok {
		return effect
	}
	return ClimateEffect{ResourceYield: 1.0, RefiningSpeed: 1.0, DefenseModifier: 1.0}
}

// resourceYield :
// Returns the climate's resource-yield multiplier, defaulting to 1.0.
func (c ClimateEffect) resourceYield() float64 {
	if c.ResourceYield == 0 {
		return 1.0
	}
	return c.ResourceYield
}

// refiningSpeed :
// Returns the climate's refining-speed multiplier, defaulting to 1.0.
func (c ClimateEffect) refiningSpeed() float64 {
	if c.RefiningSpeed == 0 {
		return 1.0
	}
	return c.RefiningSpeed
}

// refinementYieldMultipliers :
// Scales raw yield by a resource's refinement level, per §4.5.4.
var refinementYieldMultipliers = map[string]float64{
	"raw":       1.0,
	"processed": 1.25,
	"advanced":  1.5,
}

func refinementMultiplier(level string) float64 {
	if m, ok := refinementYieldMultipliers[level]; ok {
		return m
	}
	return 1.0
}
