package galaxy

// Feature :
// The kind of thing occupying a hex tile. Wire-encoded as a small fixed
// integer (`feature` key of a `hex_dict`), never as a string, per §6.
type Feature int

// The fixed feature enum. Values are part of the wire protocol and must
// never be renumbered.
const (
	FeatureStarSystem Feature = iota
	FeatureNebula
	FeatureAsteroidField
	FeatureBlackHole
	FeatureEmpty
)

var featureNames = [...]string{
	FeatureStarSystem:    "star_system",
	FeatureNebula:        "nebula",
	FeatureAsteroidField: "asteroid_field",
	FeatureBlackHole:     "black_hole",
	FeatureEmpty:         "empty",
}

// String :
// Returns the feature's name as used in logs and tests.
func (f Feature) String() string {
	if int(f) < 0 || int(f) >= len(featureNames) {
		return "unknown"
	}
	return featureNames[f]
}

// featureWeights :
// Returns the weight of each feature in enum order, derived from a
// galaxy's star and nebula density per §4.4's formulas.
//
// The `starDensity`, `nebulaDensity` are in `[0, 100]`.
func featureWeights(starDensity, nebulaDensity int) [5]float64 {
	starScale := 0.2 + float64(starDensity)/100.0
	nebulaScale := 0.2 + float64(nebulaDensity)/100.0

	wStar := 0.30 * starScale
	wNebula := 0.12 * nebulaScale
	wAsteroid := 0.14
	wBlackHole := 0.04

	densityFactor := float64(starDensity+nebulaDensity) / 200.0
	wEmpty := 0.10 * (1.0 - 0.4*densityFactor)
	if wEmpty < 0.02 {
		wEmpty = 0.02
	}

	return [5]float64{wStar, wNebula, wAsteroid, wBlackHole, wEmpty}
}
