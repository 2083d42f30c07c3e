package galaxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeature_String(t *testing.T) {
	assert.Equal(t, "star_system", FeatureStarSystem.String())
	assert.Equal(t, "empty", FeatureEmpty.String())
	assert.Equal(t, "unknown", Feature(99).String())
	assert.Equal(t, "unknown", Feature(-1).String())
}

func TestFeatureWeights_SumsToExpectedComponents(t *testing.T) {
	w := featureWeights(50, 20)

	assert.InDelta(t, 0.30*0.7, w[FeatureStarSystem], 1e-9)
	assert.InDelta(t, 0.12*0.4, w[FeatureNebula], 1e-9)
	assert.Equal(t, 0.14, w[FeatureAsteroidField])
	assert.Equal(t, 0.04, w[FeatureBlackHole])
}

func TestFeatureWeights_EmptyStaysAtOrAboveMinimum(t *testing.T) {
	w := featureWeights(100, 100)
	assert.GreaterOrEqual(t, w[FeatureEmpty], 0.02)
}

func TestFeatureWeights_HigherDensityRaisesStarWeight(t *testing.T) {
	low := featureWeights(10, 10)
	high := featureWeights(90, 90)
	assert.Greater(t, high[FeatureStarSystem], low[FeatureStarSystem])
}
