package planet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironreach/starforge/pkg/logger"
	"github.com/ironreach/starforge/internal/registry"
)

func newDefenseRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, writeJSONFixture(dir, "defense_units.json", `[
		{"id":"orbital_platform","name":"Orbital Platform","layer":"ORBITAL","defense_value":50},
		{"id":"bunker_complex","name":"Bunker Complex","layer":"GROUND","defense_value":60}
	]`))

	r := registry.New(logger.NewStdLogger("test"))
	require.NoError(t, r.Load(dir))
	return r
}

func TestDefenseBag_AddAndCount(t *testing.T) {
	bag := NewDefenseBag()
	bag.AddUnit(Orbital, "orbital_platform")
	bag.AddUnit(Orbital, "orbital_platform")
	bag.AddUnit(Ground, "bunker_complex")

	counts := bag.UnitCounts()
	assert.Equal(t, 2, counts["ORBITAL"])
	assert.Equal(t, 1, counts["GROUND"])
	assert.Equal(t, 0, counts["DEEP_SPACE"])
}

func TestDefenseBag_RemoveUnit(t *testing.T) {
	bag := NewDefenseBag()
	bag.AddUnit(Orbital, "orbital_platform")

	assert.True(t, bag.RemoveUnit("orbital_platform"))
	assert.False(t, bag.RemoveUnit("orbital_platform"))
	assert.Empty(t, bag.Units(Orbital))
}

func TestDefenseBag_TotalDefenseValue(t *testing.T) {
	reg := newDefenseRegistry(t)
	bag := NewDefenseBag()
	bag.AddUnit(Orbital, "orbital_platform")
	bag.AddUnit(Ground, "bunker_complex")

	assert.Equal(t, 110.0, bag.TotalDefenseValue(reg, nil))

	orbital := Orbital
	assert.Equal(t, 50.0, bag.TotalDefenseValue(reg, &orbital))
}

func TestDefenseBag_ToWireAndFromWire_RoundTrip(t *testing.T) {
	bag := NewDefenseBag()
	bag.AddUnit(Orbital, "orbital_platform")
	bag.AddUnit(Ground, "bunker_complex")

	wire := bag.ToWire()
	assert.Equal(t, []string{"orbital_platform"}, wire["ORBITAL"])

	rebuilt := DefenseBagFromWire(wire)
	assert.Equal(t, []string{"orbital_platform"}, rebuilt.Units(Orbital))
	assert.Equal(t, []string{"bunker_complex"}, rebuilt.Units(Ground))
}

func TestDefenseBagFromWire_SkipsUnknownLayer(t *testing.T) {
	rebuilt := DefenseBagFromWire(map[string][]string{"MOON_BASE": {"ghost_unit"}})
	assert.Empty(t, rebuilt.Units(Orbital))
}

func TestParseDefenseLayer(t *testing.T) {
	layer, ok := ParseDefenseLayer("GROUND")
	require.True(t, ok)
	assert.Equal(t, Ground, layer)

	_, ok = ParseDefenseLayer("NOT_A_LAYER")
	assert.False(t, ok)
}
