package dispatch

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironreach/starforge/internal/planet"
	"github.com/ironreach/starforge/internal/registry"
	"github.com/ironreach/starforge/pkg/logger"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newDispatchFixtures(t *testing.T) (*registry.Registry, *planet.Planet) {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "planet_types.json", `[{"id":"barren","name":"Barren","rarity":"common"}]`)
	writeFixture(t, dir, "resources.json", `[{"id":"basaltic_ore","name":"Basaltic Ore"}]`)
	writeFixture(t, dir, "buildings.json", `[{"id":"farm_complex","name":"Farm Complex","slot_type":"farm","cost":{"industry":1000}}]`)
	writeFixture(t, dir, "defense_units.json", `[{"id":"orbital_platform","name":"Orbital Platform","layer":"ORBITAL","defense_value":50,"cost":{"industry":1000}}]`)

	reg := registry.New(logger.NewStdLogger("test"))
	require.NoError(t, reg.Load(dir))

	rng := rand.New(rand.NewSource(1))
	p := planet.NewPlanet(reg, 1, rng)
	if len(p.Slots) == 0 {
		p.Slots = append(p.Slots, planet.NewSlot())
	}
	return reg, p
}

func TestDispatch_SetMode(t *testing.T) {
	reg, p := newDispatchFixtures(t)
	require.NoError(t, Dispatch(reg, p, ActionSetMode, "mine"))
	assert.Equal(t, "mine", p.Mode)

	require.NoError(t, Dispatch(reg, p, ActionSetMode, "refine"))
	assert.Equal(t, "refine", p.Mode)
}

func TestDispatch_SetMode_RejectsNonString(t *testing.T) {
	reg, p := newDispatchFixtures(t)
	assert.Error(t, Dispatch(reg, p, ActionSetMode, 42))
}

func TestDispatch_SetMode_RejectsUnknownMode(t *testing.T) {
	reg, p := newDispatchFixtures(t)
	err := Dispatch(reg, p, ActionSetMode, "production")
	assert.Error(t, err)
	assert.Empty(t, p.Mode)
}

func TestDispatch_ApplyResource_ValidatesAgainstRegistry(t *testing.T) {
	reg, p := newDispatchFixtures(t)
	require.NoError(t, Dispatch(reg, p, ActionApplyResource, "basaltic_ore"))
	assert.Equal(t, "basaltic_ore", p.CurrentResource)

	assert.Error(t, Dispatch(reg, p, ActionApplyResource, "not_a_resource"))
}

func TestDispatch_ToggleSlot_FlipsActiveFlag(t *testing.T) {
	reg, p := newDispatchFixtures(t)
	p.Slots[0].Type = planet.SlotFarm
	p.Slots[0].Status = planet.StatusBuilt

	wasActive := p.Slots[0].Active
	require.NoError(t, Dispatch(reg, p, ActionToggleSlot, 0))
	assert.Equal(t, !wasActive, p.Slots[0].Active)
}

func TestDispatch_ToggleSlot_RejectsOutOfRange(t *testing.T) {
	reg, p := newDispatchFixtures(t)
	assert.Error(t, Dispatch(reg, p, ActionToggleSlot, 9999))
}

func TestDispatch_ToggleSlot_AcceptsFloat64FromWireDecoding(t *testing.T) {
	reg, p := newDispatchFixtures(t)
	require.NoError(t, Dispatch(reg, p, ActionToggleSlot, float64(0)))
}

func TestDispatch_AddSlot_StartsBuild(t *testing.T) {
	reg, p := newDispatchFixtures(t)
	for i := range p.Slots {
		p.Slots[i].Clear()
	}

	require.NoError(t, Dispatch(reg, p, ActionAddSlot, "farm_complex"))
	require.Len(t, p.BuildQueue.Orders, 1)
	assert.Equal(t, "farm_complex", p.BuildQueue.Orders[0].ItemID)
}

func TestDispatch_BuildDefenseUnit_StartsBuild(t *testing.T) {
	reg, p := newDispatchFixtures(t)
	require.NoError(t, Dispatch(reg, p, ActionBuildDefenseUnit, "orbital_platform"))
	require.Len(t, p.BuildQueue.Orders, 1)
	assert.Equal(t, planet.CategoryDefense, p.BuildQueue.Orders[0].Category)
}

func TestDispatch_RemoveSlot_ClearsMatchingSlot(t *testing.T) {
	reg, p := newDispatchFixtures(t)
	p.Slots[0].Type = planet.SlotFarm
	p.Slots[0].Status = planet.StatusBuilt

	require.NoError(t, Dispatch(reg, p, ActionRemoveSlot, "farm"))
	assert.True(t, p.Slots[0].IsEmpty())
}

func TestDispatch_RemoveSlot_NoMatchingSlotFails(t *testing.T) {
	reg, p := newDispatchFixtures(t)
	for i := range p.Slots {
		p.Slots[i].Clear()
	}
	assert.Error(t, Dispatch(reg, p, ActionRemoveSlot, "mine"))
}

func TestDispatch_UnknownActionFails(t *testing.T) {
	reg, p := newDispatchFixtures(t)
	err := Dispatch(reg, p, Action("teleport"), nil)
	assert.ErrorIs(t, err, ErrUnknownAction)
}
