package planet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironreach/starforge/internal/registry"
	"github.com/ironreach/starforge/pkg/logger"
)

func newBuildRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, writeJSONFixture(dir, "buildings.json", `[
		{"id":"farm_complex","name":"Farm Complex","slot_type":"farm","cost":{"industry":2000}}
	]`))
	require.NoError(t, writeJSONFixture(dir, "defense_units.json", `[
		{"id":"orbital_platform","name":"Orbital Platform","layer":"ORBITAL","defense_value":50,"cost":{"industry":1500}}
	]`))

	r := registry.New(logger.NewStdLogger("test"))
	require.NoError(t, r.Load(dir))
	return r
}

func planetWithSlots(n int) *Planet {
	p := newBarePlanet()
	p.Slots = make([]Slot, n)
	for i := range p.Slots {
		p.Slots[i] = NewSlot()
	}
	p.IndustryPoints = 1000
	p.BuildQueue = NewBuildQueue()
	p.Defense = NewDefenseBag()
	return p
}

func TestStartBuild_UnknownItemFails(t *testing.T) {
	reg := newBuildRegistry(t)
	p := planetWithSlots(1)

	err := p.StartBuild(reg, "does_not_exist")
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestStartBuild_Building_PinsSlotAndEnqueues(t *testing.T) {
	reg := newBuildRegistry(t)
	p := planetWithSlots(1)

	require.NoError(t, p.StartBuild(reg, "farm_complex"))

	assert.Equal(t, SlotFarm, p.Slots[0].Type)
	assert.Equal(t, StatusUnderConstruction, p.Slots[0].Status)
	assert.Equal(t, "farm_complex", p.Slots[0].BuildingID)

	require.Len(t, p.BuildQueue.Orders, 1)
	order := p.BuildQueue.Orders[0]
	assert.Equal(t, CategoryBuilding, order.Category)
	assert.Equal(t, 0, order.SlotIndex)
	assert.Equal(t, 2000.0, order.IndustryCost)
	assert.Equal(t, 120.0, order.BuildTimeSeconds)
}

func TestStartBuild_Building_NoFreeSlotFails(t *testing.T) {
	reg := newBuildRegistry(t)
	p := planetWithSlots(1)
	p.Slots[0] = Slot{Type: SlotMine, Status: StatusBuilt, Active: true}

	err := p.StartBuild(reg, "farm_complex")
	assert.ErrorIs(t, err, ErrNoSlotAvailable)
}

func TestStartBuild_Defense_DoesNotPinSlot(t *testing.T) {
	reg := newBuildRegistry(t)
	p := planetWithSlots(1)

	require.NoError(t, p.StartBuild(reg, "orbital_platform"))

	assert.True(t, p.Slots[0].IsEmpty())
	require.Len(t, p.BuildQueue.Orders, 1)
	assert.Equal(t, CategoryDefense, p.BuildQueue.Orders[0].Category)
	assert.Equal(t, -1, p.BuildQueue.Orders[0].SlotIndex)
}

func TestAdvanceBuildQueue_BuildingCompletion_FinalizesSlot(t *testing.T) {
	reg := newBuildRegistry(t)
	p := planetWithSlots(1)
	require.NoError(t, p.StartBuild(reg, "farm_complex"))

	buildTime := p.BuildQueue.Orders[0].BuildTimeSeconds
	completed := p.AdvanceBuildQueue(reg, buildTime)

	require.NotNil(t, completed)
	assert.Equal(t, StatusBuilt, p.Slots[0].Status)
	assert.Empty(t, p.BuildQueue.Orders)
}

func TestAdvanceBuildQueue_DefenseCompletion_AddsUnitToBag(t *testing.T) {
	reg := newBuildRegistry(t)
	p := planetWithSlots(0)
	require.NoError(t, p.StartBuild(reg, "orbital_platform"))

	buildTime := p.BuildQueue.Orders[0].BuildTimeSeconds
	completed := p.AdvanceBuildQueue(reg, buildTime)

	require.NotNil(t, completed)
	counts := p.Defense.UnitCounts()
	assert.Equal(t, 1, counts["ORBITAL"])
}

func TestAdvanceBuildQueue_NoOrderReturnsNil(t *testing.T) {
	reg := newBuildRegistry(t)
	p := planetWithSlots(1)

	assert.Nil(t, p.AdvanceBuildQueue(reg, 10))
}

func TestIndustryCost_DefaultsWhenMissing(t *testing.T) {
	assert.Equal(t, 1000.0, industryCost(nil))
	assert.Equal(t, 1000.0, industryCost(map[string]float64{"industry": 0}))
	assert.Equal(t, 500.0, industryCost(map[string]float64{"industry": 500}))
}
