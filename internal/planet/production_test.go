package planet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironreach/starforge/internal/registry"
	"github.com/ironreach/starforge/pkg/logger"
)

func newProductionRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, writeJSONFixture(dir, "resources.json", `[
		{"id":"basaltic_ore","name":"Basaltic Ore","resource_type":"raw","refinement_level":"raw","yield":1.0},
		{"id":"metal_bars","name":"Metal Bars","resource_type":"refined","refinement_level":"processed","yield":1.0,"inputs":{"basaltic_ore":2.0}}
	]`))
	require.NoError(t, writeJSONFixture(dir, "buildings.json", `[
		{"id":"automated_mine","name":"Automated Mine","slot_type":"mine","base_yield":3.0},
		{"id":"refinery_block","name":"Refinery Block","slot_type":"refine"}
	]`))

	r := registry.New(logger.NewStdLogger("test"))
	require.NoError(t, r.Load(dir))
	return r
}

func newBarePlanet() *Planet {
	return &Planet{
		Mode:            "",
		CurrentResource: "basaltic_ore",
		Climate:         "temperate",
		ResourceBonus:   map[string]float64{},
		Resources:       map[string]float64{},
		Statistics:      map[string]float64{},
		cacheSignatures: make(map[string]string),
		cacheYields:     make(map[string]float64),
	}
}

func TestRunProduction_Mine_ProducesYield(t *testing.T) {
	reg := newProductionRegistry(t)
	p := newBarePlanet()
	p.Slots = []Slot{{Type: SlotMine, Status: StatusBuilt, Active: true, BuildingID: "automated_mine"}}

	p.RunProduction(reg, false, nil)

	assert.Greater(t, p.Resources["basaltic_ore"], 0.0)
	assert.Equal(t, p.Resources["basaltic_ore"], p.Statistics["mine"])
}

func TestRunProduction_Mine_CacheHitReusesYield(t *testing.T) {
	reg := newProductionRegistry(t)
	p := newBarePlanet()
	p.Slots = []Slot{{Type: SlotMine, Status: StatusBuilt, Active: true, BuildingID: "automated_mine"}}

	p.RunProduction(reg, false, nil)
	first := p.Resources["basaltic_ore"]

	p.RunProduction(reg, false, nil)
	assert.Equal(t, first*2, p.Resources["basaltic_ore"])
}

func TestRunProduction_Mine_SignatureChangeForcesRecompute(t *testing.T) {
	reg := newProductionRegistry(t)
	p := newBarePlanet()
	p.Slots = []Slot{{Type: SlotMine, Status: StatusBuilt, Active: true, BuildingID: "automated_mine"}}

	p.RunProduction(reg, false, nil)
	oneSlotYield := p.Statistics["mine"]

	p.Slots = append(p.Slots, Slot{Type: SlotMine, Status: StatusBuilt, Active: true, BuildingID: "automated_mine"})
	p.RunProduction(reg, false, nil)

	assert.Equal(t, oneSlotYield*2, p.Statistics["mine"])
}

func TestRunProduction_Refine_AllOrNothingConsumption(t *testing.T) {
	reg := newProductionRegistry(t)
	p := newBarePlanet()
	p.CurrentResource = "metal_bars"
	p.Slots = []Slot{{Type: SlotRefine, Status: StatusBuilt, Active: true, BuildingID: "refinery_block"}}
	p.Resources["basaltic_ore"] = 1.0

	p.RunProduction(reg, false, nil)

	assert.Equal(t, 1.0, p.Resources["basaltic_ore"])
	assert.Equal(t, 0.0, p.Statistics["refine"])
	assert.Equal(t, 0.0, p.Resources["metal_bars"])
}

func TestRunProduction_Refine_ConsumesInputsAndProducesOutput(t *testing.T) {
	reg := newProductionRegistry(t)
	p := newBarePlanet()
	p.CurrentResource = "metal_bars"
	p.Slots = []Slot{{Type: SlotRefine, Status: StatusBuilt, Active: true, BuildingID: "refinery_block"}}
	p.Resources["basaltic_ore"] = 100.0

	p.RunProduction(reg, false, nil)

	assert.Less(t, p.Resources["basaltic_ore"], 100.0)
	assert.Greater(t, p.Resources["metal_bars"], 0.0)
	assert.Equal(t, p.Resources["metal_bars"], p.Statistics["refine"])
}

func TestRunProduction_Refine_CacheHitStillConsumesEveryTick(t *testing.T) {
	reg := newProductionRegistry(t)
	p := newBarePlanet()
	p.CurrentResource = "metal_bars"
	p.Slots = []Slot{{Type: SlotRefine, Status: StatusBuilt, Active: true, BuildingID: "refinery_block"}}
	p.Resources["basaltic_ore"] = 100.0

	p.RunProduction(reg, false, nil)
	afterFirst := p.Resources["basaltic_ore"]
	require.Less(t, afterFirst, 100.0)

	p.RunProduction(reg, false, nil)
	assert.Less(t, p.Resources["basaltic_ore"], afterFirst)
}

func TestRunProduction_Refine_CacheHitStopsWhenInputsRunOut(t *testing.T) {
	reg := newProductionRegistry(t)
	p := newBarePlanet()
	p.CurrentResource = "metal_bars"
	p.Slots = []Slot{{Type: SlotRefine, Status: StatusBuilt, Active: true, BuildingID: "refinery_block"}}
	p.Resources["basaltic_ore"] = 3.0

	p.RunProduction(reg, false, nil)
	producedFirst := p.Statistics["refine"]
	require.Greater(t, producedFirst, 0.0)

	p.RunProduction(reg, false, nil)
	assert.Equal(t, 0.0, p.Statistics["refine"])
}

func TestRunProduction_UnknownCurrentResourceZeroesStatistics(t *testing.T) {
	reg := newProductionRegistry(t)
	p := newBarePlanet()
	p.CurrentResource = "does_not_exist"

	p.RunProduction(reg, false, nil)

	assert.Equal(t, 0.0, p.Statistics["mine"])
	assert.Equal(t, 0.0, p.Statistics["refine"])
}

func TestRunProduction_Farm_InactiveSlotProducesNothing(t *testing.T) {
	reg := newProductionRegistry(t)
	p := newBarePlanet()
	p.Slots = []Slot{{Type: SlotFarm, Status: StatusBuilt, Active: false}}

	p.RunProduction(reg, false, nil)

	assert.Equal(t, 0.0, p.Statistics["farm"])
}

func TestApplyPatents_MultipliesMatchingTarget(t *testing.T) {
	patents := []Patent{{TargetType: "mine", Multiplier: 2.0}, {TargetType: "refine", Multiplier: 3.0}}
	assert.Equal(t, 20.0, applyPatents(10.0, patents, "mine"))
	assert.Equal(t, 10.0, applyPatents(10.0, patents, "farm"))
}
