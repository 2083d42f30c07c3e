package planet

import (
	"fmt"
	"strings"

	"github.com/ironreach/starforge/internal/registry"
)

// FarmResource :
// The fixed resource symbol farm production always targets. Hardcoded
// per §9's Design Notes ("this should be configurable or
// registry-driven" is left as a known limitation, not implemented
// here, since the spec names no replacement mechanism).
const FarmResource = "Organifera"

// signature :
// Builds the cache signature for one production category: the mode,
// the current resource, and the ordered `(type, status, active)` tuple
// of every slot matching `slotType`, per §4.5.3. Equality is the only
// operation this needs to support, so a deterministic string encoding
// is enough; the spec's suggestion to hash the projection instead is a
// pure performance concern that doesn't change observable behavior.
func (p *Planet) signature(slotType SlotType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|", p.Mode, p.CurrentResource)
	for _, s := range p.Slots {
		if s.Type != slotType {
			continue
		}
		fmt.Fprintf(&b, "(%s,%s,%t)", s.Type, s.Status, s.Active)
	}
	return b.String()
}

// RunProduction :
// Executes one production step: farm (always active), then mine or
// refine depending on whether the current resource has inputs, per
// §4.5.4. Recomputes a category only when its signature changed or
// `forceRecompute` is set; otherwise reuses the last cached yield.
//
// The `reg` supplies resource and building yield data.
//
// The `patents` multiply matching categories' yields; an empty slice
// applies no bonus.
func (p *Planet) RunProduction(reg *registry.Registry, forceRecompute bool, patents []Patent) {
	p.runFarm(reg, forceRecompute, patents)

	resource, ok := reg.Category(registry.Resources, p.CurrentResource)
	if !ok {
		p.Statistics["mine"] = 0
		p.Statistics["refine"] = 0
		return
	}

	if resource.IsRefinable() {
		p.runRefine(reg, resource, forceRecompute, patents)
	} else {
		p.runMine(reg, resource, forceRecompute, patents)
	}
}

func (p *Planet) runFarm(reg *registry.Registry, forceRecompute bool, patents []Patent) {
	sig := p.signature(SlotFarm)

	if !forceRecompute && p.cacheSignatures["farm"] == sig {
		if y := p.cacheYields["farm"]; y > 0 {
			p.Resources[FarmResource] += y
			p.Statistics["farm"] = y
		}
		return
	}

	count := 0
	baseYield := 1.0
	for _, s := range p.Slots {
		if s.Type == SlotFarm && s.Status == StatusBuilt && s.Active {
			count++
			if entry, ok := reg.Category(registry.Buildings, s.BuildingID); ok && entry.BaseYield > 0 {
				baseYield = entry.BaseYield
			}
		}
	}

	yield := 0.0
	if count > 0 {
		yield = float64(count) * baseYield
		yield = applyPatents(yield, patents, "organics")
	}

	p.cacheSignatures["farm"] = sig
	p.cacheYields["farm"] = yield

	if yield > 0 {
		p.Resources[FarmResource] += yield
		p.Statistics["farm"] = yield
	} else {
		p.Statistics["farm"] = 0
	}
}

// resourceYieldBonus :
// `resource_bonus[current_resource] * climate.resource_yield`, per
// §4.5.4, both defaulting to 1.0.
func (p *Planet) resourceYieldBonus() float64 {
	bonus := 1.0
	if b, ok := p.ResourceBonus[p.CurrentResource]; ok {
		bonus = b
	}
	return bonus * climate(p.Climate).resourceYield()
}

// refineBonus :
// `resource_bonus[current_resource] * climate.refining_speed`, per
// §4.5.4, both defaulting to 1.0.
func (p *Planet) refineBonus() float64 {
	bonus := 1.0
	if b, ok := p.ResourceBonus[p.CurrentResource]; ok {
		bonus = b
	}
	return bonus * climate(p.Climate).refiningSpeed()
}

func (p *Planet) runMine(reg *registry.Registry, resource registry.Entry, forceRecompute bool, patents []Patent) {
	sig := p.signature(SlotMine)

	if !forceRecompute && p.cacheSignatures["mine"] == sig {
		if y := p.cacheYields["mine"]; y > 0 {
			p.Resources[p.CurrentResource] += y
			p.Statistics["mine"] = y
		}
		return
	}

	count := 0
	baseYield := 1.0
	for _, s := range p.Slots {
		if s.Type == SlotMine && s.Status == StatusBuilt {
			count++
			if entry, ok := reg.Category(registry.Buildings, s.BuildingID); ok && entry.BaseYield > 0 {
				baseYield = entry.BaseYield
			}
		}
	}

	yield := 0.0
	if count > 0 {
		refineMult := refinementMultiplier(resource.RefinementLevel)
		resourceYield := resource.Yield
		if resourceYield == 0 {
			resourceYield = 1.0
		}

		yield = float64(count) * p.resourceYieldBonus() * baseYield * refineMult * resourceYield
		yield = applyPatents(yield, patents, "mine")
	}

	p.cacheSignatures["mine"] = sig
	p.cacheYields["mine"] = yield

	if yield > 0 {
		p.Resources[p.CurrentResource] += yield
		p.Statistics["mine"] = yield
	} else {
		p.Statistics["mine"] = 0
	}
}

func (p *Planet) runRefine(reg *registry.Registry, resource registry.Entry, forceRecompute bool, patents []Patent) {
	sig := p.signature(SlotRefine)

	var rawYield float64
	if !forceRecompute && p.cacheSignatures["refine"] == sig {
		// The signature (mode, current resource, refine slots' type,
		// status and active flag) hasn't changed, so
		// the raw yield doesn't need recomputing from the resource
		// tables — but availability of inputs is checked and consumed
		// fresh every tick below, since the resource pool moves even
		// when the signature doesn't.
		rawYield = p.cacheYields["refine"]
	} else {
		count := 0
		for _, s := range p.Slots {
			if s.Type == SlotRefine && s.Status == StatusBuilt {
				count++
			}
		}

		if count == 0 {
			p.cacheSignatures["refine"] = sig
			p.cacheYields["refine"] = 0
			p.Statistics["refine"] = 0
			return
		}

		rawYield = float64(count) * p.refineBonus()
		rawYield = applyPatents(rawYield, patents, "refine")

		p.cacheSignatures["refine"] = sig
		p.cacheYields["refine"] = rawYield
	}

	if rawYield == 0 {
		p.Statistics["refine"] = 0
		return
	}

	// Refining is all-or-nothing: any input below demand turns the
	// whole step into a no-op for this tick, per §4.5.4.
	for inputID, ratio := range resource.Inputs {
		if p.Resources[inputID] < rawYield*ratio {
			p.Statistics["refine"] = 0
			return
		}
	}

	for inputID, ratio := range resource.Inputs {
		p.Resources[inputID] -= rawYield * ratio
	}

	p.applyRefineOutput(resource, rawYield)
}

func (p *Planet) applyRefineOutput(resource registry.Entry, rawYield float64) {
	resourceYield := resource.Yield
	if resourceYield == 0 {
		resourceYield = 1.0
	}
	produced := rawYield * resourceYield
	p.Resources[p.CurrentResource] += produced
	p.Statistics["refine"] = produced
}
