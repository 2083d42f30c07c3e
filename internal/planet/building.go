package planet

import "github.com/ironreach/starforge/internal/registry"

// StartBuild :
// Resolves `itemID` in `registry.Buildings` or `registry.DefenseUnits`
// and enqueues a build order, per §4.5.5.
//
// Buildings require one free slot; it is pinned at enqueue time with
// `status = under_construction` and `type` set to the building's
// `slot_type` so completion finalizes the right slot. Defense units
// never pin a slot.
//
// Returns `ErrUnknownItem` if `itemID` matches neither registry
// category, or `ErrNoSlotAvailable` if a building has no free slot.
func (p *Planet) StartBuild(reg *registry.Registry, itemID string) error {
	if entry, ok := reg.Category(registry.Buildings, itemID); ok {
		return p.startBuildingOrder(entry)
	}
	if entry, ok := reg.Category(registry.DefenseUnits, itemID); ok {
		return p.startDefenseOrder(entry)
	}
	return ErrUnknownItem
}

func industryCost(cost map[string]float64) float64 {
	if v, ok := cost["industry"]; ok && v > 0 {
		return v
	}
	return 1000
}

func (p *Planet) startBuildingOrder(entry registry.Entry) error {
	available := p.AvailableSlots()
	if len(available) == 0 {
		return ErrNoSlotAvailable
	}
	slotIndex := available[0]

	cost := industryCost(entry.Cost)
	buildTime := (cost / p.GetTotalIndustryPoints()) * 60

	slot := &p.Slots[slotIndex]
	slot.Status = StatusUnderConstruction
	slot.Type = SlotType(entry.SlotType)
	slot.BuildingID = entry.ID
	p.OnSlotsChanged(slot.Type)

	p.BuildQueue.Enqueue(&BuildOrder{
		ItemID:           entry.ID,
		ItemName:         entry.Name,
		BuildTimeSeconds: buildTime,
		IndustryCost:     cost,
		Category:         CategoryBuilding,
		SlotIndex:        slotIndex,
	})

	return nil
}

func (p *Planet) startDefenseOrder(entry registry.Entry) error {
	cost := industryCost(entry.Cost)
	buildTime := (cost / p.GetTotalIndustryPoints()) * 60

	p.BuildQueue.Enqueue(&BuildOrder{
		ItemID:           entry.ID,
		ItemName:         entry.Name,
		BuildTimeSeconds: buildTime,
		IndustryCost:     cost,
		Category:         CategoryDefense,
		SlotIndex:        -1,
	})

	return nil
}

// AdvanceBuildQueue :
// Advances the head build order by `deltaSeconds`. On completion,
// finalizes it: a building's pinned slot transitions to `built`; a
// defense unit is added to the defense bag at its registry layer.
//
// Returns the completed order, or nil if nothing finished this call.
func (p *Planet) AdvanceBuildQueue(reg *registry.Registry, deltaSeconds float64) *BuildOrder {
	completed := p.BuildQueue.Advance(deltaSeconds)
	if completed == nil {
		return nil
	}

	switch completed.Category {
	case CategoryBuilding:
		if completed.SlotIndex >= 0 && completed.SlotIndex < len(p.Slots) {
			p.Slots[completed.SlotIndex].Status = StatusBuilt
			p.OnSlotsChanged(p.Slots[completed.SlotIndex].Type)
		}
	case CategoryDefense:
		if entry, ok := reg.Category(registry.DefenseUnits, completed.ItemID); ok {
			if layer, ok := ParseDefenseLayer(entry.Layer); ok {
				p.Defense.AddUnit(layer, entry.ID)
			}
		}
	}

	return completed
}
