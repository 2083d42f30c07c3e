package planet

// AvailableSlots :
// Returns the indices of every slot with `type = empty`, per §4.5.1.
func (p *Planet) AvailableSlots() []int {
	var out []int
	for i, s := range p.Slots {
		if s.IsEmpty() {
			out = append(out, i)
		}
	}
	return out
}

// UsedSlots :
// Returns the indices of every non-empty slot.
func (p *Planet) UsedSlots() []int {
	var out []int
	for i, s := range p.Slots {
		if !s.IsEmpty() {
			out = append(out, i)
		}
	}
	return out
}

// GetTotalIndustryPoints :
// `planet.industry_points + 100 * count(built industry slots)`, per
// §4.5.6. Never returns less than 1: a freshly-seeded planet whose
// industry has somehow dropped to zero must not make build-time
// derivation divide by zero, per the Design Notes guidance.
func (p *Planet) GetTotalIndustryPoints() float64 {
	total := p.IndustryPoints
	for _, s := range p.Slots {
		if s.Type == SlotIndustry && s.Status == StatusBuilt {
			total += 100
		}
	}
	if total < 1 {
		total = 1
	}
	return total
}

// RemoveBuildingFromSlot :
// Frees exactly one built-or-under-construction slot. If `slotType` is
// non-empty, only a slot of that type is freed; otherwise the first
// non-empty slot is freed.
//
// Returns true if a slot was freed.
func (p *Planet) RemoveBuildingFromSlot(slotType SlotType) bool {
	for i := range p.Slots {
		s := &p.Slots[i]
		if s.IsEmpty() {
			continue
		}
		if slotType != "" && s.Type != slotType {
			continue
		}
		s.Clear()
		return true
	}
	return false
}

// OnSlotsChanged :
// Invalidates exactly the cache entry matching `slotType`'s production
// category, per §4.5.3. Slot types outside `{farm, mine, refine}` (the
// industry/energy/science support slots) never back a production cache
// and are a no-op here. Called by the command dispatcher whenever a
// slot's type, status or active flag changes.
func (p *Planet) OnSlotsChanged(slotType SlotType) {
	switch slotType {
	case SlotFarm:
		delete(p.cacheSignatures, "farm")
	case SlotMine:
		delete(p.cacheSignatures, "mine")
	case SlotRefine:
		delete(p.cacheSignatures, "refine")
	}
}
