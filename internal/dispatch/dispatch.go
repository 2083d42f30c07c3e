package dispatch

import (
	"fmt"

	"github.com/ironreach/starforge/internal/planet"
	"github.com/ironreach/starforge/internal/registry"
)

// Action :
// A client-requested mutation of a planet's state, the decoded
// payload of a `planet_action` message, per §4.7.
type Action string

const (
	ActionSetMode          Action = "set_mode"
	ActionApplyResource    Action = "apply_resource"
	ActionToggleSlot       Action = "toggle_slot"
	ActionAddSlot          Action = "add_slot"
	ActionRemoveSlot       Action = "remove_slot"
	ActionBuildDefenseUnit Action = "build_defense_unit"
)

// ErrUnknownAction :
// Returned when a `planet_action` message names an action this
// dispatcher does not recognize.
var ErrUnknownAction = fmt.Errorf("unknown planet action")

// validModes lists the only values `set_mode` accepts, per §4.7.
var validModes = map[string]bool{
	"mine":   true,
	"refine": true,
}

// Dispatch :
// Applies `action` to `target` using `data` (the action's raw
// payload), validating it against `reg` where the action names a
// registry entry. Mirrors `handle_action`'s table of
// `action_<name>` methods in
// `original_source/server/server_main.py`, but as an explicit switch
// rather than dynamic method lookup, since Go has no dynamic dispatch
// by name.
func Dispatch(reg *registry.Registry, target *planet.Planet, action Action, data interface{}) error {
	switch action {
	case ActionSetMode:
		mode, ok := data.(string)
		if !ok {
			return fmt.Errorf("set_mode requires a string payload")
		}
		if !validModes[mode] {
			return fmt.Errorf("set_mode requires mode to be %q or %q, got %q", "mine", "refine", mode)
		}
		target.Mode = mode
		return nil

	case ActionApplyResource:
		resourceID, ok := data.(string)
		if !ok {
			return fmt.Errorf("apply_resource requires a string payload")
		}
		if _, ok := reg.Category(registry.Resources, resourceID); !ok {
			return fmt.Errorf("unknown resource %q", resourceID)
		}
		target.CurrentResource = resourceID
		return nil

	case ActionToggleSlot:
		index, ok := asInt(data)
		if !ok || index < 0 || index >= len(target.Slots) {
			return fmt.Errorf("toggle_slot requires a valid slot index")
		}
		target.Slots[index].ToggleActive()
		target.OnSlotsChanged(target.Slots[index].Type)
		return nil

	case ActionAddSlot:
		itemID, ok := data.(string)
		if !ok {
			return fmt.Errorf("add_slot requires a string item id")
		}
		if err := target.StartBuild(reg, itemID); err != nil {
			return err
		}
		return nil

	case ActionRemoveSlot:
		slotType, ok := data.(string)
		if !ok {
			return fmt.Errorf("remove_slot requires a string slot type")
		}
		if !target.RemoveBuildingFromSlot(planet.SlotType(slotType)) {
			return fmt.Errorf("no slot of type %q to remove", slotType)
		}
		target.OnSlotsChanged(planet.SlotType(slotType))
		return nil

	case ActionBuildDefenseUnit:
		itemID, ok := data.(string)
		if !ok {
			return fmt.Errorf("build_defense_unit requires a string item id")
		}
		return target.StartBuild(reg, itemID)

	default:
		return ErrUnknownAction
	}
}

func asInt(data interface{}) (int, bool) {
	switch v := data.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
