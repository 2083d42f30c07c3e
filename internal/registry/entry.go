package registry

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Entry :
// A single catalog entry, keyed by `ID` and unique across every
// category loaded into the registry. Only `ID` and `Name` are mandatory;
// everything else is populated from whichever category-specific fields
// the source document carries, and anything this server doesn't
// interpret (a client-only `description`, `icon`, `sprite`, ...) is kept
// verbatim in `Extra` so it survives a `registry_sync` round-trip even
// though the simulation never reads it.
//
// The `ID` is the registry-wide unique identifier.
//
// The `Name` is the display name.
//
// The `ResourceType`, `RefinementLevel`, `Inputs`, `Yield` are populated
// for resource entries. `RefinementLevel` is one of `raw`, `processed`,
// `advanced`. `Inputs` maps an input resource id to the ratio of raw
// yield it consumes; an empty/nil map marks the resource as directly
// extractable (mined) rather than refined, per §4.5.2.
//
// The `Rarity`, `PossibleClimates`, `DefenseBaseBonus`, `Habitability`,
// `ColonizationCost` are populated for planet-type entries.
//
// The `Cost`, `SlotType`, `BaseYield`, `Upkeep` are populated for
// building entries. `Cost` recognizes the keys `credits`, `industry`,
// `resources`.
//
// The `Layer`, `DefenseValue`, `PowerUse` are populated for defense unit
// entries, alongside the shared `Cost`/`Upkeep` fields.
//
// The `Extra` holds any field present in the source document that isn't
// one of the above — round-tripped untouched.
type Entry struct {
	ID   string `json:"id" msgpack:"id"`
	Name string `json:"name" msgpack:"name"`

	ResourceType    string             `json:"resource_type,omitempty" msgpack:"resource_type,omitempty"`
	RefinementLevel string             `json:"refinement_level,omitempty" msgpack:"refinement_level,omitempty"`
	Inputs          map[string]float64 `json:"inputs,omitempty" msgpack:"inputs,omitempty"`
	Yield           float64            `json:"yield,omitempty" msgpack:"yield,omitempty"`

	Rarity           string             `json:"rarity,omitempty" msgpack:"rarity,omitempty"`
	PossibleClimates []string           `json:"possible_climates,omitempty" msgpack:"possible_climates,omitempty"`
	DefenseBaseBonus float64            `json:"defense_base_bonus,omitempty" msgpack:"defense_base_bonus,omitempty"`
	Habitability     float64            `json:"habitability,omitempty" msgpack:"habitability,omitempty"`
	ColonizationCost map[string]float64 `json:"colonization_cost,omitempty" msgpack:"colonization_cost,omitempty"`

	Cost      map[string]float64 `json:"cost,omitempty" msgpack:"cost,omitempty"`
	SlotType  string             `json:"slot_type,omitempty" msgpack:"slot_type,omitempty"`
	BaseYield float64            `json:"base_yield,omitempty" msgpack:"base_yield,omitempty"`
	Upkeep    map[string]float64 `json:"upkeep,omitempty" msgpack:"upkeep,omitempty"`

	Layer        string  `json:"layer,omitempty" msgpack:"layer,omitempty"`
	DefenseValue float64 `json:"defense_value,omitempty" msgpack:"defense_value,omitempty"`
	PowerUse     float64 `json:"power_use,omitempty" msgpack:"power_use,omitempty"`

	Extra map[string]interface{} `json:"-" msgpack:"-"`
}

// knownFields lists the JSON keys handled by typed struct fields, used
// by UnmarshalJSON to decide what falls through to Extra.
var knownFields = map[string]bool{
	"id": true, "name": true,
	"resource_type": true, "refinement_level": true, "inputs": true, "yield": true,
	"rarity": true, "possible_climates": true, "defense_base_bonus": true,
	"habitability": true, "colonization_cost": true,
	"cost": true, "slot_type": true, "base_yield": true, "upkeep": true,
	"layer": true, "defense_value": true, "power_use": true,
}

// UnmarshalJSON :
// Decodes a catalog entry, routing every field not recognized by a
// typed struct field into `Extra` instead of discarding it.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type alias Entry
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = Entry(a)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, value := range raw {
		if knownFields[key] {
			continue
		}
		var decoded interface{}
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}
		if e.Extra == nil {
			e.Extra = make(map[string]interface{})
		}
		e.Extra[key] = decoded
	}

	return nil
}

// MarshalJSON :
// Encodes a catalog entry, merging `Extra` back into the flat document
// so a round-tripped entry is indistinguishable from the source.
func (e Entry) MarshalJSON() ([]byte, error) {
	type alias Entry
	base, err := json.Marshal(alias(e))
	if err != nil {
		return nil, err
	}

	if len(e.Extra) == 0 {
		return base, nil
	}

	var merged map[string]interface{}
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for key, value := range e.Extra {
		merged[key] = value
	}

	return json.Marshal(merged)
}

// EncodeMsgpack :
// MessagePack counterpart of `MarshalJSON`, so `Extra` survives the
// `registry_sync` wire push too — `vmihailenco/msgpack` does not
// consult `json.Marshaler`, so this merge has to be redone for the
// binary codec rather than reused from the JSON path.
func (e Entry) EncodeMsgpack(enc *msgpack.Encoder) error {
	type alias Entry

	if len(e.Extra) == 0 {
		return enc.Encode(alias(e))
	}

	base, err := msgpack.Marshal(alias(e))
	if err != nil {
		return err
	}

	var merged map[string]interface{}
	if err := msgpack.Unmarshal(base, &merged); err != nil {
		return err
	}
	for key, value := range e.Extra {
		merged[key] = value
	}

	return enc.Encode(merged)
}

// DecodeMsgpack :
// Inverse of `EncodeMsgpack`: routes every key not recognized by a
// typed struct field into `Extra`, mirroring `UnmarshalJSON`.
func (e *Entry) DecodeMsgpack(dec *msgpack.Decoder) error {
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	remarshaled, err := msgpack.Marshal(raw)
	if err != nil {
		return err
	}
	type alias Entry
	var a alias
	if err := msgpack.Unmarshal(remarshaled, &a); err != nil {
		return err
	}
	*e = Entry(a)

	for key, value := range raw {
		if knownFields[key] {
			continue
		}
		if e.Extra == nil {
			e.Extra = make(map[string]interface{})
		}
		e.Extra[key] = value
	}

	return nil
}

// IsRefinable :
// Reports whether this resource entry is refined from other resources
// rather than mined directly, per §4.5.2: driven exclusively by
// `Inputs`, never by a planet's `mode`.
func (e Entry) IsRefinable() bool {
	return len(e.Inputs) > 0
}
