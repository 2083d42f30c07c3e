package galaxy

import (
	"encoding/json"

	"github.com/ironreach/starforge/internal/protocol"
	"github.com/vmihailenco/msgpack/v5"
)

// Hex :
// One tile of a galaxy's hex grid. `OwnerID` is the player id that
// controls the tile ("" = unowned); `ReservedID` restricts who may claim
// an unowned tile. The invariant `owned ⇒ reserved = owner ∨ ""` holds
// for every tile this package produces: generation either reserves a
// tile for exactly the player it hands ownership to, or leaves it
// unowned with a reservation of its own.
//
// `Coord` is excluded from the default struct tags and instead spliced
// in as flat `q`/`r`/`s` keys by `MarshalJSON`/`EncodeMsgpack`, per the
// `hex_dict` shape of §6: the coordinate's own `HexCoord` MessagePack
// extension type is reserved for contexts where a coordinate travels
// on its own (e.g. `Map.StartingHex`), not for a hex's own dict, which
// carries q/r/s as ordinary fields alongside `feature`/`owner_id`.
type Hex struct {
	Coord      protocol.HexCoord `json:"-" msgpack:"-"`
	Feature    Feature           `json:"feature" msgpack:"feature"`
	Contents   *StarSystem       `json:"contents,omitempty" msgpack:"contents,omitempty"`
	OwnerID    string            `json:"owner_id" msgpack:"owner_id"`
	ReservedID string            `json:"reserved_id" msgpack:"reserved_id"`
	Protected  bool              `json:"protected" msgpack:"protected"`
}

// HasStarSystem :
// True if this tile's feature is a star system and it carries contents.
func (h *Hex) HasStarSystem() bool {
	return h.Feature == FeatureStarSystem && h.Contents != nil
}

// MarshalJSON :
// Encodes a hex as the flat `hex_dict` of §6, splicing `q`/`r`/`s` in
// alongside the tagged fields.
func (h Hex) MarshalJSON() ([]byte, error) {
	type alias Hex
	base, err := json.Marshal(alias(h))
	if err != nil {
		return nil, err
	}

	var merged map[string]interface{}
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	merged["q"] = h.Coord.Q
	merged["r"] = h.Coord.R
	merged["s"] = h.Coord.S

	return json.Marshal(merged)
}

// UnmarshalJSON :
// Inverse of `MarshalJSON`: restores `Coord` from the `q`/`r`/`s` keys.
func (h *Hex) UnmarshalJSON(data []byte) error {
	type alias Hex
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*h = Hex(a)

	var coord struct {
		Q int32 `json:"q"`
		R int32 `json:"r"`
		S int32 `json:"s"`
	}
	if err := json.Unmarshal(data, &coord); err != nil {
		return err
	}
	h.Coord = protocol.HexCoord{Q: coord.Q, R: coord.R, S: coord.S}

	return nil
}

// EncodeMsgpack :
// MessagePack counterpart of `MarshalJSON`, used for the `grid` entries
// pushed in `full_galaxy_sync`.
func (h Hex) EncodeMsgpack(enc *msgpack.Encoder) error {
	type alias Hex
	base, err := msgpack.Marshal(alias(h))
	if err != nil {
		return err
	}

	var merged map[string]interface{}
	if err := msgpack.Unmarshal(base, &merged); err != nil {
		return err
	}
	merged["q"] = h.Coord.Q
	merged["r"] = h.Coord.R
	merged["s"] = h.Coord.S

	return enc.Encode(merged)
}

// DecodeMsgpack :
// Inverse of `EncodeMsgpack`.
func (h *Hex) DecodeMsgpack(dec *msgpack.Decoder) error {
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	remarshaled, err := msgpack.Marshal(raw)
	if err != nil {
		return err
	}
	type alias Hex
	var a alias
	if err := msgpack.Unmarshal(remarshaled, &a); err != nil {
		return err
	}
	*h = Hex(a)

	h.Coord = protocol.HexCoord{
		Q: toInt32(raw["q"]),
		R: toInt32(raw["r"]),
		S: toInt32(raw["s"]),
	}

	return nil
}

// toInt32 :
// Converts a generically-decoded MessagePack integer (which may surface
// as any signed/unsigned width depending on magnitude) to `int32`.
func toInt32(v interface{}) int32 {
	switch n := v.(type) {
	case int8:
		return int32(n)
	case int16:
		return int32(n)
	case int32:
		return n
	case int64:
		return int32(n)
	case int:
		return int32(n)
	case uint8:
		return int32(n)
	case uint16:
		return int32(n)
	case uint32:
		return int32(n)
	case uint64:
		return int32(n)
	case float64:
		return int32(n)
	default:
		return 0
	}
}

// checkOwnershipInvariant :
// Reports whether `owned ⇒ reserved = owner ∨ reserved = ""` holds for
// this tile. Exercised only by tests; generation never violates it.
func (h *Hex) checkOwnershipInvariant() bool {
	if h.OwnerID == "" {
		return true
	}
	return h.ReservedID == h.OwnerID || h.ReservedID == ""
}
