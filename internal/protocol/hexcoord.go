package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// HexCoordExtCode :
// MessagePack extension type code reserved for compact hex coordinates.
// Must stay in the 0-127 range required by the MessagePack spec for
// application-defined extension types.
const HexCoordExtCode = 1

func init() {
	msgpack.RegisterExt(HexCoordExtCode, (*HexCoord)(nil))
}

// HexCoord :
// Compact wire representation of an axial hex coordinate, packed as
// three signed 32-bit big-endian integers `(q, r, s)`. Registered as a
// MessagePack extension type, so a coordinate encoded on its own (such
// as `galaxy.Map.StartingHex`) takes 12 bytes. A `galaxy.Hex` does not
// use it: its dict carries `q`/`r`/`s` as plain keys.
type HexCoord struct {
	Q int32
	R int32
	S int32
}

// NewHexCoord :
// Builds a `HexCoord` from axial coordinates, deriving `s` so callers
// never have to carry the redundant value around.
//
// The `q`, `r` define the axial coordinate.
//
// Returns the built coordinate.
func NewHexCoord(q, r int32) HexCoord {
	return HexCoord{Q: q, R: r, S: -q - r}
}

// MarshalBinary :
// Implementation of `encoding.BinaryMarshaler`; also the payload of the
// registered extension type, through `MarshalMsgpack`.
//
// Returns the 12-byte big-endian encoding of `(q, r, s)`.
func (h HexCoord) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 12)
	binary.BigEndian.PutUint32(buf[0:4], uint32(h.Q))
	binary.BigEndian.PutUint32(buf[4:8], uint32(h.R))
	binary.BigEndian.PutUint32(buf[8:12], uint32(h.S))
	return buf, nil
}

// UnmarshalBinary :
// Implementation of `encoding.BinaryUnmarshaler`; also decodes the
// registered extension type's payload, through `UnmarshalMsgpack`.
//
// The `data` must be exactly 12 bytes, as produced by `MarshalBinary`.
//
// Returns an error if `data` is not 12 bytes long.
func (h *HexCoord) UnmarshalBinary(data []byte) error {
	if len(data) != 12 {
		return fmt.Errorf("invalid hex coord payload, expected 12 bytes got %d", len(data))
	}

	h.Q = int32(binary.BigEndian.Uint32(data[0:4]))
	h.R = int32(binary.BigEndian.Uint32(data[4:8]))
	h.S = int32(binary.BigEndian.Uint32(data[8:12]))

	return nil
}

// MarshalMsgpack :
// Implementation of `msgpack.Marshaler`, invoked by the MessagePack
// encoder for the registered extension type; same bytes as `MarshalBinary`.
func (h HexCoord) MarshalMsgpack() ([]byte, error) {
	return h.MarshalBinary()
}

// UnmarshalMsgpack :
// Implementation of `msgpack.Unmarshaler`, invoked by the MessagePack
// decoder for the registered extension type; see `UnmarshalBinary`.
func (h *HexCoord) UnmarshalMsgpack(data []byte) error {
	return h.UnmarshalBinary(data)
}
