package protocol

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// MaxFrameBytes :
// Hard upper bound on a single frame's payload length, applied
// regardless of what a server's configuration requests for
// `Frame.MaxBytes` — no amount of configuration should let a peer force
// an allocation past this ceiling.
const MaxFrameBytes = 64 << 20

// ErrConnectionClosed :
// Indicates that the peer closed the stream while a frame was only
// partially available (including between the length header and the
// payload). This is a normal disconnection, not a protocol violation.
var ErrConnectionClosed = fmt.Errorf("connection closed")

// ErrProtocolError :
// Indicates a frame that cannot be a well-formed message: a declared
// length exceeding the configured cap, or a payload that fails to
// decode as MessagePack.
var ErrProtocolError = fmt.Errorf("protocol error")

// Frame :
// Length-prefixed binary message: a 4-byte big-endian length header
// followed by exactly that many bytes of MessagePack payload. The
// payload itself is always a map keyed by `type`.
type Frame struct {
	Type    string
	Payload map[string]interface{}
}

// ReadFrame :
// Reads exactly one frame from `r`: a 4-byte big-endian length N
// followed by N bytes decoded as a MessagePack map.
//
// The `r` is the stream to read from.
//
// The `maxBytes` caps the accepted payload length; 0 or negative falls
// back to `MaxFrameBytes`. A declared length above the cap is a
// protocol error, not merely rejected input, since it likely indicates
// a desynchronized stream.
//
// Returns the decoded frame, or `ErrConnectionClosed` if the stream
// ended before a full frame was available, or `ErrProtocolError` if the
// length is out of bounds or the payload fails to decode.
func ReadFrame(r io.Reader, maxBytes int) (Frame, error) {
	if maxBytes <= 0 || maxBytes > MaxFrameBytes {
		maxBytes = MaxFrameBytes
	}

	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Frame{}, wrapReadErr(err)
	}

	length := binary.BigEndian.Uint32(header[:])
	if length > uint32(maxBytes) {
		return Frame{}, fmt.Errorf("%w: frame length %d exceeds cap %d", ErrProtocolError, length, maxBytes)
	}

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, wrapReadErr(err)
		}
	}

	var body map[string]interface{}
	if err := msgpack.Unmarshal(payload, &body); err != nil {
		return Frame{}, fmt.Errorf("%w: could not decode payload (err: %v)", ErrProtocolError, err)
	}

	msgType, _ := body["type"].(string)

	return Frame{Type: msgType, Payload: body}, nil
}

// WriteFrame :
// Encodes `payload` as MessagePack and writes it to `w` prefixed by its
// 4-byte big-endian length.
//
// The `w` is the stream to write to.
//
// The `msgType` is stamped onto `payload["type"]` before encoding so
// callers never forget it.
//
// The `payload` is the message body; must not itself set `type` to a
// conflicting value.
//
// Returns any I/O or encoding error encountered.
func WriteFrame(w io.Writer, msgType string, payload map[string]interface{}) error {
	if payload == nil {
		payload = make(map[string]interface{})
	}
	payload["type"] = msgType

	body, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: could not encode payload (err: %v)", ErrProtocolError, err)
	}
	if len(body) > MaxFrameBytes {
		return fmt.Errorf("%w: encoded frame of %d bytes exceeds cap %d", ErrProtocolError, len(body), MaxFrameBytes)
	}

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(body)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}

	return nil
}

// wrapReadErr :
// Normalizes `io.EOF`/`io.ErrUnexpectedEOF` (a peer closing mid-frame)
// to `ErrConnectionClosed`, leaving genuine I/O errors untouched.
func wrapReadErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrConnectionClosed
	}
	return err
}
