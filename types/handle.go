package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// HandleSize is the size in bytes of a ciphertext handle.
const HandleSize = 32

// Handle is an opaque reference to an encrypted value held by the
// coprocessor. Handles are derived from the ciphertext contents plus a
// nonce, so two logically distinct values never share a handle.
type Handle [HandleSize]byte

// ZeroHandle is the nil handle, returned by queries on accounts that
// were never touched.
var ZeroHandle = Handle{}

// IsZero reports whether h is the nil handle.
func (h Handle) IsZero() bool {
	return h == ZeroHandle
}

// Bytes returns the handle as a byte slice.
func (h Handle) Bytes() []byte {
	return h[:]
}

// String returns the hex representation of the handle.
func (h Handle) String() string {
	return hex.EncodeToString(h[:])
}

// HandleFromBytes builds a Handle from a byte slice of length HandleSize.
func HandleFromBytes(b []byte) (Handle, error) {
	if len(b) != HandleSize {
		return ZeroHandle, fmt.Errorf("invalid handle length: got %d bytes, expected %d", len(b), HandleSize)
	}
	var h Handle
	copy(h[:], b)
	return h, nil
}

// MarshalJSON encodes the handle as a 0x-prefixed hex string.
func (h Handle) MarshalJSON() ([]byte, error) {
	return HexBytes(h[:]).MarshalJSON()
}

// UnmarshalJSON decodes the handle from a hex string.
func (h *Handle) UnmarshalJSON(data []byte) error {
	var hb HexBytes
	if err := hb.UnmarshalJSON(data); err != nil {
		return err
	}
	parsed, err := HandleFromBytes(hb)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (h Handle) MarshalBinary() ([]byte, error) {
	return bytes.Clone(h[:]), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (h *Handle) UnmarshalBinary(data []byte) error {
	parsed, err := HandleFromBytes(data)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
