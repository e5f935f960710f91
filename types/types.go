package types

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// HexBytes is a []byte which encodes as a hexadecimal string in JSON,
// with or without the "0x" prefix on input.
type HexBytes []byte

// String returns the hex string representation without the 0x prefix.
func (b HexBytes) String() string {
	return hex.EncodeToString(b)
}

// MarshalJSON implements the json.Marshaler interface.
func (b HexBytes) MarshalJSON() ([]byte, error) {
	enc := make([]byte, hex.EncodedLen(len(b))+4)
	enc[0] = '"'
	enc[1] = '0'
	enc[2] = 'x'
	hex.Encode(enc[3:], b)
	enc[len(enc)-1] = '"'
	return enc, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *HexBytes) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid JSON string: %q", data)
	}
	data = data[1 : len(data)-1]
	// strip the optional 0x prefix
	if len(data) >= 2 && data[0] == '0' && (data[1] == 'x' || data[1] == 'X') {
		data = data[2:]
	}
	decoded := make([]byte, hex.DecodedLen(len(data)))
	if _, err := hex.Decode(decoded, data); err != nil {
		return err
	}
	*b = decoded
	return nil
}

// HexStringToHexBytes converts a hex string to HexBytes.
// It strips a leading '0x' or '0X' if present.
func HexStringToHexBytes(s string) HexBytes {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(fmt.Sprintf("invalid hex string %q: %v", s, err))
	}
	return b
}

// BigInt is a big.Int wrapper which marshals JSON to a string representation
// of the big number. Note that a nil pointer value marshals as the empty string.
type BigInt big.Int

// MarshalText returns the decimal string representation.
func (i *BigInt) MarshalText() ([]byte, error) {
	return i.MathBigInt().MarshalText()
}

// UnmarshalText parses a decimal string representation.
func (i *BigInt) UnmarshalText(data []byte) error {
	return i.MathBigInt().UnmarshalText(data)
}

// MarshalCBOR encodes the number as a cbor byte string.
func (i *BigInt) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(i.MathBigInt().Bytes())
}

// UnmarshalCBOR decodes the number from a cbor byte string.
func (i *BigInt) UnmarshalCBOR(data []byte) error {
	var buf []byte
	if err := cbor.Unmarshal(data, &buf); err != nil {
		return err
	}
	i.MathBigInt().SetBytes(buf)
	return nil
}

// MathBigInt converts b to a math/big *big.Int.
func (i *BigInt) MathBigInt() *big.Int {
	return (*big.Int)(i)
}

// String returns the decimal string representation.
func (i *BigInt) String() string {
	return i.MathBigInt().String()
}
