package elgamal

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/Web3StudyGroup/SecretPlatform/crypto/ecc"
)

// Ciphertext represents an ElGamal encrypted message with additive
// homomorphic properties. It encapsulates the two curve points of a
// ciphertext.
type Ciphertext struct {
	C1 ecc.Point `json:"c1"`
	C2 ecc.Point `json:"c2"`
}

// NewCiphertext creates a new Ciphertext on the same curve as the given
// Point, initialized to an encryption-of-zero-shaped identity (both points
// set to the identity element). Adding any ciphertext to it yields that
// ciphertext.
func NewCiphertext(curve ecc.Point) *Ciphertext {
	c1 := curve.New()
	c1.SetZero()
	c2 := curve.New()
	c2.SetZero()
	return &Ciphertext{C1: c1, C2: c2}
}

// Encrypt encrypts a message using the public key provided as elliptic curve
// point. The randomness k can be provided or nil to generate a new one.
func (z *Ciphertext) Encrypt(message *big.Int, publicKey ecc.Point, k *big.Int) (*Ciphertext, error) {
	var err error
	if k == nil {
		k, err = RandK()
		if err != nil {
			return nil, fmt.Errorf("elgamal encryption failed: %w", err)
		}
	}
	c1, c2, err := EncryptWithK(publicKey, message, k)
	if err != nil {
		return nil, fmt.Errorf("elgamal encryption failed: %w", err)
	}
	z.C1 = c1
	z.C2 = c2
	return z, nil
}

// Add adds two Ciphertexts and stores the result in z, which is also
// returned. The result decrypts to the sum of the two plaintexts.
func (z *Ciphertext) Add(x, y *Ciphertext) *Ciphertext {
	z.C1.SafeAdd(x.C1, y.C1)
	z.C2.SafeAdd(x.C2, y.C2)
	return z
}

// Neg negates a Ciphertext and stores the result in z, which is also
// returned. The result decrypts to the additive inverse of the plaintext.
func (z *Ciphertext) Neg(x *Ciphertext) *Ciphertext {
	z.C1.Neg(x.C1)
	z.C2.Neg(x.C2)
	return z
}

// Sub subtracts y from x and stores the result in z, which is also returned.
// The result decrypts to the difference of the two plaintexts. Note that the
// difference is only recoverable when it is non-negative; callers must check
// the plaintext domain before relying on a decryption.
func (z *Ciphertext) Sub(x, y *Ciphertext) *Ciphertext {
	neg := NewCiphertext(z.C1).Neg(y)
	return z.Add(x, neg)
}

// Serialize encodes the ciphertext as cbor over the two marshaled points.
func (z *Ciphertext) Serialize() []byte {
	data, err := cbor.Marshal([][]byte{z.C1.Marshal(), z.C2.Marshal()})
	if err != nil {
		panic(err)
	}
	return data
}

// Deserialize reconstructs a Ciphertext from the output of Serialize. The
// receiver's points must already be initialized on the target curve (use
// NewCiphertext).
func (z *Ciphertext) Deserialize(data []byte) error {
	var points [][]byte
	if err := cbor.Unmarshal(data, &points); err != nil {
		return fmt.Errorf("invalid ciphertext encoding: %w", err)
	}
	if len(points) != 2 {
		return fmt.Errorf("invalid ciphertext encoding: got %d points, expected 2", len(points))
	}
	if err := z.C1.Unmarshal(points[0]); err != nil {
		return err
	}
	return z.C2.Unmarshal(points[1])
}

// Marshal converts Ciphertext to a byte slice.
func (z *Ciphertext) Marshal() ([]byte, error) {
	return json.Marshal(z)
}

// Unmarshal populates Ciphertext from a byte slice.
func (z *Ciphertext) Unmarshal(data []byte) error {
	return json.Unmarshal(data, z)
}

// String returns a string representation of the Ciphertext.
func (z *Ciphertext) String() string {
	if z == nil || z.C1 == nil || z.C2 == nil {
		return "{C1: nil, C2: nil}"
	}
	return fmt.Sprintf("{C1: %s, C2: %s}", z.C1.String(), z.C2.String())
}
