package fhe

import (
	"crypto/subtle"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/Web3StudyGroup/SecretPlatform/crypto/ecc/curves"
	"github.com/Web3StudyGroup/SecretPlatform/crypto/elgamal"
	"github.com/Web3StudyGroup/SecretPlatform/types"
)

// EncryptedInput builds a batch of encrypted inputs bound to a target
// contract and a submitting user. Values are appended with Add64 and
// sealed with Encrypt, which registers one ciphertext per value and
// returns the handles together with a proof binding them to the
// contract/user pair.
type EncryptedInput struct {
	co       *Coprocessor
	contract common.Address
	user     common.Address
	values   []uint64
}

// NewEncryptedInput starts an input batch for the given contract and user.
func (c *Coprocessor) NewEncryptedInput(contract, user common.Address) *EncryptedInput {
	return &EncryptedInput{co: c, contract: contract, user: user}
}

// Add64 appends a value to the batch and returns the builder for chaining.
func (in *EncryptedInput) Add64(value uint64) *EncryptedInput {
	in.values = append(in.values, value)
	return in
}

// Encrypt seals the batch: every value is encrypted under the coprocessor
// key and registered, and the returned proof binds the resulting handles
// to the contract and user the batch was created for.
func (in *EncryptedInput) Encrypt() ([]types.Handle, types.HexBytes, error) {
	if len(in.values) == 0 {
		return nil, nil, fmt.Errorf("empty input batch")
	}
	handles := make([]types.Handle, 0, len(in.values))
	for _, value := range in.values {
		if value > in.co.maxMessage {
			return nil, nil, fmt.Errorf("value %d exceeds plaintext domain", value)
		}
		ct, err := elgamal.NewCiphertext(curves.New(in.co.curveType)).
			Encrypt(new(big.Int).SetUint64(value), in.co.pubKey, nil)
		if err != nil {
			return nil, nil, err
		}
		handle, err := in.co.store(ct)
		if err != nil {
			return nil, nil, err
		}
		handles = append(handles, handle)
	}
	return handles, in.co.inputProof(in.contract, in.user, handles), nil
}

// inputProof binds a handle batch to a contract/user pair using the
// coprocessor proof secret. Only the coprocessor can produce it, so a
// valid proof means the handles came out of an Encrypt call for exactly
// this pair.
func (c *Coprocessor) inputProof(contract, user common.Address, handles []types.Handle) []byte {
	parts := make([][]byte, 0, len(handles)+3)
	parts = append(parts, c.secret, contract.Bytes(), user.Bytes())
	for _, handle := range handles {
		parts = append(parts, handle.Bytes())
	}
	return ethcrypto.Keccak256(parts...)
}

// VerifyProof checks that the proof binds the handles to the contract and
// user. It returns ErrInvalidProof on any mismatch, including reuse of a
// proof with a different contract, user or handle set.
func (c *Coprocessor) VerifyProof(contract, user common.Address, handles []types.Handle, proof []byte) error {
	expected := c.inputProof(contract, user, handles)
	if subtle.ConstantTimeCompare(expected, proof) != 1 {
		return ErrInvalidProof
	}
	return nil
}
