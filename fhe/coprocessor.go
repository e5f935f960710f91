// Package fhe implements the trusted coprocessor that holds the
// ciphertexts behind the ledger's opaque handles. The ledger only ever
// sees handles; every arithmetic operation loads the referenced
// ciphertexts, operates homomorphically where possible, and registers the
// result under a fresh handle. Range checks that homomorphic encryption
// cannot express (subtraction underflow) are resolved by the coprocessor
// decrypting under its own key.
package fhe

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/vocdoni/davinci-node/db"
	"github.com/vocdoni/davinci-node/db/prefixeddb"

	"github.com/Web3StudyGroup/SecretPlatform/crypto/ecc"
	"github.com/Web3StudyGroup/SecretPlatform/crypto/ecc/curves"
	"github.com/Web3StudyGroup/SecretPlatform/crypto/elgamal"
	"github.com/Web3StudyGroup/SecretPlatform/types"
)

// DefaultMaxMessage bounds the plaintext domain the coprocessor can
// recover by discrete logarithm.
const DefaultMaxMessage = uint64(1) << 32

var (
	// ErrUnderflow is returned by CheckedSub when the subtrahend exceeds
	// the minuend.
	ErrUnderflow = fmt.Errorf("encrypted subtraction underflow")
	// ErrInvalidProof is returned when an input proof does not bind the
	// handles to the claimed contract and user.
	ErrInvalidProof = fmt.Errorf("invalid input proof")
	// ErrUnknownHandle is returned when a handle has no registered
	// ciphertext.
	ErrUnknownHandle = fmt.Errorf("unknown ciphertext handle")
	// ErrNotAuthorized is returned by RequestDecrypt when the requesting
	// account holds no grant on the handle.
	ErrNotAuthorized = fmt.Errorf("account not authorized for handle")
)

var (
	ciphertextPrefix = []byte("ct/")
	keyPrefix        = []byte("ck/")
)

var (
	pubKeyKey  = []byte("pub")
	privKeyKey = []byte("priv")
	secretKey  = []byte("secret")
)

// Authorizer answers whether an account may decrypt the value behind a
// handle. The access grant registry implements it.
type Authorizer interface {
	IsAuthorized(handle types.Handle, account common.Address) (bool, error)
}

// Coprocessor is the trusted decryption oracle. It owns an ElGamal keypair
// under which all ledger ciphertexts are encrypted, a persistent registry
// mapping handles to ciphertexts, and a secret used to bind input proofs.
type Coprocessor struct {
	db         db.Database
	curveType  string
	pubKey     ecc.Point
	privKey    *big.Int
	secret     []byte
	maxMessage uint64
}

// New opens a coprocessor over the given database, loading its keypair and
// proof secret or generating fresh ones on first use. The curveType
// selects the elliptic curve backend and maxMessage bounds the plaintext
// domain (0 falls back to DefaultMaxMessage).
func New(database db.Database, curveType string, maxMessage uint64) (*Coprocessor, error) {
	if maxMessage == 0 {
		maxMessage = DefaultMaxMessage
	}
	c := &Coprocessor{
		db:         database,
		curveType:  curveType,
		maxMessage: maxMessage,
	}
	if err := c.loadOrGenerateKeys(); err != nil {
		return nil, fmt.Errorf("could not initialize coprocessor keys: %w", err)
	}
	return c, nil
}

func (c *Coprocessor) loadOrGenerateKeys() error {
	rTx := prefixeddb.NewPrefixedReader(c.db, keyPrefix)
	pubData, err := rTx.Get(pubKeyKey)
	switch err {
	case nil:
		pub := curves.New(c.curveType)
		if err := pub.Unmarshal(pubData); err != nil {
			return fmt.Errorf("stored public key is corrupt: %w", err)
		}
		privData, err := rTx.Get(privKeyKey)
		if err != nil {
			return fmt.Errorf("public key present but private key missing: %w", err)
		}
		secret, err := rTx.Get(secretKey)
		if err != nil {
			return fmt.Errorf("public key present but proof secret missing: %w", err)
		}
		c.pubKey = pub
		c.privKey = new(big.Int).SetBytes(privData)
		c.secret = secret
		return nil
	case db.ErrKeyNotFound:
		pub, priv, err := elgamal.GenerateKey(curves.New(c.curveType))
		if err != nil {
			return err
		}
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return err
		}
		wTx := prefixeddb.NewPrefixedWriteTx(c.db.WriteTx(), keyPrefix)
		if err := wTx.Set(pubKeyKey, pub.Marshal()); err != nil {
			wTx.Discard()
			return err
		}
		if err := wTx.Set(privKeyKey, priv.Bytes()); err != nil {
			wTx.Discard()
			return err
		}
		if err := wTx.Set(secretKey, secret); err != nil {
			wTx.Discard()
			return err
		}
		if err := wTx.Commit(); err != nil {
			return err
		}
		c.pubKey = pub
		c.privKey = priv
		c.secret = secret
		return nil
	default:
		return err
	}
}

// PublicKey returns the coprocessor encryption key.
func (c *Coprocessor) PublicKey() ecc.Point {
	return c.pubKey
}

// MaxMessage returns the plaintext domain bound.
func (c *Coprocessor) MaxMessage() uint64 {
	return c.maxMessage
}

// store registers a ciphertext and returns its fresh handle. The handle is
// the keccak hash of the serialized ciphertext and a random nonce, so two
// registrations never share a handle even for equal ciphertexts.
func (c *Coprocessor) store(ct *elgamal.Ciphertext) (types.Handle, error) {
	nonce := make([]byte, 8)
	if _, err := rand.Read(nonce); err != nil {
		return types.ZeroHandle, err
	}
	data := ct.Serialize()
	handle, err := types.HandleFromBytes(ethcrypto.Keccak256(data, nonce))
	if err != nil {
		return types.ZeroHandle, err
	}
	wTx := prefixeddb.NewPrefixedWriteTx(c.db.WriteTx(), ciphertextPrefix)
	if err := wTx.Set(handle.Bytes(), data); err != nil {
		wTx.Discard()
		return types.ZeroHandle, err
	}
	if err := wTx.Commit(); err != nil {
		return types.ZeroHandle, err
	}
	return handle, nil
}

// Ciphertext retrieves the ciphertext registered under the handle. The
// zero handle resolves to an encryption of zero, so untouched balances
// participate in arithmetic without special cases.
func (c *Coprocessor) Ciphertext(handle types.Handle) (*elgamal.Ciphertext, error) {
	if handle.IsZero() {
		return elgamal.NewCiphertext(curves.New(c.curveType)), nil
	}
	rTx := prefixeddb.NewPrefixedReader(c.db, ciphertextPrefix)
	data, err := rTx.Get(handle.Bytes())
	if err != nil {
		if err == db.ErrKeyNotFound {
			return nil, ErrUnknownHandle
		}
		return nil, err
	}
	ct := elgamal.NewCiphertext(curves.New(c.curveType))
	if err := ct.Deserialize(data); err != nil {
		return nil, fmt.Errorf("registered ciphertext is corrupt: %w", err)
	}
	return ct, nil
}

// TrivialEncrypt encrypts a public value under the coprocessor key and
// registers it.
func (c *Coprocessor) TrivialEncrypt(value uint64) (types.Handle, error) {
	if value > c.maxMessage {
		return types.ZeroHandle, fmt.Errorf("value %d exceeds plaintext domain", value)
	}
	ct, err := elgamal.NewCiphertext(curves.New(c.curveType)).
		Encrypt(new(big.Int).SetUint64(value), c.pubKey, nil)
	if err != nil {
		return types.ZeroHandle, err
	}
	return c.store(ct)
}

// Add returns a fresh handle to the homomorphic sum of the two operands.
func (c *Coprocessor) Add(a, b types.Handle) (types.Handle, error) {
	ca, err := c.Ciphertext(a)
	if err != nil {
		return types.ZeroHandle, err
	}
	cb, err := c.Ciphertext(b)
	if err != nil {
		return types.ZeroHandle, err
	}
	sum := elgamal.NewCiphertext(curves.New(c.curveType)).Add(ca, cb)
	return c.store(sum)
}

// CheckedSub returns a fresh handle to the difference a-b, or ErrUnderflow
// when b exceeds a. The comparison cannot be done homomorphically, so the
// coprocessor decrypts both operands under its own key.
func (c *Coprocessor) CheckedSub(a, b types.Handle) (types.Handle, error) {
	ca, err := c.Ciphertext(a)
	if err != nil {
		return types.ZeroHandle, err
	}
	cb, err := c.Ciphertext(b)
	if err != nil {
		return types.ZeroHandle, err
	}
	va, err := c.decrypt(ca)
	if err != nil {
		return types.ZeroHandle, err
	}
	vb, err := c.decrypt(cb)
	if err != nil {
		return types.ZeroHandle, err
	}
	if vb > va {
		return types.ZeroHandle, ErrUnderflow
	}
	diff := elgamal.NewCiphertext(curves.New(c.curveType)).Sub(ca, cb)
	return c.store(diff)
}

func (c *Coprocessor) decrypt(ct *elgamal.Ciphertext) (uint64, error) {
	_, message, err := elgamal.Decrypt(c.pubKey, c.privKey, ct.C1, ct.C2, c.maxMessage)
	if err != nil {
		return 0, err
	}
	return message.Uint64(), nil
}

// Decrypt recovers the plaintext behind the handle. It bypasses the grant
// registry; callers that act on behalf of an account use RequestDecrypt.
func (c *Coprocessor) Decrypt(handle types.Handle) (uint64, error) {
	ct, err := c.Ciphertext(handle)
	if err != nil {
		return 0, err
	}
	return c.decrypt(ct)
}

// RequestDecrypt recovers the plaintext behind the handle on behalf of an
// account, refusing with ErrNotAuthorized unless the authorizer confirms
// the account holds a grant on the handle.
func (c *Coprocessor) RequestDecrypt(handle types.Handle, account common.Address, auth Authorizer) (uint64, error) {
	if auth == nil {
		return 0, fmt.Errorf("nil authorizer")
	}
	ok, err := auth.IsAuthorized(handle, account)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNotAuthorized
	}
	return c.Decrypt(handle)
}
