package fhe

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/davinci-node/db/metadb"

	"github.com/Web3StudyGroup/SecretPlatform/crypto/ecc/curves"
	"github.com/Web3StudyGroup/SecretPlatform/types"
)

const testMaxMessage = uint64(1) << 16

func newTestCoprocessor(t *testing.T) *Coprocessor {
	co, err := New(metadb.NewTest(t), curves.CurveTypeBN254, testMaxMessage)
	qt.Assert(t, err, qt.IsNil)
	return co
}

func TestTrivialEncryptDecrypt(t *testing.T) {
	c := qt.New(t)
	co := newTestCoprocessor(t)

	for _, value := range []uint64{0, 1, 500, 65535} {
		handle, err := co.TrivialEncrypt(value)
		c.Assert(err, qt.IsNil)
		c.Assert(handle.IsZero(), qt.IsFalse)

		recovered, err := co.Decrypt(handle)
		c.Assert(err, qt.IsNil)
		c.Assert(recovered, qt.Equals, value)
	}
}

func TestAdd(t *testing.T) {
	c := qt.New(t)
	co := newTestCoprocessor(t)

	a, err := co.TrivialEncrypt(300)
	c.Assert(err, qt.IsNil)
	b, err := co.TrivialEncrypt(45)
	c.Assert(err, qt.IsNil)

	sum, err := co.Add(a, b)
	c.Assert(err, qt.IsNil)

	value, err := co.Decrypt(sum)
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, uint64(345))

	// The zero handle behaves as an encryption of zero.
	same, err := co.Add(a, types.ZeroHandle)
	c.Assert(err, qt.IsNil)
	value, err = co.Decrypt(same)
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, uint64(300))
}

func TestCheckedSub(t *testing.T) {
	c := qt.New(t)
	co := newTestCoprocessor(t)

	a, err := co.TrivialEncrypt(500)
	c.Assert(err, qt.IsNil)
	b, err := co.TrivialEncrypt(123)
	c.Assert(err, qt.IsNil)

	diff, err := co.CheckedSub(a, b)
	c.Assert(err, qt.IsNil)

	value, err := co.Decrypt(diff)
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, uint64(377))

	// Subtracting more than the minuend is rejected.
	_, err = co.CheckedSub(b, a)
	c.Assert(err, qt.Equals, ErrUnderflow)

	// Equal operands leave zero.
	zero, err := co.CheckedSub(a, a)
	c.Assert(err, qt.IsNil)
	value, err = co.Decrypt(zero)
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, uint64(0))
}

func TestUnknownHandle(t *testing.T) {
	c := qt.New(t)
	co := newTestCoprocessor(t)

	var bogus types.Handle
	bogus[0] = 0xff

	_, err := co.Decrypt(bogus)
	c.Assert(err, qt.Equals, ErrUnknownHandle)
}

func TestFreshHandles(t *testing.T) {
	c := qt.New(t)
	co := newTestCoprocessor(t)

	a, err := co.TrivialEncrypt(42)
	c.Assert(err, qt.IsNil)
	b, err := co.TrivialEncrypt(42)
	c.Assert(err, qt.IsNil)
	c.Assert(a, qt.Not(qt.Equals), b)
}

func TestEncryptedInputProof(t *testing.T) {
	c := qt.New(t)
	co := newTestCoprocessor(t)

	contract := common.HexToAddress("0x0000000000000000000000000000000000000c01")
	user := common.HexToAddress("0x0000000000000000000000000000000000000a01")
	other := common.HexToAddress("0x0000000000000000000000000000000000000b02")

	handles, proof, err := co.NewEncryptedInput(contract, user).Add64(100).Encrypt()
	c.Assert(err, qt.IsNil)
	c.Assert(handles, qt.HasLen, 1)

	value, err := co.Decrypt(handles[0])
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, uint64(100))

	c.Assert(co.VerifyProof(contract, user, handles, proof), qt.IsNil)

	// The proof is bound to the user, the contract and the handle set.
	c.Assert(co.VerifyProof(contract, other, handles, proof), qt.Equals, ErrInvalidProof)
	c.Assert(co.VerifyProof(other, user, handles, proof), qt.Equals, ErrInvalidProof)
	c.Assert(co.VerifyProof(contract, user, []types.Handle{{0x01}}, proof), qt.Equals, ErrInvalidProof)
	c.Assert(co.VerifyProof(contract, user, handles, []byte("bogus")), qt.Equals, ErrInvalidProof)
}

func TestRequestDecrypt(t *testing.T) {
	c := qt.New(t)
	co := newTestCoprocessor(t)

	alice := common.HexToAddress("0x0000000000000000000000000000000000000a01")
	bob := common.HexToAddress("0x0000000000000000000000000000000000000b02")

	handle, err := co.TrivialEncrypt(77)
	c.Assert(err, qt.IsNil)

	auth := grantMap{handle: {alice: true}}

	value, err := co.RequestDecrypt(handle, alice, auth)
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, uint64(77))

	_, err = co.RequestDecrypt(handle, bob, auth)
	c.Assert(err, qt.Equals, ErrNotAuthorized)
}

func TestKeysSurviveReopen(t *testing.T) {
	c := qt.New(t)

	database := metadb.NewTest(t)
	co, err := New(database, curves.CurveTypeBN254, testMaxMessage)
	c.Assert(err, qt.IsNil)

	handle, err := co.TrivialEncrypt(13)
	c.Assert(err, qt.IsNil)

	// A second coprocessor over the same database must load the same keys
	// and decrypt handles produced by the first one.
	co2, err := New(database, curves.CurveTypeBN254, testMaxMessage)
	c.Assert(err, qt.IsNil)
	c.Assert(co2.PublicKey().Equal(co.PublicKey()), qt.IsTrue)

	value, err := co2.Decrypt(handle)
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, uint64(13))
}

// grantMap is a static Authorizer for tests.
type grantMap map[types.Handle]map[common.Address]bool

func (g grantMap) IsAuthorized(handle types.Handle, account common.Address) (bool, error) {
	return g[handle][account], nil
}
