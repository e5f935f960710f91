package platform

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/davinci-node/db/metadb"

	"github.com/Web3StudyGroup/SecretPlatform/acl"
	"github.com/Web3StudyGroup/SecretPlatform/crypto/ecc/curves"
	"github.com/Web3StudyGroup/SecretPlatform/fhe"
	"github.com/Web3StudyGroup/SecretPlatform/storage"
	"github.com/Web3StudyGroup/SecretPlatform/token"
	"github.com/Web3StudyGroup/SecretPlatform/types"
)

var (
	tokenAddr    = common.HexToAddress("0x0000000000000000000000000000000000000c01")
	platformAddr = common.HexToAddress("0x0000000000000000000000000000000000000c02")
	alice        = common.HexToAddress("0x0000000000000000000000000000000000000a01")
	bob          = common.HexToAddress("0x0000000000000000000000000000000000000b02")
)

type testStack struct {
	stg      *storage.Storage
	co       *fhe.Coprocessor
	grants   *acl.Registry
	plain    *token.PlainLedger
	token    *token.ConfidentialToken
	platform *Platform
	events   []types.Event
}

func (ts *testStack) Notify(e types.Event) {
	ts.events = append(ts.events, e)
}

func newTestStack(t *testing.T) *testStack {
	database := metadb.NewTest(t)
	stg, err := storage.New(database)
	qt.Assert(t, err, qt.IsNil)
	co, err := fhe.New(database, curves.CurveTypeBN254, uint64(1)<<16)
	qt.Assert(t, err, qt.IsNil)
	ts := &testStack{stg: stg, co: co}
	ts.grants = acl.NewRegistry(stg)
	ts.plain = token.NewPlainLedger(stg, "Tether USD", "USDT", 6)
	ts.token = token.NewConfidentialToken(tokenAddr, stg, co, ts.grants, ts.plain, ts)
	ts.platform = New(platformAddr, stg, co, ts.grants, ts.token, ts)
	return ts
}

// fund mints plain tokens, wraps them and deposits them into the platform.
func (ts *testStack) fund(t *testing.T, account common.Address, amount uint64) {
	qt.Assert(t, ts.plain.Mint(account, new(big.Int).SetUint64(amount)), qt.IsNil)
	qt.Assert(t, ts.token.Wrap(account, amount), qt.IsNil)
	handle, proof := ts.encryptedInput(t, platformAddr, account, amount)
	qt.Assert(t, ts.platform.Deposit(account, handle, proof), qt.IsNil)
}

func (ts *testStack) encryptedInput(t *testing.T, contract, user common.Address, value uint64) (types.Handle, types.HexBytes) {
	handles, proof, err := ts.co.NewEncryptedInput(contract, user).Add64(value).Encrypt()
	qt.Assert(t, err, qt.IsNil)
	return handles[0], proof
}

func (ts *testStack) internalBalance(t *testing.T, account common.Address) uint64 {
	handle, err := ts.platform.GetBalance(account)
	qt.Assert(t, err, qt.IsNil)
	if handle.IsZero() {
		return 0
	}
	value, err := ts.co.RequestDecrypt(handle, account, ts.grants)
	qt.Assert(t, err, qt.IsNil)
	return value
}

func (ts *testStack) tokenBalance(t *testing.T, account common.Address) uint64 {
	handle, err := ts.token.BalanceOf(account)
	qt.Assert(t, err, qt.IsNil)
	if handle.IsZero() {
		return 0
	}
	value, err := ts.co.Decrypt(handle)
	qt.Assert(t, err, qt.IsNil)
	return value
}

func TestDeposit(t *testing.T) {
	c := qt.New(t)
	ts := newTestStack(t)

	ts.fund(t, alice, 500)

	c.Assert(ts.internalBalance(t, alice), qt.Equals, uint64(500))
	c.Assert(ts.tokenBalance(t, alice), qt.Equals, uint64(0))
	c.Assert(ts.tokenBalance(t, platformAddr), qt.Equals, uint64(500))
}

func TestDepositMoreThanBalance(t *testing.T) {
	c := qt.New(t)
	ts := newTestStack(t)

	c.Assert(ts.plain.Mint(alice, big.NewInt(500)), qt.IsNil)
	c.Assert(ts.token.Wrap(alice, 100), qt.IsNil)

	handle, proof := ts.encryptedInput(t, platformAddr, alice, 200)
	err := ts.platform.Deposit(alice, handle, proof)
	c.Assert(err, qt.Equals, fhe.ErrUnderflow)

	c.Assert(ts.tokenBalance(t, alice), qt.Equals, uint64(100))
	c.Assert(ts.internalBalance(t, alice), qt.Equals, uint64(0))
}

func TestWithdraw(t *testing.T) {
	c := qt.New(t)
	ts := newTestStack(t)

	ts.fund(t, alice, 500)

	handle, proof := ts.encryptedInput(t, platformAddr, alice, 200)
	c.Assert(ts.platform.Withdraw(alice, handle, proof), qt.IsNil)

	c.Assert(ts.internalBalance(t, alice), qt.Equals, uint64(300))
	c.Assert(ts.tokenBalance(t, alice), qt.Equals, uint64(200))
	c.Assert(ts.tokenBalance(t, platformAddr), qt.Equals, uint64(300))
}

func TestWithdrawMoreThanBalance(t *testing.T) {
	c := qt.New(t)
	ts := newTestStack(t)

	ts.fund(t, alice, 100)

	handle, proof := ts.encryptedInput(t, platformAddr, alice, 200)
	err := ts.platform.Withdraw(alice, handle, proof)
	c.Assert(err, qt.Equals, fhe.ErrUnderflow)

	c.Assert(ts.internalBalance(t, alice), qt.Equals, uint64(100))
	c.Assert(ts.tokenBalance(t, alice), qt.Equals, uint64(0))
}

func TestEncryptedTransferAndClaim(t *testing.T) {
	c := qt.New(t)
	ts := newTestStack(t)

	ts.fund(t, alice, 500)

	handle, proof := ts.encryptedInput(t, platformAddr, alice, 100)
	c.Assert(ts.platform.EncryptedTransferTo(alice, bob, handle, proof), qt.IsNil)

	// The sender is debited, the recipient is not credited yet.
	c.Assert(ts.internalBalance(t, alice), qt.Equals, uint64(400))
	c.Assert(ts.internalBalance(t, bob), qt.Equals, uint64(0))

	has, err := ts.platform.HasTransferRecord(bob, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(has, qt.IsTrue)

	// The recipient can decrypt the pending amount before claiming.
	record, err := ts.platform.GetTransferRecord(bob, alice)
	c.Assert(err, qt.IsNil)
	pending, err := ts.co.RequestDecrypt(record, bob, ts.grants)
	c.Assert(err, qt.IsNil)
	c.Assert(pending, qt.Equals, uint64(100))

	c.Assert(ts.platform.EncryptClaim(bob, alice), qt.IsNil)

	// Claim exactness: the recipient receives exactly what was sent.
	c.Assert(ts.internalBalance(t, bob), qt.Equals, uint64(100))
	c.Assert(ts.internalBalance(t, alice), qt.Equals, uint64(400))

	// The record is gone, claiming again fails.
	has, err = ts.platform.HasTransferRecord(bob, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(has, qt.IsFalse)
	c.Assert(ts.platform.EncryptClaim(bob, alice), qt.Equals, ErrNoTransferRecord)
}

func TestTransferAggregation(t *testing.T) {
	c := qt.New(t)
	ts := newTestStack(t)

	ts.fund(t, alice, 500)

	handle, proof := ts.encryptedInput(t, platformAddr, alice, 50)
	c.Assert(ts.platform.EncryptedTransferTo(alice, bob, handle, proof), qt.IsNil)

	handle, proof = ts.encryptedInput(t, platformAddr, alice, 30)
	c.Assert(ts.platform.EncryptedTransferTo(alice, bob, handle, proof), qt.IsNil)

	// Both transfers aggregate into one record worth 80.
	record, err := ts.platform.GetTransferRecord(bob, alice)
	c.Assert(err, qt.IsNil)
	pending, err := ts.co.RequestDecrypt(record, bob, ts.grants)
	c.Assert(err, qt.IsNil)
	c.Assert(pending, qt.Equals, uint64(80))

	c.Assert(ts.platform.EncryptClaim(bob, alice), qt.IsNil)
	c.Assert(ts.internalBalance(t, bob), qt.Equals, uint64(80))
	c.Assert(ts.internalBalance(t, alice), qt.Equals, uint64(420))
}

func TestTransferToZeroAddress(t *testing.T) {
	c := qt.New(t)
	ts := newTestStack(t)

	ts.fund(t, alice, 500)

	handle, proof := ts.encryptedInput(t, platformAddr, alice, 100)
	err := ts.platform.EncryptedTransferTo(alice, common.Address{}, handle, proof)
	c.Assert(err, qt.Equals, ErrZeroAddressRecipient)
}

func TestTransferMoreThanInternalBalance(t *testing.T) {
	c := qt.New(t)
	ts := newTestStack(t)

	ts.fund(t, alice, 100)

	handle, proof := ts.encryptedInput(t, platformAddr, alice, 200)
	err := ts.platform.EncryptedTransferTo(alice, bob, handle, proof)
	c.Assert(err, qt.Equals, fhe.ErrUnderflow)

	c.Assert(ts.internalBalance(t, alice), qt.Equals, uint64(100))
	has, err := ts.platform.HasTransferRecord(bob, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(has, qt.IsFalse)
}

func TestClaimWithoutRecord(t *testing.T) {
	c := qt.New(t)
	ts := newTestStack(t)

	c.Assert(ts.platform.EncryptClaim(bob, alice), qt.Equals, ErrNoTransferRecord)
}

func TestFullFlow(t *testing.T) {
	c := qt.New(t)
	ts := newTestStack(t)

	// Alice wraps 500 and deposits them into the platform.
	c.Assert(ts.plain.Mint(alice, big.NewInt(1000)), qt.IsNil)
	c.Assert(ts.token.Wrap(alice, 500), qt.IsNil)
	handle, proof := ts.encryptedInput(t, platformAddr, alice, 500)
	c.Assert(ts.platform.Deposit(alice, handle, proof), qt.IsNil)

	// She sends 100 to bob, who claims them.
	handle, proof = ts.encryptedInput(t, platformAddr, alice, 100)
	c.Assert(ts.platform.EncryptedTransferTo(alice, bob, handle, proof), qt.IsNil)
	c.Assert(ts.platform.EncryptClaim(bob, alice), qt.IsNil)

	c.Assert(ts.internalBalance(t, alice), qt.Equals, uint64(400))
	c.Assert(ts.internalBalance(t, bob), qt.Equals, uint64(100))

	// Bob withdraws his share and unwraps it back to plain tokens.
	handle, proof = ts.encryptedInput(t, platformAddr, bob, 100)
	c.Assert(ts.platform.Withdraw(bob, handle, proof), qt.IsNil)
	handle, proof = ts.encryptedInput(t, tokenAddr, bob, 100)
	c.Assert(ts.token.Unwrap(bob, handle, proof), qt.IsNil)

	balance, err := ts.plain.BalanceOf(bob)
	c.Assert(err, qt.IsNil)
	c.Assert(balance.Uint64(), qt.Equals, uint64(100))

	// Conservation: wrapped supply equals what is still inside.
	supply, err := ts.token.TotalSupply()
	c.Assert(err, qt.IsNil)
	wrapped, err := ts.co.Decrypt(supply)
	c.Assert(err, qt.IsNil)
	c.Assert(wrapped, qt.Equals, uint64(400))

	// Events carry identities only.
	kinds := make([]types.EventKind, 0, len(ts.events))
	for _, e := range ts.events {
		kinds = append(kinds, e.Kind)
	}
	c.Assert(kinds, qt.DeepEquals, []types.EventKind{
		types.EventWrap,
		types.EventDeposit,
		types.EventEncryptedTransfer,
		types.EventClaim,
		types.EventWithdraw,
		types.EventUnwrap,
	})
}
