package storage

import (
	"bytes"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/davinci-node/db/metadb"

	"github.com/Web3StudyGroup/SecretPlatform/types"
)

func testHandle(b byte) types.Handle {
	var h types.Handle
	for i := range h {
		h[i] = b
	}
	return h
}

func TestBalances(t *testing.T) {
	c := qt.New(t)

	stg, err := New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)

	alice := common.HexToAddress("0x0000000000000000000000000000000000000a01")

	// Untouched accounts have the zero handle.
	handle, err := stg.Balance(types.LedgerToken, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(handle.IsZero(), qt.IsTrue)

	update := stg.NewStateUpdate()
	c.Assert(update.SetBalance(types.LedgerToken, alice, testHandle(1)), qt.IsNil)
	c.Assert(update.SetTotalSupply(types.LedgerToken, testHandle(2)), qt.IsNil)
	c.Assert(update.Apply(), qt.IsNil)

	handle, err = stg.Balance(types.LedgerToken, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(handle, qt.Equals, testHandle(1))

	// The platform ledger is independent.
	handle, err = stg.Balance(types.LedgerPlatform, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(handle.IsZero(), qt.IsTrue)

	supply, err := stg.TotalSupply(types.LedgerToken)
	c.Assert(err, qt.IsNil)
	c.Assert(supply, qt.Equals, testHandle(2))
}

func TestPendingTransfers(t *testing.T) {
	c := qt.New(t)

	stg, err := New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)

	alice := common.HexToAddress("0x0000000000000000000000000000000000000a01")
	bob := common.HexToAddress("0x0000000000000000000000000000000000000b02")

	has, err := stg.HasPendingTransfer(bob, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(has, qt.IsFalse)

	_, err = stg.PendingTransfer(bob, alice)
	c.Assert(err, qt.Equals, ErrNotFound)

	update := stg.NewStateUpdate()
	c.Assert(update.SetPendingTransfer(&PendingTransfer{
		From:   alice,
		To:     bob,
		Amount: testHandle(3),
	}), qt.IsNil)
	c.Assert(update.Apply(), qt.IsNil)

	has, err = stg.HasPendingTransfer(bob, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(has, qt.IsTrue)

	record, err := stg.PendingTransfer(bob, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(record.From, qt.Equals, alice)
	c.Assert(record.To, qt.Equals, bob)
	c.Assert(record.Amount, qt.Equals, testHandle(3))

	// The reverse direction is a different record.
	has, err = stg.HasPendingTransfer(alice, bob)
	c.Assert(err, qt.IsNil)
	c.Assert(has, qt.IsFalse)

	update = stg.NewStateUpdate()
	update.ClearPendingTransfer(bob, alice)
	c.Assert(update.Apply(), qt.IsNil)

	has, err = stg.HasPendingTransfer(bob, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(has, qt.IsFalse)
}

func TestGrants(t *testing.T) {
	c := qt.New(t)

	stg, err := New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)

	alice := common.HexToAddress("0x0000000000000000000000000000000000000a01")
	handle := testHandle(7)

	has, err := stg.HasGrant(handle, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(has, qt.IsFalse)

	c.Assert(stg.SetGrant(handle, alice), qt.IsNil)

	// Granting twice changes nothing.
	c.Assert(stg.SetGrant(handle, alice), qt.IsNil)

	has, err = stg.HasGrant(handle, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(has, qt.IsTrue)
}

func TestPlainBalances(t *testing.T) {
	c := qt.New(t)

	stg, err := New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)

	alice := common.HexToAddress("0x0000000000000000000000000000000000000a01")
	bob := common.HexToAddress("0x0000000000000000000000000000000000000b02")

	balance, err := stg.PlainBalance(alice)
	c.Assert(err, qt.IsNil)
	c.Assert(balance.Sign(), qt.Equals, 0)

	c.Assert(stg.SetPlainBalance(alice, big.NewInt(1000)), qt.IsNil)
	balance, err = stg.PlainBalance(alice)
	c.Assert(err, qt.IsNil)
	c.Assert(balance.Uint64(), qt.Equals, uint64(1000))

	c.Assert(stg.SetAllowance(alice, bob, big.NewInt(50)), qt.IsNil)
	allowance, err := stg.Allowance(alice, bob)
	c.Assert(err, qt.IsNil)
	c.Assert(allowance.Uint64(), qt.Equals, uint64(50))
}

func TestStateRootTracksUpdates(t *testing.T) {
	c := qt.New(t)

	stg, err := New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)

	alice := common.HexToAddress("0x0000000000000000000000000000000000000a01")

	root0, err := stg.Root()
	c.Assert(err, qt.IsNil)

	update := stg.NewStateUpdate()
	c.Assert(update.SetBalance(types.LedgerToken, alice, testHandle(1)), qt.IsNil)
	c.Assert(update.Apply(), qt.IsNil)

	root1, err := stg.Root()
	c.Assert(err, qt.IsNil)
	c.Assert(bytes.Equal(root0, root1), qt.IsFalse)

	// Overwriting the same leaf with the same value keeps the root stable.
	update = stg.NewStateUpdate()
	c.Assert(update.SetBalance(types.LedgerToken, alice, testHandle(1)), qt.IsNil)
	c.Assert(update.Apply(), qt.IsNil)

	root2, err := stg.Root()
	c.Assert(err, qt.IsNil)
	c.Assert(bytes.Equal(root1, root2), qt.IsTrue)
}
