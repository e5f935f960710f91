package acl

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/davinci-node/db/metadb"

	"github.com/Web3StudyGroup/SecretPlatform/storage"
	"github.com/Web3StudyGroup/SecretPlatform/types"
)

func TestGrants(t *testing.T) {
	c := qt.New(t)

	stg, err := storage.New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)
	registry := NewRegistry(stg)

	alice := common.HexToAddress("0x0000000000000000000000000000000000000a01")
	bob := common.HexToAddress("0x0000000000000000000000000000000000000b02")
	handle := types.Handle{0x01, 0x02}

	granted, err := registry.IsGranted(handle, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(granted, qt.IsFalse)

	c.Assert(registry.Grant(handle, alice), qt.IsNil)

	granted, err = registry.IsGranted(handle, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(granted, qt.IsTrue)

	// Grants are per account.
	granted, err = registry.IsGranted(handle, bob)
	c.Assert(err, qt.IsNil)
	c.Assert(granted, qt.IsFalse)

	// Granting again is a no-op.
	c.Assert(registry.Grant(handle, alice), qt.IsNil)
	granted, err = registry.IsGranted(handle, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(granted, qt.IsTrue)
}

func TestStagedGrants(t *testing.T) {
	c := qt.New(t)

	stg, err := storage.New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)
	registry := NewRegistry(stg)

	alice := common.HexToAddress("0x0000000000000000000000000000000000000a01")
	handle := types.Handle{0x03}

	update := stg.NewStateUpdate()
	c.Assert(registry.StageGrant(update, handle, alice), qt.IsNil)

	// Nothing is visible before the update commits.
	granted, err := registry.IsGranted(handle, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(granted, qt.IsFalse)

	c.Assert(update.Apply(), qt.IsNil)

	granted, err = registry.IsGranted(handle, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(granted, qt.IsTrue)
}

func TestZeroHandle(t *testing.T) {
	c := qt.New(t)

	stg, err := storage.New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)
	registry := NewRegistry(stg)

	alice := common.HexToAddress("0x0000000000000000000000000000000000000a01")

	// The zero handle has no ciphertext behind it, grants on it are
	// silently dropped.
	c.Assert(registry.Grant(types.ZeroHandle, alice), qt.IsNil)
	granted, err := registry.IsGranted(types.ZeroHandle, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(granted, qt.IsFalse)
}
