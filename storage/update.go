package storage

import (
	"fmt"
	"math/big"

	"github.com/Web3StudyGroup/SecretPlatform/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/arbo"
	"github.com/vocdoni/davinci-node/db/prefixeddb"
)

// clearedLeaf is the state tree value for a record that has been cleared.
// The tree does not support deletion, so a cleared record keeps its leaf
// with a tombstone value.
var clearedLeaf = []byte{0x00}

// stagedWrite is a single pending artifact write. A nil value clears the
// artifact.
type stagedWrite struct {
	prefix []byte
	key    []byte
	value  []byte
	inTree bool
}

// StateUpdate is a staging buffer for the writes of one ledger operation.
// Nothing touches the database until Apply, which commits every staged
// write (and the matching state tree leaves) in a single write
// transaction. An operation that fails before Apply leaves no trace.
type StateUpdate struct {
	s      *Storage
	writes []stagedWrite
}

// NewStateUpdate creates an empty staging buffer bound to the storage.
func (s *Storage) NewStateUpdate() *StateUpdate {
	return &StateUpdate{s: s}
}

func (u *StateUpdate) stage(prefix, key []byte, a any, inTree bool) error {
	data, err := encodeArtifact(a)
	if err != nil {
		return err
	}
	u.writes = append(u.writes, stagedWrite{prefix: prefix, key: key, value: data, inTree: inTree})
	return nil
}

// SetBalance stages a new encrypted balance handle for the account on the
// given ledger.
func (u *StateUpdate) SetBalance(ledger types.LedgerID, account common.Address, handle types.Handle) error {
	return u.stage(balancePrefix, balanceKey(ledger, account), handle, true)
}

// SetTotalSupply stages a new encrypted total supply handle for the ledger.
func (u *StateUpdate) SetTotalSupply(ledger types.LedgerID, handle types.Handle) error {
	return u.stage(supplyPrefix, supplyKey(ledger), handle, true)
}

// SetPendingTransfer stages a pending transfer record, replacing any
// record already addressed from the same sender to the same recipient.
func (u *StateUpdate) SetPendingTransfer(record *PendingTransfer) error {
	if record == nil {
		return fmt.Errorf("nil pending transfer record")
	}
	return u.stage(pendingPrefix, pendingKey(record.To, record.From), record, true)
}

// ClearPendingTransfer stages the removal of the pending transfer record
// addressed to the recipient from the sender.
func (u *StateUpdate) ClearPendingTransfer(to, from common.Address) {
	u.writes = append(u.writes, stagedWrite{
		prefix: pendingPrefix,
		key:    pendingKey(to, from),
		inTree: true,
	})
}

// AddGrant stages an access grant for the account on the handle. Granting
// again is a no-op at read time, the record is a pure presence marker.
func (u *StateUpdate) AddGrant(handle types.Handle, account common.Address) error {
	return u.stage(grantPrefix, grantKey(handle, account), &Grant{Handle: handle, Account: account}, false)
}

// SetPlainBalance stages a plain token balance for the account.
func (u *StateUpdate) SetPlainBalance(account common.Address, balance *big.Int) error {
	if balance == nil || balance.Sign() < 0 {
		return fmt.Errorf("invalid plain balance")
	}
	return u.stage(plainPrefix, plainKey(account), (*types.BigInt)(balance), false)
}

// SetAllowance stages a plain token allowance from owner to spender.
func (u *StateUpdate) SetAllowance(owner, spender common.Address, allowance *big.Int) error {
	if allowance == nil || allowance.Sign() < 0 {
		return fmt.Errorf("invalid allowance")
	}
	return u.stage(allowancePrefix, allowanceKey(owner, spender), (*types.BigInt)(allowance), false)
}

// Apply commits every staged write in a single write transaction, updating
// the state tree leaves of the artifacts that are part of the state
// commitment. On error nothing is written.
func (u *StateUpdate) Apply() error {
	u.s.globalLock.Lock()
	defer u.s.globalLock.Unlock()

	wTx := u.s.db.WriteTx()
	treeTx := prefixeddb.NewPrefixedWriteTx(wTx, treePrefix)
	for _, w := range u.writes {
		pTx := prefixeddb.NewPrefixedWriteTx(wTx, w.prefix)
		if w.value == nil {
			if err := pTx.Delete(w.key); err != nil {
				wTx.Discard()
				return fmt.Errorf("could not clear artifact: %w", err)
			}
		} else {
			if err := pTx.Set(w.key, w.value); err != nil {
				wTx.Discard()
				return fmt.Errorf("could not write artifact: %w", err)
			}
		}
		if !w.inTree {
			continue
		}
		leafValue := w.value
		if leafValue == nil {
			leafValue = clearedLeaf
		}
		leaf := leafKey(w.prefix, w.key)
		if err := u.s.tree.UpdateWithTx(treeTx, leaf, leafValue); err != nil {
			if err != arbo.ErrKeyNotFound {
				wTx.Discard()
				return fmt.Errorf("could not update state tree: %w", err)
			}
			if err := u.s.tree.AddWithTx(treeTx, leaf, leafValue); err != nil {
				wTx.Discard()
				return fmt.Errorf("could not update state tree: %w", err)
			}
		}
	}
	if err := wTx.Commit(); err != nil {
		return fmt.Errorf("could not commit state update: %w", err)
	}
	return nil
}
