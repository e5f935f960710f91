package token

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.vocdoni.io/dvote/log"

	"github.com/Web3StudyGroup/SecretPlatform/acl"
	"github.com/Web3StudyGroup/SecretPlatform/fhe"
	"github.com/Web3StudyGroup/SecretPlatform/storage"
	"github.com/Web3StudyGroup/SecretPlatform/types"
)

// Metadata of the confidential wrapper.
const (
	Name     = "Confidential USDT"
	Symbol   = "cUSDT"
	Decimals = uint8(6)
)

// ErrZeroAddressRecipient is returned when a transfer names the zero
// address as recipient.
var ErrZeroAddressRecipient = fmt.Errorf("transfer to zero address")

// ConfidentialToken is the confidential wrapper around the plain token.
// Wrapping moves plain tokens into the wrapper's custody and credits an
// encrypted balance; from then on amounts only exist behind ciphertext
// handles. Every operation either fully commits or leaves no encrypted
// state behind.
type ConfidentialToken struct {
	addr   common.Address
	stg    *storage.Storage
	co     *fhe.Coprocessor
	grants *acl.Registry
	plain  PlainToken
	events types.EventSink
}

// NewConfidentialToken creates the wrapper. The addr is the wrapper's own
// account: it custodies the wrapped plain tokens and is the contract
// identity input proofs must be bound to. The events sink may be nil.
func NewConfidentialToken(addr common.Address, stg *storage.Storage, co *fhe.Coprocessor,
	grants *acl.Registry, plain PlainToken, events types.EventSink) *ConfidentialToken {
	return &ConfidentialToken{
		addr:   addr,
		stg:    stg,
		co:     co,
		grants: grants,
		plain:  plain,
		events: events,
	}
}

// Address returns the wrapper's account address.
func (t *ConfidentialToken) Address() common.Address { return t.addr }

// WrappedToken returns the underlying plain token.
func (t *ConfidentialToken) WrappedToken() PlainToken { return t.plain }

// BalanceOf returns the handle of the account's encrypted balance. An
// account that was never touched gets the zero handle.
func (t *ConfidentialToken) BalanceOf(account common.Address) (types.Handle, error) {
	return t.stg.Balance(types.LedgerToken, account)
}

// TotalSupply returns the handle of the encrypted total wrapped supply.
func (t *ConfidentialToken) TotalSupply() (types.Handle, error) {
	return t.stg.TotalSupply(types.LedgerToken)
}

func (t *ConfidentialToken) emit(kind types.EventKind, from, to common.Address) {
	if t.events != nil {
		t.events.Notify(types.Event{Kind: kind, From: from, To: to})
	}
}

// Wrap converts amount plain tokens of the caller into encrypted wrapped
// balance. The plain tokens move into the wrapper's custody; the caller's
// encrypted balance and the total supply grow by the amount. The amount is
// public, wrapping is the boundary where confidentiality starts.
func (t *ConfidentialToken) Wrap(caller common.Address, amount uint64) error {
	value := new(big.Int).SetUint64(amount)
	if err := t.plain.Transfer(caller, t.addr, value); err != nil {
		return err
	}
	if err := t.wrapEncrypted(caller, amount); err != nil {
		// The plain tokens already moved, give them back.
		if rerr := t.plain.Transfer(t.addr, caller, value); rerr != nil {
			log.Errorw(rerr, "could not refund plain tokens after failed wrap")
		}
		return err
	}
	t.emit(types.EventWrap, common.Address{}, caller)
	return nil
}

func (t *ConfidentialToken) wrapEncrypted(caller common.Address, amount uint64) error {
	amountHandle, err := t.co.TrivialEncrypt(amount)
	if err != nil {
		return err
	}
	balance, err := t.BalanceOf(caller)
	if err != nil {
		return err
	}
	newBalance, err := t.co.Add(balance, amountHandle)
	if err != nil {
		return err
	}
	supply, err := t.TotalSupply()
	if err != nil {
		return err
	}
	newSupply, err := t.co.Add(supply, amountHandle)
	if err != nil {
		return err
	}
	update := t.stg.NewStateUpdate()
	if err := update.SetBalance(types.LedgerToken, caller, newBalance); err != nil {
		return err
	}
	if err := update.SetTotalSupply(types.LedgerToken, newSupply); err != nil {
		return err
	}
	if err := t.grants.StageGrant(update, newBalance, caller); err != nil {
		return err
	}
	return update.Apply()
}

// Unwrap converts encrypted wrapped balance of the caller back into plain
// tokens. The amount arrives as a ciphertext handle with an input proof
// bound to this wrapper and the caller; the wrapper decrypts it to pay out
// the underlying tokens. An amount exceeding the caller's encrypted
// balance rejects with fhe.ErrUnderflow and changes nothing.
func (t *ConfidentialToken) Unwrap(caller common.Address, amountHandle types.Handle, proof types.HexBytes) error {
	if err := t.co.VerifyProof(t.addr, caller, []types.Handle{amountHandle}, proof); err != nil {
		return err
	}
	balance, err := t.BalanceOf(caller)
	if err != nil {
		return err
	}
	newBalance, err := t.co.CheckedSub(balance, amountHandle)
	if err != nil {
		return err
	}
	supply, err := t.TotalSupply()
	if err != nil {
		return err
	}
	newSupply, err := t.co.CheckedSub(supply, amountHandle)
	if err != nil {
		return err
	}
	amount, err := t.co.Decrypt(amountHandle)
	if err != nil {
		return err
	}
	value := new(big.Int).SetUint64(amount)
	if err := t.plain.Transfer(t.addr, caller, value); err != nil {
		return err
	}
	update := t.stg.NewStateUpdate()
	if err := update.SetBalance(types.LedgerToken, caller, newBalance); err != nil {
		return err
	}
	if err := update.SetTotalSupply(types.LedgerToken, newSupply); err != nil {
		return err
	}
	if err := t.grants.StageGrant(update, newBalance, caller); err != nil {
		return err
	}
	if err := update.Apply(); err != nil {
		// The payout already happened, take it back.
		if rerr := t.plain.Transfer(caller, t.addr, value); rerr != nil {
			log.Errorw(rerr, "could not claw back plain tokens after failed unwrap")
		}
		return err
	}
	t.emit(types.EventUnwrap, caller, common.Address{})
	return nil
}

// Transfer moves an encrypted amount from the caller to another account.
// The amount handle must carry an input proof bound to this wrapper and
// the caller. The recipient is granted access to the amount handle and to
// their updated balance. Observers learn the identities, never the amount.
func (t *ConfidentialToken) Transfer(caller, to common.Address, amountHandle types.Handle, proof types.HexBytes) error {
	if to == (common.Address{}) {
		return ErrZeroAddressRecipient
	}
	if err := t.co.VerifyProof(t.addr, caller, []types.Handle{amountHandle}, proof); err != nil {
		return err
	}
	update := t.stg.NewStateUpdate()
	newFromBalance, err := t.Debit(update, caller, amountHandle)
	if err != nil {
		return err
	}
	if to == caller {
		// A self transfer nets out, but the balance handle still rotates
		// so an observer cannot tell it apart from a real one.
		refreshed, err := t.co.Add(newFromBalance, amountHandle)
		if err != nil {
			return err
		}
		if err := update.SetBalance(types.LedgerToken, caller, refreshed); err != nil {
			return err
		}
		if err := t.grants.StageGrant(update, refreshed, caller); err != nil {
			return err
		}
	} else if _, err := t.Credit(update, to, amountHandle); err != nil {
		return err
	}
	if err := t.grants.StageGrant(update, amountHandle, to); err != nil {
		return err
	}
	if err := update.Apply(); err != nil {
		return err
	}
	t.emit(types.EventTransfer, caller, to)
	return nil
}

// Debit stages a balance decrease of the encrypted amount on the token
// ledger, returning the account's new balance handle. It fails with
// fhe.ErrUnderflow when the amount exceeds the balance, leaving the
// update untouched by a partial write.
func (t *ConfidentialToken) Debit(update *storage.StateUpdate, account common.Address, amountHandle types.Handle) (types.Handle, error) {
	balance, err := t.BalanceOf(account)
	if err != nil {
		return types.ZeroHandle, err
	}
	newBalance, err := t.co.CheckedSub(balance, amountHandle)
	if err != nil {
		return types.ZeroHandle, err
	}
	if err := update.SetBalance(types.LedgerToken, account, newBalance); err != nil {
		return types.ZeroHandle, err
	}
	if err := t.grants.StageGrant(update, newBalance, account); err != nil {
		return types.ZeroHandle, err
	}
	return newBalance, nil
}

// Credit stages a balance increase of the encrypted amount on the token
// ledger, returning the account's new balance handle.
func (t *ConfidentialToken) Credit(update *storage.StateUpdate, account common.Address, amountHandle types.Handle) (types.Handle, error) {
	balance, err := t.BalanceOf(account)
	if err != nil {
		return types.ZeroHandle, err
	}
	newBalance, err := t.co.Add(balance, amountHandle)
	if err != nil {
		return types.ZeroHandle, err
	}
	if err := update.SetBalance(types.LedgerToken, account, newBalance); err != nil {
		return types.ZeroHandle, err
	}
	if err := t.grants.StageGrant(update, newBalance, account); err != nil {
		return types.ZeroHandle, err
	}
	return newBalance, nil
}
