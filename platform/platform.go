// Package platform implements the confidential payment platform. Users
// deposit wrapped tokens into the platform's custody, hold an internal
// encrypted balance there, and send encrypted amounts to each other
// through a pending transfer mailbox the recipient claims at will.
package platform

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Web3StudyGroup/SecretPlatform/acl"
	"github.com/Web3StudyGroup/SecretPlatform/fhe"
	"github.com/Web3StudyGroup/SecretPlatform/storage"
	"github.com/Web3StudyGroup/SecretPlatform/token"
	"github.com/Web3StudyGroup/SecretPlatform/types"
)

var (
	// ErrNoTransferRecord is returned by claims and record queries when no
	// pending transfer exists for the given sender and recipient.
	ErrNoTransferRecord = fmt.Errorf("no transfer record found")
	// ErrZeroAddressRecipient mirrors the token rule: pending transfers
	// cannot be addressed to the zero address.
	ErrZeroAddressRecipient = token.ErrZeroAddressRecipient
)

// Platform is the confidential payment platform. It custodies wrapped
// tokens under its own address on the token ledger and keeps a parallel
// internal ledger of who deposited what, all in encrypted form. Pending
// transfers between users live in a mailbox keyed by recipient and
// sender; sending again before a claim aggregates into one record.
type Platform struct {
	addr   common.Address
	stg    *storage.Storage
	co     *fhe.Coprocessor
	grants *acl.Registry
	token  *token.ConfidentialToken
	events types.EventSink
}

// New creates the platform. The addr is the platform's custody account on
// the token ledger and the contract identity its input proofs bind to.
// The events sink may be nil.
func New(addr common.Address, stg *storage.Storage, co *fhe.Coprocessor,
	grants *acl.Registry, tok *token.ConfidentialToken, events types.EventSink) *Platform {
	return &Platform{
		addr:   addr,
		stg:    stg,
		co:     co,
		grants: grants,
		token:  tok,
		events: events,
	}
}

// Address returns the platform's custody account address.
func (p *Platform) Address() common.Address { return p.addr }

// Token returns the wrapped token the platform custodies.
func (p *Platform) Token() *token.ConfidentialToken { return p.token }

func (p *Platform) emit(kind types.EventKind, from, to common.Address) {
	if p.events != nil {
		p.events.Notify(types.Event{Kind: kind, From: from, To: to})
	}
}

// GetBalance returns the handle of the account's internal platform
// balance. Accounts that never deposited get the zero handle.
func (p *Platform) GetBalance(account common.Address) (types.Handle, error) {
	return p.stg.Balance(types.LedgerPlatform, account)
}

// creditInternal stages an increase of the account's internal balance and
// grants the account access to the new handle.
func (p *Platform) creditInternal(update *storage.StateUpdate, account common.Address, amountHandle types.Handle) (types.Handle, error) {
	balance, err := p.GetBalance(account)
	if err != nil {
		return types.ZeroHandle, err
	}
	newBalance, err := p.co.Add(balance, amountHandle)
	if err != nil {
		return types.ZeroHandle, err
	}
	if err := update.SetBalance(types.LedgerPlatform, account, newBalance); err != nil {
		return types.ZeroHandle, err
	}
	if err := p.grants.StageGrant(update, newBalance, account); err != nil {
		return types.ZeroHandle, err
	}
	return newBalance, nil
}

// debitInternal stages a decrease of the account's internal balance,
// failing with fhe.ErrUnderflow when the amount exceeds it.
func (p *Platform) debitInternal(update *storage.StateUpdate, account common.Address, amountHandle types.Handle) (types.Handle, error) {
	balance, err := p.GetBalance(account)
	if err != nil {
		return types.ZeroHandle, err
	}
	newBalance, err := p.co.CheckedSub(balance, amountHandle)
	if err != nil {
		return types.ZeroHandle, err
	}
	if err := update.SetBalance(types.LedgerPlatform, account, newBalance); err != nil {
		return types.ZeroHandle, err
	}
	if err := p.grants.StageGrant(update, newBalance, account); err != nil {
		return types.ZeroHandle, err
	}
	return newBalance, nil
}

// Deposit moves an encrypted amount of wrapped tokens from the caller
// into the platform's custody and credits the caller's internal balance
// by the same amount. The amount handle must carry an input proof bound
// to the platform and the caller. A deposit exceeding the caller's token
// balance rejects with fhe.ErrUnderflow and changes nothing.
func (p *Platform) Deposit(caller common.Address, amountHandle types.Handle, proof types.HexBytes) error {
	if err := p.co.VerifyProof(p.addr, caller, []types.Handle{amountHandle}, proof); err != nil {
		return err
	}
	update := p.stg.NewStateUpdate()
	if _, err := p.token.Debit(update, caller, amountHandle); err != nil {
		return err
	}
	if _, err := p.token.Credit(update, p.addr, amountHandle); err != nil {
		return err
	}
	if _, err := p.creditInternal(update, caller, amountHandle); err != nil {
		return err
	}
	if err := update.Apply(); err != nil {
		return err
	}
	p.emit(types.EventDeposit, caller, p.addr)
	return nil
}

// Withdraw moves an encrypted amount from the caller's internal balance
// back to the caller's wrapped token balance. The amount handle must
// carry an input proof bound to the platform and the caller. Withdrawing
// more than the internal balance rejects with fhe.ErrUnderflow.
func (p *Platform) Withdraw(caller common.Address, amountHandle types.Handle, proof types.HexBytes) error {
	if err := p.co.VerifyProof(p.addr, caller, []types.Handle{amountHandle}, proof); err != nil {
		return err
	}
	update := p.stg.NewStateUpdate()
	if _, err := p.debitInternal(update, caller, amountHandle); err != nil {
		return err
	}
	if _, err := p.token.Debit(update, p.addr, amountHandle); err != nil {
		return err
	}
	if _, err := p.token.Credit(update, caller, amountHandle); err != nil {
		return err
	}
	if err := update.Apply(); err != nil {
		return err
	}
	p.emit(types.EventWithdraw, p.addr, caller)
	return nil
}

// EncryptedTransferTo moves an encrypted amount from the caller's
// internal balance into a pending transfer record addressed to the
// recipient. The recipient's balance does not change until they claim.
// Sending again to the same recipient before a claim aggregates both
// amounts into one record. Both parties are granted access to the
// record's amount handle.
func (p *Platform) EncryptedTransferTo(caller, to common.Address, amountHandle types.Handle, proof types.HexBytes) error {
	if to == (common.Address{}) {
		return ErrZeroAddressRecipient
	}
	if err := p.co.VerifyProof(p.addr, caller, []types.Handle{amountHandle}, proof); err != nil {
		return err
	}
	update := p.stg.NewStateUpdate()
	if _, err := p.debitInternal(update, caller, amountHandle); err != nil {
		return err
	}
	recordAmount := amountHandle
	existing, err := p.stg.PendingTransfer(to, caller)
	switch err {
	case nil:
		recordAmount, err = p.co.Add(existing.Amount, amountHandle)
		if err != nil {
			return err
		}
	case storage.ErrNotFound:
	default:
		return err
	}
	if err := update.SetPendingTransfer(&storage.PendingTransfer{
		From:   caller,
		To:     to,
		Amount: recordAmount,
	}); err != nil {
		return err
	}
	if err := p.grants.StageGrant(update, recordAmount, caller); err != nil {
		return err
	}
	if err := p.grants.StageGrant(update, recordAmount, to); err != nil {
		return err
	}
	if err := update.Apply(); err != nil {
		return err
	}
	p.emit(types.EventEncryptedTransfer, caller, to)
	return nil
}

// EncryptClaim credits the pending transfer from the given sender to the
// caller's internal balance and clears the record, freeing the slot for a
// new transfer. Claiming twice, or claiming a transfer that was never
// sent, fails with ErrNoTransferRecord.
func (p *Platform) EncryptClaim(caller, from common.Address) error {
	record, err := p.stg.PendingTransfer(caller, from)
	if err != nil {
		if err == storage.ErrNotFound {
			return ErrNoTransferRecord
		}
		return err
	}
	update := p.stg.NewStateUpdate()
	if _, err := p.creditInternal(update, caller, record.Amount); err != nil {
		return err
	}
	update.ClearPendingTransfer(caller, from)
	if err := update.Apply(); err != nil {
		return err
	}
	p.emit(types.EventClaim, from, caller)
	return nil
}

// GetTransferRecord returns the amount handle of the pending transfer
// from the sender to the recipient, or ErrNoTransferRecord if none
// exists.
func (p *Platform) GetTransferRecord(to, from common.Address) (types.Handle, error) {
	record, err := p.stg.PendingTransfer(to, from)
	if err != nil {
		if err == storage.ErrNotFound {
			return types.ZeroHandle, ErrNoTransferRecord
		}
		return types.ZeroHandle, err
	}
	return record.Amount, nil
}

// HasTransferRecord reports whether a pending transfer from the sender to
// the recipient exists.
func (p *Platform) HasTransferRecord(to, from common.Address) (bool, error) {
	return p.stg.HasPendingTransfer(to, from)
}
