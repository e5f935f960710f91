// Package token implements the two token layers of the platform: a plain
// ERC20-style ledger used as the underlying asset, and the confidential
// wrapper whose balances exist only as ciphertext handles.
package token

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Web3StudyGroup/SecretPlatform/storage"
)

var (
	// ErrInsufficientPlainBalance is returned when a plain token movement
	// exceeds the sender's balance.
	ErrInsufficientPlainBalance = fmt.Errorf("insufficient plain token balance")
	// ErrInsufficientAllowance is returned when a delegated transfer
	// exceeds the spender's allowance.
	ErrInsufficientAllowance = fmt.Errorf("insufficient allowance")
)

// PlainToken is the public-balance collaborator the wrapper custodies. Its
// balances are visible to anyone; only the wrapped form is confidential.
type PlainToken interface {
	BalanceOf(account common.Address) (*big.Int, error)
	Transfer(from, to common.Address, amount *big.Int) error
	TransferFrom(spender, from, to common.Address, amount *big.Int) error
	Approve(owner, spender common.Address, amount *big.Int) error
	Allowance(owner, spender common.Address) (*big.Int, error)
	Mint(to common.Address, amount *big.Int) error
}

// PlainLedger is a storage-backed PlainToken, standing in for the
// underlying stablecoin.
type PlainLedger struct {
	stg      *storage.Storage
	name     string
	symbol   string
	decimals uint8
}

// NewPlainLedger creates a plain token ledger over the given storage.
func NewPlainLedger(stg *storage.Storage, name, symbol string, decimals uint8) *PlainLedger {
	return &PlainLedger{stg: stg, name: name, symbol: symbol, decimals: decimals}
}

// Name returns the token name.
func (l *PlainLedger) Name() string { return l.name }

// Symbol returns the token symbol.
func (l *PlainLedger) Symbol() string { return l.symbol }

// Decimals returns the token decimals.
func (l *PlainLedger) Decimals() uint8 { return l.decimals }

// BalanceOf returns the balance of the account.
func (l *PlainLedger) BalanceOf(account common.Address) (*big.Int, error) {
	return l.stg.PlainBalance(account)
}

// Mint credits freshly issued tokens to the account.
func (l *PlainLedger) Mint(to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("invalid mint amount")
	}
	balance, err := l.stg.PlainBalance(to)
	if err != nil {
		return err
	}
	return l.stg.SetPlainBalance(to, new(big.Int).Add(balance, amount))
}

// Transfer moves tokens between two accounts.
func (l *PlainLedger) Transfer(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("invalid transfer amount")
	}
	fromBalance, err := l.stg.PlainBalance(from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientPlainBalance
	}
	toBalance, err := l.stg.PlainBalance(to)
	if err != nil {
		return err
	}
	update := l.stg.NewStateUpdate()
	if err := update.SetPlainBalance(from, new(big.Int).Sub(fromBalance, amount)); err != nil {
		return err
	}
	if err := update.SetPlainBalance(to, new(big.Int).Add(toBalance, amount)); err != nil {
		return err
	}
	return update.Apply()
}

// Approve sets the allowance granted by owner to spender.
func (l *PlainLedger) Approve(owner, spender common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("invalid allowance amount")
	}
	return l.stg.SetAllowance(owner, spender, amount)
}

// Allowance returns the allowance granted by owner to spender.
func (l *PlainLedger) Allowance(owner, spender common.Address) (*big.Int, error) {
	return l.stg.Allowance(owner, spender)
}

// TransferFrom moves tokens from an account on behalf of a spender,
// consuming allowance. A spender equal to the owner bypasses the
// allowance check.
func (l *PlainLedger) TransferFrom(spender, from, to common.Address, amount *big.Int) error {
	if spender != from {
		allowance, err := l.stg.Allowance(from, spender)
		if err != nil {
			return err
		}
		if allowance.Cmp(amount) < 0 {
			return ErrInsufficientAllowance
		}
		if err := l.Transfer(from, to, amount); err != nil {
			return err
		}
		return l.stg.SetAllowance(from, spender, new(big.Int).Sub(allowance, amount))
	}
	return l.Transfer(from, to, amount)
}
