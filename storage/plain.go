package storage

import (
	"fmt"
	"math/big"

	"github.com/Web3StudyGroup/SecretPlatform/types"
	"github.com/ethereum/go-ethereum/common"
)

// PlainBalance retrieves the plain token balance of the account. Accounts
// that were never funded have a zero balance.
func (s *Storage) PlainBalance(account common.Address) (*big.Int, error) {
	balance := new(types.BigInt)
	if err := s.getArtifact(plainPrefix, plainKey(account), balance); err != nil {
		if err == ErrNotFound {
			return big.NewInt(0), nil
		}
		return nil, fmt.Errorf("could not read plain balance: %w", err)
	}
	return balance.MathBigInt(), nil
}

// SetPlainBalance stores the plain token balance of the account in its own
// write transaction.
func (s *Storage) SetPlainBalance(account common.Address, balance *big.Int) error {
	if balance == nil || balance.Sign() < 0 {
		return fmt.Errorf("invalid plain balance")
	}
	return s.setArtifact(plainPrefix, plainKey(account), (*types.BigInt)(balance))
}

// Allowance retrieves the plain token allowance granted by owner to
// spender.
func (s *Storage) Allowance(owner, spender common.Address) (*big.Int, error) {
	allowance := new(types.BigInt)
	if err := s.getArtifact(allowancePrefix, allowanceKey(owner, spender), allowance); err != nil {
		if err == ErrNotFound {
			return big.NewInt(0), nil
		}
		return nil, fmt.Errorf("could not read allowance: %w", err)
	}
	return allowance.MathBigInt(), nil
}

// SetAllowance stores the plain token allowance from owner to spender in
// its own write transaction.
func (s *Storage) SetAllowance(owner, spender common.Address, allowance *big.Int) error {
	if allowance == nil || allowance.Sign() < 0 {
		return fmt.Errorf("invalid allowance")
	}
	return s.setArtifact(allowancePrefix, allowanceKey(owner, spender), (*types.BigInt)(allowance))
}
