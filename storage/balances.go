package storage

import (
	"fmt"

	"github.com/Web3StudyGroup/SecretPlatform/types"
	"github.com/ethereum/go-ethereum/common"
)

// Balance retrieves the encrypted balance handle of the account on the
// given ledger. It returns the zero handle and no error for accounts that
// were never touched.
func (s *Storage) Balance(ledger types.LedgerID, account common.Address) (types.Handle, error) {
	var handle types.Handle
	if err := s.getArtifact(balancePrefix, balanceKey(ledger, account), &handle); err != nil {
		if err == ErrNotFound {
			return types.ZeroHandle, nil
		}
		return types.ZeroHandle, fmt.Errorf("could not read balance: %w", err)
	}
	return handle, nil
}

// TotalSupply retrieves the encrypted total supply handle of the ledger.
// It returns the zero handle and no error if nothing was ever wrapped.
func (s *Storage) TotalSupply(ledger types.LedgerID) (types.Handle, error) {
	var handle types.Handle
	if err := s.getArtifact(supplyPrefix, supplyKey(ledger), &handle); err != nil {
		if err == ErrNotFound {
			return types.ZeroHandle, nil
		}
		return types.ZeroHandle, fmt.Errorf("could not read total supply: %w", err)
	}
	return handle, nil
}
