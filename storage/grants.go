package storage

import (
	"github.com/Web3StudyGroup/SecretPlatform/types"
	"github.com/ethereum/go-ethereum/common"
)

// HasGrant reports whether the account holds an access grant on the
// handle.
func (s *Storage) HasGrant(handle types.Handle, account common.Address) (bool, error) {
	return s.hasArtifact(grantPrefix, grantKey(handle, account))
}

// SetGrant stores an access grant outside of any state update. Used for
// grants that accompany read-only operations.
func (s *Storage) SetGrant(handle types.Handle, account common.Address) error {
	return s.setArtifact(grantPrefix, grantKey(handle, account), &Grant{Handle: handle, Account: account})
}
