// Package acl implements the access grant registry. A grant entitles a
// principal to use a ciphertext handle, most importantly to ask the
// coprocessor for its decryption. Grants are append-only: once given they
// are never revoked, and granting twice is indistinguishable from
// granting once.
package acl

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Web3StudyGroup/SecretPlatform/storage"
	"github.com/Web3StudyGroup/SecretPlatform/types"
)

// Registry is the access grant registry. It satisfies the coprocessor's
// Authorizer interface.
type Registry struct {
	stg *storage.Storage
}

// NewRegistry creates a grant registry over the given storage.
func NewRegistry(stg *storage.Storage) *Registry {
	return &Registry{stg: stg}
}

// Grant gives the account access to the handle, committing immediately in
// its own transaction. Granting on the zero handle is a no-op, there is no
// ciphertext behind it.
func (r *Registry) Grant(handle types.Handle, account common.Address) error {
	if handle.IsZero() {
		return nil
	}
	return r.stg.SetGrant(handle, account)
}

// StageGrant stages the grant into a state update so it commits together
// with the operation that produced the handle.
func (r *Registry) StageGrant(update *storage.StateUpdate, handle types.Handle, account common.Address) error {
	if handle.IsZero() {
		return nil
	}
	return update.AddGrant(handle, account)
}

// IsGranted reports whether the account holds a grant on the handle.
func (r *Registry) IsGranted(handle types.Handle, account common.Address) (bool, error) {
	if handle.IsZero() {
		return false, nil
	}
	return r.stg.HasGrant(handle, account)
}

// IsAuthorized implements the coprocessor Authorizer interface.
func (r *Registry) IsAuthorized(handle types.Handle, account common.Address) (bool, error) {
	return r.IsGranted(handle, account)
}
