package storage

import (
	"github.com/Web3StudyGroup/SecretPlatform/types"
	"github.com/ethereum/go-ethereum/common"
)

// PendingTransfer is a mailbox record addressed to a recipient, keyed by
// the sender. Sending again before the recipient claims replaces the
// record with one whose amount handle aggregates both transfers.
type PendingTransfer struct {
	From   common.Address `json:"from"`
	To     common.Address `json:"to"`
	Amount types.Handle   `json:"amount"`
}

// Grant marks that a principal may use a ciphertext handle. Grants are
// append-only, there is no revocation record.
type Grant struct {
	Handle  types.Handle   `json:"handle"`
	Account common.Address `json:"account"`
}
