package types

import "github.com/ethereum/go-ethereum/common"

// LedgerID identifies one of the encrypted balance ledgers. Each account
// has exactly one encrypted balance per ledger.
type LedgerID byte

const (
	// LedgerToken is the confidential token ledger (wrapped balances).
	LedgerToken LedgerID = 0x01
	// LedgerPlatform is the platform-held balance ledger.
	LedgerPlatform LedgerID = 0x02
)

// String returns a human readable name for the ledger.
func (l LedgerID) String() string {
	switch l {
	case LedgerToken:
		return "token"
	case LedgerPlatform:
		return "platform"
	default:
		return "unknown"
	}
}

// EventKind enumerates the notifications emitted by the ledger. Events
// carry identities only, never amounts.
type EventKind string

const (
	EventWrap              EventKind = "Wrap"
	EventUnwrap            EventKind = "Unwrap"
	EventTransfer          EventKind = "Transfer"
	EventDeposit           EventKind = "Deposit"
	EventWithdraw          EventKind = "Withdraw"
	EventEncryptedTransfer EventKind = "EncryptedTransfer"
	EventClaim             EventKind = "Claim"
)

// Event is an observable ledger notification.
type Event struct {
	Kind EventKind      `json:"kind"`
	From common.Address `json:"from,omitempty"`
	To   common.Address `json:"to,omitempty"`
}

// EventSink receives ledger notifications. Implementations must not
// block; the ledger emits synchronously after a successful commit.
type EventSink interface {
	Notify(e Event)
}
