package storage

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// PendingTransfer retrieves the pending transfer record addressed to the
// recipient from the sender. It returns ErrNotFound if no record exists.
func (s *Storage) PendingTransfer(to, from common.Address) (*PendingTransfer, error) {
	record := &PendingTransfer{}
	if err := s.getArtifact(pendingPrefix, pendingKey(to, from), record); err != nil {
		if err == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not read pending transfer: %w", err)
	}
	return record, nil
}

// HasPendingTransfer reports whether a pending transfer record exists from
// the sender to the recipient.
func (s *Storage) HasPendingTransfer(to, from common.Address) (bool, error) {
	return s.hasArtifact(pendingPrefix, pendingKey(to, from))
}
