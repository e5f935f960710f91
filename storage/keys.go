package storage

import (
	"github.com/Web3StudyGroup/SecretPlatform/types"
	"github.com/ethereum/go-ethereum/common"
)

// Key builders for the artifact prefixes. Keys are raw byte
// concatenations of fixed-size components, so they never collide.

func balanceKey(ledger types.LedgerID, account common.Address) []byte {
	key := make([]byte, 0, 1+common.AddressLength)
	key = append(key, byte(ledger))
	return append(key, account.Bytes()...)
}

func supplyKey(ledger types.LedgerID) []byte {
	return []byte{byte(ledger)}
}

func pendingKey(to, from common.Address) []byte {
	key := make([]byte, 0, 2*common.AddressLength)
	key = append(key, to.Bytes()...)
	return append(key, from.Bytes()...)
}

func grantKey(handle types.Handle, account common.Address) []byte {
	key := make([]byte, 0, types.HandleSize+common.AddressLength)
	key = append(key, handle.Bytes()...)
	return append(key, account.Bytes()...)
}

func plainKey(account common.Address) []byte {
	return account.Bytes()
}

func allowanceKey(owner, spender common.Address) []byte {
	key := make([]byte, 0, 2*common.AddressLength)
	key = append(key, owner.Bytes()...)
	return append(key, spender.Bytes()...)
}
