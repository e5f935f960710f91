package storage

import (
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/fxamacker/cbor/v2"
	"github.com/vocdoni/davinci-node/db"
	"github.com/vocdoni/davinci-node/db/prefixeddb"
)

// Artifact encoding/decoding
func encodeArtifact(a any) ([]byte, error) {
	encOpts := cbor.CoreDetEncOptions()
	em, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return em.Marshal(a)
}

func decodeArtifact(data []byte, out any) error {
	return cbor.Unmarshal(data, out)
}

// leafKey derives a fixed-size state tree key from the artifact prefix and
// its database key. The tree requires keys no longer than its depth in
// bytes, the hash keeps them at 32.
func leafKey(prefix, key []byte) []byte {
	return ethcrypto.Keccak256(prefix, key)
}

// getArtifact retrieves an artifact stored under the given prefix and key,
// decoding it into out. It returns ErrNotFound if the key does not exist.
func (s *Storage) getArtifact(prefix, key []byte, out any) error {
	rTx := prefixeddb.NewPrefixedReader(s.db, prefix)
	data, err := rTx.Get(key)
	if err != nil {
		if err == db.ErrKeyNotFound {
			return ErrNotFound
		}
		return err
	}
	return decodeArtifact(data, out)
}

// hasArtifact reports whether an artifact exists under the given prefix and
// key.
func (s *Storage) hasArtifact(prefix, key []byte) (bool, error) {
	rTx := prefixeddb.NewPrefixedReader(s.db, prefix)
	if _, err := rTx.Get(key); err != nil {
		if err == db.ErrKeyNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// setArtifact encodes and stores an artifact under the given prefix and key
// in its own write transaction. Mutations that must commit together with
// other writes go through a StateUpdate instead.
func (s *Storage) setArtifact(prefix, key []byte, a any) error {
	data, err := encodeArtifact(a)
	if err != nil {
		return err
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Set(key, data); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}
