// Package storage contains all the ledger artifacts that are stored in the
// database: encrypted balances, total supplies, pending transfer records,
// access grants and the plain-token collaborator balances. It is a prefixed
// key-value store; every mutating ledger operation commits all of its writes
// through a single write transaction (see StateUpdate), so an operation
// either fully commits or leaves no trace. The following prefixes are used:
//   - 'b/' for encrypted balances (ledger id + account)
//   - 's/' for encrypted total supplies (ledger id)
//   - 't/' for pending transfer records (recipient + sender)
//   - 'g/' for access grants (handle + principal)
//   - 'p/' for plain token balances (account)
//   - 'a/' for plain token allowances (owner + spender)
//   - 'st/' for the state merkle tree nodes
package storage

import (
	"fmt"
	"sync"

	"github.com/vocdoni/arbo"
	"github.com/vocdoni/davinci-node/db"
	"go.vocdoni.io/dvote/log"
	"github.com/vocdoni/davinci-node/db/prefixeddb"
)

var (
	balancePrefix   = []byte("b/")
	supplyPrefix    = []byte("s/")
	pendingPrefix   = []byte("t/")
	grantPrefix     = []byte("g/")
	plainPrefix     = []byte("p/")
	allowancePrefix = []byte("a/")
	treePrefix      = []byte("st/")
)

const (
	// treeMaxLevels is the depth of the state tree. Leaf keys are 32-byte
	// hashes, so the tree must support 256 levels.
	treeMaxLevels = 256
)

var (
	// ErrNotFound is returned when the requested artifact does not exist.
	ErrNotFound = fmt.Errorf("not found")
)

// treeHashFunc is the hash function used in the state tree.
var treeHashFunc = arbo.HashFunctionMiMC_BN254

// Storage is the persistent ledger store. All mutating operations are
// serialized through the global lock: the ledger assumes a single-writer
// total order of operations, the lock is what provides it in-process.
type Storage struct {
	db         db.Database
	tree       *arbo.Tree
	globalLock sync.Mutex
}

// New creates a new Storage instance over the given database, opening (or
// creating) the state tree.
func New(database db.Database) (*Storage, error) {
	tree, err := arbo.NewTree(arbo.Config{
		Database:     prefixeddb.NewPrefixedDatabase(database, treePrefix),
		MaxLevels:    treeMaxLevels,
		HashFunction: treeHashFunc,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create state tree: %w", err)
	}
	return &Storage{db: database, tree: tree}, nil
}

// Close closes the storage.
func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		log.Warnw("failed to close storage database", "error", err.Error())
	}
}

// Root returns the current state tree root, a commitment to every encrypted
// balance and pending transfer record in the ledger.
func (s *Storage) Root() ([]byte, error) {
	return s.tree.Root()
}
