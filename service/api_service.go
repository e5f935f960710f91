// Package service wires the ledger components together and manages their
// lifecycle.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Web3StudyGroup/SecretPlatform/acl"
	"github.com/Web3StudyGroup/SecretPlatform/api"
	"github.com/Web3StudyGroup/SecretPlatform/fhe"
	"github.com/Web3StudyGroup/SecretPlatform/platform"
	"github.com/Web3StudyGroup/SecretPlatform/storage"
	"github.com/Web3StudyGroup/SecretPlatform/token"
	"github.com/Web3StudyGroup/SecretPlatform/types"
)

// Well-known custody accounts of the two contracts.
var (
	TokenAddress    = common.HexToAddress("0x0000000000000000000000000000000000000c01")
	PlatformAddress = common.HexToAddress("0x0000000000000000000000000000000000000c02")
)

// APIService represents a service that manages the HTTP API server and
// the ledger components behind it.
type APIService struct {
	storage  *storage.Storage
	co       *fhe.Coprocessor
	grants   *acl.Registry
	plain    *token.PlainLedger
	token    *token.ConfidentialToken
	platform *platform.Platform
	api      *api.API
	mu       sync.Mutex
	cancel   context.CancelFunc
	host     string
	port     int
}

// NewAPI creates a new APIService instance, building the full component
// stack over the given storage and coprocessor. The events sink may be
// nil.
func NewAPI(stg *storage.Storage, co *fhe.Coprocessor, events types.EventSink, host string, port int) *APIService {
	grants := acl.NewRegistry(stg)
	plain := token.NewPlainLedger(stg, "Tether USD", "USDT", 6)
	tok := token.NewConfidentialToken(TokenAddress, stg, co, grants, plain, events)
	plat := platform.New(PlatformAddress, stg, co, grants, tok, events)
	return &APIService{
		storage:  stg,
		co:       co,
		grants:   grants,
		plain:    plain,
		token:    tok,
		platform: plat,
		host:     host,
		port:     port,
	}
}

// Start begins the API server. It returns an error if the service
// is already running or if it fails to start.
func (as *APIService) Start(ctx context.Context) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		return fmt.Errorf("service already running")
	}

	_, as.cancel = context.WithCancel(ctx)

	var err error
	as.api, err = api.New(&api.APIConfig{
		Host:        as.host,
		Port:        as.port,
		Storage:     as.storage,
		Coprocessor: as.co,
		Grants:      as.grants,
		Token:       as.token,
		Platform:    as.platform,
		PlainToken:  as.plain,
	})
	if err != nil {
		as.cancel = nil
		return fmt.Errorf("failed to start API server: %w", err)
	}

	return nil
}

// Stop halts the API server.
func (as *APIService) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		as.cancel()
		as.cancel = nil
	}
	as.storage.Close()
}

// HostPort returns the host and port of the API server.
func (as *APIService) HostPort() (string, int) {
	return as.host, as.port
}

// Token returns the confidential token instance.
func (as *APIService) Token() *token.ConfidentialToken {
	return as.token
}

// Platform returns the platform instance.
func (as *APIService) Platform() *platform.Platform {
	return as.platform
}
