// Package api exposes the platform over HTTP. All amounts cross the wire
// either as public integers (wrap, faucet) or as ciphertext handles plus
// input proofs; the API never returns a plaintext encrypted amount unless
// the requesting account holds a grant on the handle.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.vocdoni.io/dvote/log"

	"github.com/Web3StudyGroup/SecretPlatform/acl"
	"github.com/Web3StudyGroup/SecretPlatform/fhe"
	"github.com/Web3StudyGroup/SecretPlatform/platform"
	stg "github.com/Web3StudyGroup/SecretPlatform/storage"
	"github.com/Web3StudyGroup/SecretPlatform/token"
)

// APIConfig type represents the configuration for the API HTTP server.
type APIConfig struct {
	Host        string
	Port        int
	Storage     *stg.Storage
	Coprocessor *fhe.Coprocessor
	Grants      *acl.Registry
	Token       *token.ConfidentialToken
	Platform    *platform.Platform
	PlainToken  *token.PlainLedger
}

// API type represents the API HTTP server.
type API struct {
	router   *chi.Mux
	storage  *stg.Storage
	co       *fhe.Coprocessor
	grants   *acl.Registry
	token    *token.ConfidentialToken
	platform *platform.Platform
	plain    *token.PlainLedger
}

// New creates a new API instance with the given configuration and starts
// the HTTP server.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Storage == nil || conf.Coprocessor == nil || conf.Token == nil || conf.Platform == nil {
		return nil, fmt.Errorf("missing API dependencies")
	}
	a := &API{
		storage:  conf.Storage,
		co:       conf.Coprocessor,
		grants:   conf.Grants,
		token:    conf.Token,
		platform: conf.Platform,
		plain:    conf.PlainToken,
	}

	// Initialize router
	a.initRouter()
	go func() {
		log.Infow("starting API server", "host", conf.Host, "port", conf.Port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", conf.Host, conf.Port), a.router); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// registerHandlers registers all the API handlers.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})
	log.Infow("register handler", "endpoint", StateRootEndpoint, "method", "GET")
	a.router.Get(StateRootEndpoint, a.stateRoot)

	log.Infow("register handler", "endpoint", InputsEndpoint, "method", "POST")
	a.router.Post(InputsEndpoint, a.newEncryptedInput)
	log.Infow("register handler", "endpoint", DecryptEndpoint, "method", "POST")
	a.router.Post(DecryptEndpoint, a.decrypt)

	log.Infow("register handler", "endpoint", FaucetEndpoint, "method", "POST")
	a.router.Post(FaucetEndpoint, a.faucet)
	log.Infow("register handler", "endpoint", PlainBalanceEndpoint, "method", "GET")
	a.router.Get(PlainBalanceEndpoint, a.plainBalance)

	log.Infow("register handler", "endpoint", WrapEndpoint, "method", "POST")
	a.router.Post(WrapEndpoint, a.wrap)
	log.Infow("register handler", "endpoint", UnwrapEndpoint, "method", "POST")
	a.router.Post(UnwrapEndpoint, a.unwrap)
	log.Infow("register handler", "endpoint", TokenTransferEndpoint, "method", "POST")
	a.router.Post(TokenTransferEndpoint, a.tokenTransfer)
	log.Infow("register handler", "endpoint", TokenBalanceEndpoint, "method", "GET")
	a.router.Get(TokenBalanceEndpoint, a.tokenBalance)
	log.Infow("register handler", "endpoint", TokenSupplyEndpoint, "method", "GET")
	a.router.Get(TokenSupplyEndpoint, a.tokenSupply)

	log.Infow("register handler", "endpoint", DepositsEndpoint, "method", "POST")
	a.router.Post(DepositsEndpoint, a.deposit)
	log.Infow("register handler", "endpoint", WithdrawalsEndpoint, "method", "POST")
	a.router.Post(WithdrawalsEndpoint, a.withdraw)
	log.Infow("register handler", "endpoint", PlatformTransfersEndpoint, "method", "POST")
	a.router.Post(PlatformTransfersEndpoint, a.encryptedTransfer)
	log.Infow("register handler", "endpoint", ClaimsEndpoint, "method", "POST")
	a.router.Post(ClaimsEndpoint, a.claim)
	log.Infow("register handler", "endpoint", PlatformBalanceEndpoint, "method", "GET")
	a.router.Get(PlatformBalanceEndpoint, a.platformBalance)
	log.Infow("register handler", "endpoint", TransferRecordEndpoint, "method", "GET")
	a.router.Get(TransferRecordEndpoint, a.transferRecord)
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	// Create the router with a basic middleware stack
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))

	// Register the API handlers
	a.registerHandlers()
}
