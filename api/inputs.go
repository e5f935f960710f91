package api

import (
	"encoding/json"
	"net/http"

	"go.vocdoni.io/dvote/log"

	"github.com/Web3StudyGroup/SecretPlatform/types"
)

// stateRoot returns the merkle root committing to the ledger state
// GET /state/root
func (a *API) stateRoot(w http.ResponseWriter, r *http.Request) {
	root, err := a.storage.Root()
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &StateRoot{Root: root})
}

// newEncryptedInput encrypts a batch of values bound to a contract and user
// POST /inputs
func (a *API) newEncryptedInput(w http.ResponseWriter, r *http.Request) {
	req := &EncryptedInputRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if len(req.Values) == 0 {
		ErrMalformedBody.With("empty values").Write(w)
		return
	}
	input := a.co.NewEncryptedInput(req.Contract, req.User)
	for _, value := range req.Values {
		input.Add64(value)
	}
	handles, proof, err := input.Encrypt()
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	log.Debugw("new encrypted input", "contract", req.Contract.Hex(), "user", req.User.Hex(), "handles", len(handles))
	httpWriteJSON(w, &EncryptedInputResponse{Handles: handles, Proof: proof})
}

// decrypt recovers the plaintext behind a handle for a granted account
// POST /decrypt
func (a *API) decrypt(w http.ResponseWriter, r *http.Request) {
	req := &DecryptRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	value, err := a.co.RequestDecrypt(req.Handle, req.Account, a.grants)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httpWriteJSON(w, &DecryptResponse{Value: value})
}

// faucet mints plain tokens to an account, for testing flows end to end
// POST /plain/faucet
func (a *API) faucet(w http.ResponseWriter, r *http.Request) {
	req := &FaucetRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if req.Amount == nil {
		ErrMalformedBody.With("missing amount").Write(w)
		return
	}
	if err := a.plain.Mint(req.Account, req.Amount.MathBigInt()); err != nil {
		writeLedgerError(w, err)
		return
	}
	httpWriteOK(w)
}

// plainBalance returns the plain token balance of an account
// GET /plain/balances/{account}
func (a *API) plainBalance(w http.ResponseWriter, r *http.Request) {
	account, err := urlParamAddress(r, AccountURLParam)
	if err != nil {
		ErrMalformedAddress.WithErr(err).Write(w)
		return
	}
	balance, err := a.plain.BalanceOf(account)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httpWriteJSON(w, &PlainBalance{Balance: (*types.BigInt)(balance)})
}
