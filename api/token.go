package api

import (
	"encoding/json"
	"net/http"

	"go.vocdoni.io/dvote/log"
)

// wrap converts plain tokens of an account into encrypted wrapped balance
// POST /token/wrap
func (a *API) wrap(w http.ResponseWriter, r *http.Request) {
	req := &WrapRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if err := a.token.Wrap(req.Account, req.Amount); err != nil {
		writeLedgerError(w, err)
		return
	}
	log.Infow("wrap", "account", req.Account.Hex(), "amount", req.Amount)
	httpWriteOK(w)
}

// unwrap converts encrypted wrapped balance back into plain tokens
// POST /token/unwrap
func (a *API) unwrap(w http.ResponseWriter, r *http.Request) {
	req := &UnwrapRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if err := a.token.Unwrap(req.Account, req.AmountHandle, req.Proof); err != nil {
		writeLedgerError(w, err)
		return
	}
	log.Infow("unwrap", "account", req.Account.Hex())
	httpWriteOK(w)
}

// tokenTransfer moves an encrypted amount between two token accounts
// POST /token/transfers
func (a *API) tokenTransfer(w http.ResponseWriter, r *http.Request) {
	req := &TransferRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if err := a.token.Transfer(req.From, req.To, req.AmountHandle, req.Proof); err != nil {
		writeLedgerError(w, err)
		return
	}
	log.Infow("transfer", "from", req.From.Hex(), "to", req.To.Hex())
	httpWriteOK(w)
}

// tokenBalance returns the encrypted balance handle of an account
// GET /token/balances/{account}
func (a *API) tokenBalance(w http.ResponseWriter, r *http.Request) {
	account, err := urlParamAddress(r, AccountURLParam)
	if err != nil {
		ErrMalformedAddress.WithErr(err).Write(w)
		return
	}
	handle, err := a.token.BalanceOf(account)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httpWriteJSON(w, &EncryptedBalance{Handle: handle})
}

// tokenSupply returns the encrypted total supply handle
// GET /token/supply
func (a *API) tokenSupply(w http.ResponseWriter, r *http.Request) {
	handle, err := a.token.TotalSupply()
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httpWriteJSON(w, &EncryptedBalance{Handle: handle})
}
