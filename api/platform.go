package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.vocdoni.io/dvote/log"

	"github.com/Web3StudyGroup/SecretPlatform/platform"
)

// deposit moves an encrypted amount into the platform custody
// POST /platform/deposits
func (a *API) deposit(w http.ResponseWriter, r *http.Request) {
	req := &MoveRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if err := a.platform.Deposit(req.Account, req.AmountHandle, req.Proof); err != nil {
		writeLedgerError(w, err)
		return
	}
	log.Infow("deposit", "account", req.Account.Hex())
	httpWriteOK(w)
}

// withdraw moves an encrypted amount out of the platform custody
// POST /platform/withdrawals
func (a *API) withdraw(w http.ResponseWriter, r *http.Request) {
	req := &MoveRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if err := a.platform.Withdraw(req.Account, req.AmountHandle, req.Proof); err != nil {
		writeLedgerError(w, err)
		return
	}
	log.Infow("withdraw", "account", req.Account.Hex())
	httpWriteOK(w)
}

// encryptedTransfer sends an encrypted amount to a recipient's mailbox
// POST /platform/transfers
func (a *API) encryptedTransfer(w http.ResponseWriter, r *http.Request) {
	req := &TransferRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if err := a.platform.EncryptedTransferTo(req.From, req.To, req.AmountHandle, req.Proof); err != nil {
		writeLedgerError(w, err)
		return
	}
	log.Infow("encrypted transfer", "from", req.From.Hex(), "to", req.To.Hex())
	httpWriteOK(w)
}

// claim credits a pending transfer to the recipient and clears the record
// POST /platform/claims
func (a *API) claim(w http.ResponseWriter, r *http.Request) {
	req := &ClaimRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if err := a.platform.EncryptClaim(req.To, req.From); err != nil {
		writeLedgerError(w, err)
		return
	}
	log.Infow("claim", "to", req.To.Hex(), "from", req.From.Hex())
	httpWriteOK(w)
}

// platformBalance returns the internal encrypted balance handle
// GET /platform/balances/{account}
func (a *API) platformBalance(w http.ResponseWriter, r *http.Request) {
	account, err := urlParamAddress(r, AccountURLParam)
	if err != nil {
		ErrMalformedAddress.WithErr(err).Write(w)
		return
	}
	handle, err := a.platform.GetBalance(account)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httpWriteJSON(w, &EncryptedBalance{Handle: handle})
}

// transferRecord returns the pending transfer addressed to a recipient
// from a sender
// GET /platform/transfers/{to}/{from}
func (a *API) transferRecord(w http.ResponseWriter, r *http.Request) {
	to, err := urlParamAddress(r, ToURLParam)
	if err != nil {
		ErrMalformedAddress.WithErr(err).Write(w)
		return
	}
	from, err := urlParamAddress(r, FromURLParam)
	if err != nil {
		ErrMalformedAddress.WithErr(err).Write(w)
		return
	}
	amount, err := a.platform.GetTransferRecord(to, from)
	if err != nil {
		if errors.Is(err, platform.ErrNoTransferRecord) {
			httpWriteJSON(w, &TransferRecord{Exists: false})
			return
		}
		writeLedgerError(w, err)
		return
	}
	httpWriteJSON(w, &TransferRecord{Exists: true, Amount: amount})
}
