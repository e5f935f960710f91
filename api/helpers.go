package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"go.vocdoni.io/dvote/log"

	"github.com/Web3StudyGroup/SecretPlatform/fhe"
	"github.com/Web3StudyGroup/SecretPlatform/platform"
	"github.com/Web3StudyGroup/SecretPlatform/token"
)

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	jdata, err := json.Marshal(data)
	if err != nil {
		ErrMarshalingServerJSONFailed.WithErr(err).Write(w)
		return
	}
	n, err := w.Write(jdata)
	if err != nil {
		log.Warnw("failed to write http response", "error", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
	log.Debugw("api response", "bytes", n, "data", strings.ReplaceAll(string(jdata), "\"", ""))
}

// httpWriteOK helper function allows to write an OK response.
func httpWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// urlParamAddress extracts and validates an address URL parameter.
func urlParamAddress(r *http.Request, param string) (common.Address, error) {
	raw := chi.URLParam(r, param)
	if !common.IsHexAddress(raw) {
		return common.Address{}, ErrMalformedAddress.Withf("%q is not a valid address", raw)
	}
	return common.HexToAddress(raw), nil
}

// writeLedgerError maps the domain errors to their API counterparts.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fhe.ErrInvalidProof):
		ErrInvalidInputProof.Write(w)
	case errors.Is(err, fhe.ErrUnderflow):
		ErrUnderflowRejected.Write(w)
	case errors.Is(err, fhe.ErrNotAuthorized):
		ErrNotAuthorized.Write(w)
	case errors.Is(err, fhe.ErrUnknownHandle):
		ErrUnknownHandle.Write(w)
	case errors.Is(err, token.ErrInsufficientPlainBalance):
		ErrInsufficientPlainBalance.Write(w)
	case errors.Is(err, token.ErrZeroAddressRecipient):
		ErrZeroAddressRecipient.Write(w)
	case errors.Is(err, platform.ErrNoTransferRecord):
		ErrNoTransferRecord.Write(w)
	default:
		ErrGenericInternalServerError.WithErr(err).Write(w)
	}
}
