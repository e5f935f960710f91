package api

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Web3StudyGroup/SecretPlatform/types"
)

// StateRoot is the response to a state root request.
type StateRoot struct {
	Root types.HexBytes `json:"root"`
}

// EncryptedInputRequest asks the coprocessor to encrypt a batch of values
// bound to a contract and the submitting user.
type EncryptedInputRequest struct {
	Contract common.Address `json:"contract"`
	User     common.Address `json:"user"`
	Values   []uint64       `json:"values"`
}

// EncryptedInputResponse carries one handle per requested value and the
// proof binding them to the contract/user pair.
type EncryptedInputResponse struct {
	Handles []types.Handle `json:"handles"`
	Proof   types.HexBytes `json:"inputProof"`
}

// DecryptRequest asks for the plaintext behind a handle on behalf of an
// account. It only succeeds if the account holds a grant on the handle.
type DecryptRequest struct {
	Account common.Address `json:"account"`
	Handle  types.Handle   `json:"handle"`
}

// DecryptResponse carries the recovered plaintext.
type DecryptResponse struct {
	Value uint64 `json:"value"`
}

// FaucetRequest mints plain tokens to an account.
type FaucetRequest struct {
	Account common.Address `json:"account"`
	Amount  *types.BigInt  `json:"amount"`
}

// PlainBalance is the response to a plain token balance query.
type PlainBalance struct {
	Balance *types.BigInt `json:"balance"`
}

// WrapRequest converts plain tokens into encrypted wrapped balance. The
// amount is public, wrapping is the confidentiality boundary.
type WrapRequest struct {
	Account common.Address `json:"account"`
	Amount  uint64         `json:"amount"`
}

// UnwrapRequest converts encrypted wrapped balance back to plain tokens.
type UnwrapRequest struct {
	Account      common.Address `json:"account"`
	AmountHandle types.Handle   `json:"amountHandle"`
	Proof        types.HexBytes `json:"inputProof"`
}

// TransferRequest moves an encrypted amount between two accounts, either
// on the token ledger or into the platform mailbox depending on the
// endpoint.
type TransferRequest struct {
	From         common.Address `json:"from"`
	To           common.Address `json:"to"`
	AmountHandle types.Handle   `json:"amountHandle"`
	Proof        types.HexBytes `json:"inputProof"`
}

// MoveRequest moves an encrypted amount between an account's wrapped
// balance and its internal platform balance (deposit or withdraw).
type MoveRequest struct {
	Account      common.Address `json:"account"`
	AmountHandle types.Handle   `json:"amountHandle"`
	Proof        types.HexBytes `json:"inputProof"`
}

// ClaimRequest claims the pending transfer addressed to To from From.
type ClaimRequest struct {
	To   common.Address `json:"to"`
	From common.Address `json:"from"`
}

// EncryptedBalance is the response to any encrypted balance or supply
// query: a handle, never a plaintext.
type EncryptedBalance struct {
	Handle types.Handle `json:"handle"`
}

// TransferRecord is the response to a pending transfer query.
type TransferRecord struct {
	Exists bool         `json:"exists"`
	Amount types.Handle `json:"amount,omitempty"`
}
