package api

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"
	// StateRootEndpoint returns the merkle root committing to the ledger state
	StateRootEndpoint = "/state/root"
	// InputsEndpoint builds encrypted inputs bound to a contract and user
	InputsEndpoint = "/inputs"
	// DecryptEndpoint decrypts a handle on behalf of a granted account
	DecryptEndpoint = "/decrypt"
	// FaucetEndpoint mints plain tokens for testing
	FaucetEndpoint = "/plain/faucet"
	// AccountURLParam is the path parameter carrying an account address
	AccountURLParam = "account"
	// PlainBalanceEndpoint returns the plain token balance of an account
	PlainBalanceEndpoint = "/plain/balances/{" + AccountURLParam + "}"
	// Token endpoints operate on the confidential wrapper
	WrapEndpoint          = "/token/wrap"
	UnwrapEndpoint        = "/token/unwrap"
	TokenTransferEndpoint = "/token/transfers"
	TokenBalanceEndpoint  = "/token/balances/{" + AccountURLParam + "}"
	TokenSupplyEndpoint   = "/token/supply"
	// Platform endpoints operate on the payment platform
	DepositsEndpoint          = "/platform/deposits"
	WithdrawalsEndpoint       = "/platform/withdrawals"
	PlatformTransfersEndpoint = "/platform/transfers"
	ClaimsEndpoint            = "/platform/claims"
	PlatformBalanceEndpoint   = "/platform/balances/{" + AccountURLParam + "}"
	ToURLParam   = "to"
	FromURLParam = "from"
	// TransferRecordEndpoint returns the pending transfer from a sender to
	// a recipient
	TransferRecordEndpoint = "/platform/transfers/{" + ToURLParam + "}/{" + FromURLParam + "}"
)
