package api

const (
	InitializeUrl   = "initialize"
	LockUrl         = "lock"
	WithdrawUrl     = "withdraw"
	AirdropUrl      = "airdrop"
	StateUrl        = "state"
	VaultUrl        = "vault"
	BalanceUrl      = "balance"
	EventsUrl       = "events"
	EventsRootUrl   = "events/root"
	MonitorUrl      = "monitor"
	SignerHeader    = "X-Bridge-Signer"
	SignatureHeader = "X-Bridge-Signature"
	TimestampHeader = "X-Bridge-Timestamp"
)

type InitializeRequest struct {
	Admin string `json:"admin"`
}

type LockRequest struct {
	Amount      uint64 `json:"amount"`
	Destination string `json:"destination"`
}

type AirdropRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

// ErrorResponse is the body of every failed request. Code and Name are set
// for bridge errors only.
type ErrorResponse struct {
	Code  uint32 `json:"code,omitempty"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error"`
}

type StateResponse struct {
	Admin       string `json:"admin"`
	TotalLocked uint64 `json:"total_locked"`
	Nonce       uint64 `json:"nonce"`
	ProgramID   string `json:"program_id"`
	Ledger      string `json:"ledger"`
	Escrow      string `json:"escrow"`
}

type BalanceResponse struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

type EventResponse struct {
	Seq   uint64      `json:"seq"`
	Name  string      `json:"name"`
	Event interface{} `json:"event"`
}

type RootResponse struct {
	Root  string `json:"root"`
	Count uint64 `json:"count"`
}

type MonitorResponse struct {
	Enable    bool   `json:"enable"`
	Seq       uint64 `json:"seq"`
	Nonce     uint64 `json:"nonce"`
	Suspended bool   `json:"suspended"`
}
