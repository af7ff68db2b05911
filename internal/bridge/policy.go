package bridge

import "github.com/gagliardetto/solana-go"

//go:generate mockgen -destination mock_bridge/mock_bridge.go -package mock_bridge -source policy.go
type Authorizer interface {
	// IsAuthorized reports whether caller may drain the escrow given the
	// current ledger.
	IsAuthorized(caller solana.PublicKey, ledger *Ledger) bool
}

// AdminPolicy authorizes the admin stored in the ledger and nobody else.
type AdminPolicy struct{}

func (AdminPolicy) IsAuthorized(caller solana.PublicKey, ledger *Ledger) bool {
	return ledger != nil && caller.Equals(ledger.Admin)
}
