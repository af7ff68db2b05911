package bridge

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

var ledgerDiscriminator = accountDiscriminator("BridgeState")

// Ledger is the singleton bridge record. TotalLocked is a lifetime counter,
// not the live escrow balance.
type Ledger struct {
	Admin       solana.PublicKey `json:"admin"`
	TotalLocked uint64           `json:"total_locked"`
	Nonce       uint64           `json:"nonce"`
}

func accountDiscriminator(name string) []byte {
	h := sha256.Sum256([]byte("account:" + name))
	return h[:8]
}

func (l *Ledger) Marshal() ([]byte, error) {
	body, err := borsh.Serialize(*l)
	if err != nil {
		return nil, fmt.Errorf("serialize ledger: %w", err)
	}

	return append(append([]byte(nil), ledgerDiscriminator...), body...), nil
}

func (l *Ledger) Unmarshal(data []byte) error {
	if len(data) < len(ledgerDiscriminator) || !bytes.Equal(data[:len(ledgerDiscriminator)], ledgerDiscriminator) {
		return fmt.Errorf("account is not a bridge ledger")
	}

	if err := borsh.Deserialize(l, data[len(ledgerDiscriminator):]); err != nil {
		return fmt.Errorf("deserialize ledger: %w", err)
	}

	return nil
}
