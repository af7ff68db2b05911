package host

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

// Account is the persisted form of a host address.
type Account struct {
	Lamports uint64
	Owner    solana.PublicKey
	Data     []byte
}

// Allocated reports whether the account carries data.
func (a *Account) Allocated() bool {
	return len(a.Data) != 0
}

func (a *Account) clone() *Account {
	data := make([]byte, len(a.Data))
	copy(data, a.Data)
	return &Account{
		Lamports: a.Lamports,
		Owner:    a.Owner,
		Data:     data,
	}
}

func marshalAccount(a *Account) ([]byte, error) {
	data, err := borsh.Serialize(*a)
	if err != nil {
		return nil, fmt.Errorf("serialize account: %w", err)
	}
	return data, nil
}

func unmarshalAccount(data []byte) (*Account, error) {
	a := &Account{}
	if err := borsh.Deserialize(a, data); err != nil {
		return nil, fmt.Errorf("deserialize account: %w", err)
	}
	return a, nil
}
