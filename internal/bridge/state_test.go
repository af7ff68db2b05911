package bridge

import (
	"crypto/sha256"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestLedgerEncoding(t *testing.T) {
	ledger := &Ledger{
		Admin:       solana.NewWallet().PublicKey(),
		TotalLocked: 1500,
		Nonce:       2,
	}

	data, err := ledger.Marshal()
	require.Nil(t, err)
	require.Equal(t, 8+32+8+8, len(data))

	h := sha256.Sum256([]byte("account:BridgeState"))
	require.Equal(t, h[:8], data[:8])

	decoded := &Ledger{}
	require.Nil(t, decoded.Unmarshal(data))
	require.Equal(t, ledger, decoded)

	require.NotNil(t, decoded.Unmarshal(data[8:]))
	require.NotNil(t, decoded.Unmarshal([]byte{1}))
}
