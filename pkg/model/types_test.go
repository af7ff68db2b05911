package model

import (
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestTokenLockedLayout(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	ev := &TokenLocked{
		LockID:           LockID{1, 2, 3},
		User:             user,
		Amount:           1000,
		UnicityRecipient: "unicity-addr-1",
		Nonce:            7,
		Timestamp:        1700000000,
	}

	data, err := EncodeEvent(ev)
	require.Nil(t, err)
	require.Equal(t, DiscriminatorSize+32+32+8+4+len(ev.UnicityRecipient)+8+8, len(data))

	d := Discriminator(TokenLockedEvent)
	require.Equal(t, d[:], data[:DiscriminatorSize])

	off := DiscriminatorSize + 32
	require.Equal(t, user.Bytes(), data[off:off+32])
	off += 32
	require.Equal(t, uint64(1000), binary.LittleEndian.Uint64(data[off:]))
	off += 8
	require.Equal(t, uint32(len(ev.UnicityRecipient)), binary.LittleEndian.Uint32(data[off:]))

	decoded, err := DecodeEvent(data)
	require.Nil(t, err)
	require.Equal(t, ev, decoded)
}

func TestDecodeEventErrors(t *testing.T) {
	_, err := DecodeEvent([]byte{1, 2, 3})
	require.NotNil(t, err)

	_, err = DecodeEvent(make([]byte, 16))
	require.NotNil(t, err)
}

func TestLockIDJSON(t *testing.T) {
	id := LockID{0xde, 0xad, 0xbe, 0xef}
	data, err := json.Marshal(id)
	require.Nil(t, err)
	require.Equal(t, `"0xdeadbeef00000000000000000000000000000000000000000000000000000000"`, string(data))

	var got LockID
	require.Nil(t, json.Unmarshal(data, &got))
	require.Equal(t, id, got)

	require.NotNil(t, json.Unmarshal([]byte(`"0x1234"`), &got))
}

func TestEventKeyOrdering(t *testing.T) {
	require.True(t, string(EventKey(9)) < string(EventKey(10)))
	require.Equal(t, "event-00000000000000000042", string(EventKey(42)))
}
