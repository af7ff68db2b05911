package bridge

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"github.com/meshplus/unicity-bridge/pkg/model"
)

// DeriveLockID computes sha256(depositor || nonce LE8 || timestamp LE8).
// Replaying the same triple always yields the same id.
func DeriveLockID(depositor solana.PublicKey, nonce uint64, timestamp int64) model.LockID {
	data := make([]byte, 0, solana.PublicKeyLength+16)
	data = append(data, depositor.Bytes()...)
	data = binary.LittleEndian.AppendUint64(data, nonce)
	data = binary.LittleEndian.AppendUint64(data, uint64(timestamp))

	return sha256.Sum256(data)
}
