package model

import (
	"crypto/sha256"
	"fmt"
	"reflect"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

const (
	BridgeInitializedEvent   = "BridgeInitialized"
	TokenLockedEvent         = "TokenLocked"
	EmergencyWithdrawalEvent = "EmergencyWithdrawal"

	// DiscriminatorSize is the length of the type tag in front of every encoded event
	DiscriminatorSize = 8
)

// Event is a record emitted by a successful bridge operation. Events are the
// only outward wire contract of the bridge.
type Event interface {
	EventName() string
}

// LockID is the cross-ledger correlation key of a single lock.
type LockID [32]byte

func (id LockID) String() string {
	return hexutil.Encode(id[:])
}

func (id LockID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *LockID) UnmarshalText(text []byte) error {
	data, err := hexutil.Decode(string(text))
	if err != nil {
		return fmt.Errorf("decode lock id: %w", err)
	}
	if len(data) != len(id) {
		return fmt.Errorf("invalid lock id length %d", len(data))
	}
	copy(id[:], data)
	return nil
}

type BridgeInitialized struct {
	Admin     solana.PublicKey `json:"admin"`
	Timestamp int64            `json:"timestamp"`
}

func (e *BridgeInitialized) EventName() string { return BridgeInitializedEvent }

type TokenLocked struct {
	LockID           LockID           `json:"lock_id"`
	User             solana.PublicKey `json:"user"`
	Amount           uint64           `json:"amount"`
	UnicityRecipient string           `json:"unicity_recipient"`
	Nonce            uint64           `json:"nonce"`
	Timestamp        int64            `json:"timestamp"`
}

func (e *TokenLocked) EventName() string { return TokenLockedEvent }

type EmergencyWithdrawal struct {
	Admin     solana.PublicKey `json:"admin"`
	Amount    uint64           `json:"amount"`
	Timestamp int64            `json:"timestamp"`
}

func (e *EmergencyWithdrawal) EventName() string { return EmergencyWithdrawalEvent }

// Record is an event as it sits in the ordered log.
type Record struct {
	Seq  uint64
	Name string
	Data []byte
}

// Event decodes the payload of the record.
func (r *Record) Event() (Event, error) {
	return DecodeEvent(r.Data)
}

// Discriminator returns the 8-byte tag the bridge writes in front of the
// named event, sha256("event:<name>")[:8].
func Discriminator(name string) [DiscriminatorSize]byte {
	var d [DiscriminatorSize]byte
	h := sha256.Sum256([]byte("event:" + name))
	copy(d[:], h[:DiscriminatorSize])
	return d
}

// EncodeEvent serializes ev as discriminator || borsh(ev).
func EncodeEvent(ev Event) ([]byte, error) {
	v := reflect.ValueOf(ev)
	if v.Kind() == reflect.Ptr {
		// borsh encodes pointers as options
		v = v.Elem()
	}
	body, err := borsh.Serialize(v.Interface())
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", ev.EventName(), err)
	}
	d := Discriminator(ev.EventName())

	return append(d[:], body...), nil
}

// DecodeEvent is the inverse of EncodeEvent.
func DecodeEvent(data []byte) (Event, error) {
	if len(data) < DiscriminatorSize {
		return nil, fmt.Errorf("event data too short: %d bytes", len(data))
	}

	var ev Event
	var tag [DiscriminatorSize]byte
	copy(tag[:], data)
	switch tag {
	case Discriminator(BridgeInitializedEvent):
		ev = &BridgeInitialized{}
	case Discriminator(TokenLockedEvent):
		ev = &TokenLocked{}
	case Discriminator(EmergencyWithdrawalEvent):
		ev = &EmergencyWithdrawal{}
	default:
		return nil, fmt.Errorf("unknown event discriminator %x", tag)
	}

	if err := borsh.Deserialize(ev, data[DiscriminatorSize:]); err != nil {
		return nil, fmt.Errorf("deserialize %s: %w", ev.EventName(), err)
	}

	return ev, nil
}
