package host

import (
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/meshplus/bitxhub-kit/storage"
	"github.com/meshplus/unicity-bridge/pkg/model"
)

var (
	// ErrAccountInUse is returned when allocating an address that already holds data
	ErrAccountInUse = errors.New("account already in use")

	// ErrAccountNotFound is returned when reading data of an unallocated address
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds is returned when a transfer source cannot cover the amount
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrBalanceOverflow is returned when a credit would exceed the u64 range
	ErrBalanceOverflow = errors.New("balance overflow")
)

// Context is the view of the host ledger handed to a single invocation.
// Everything written through it becomes visible to other invocations only
// if the invocation returns nil.
type Context interface {
	// Now returns the invocation timestamp in unix seconds. It is fixed for
	// the lifetime of the invocation.
	Now() int64

	// Data returns the data held by addr, or ErrAccountNotFound.
	Data(addr solana.PublicKey) ([]byte, error)

	// Allocate assigns data to a fresh address owned by owner. It fails with
	// ErrAccountInUse if addr already holds data.
	Allocate(addr, owner solana.PublicKey, data []byte) error

	// SetData overwrites the data of an allocated address.
	SetData(addr solana.PublicKey, data []byte) error

	// Balance returns the native value held by addr.
	Balance(addr solana.PublicKey) (uint64, error)

	// Transfer moves amount of native value from one address to another.
	Transfer(from, to solana.PublicKey, amount uint64) error

	// Emit appends ev to the ordered event log of this invocation.
	Emit(ev model.Event)
}

// EventSink receives the events of committed invocations.
type EventSink interface {
	// Stage encodes events into batch and returns the records they will
	// become once the batch is committed.
	Stage(batch storage.Batch, events []model.Event) ([]*model.Record, error)

	// Publish makes committed records visible to readers.
	Publish(records []*model.Record)
}
