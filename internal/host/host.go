package host

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gagliardetto/solana-go"
	"github.com/meshplus/bitxhub-kit/storage"
	"github.com/meshplus/unicity-bridge/pkg/model"
	"github.com/sirupsen/logrus"
)

// Host is a single-node host ledger. Invocations are serialized and applied
// all-or-nothing: the account writes and the emitted events of one
// invocation reach storage in a single batch.
type Host struct {
	storage storage.Storage
	sink    EventSink
	clock   Clock
	logger  logrus.FieldLogger

	lock sync.Mutex
}

type Option func(*Host)

func WithClock(clock Clock) Option {
	return func(h *Host) {
		h.clock = clock
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

func New(store storage.Storage, sink EventSink, opts ...Option) *Host {
	h := &Host{
		storage: store,
		sink:    sink,
		clock:   SystemClock,
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Execute runs fn as one invocation and returns the records of the events it
// emitted. If fn fails nothing it wrote is kept.
func (h *Host) Execute(fn func(ctx Context) error) ([]*model.Record, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	tx := newTx(h, h.clock.Now().Unix())
	if err := fn(tx); err != nil {
		return nil, err
	}

	return h.commit(tx)
}

func (h *Host) commit(tx *tx) ([]*model.Record, error) {
	batch := h.storage.NewBatch()
	for addr := range tx.dirty {
		data, err := marshalAccount(tx.accounts[addr])
		if err != nil {
			return nil, err
		}
		batch.Put(model.AccountKey(addr.String()), data)
	}

	records, err := h.sink.Stage(batch, tx.events)
	if err != nil {
		return nil, fmt.Errorf("stage events: %w", err)
	}

	batch.Commit()
	h.sink.Publish(records)

	h.logger.WithFields(logrus.Fields{
		"accounts": len(tx.dirty),
		"events":   len(records),
		"time":     tx.now,
	}).Debug("Commit invocation")

	return records, nil
}

// Balance returns the committed balance of addr.
func (h *Host) Balance(addr solana.PublicKey) (uint64, error) {
	a, err := h.Account(addr)
	if err != nil {
		return 0, err
	}
	return a.Lamports, nil
}

// Account returns the committed state of addr. Unknown addresses read as
// empty accounts.
func (h *Host) Account(addr solana.PublicKey) (*Account, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.load(addr)
}

// Airdrop credits amount to addr out of thin air. It exists for devnet
// funding only.
func (h *Host) Airdrop(addr solana.PublicKey, amount uint64) error {
	_, err := h.Execute(func(ctx Context) error {
		t := ctx.(*tx)
		a, err := t.account(addr)
		if err != nil {
			return err
		}
		balance, overflow := math.SafeAdd(a.Lamports, amount)
		if overflow {
			return ErrBalanceOverflow
		}
		a.Lamports = balance
		t.touch(addr)
		return nil
	})
	if err != nil {
		return fmt.Errorf("airdrop %d to %s: %w", amount, addr, err)
	}

	h.logger.WithFields(logrus.Fields{
		"account": addr.String(),
		"amount":  amount,
	}).Info("Airdrop")

	return nil
}

func (h *Host) load(addr solana.PublicKey) (*Account, error) {
	data := h.storage.Get(model.AccountKey(addr.String()))
	if data == nil {
		return &Account{}, nil
	}

	return unmarshalAccount(data)
}
