package host

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gagliardetto/solana-go"
	"github.com/meshplus/unicity-bridge/pkg/model"
)

var _ Context = (*tx)(nil)

// tx is the write-set of one invocation. Accounts are copied in on first
// access and written back only on commit.
type tx struct {
	host     *Host
	now      int64
	accounts map[solana.PublicKey]*Account
	dirty    map[solana.PublicKey]struct{}
	events   []model.Event
}

func newTx(h *Host, now int64) *tx {
	return &tx{
		host:     h,
		now:      now,
		accounts: make(map[solana.PublicKey]*Account),
		dirty:    make(map[solana.PublicKey]struct{}),
	}
}

func (t *tx) Now() int64 {
	return t.now
}

func (t *tx) Data(addr solana.PublicKey) ([]byte, error) {
	a, err := t.account(addr)
	if err != nil {
		return nil, err
	}
	if !a.Allocated() {
		return nil, ErrAccountNotFound
	}

	data := make([]byte, len(a.Data))
	copy(data, a.Data)
	return data, nil
}

func (t *tx) Allocate(addr, owner solana.PublicKey, data []byte) error {
	a, err := t.account(addr)
	if err != nil {
		return err
	}
	if a.Allocated() {
		return ErrAccountInUse
	}

	a.Owner = owner
	a.Data = append([]byte(nil), data...)
	t.touch(addr)
	return nil
}

func (t *tx) SetData(addr solana.PublicKey, data []byte) error {
	a, err := t.account(addr)
	if err != nil {
		return err
	}
	if !a.Allocated() {
		return ErrAccountNotFound
	}

	a.Data = append([]byte(nil), data...)
	t.touch(addr)
	return nil
}

func (t *tx) Balance(addr solana.PublicKey) (uint64, error) {
	a, err := t.account(addr)
	if err != nil {
		return 0, err
	}
	return a.Lamports, nil
}

func (t *tx) Transfer(from, to solana.PublicKey, amount uint64) error {
	src, err := t.account(from)
	if err != nil {
		return err
	}
	dst, err := t.account(to)
	if err != nil {
		return err
	}

	if src.Lamports < amount {
		return ErrInsufficientFunds
	}
	if from.Equals(to) {
		return nil
	}

	credited, overflow := math.SafeAdd(dst.Lamports, amount)
	if overflow {
		return ErrBalanceOverflow
	}

	src.Lamports -= amount
	dst.Lamports = credited
	t.touch(from)
	t.touch(to)
	return nil
}

func (t *tx) Emit(ev model.Event) {
	t.events = append(t.events, ev)
}

func (t *tx) account(addr solana.PublicKey) (*Account, error) {
	if a, ok := t.accounts[addr]; ok {
		return a, nil
	}

	a, err := t.host.load(addr)
	if err != nil {
		return nil, err
	}
	a = a.clone()
	t.accounts[addr] = a
	return a, nil
}

func (t *tx) touch(addr solana.PublicKey) {
	t.dirty[addr] = struct{}{}
}
