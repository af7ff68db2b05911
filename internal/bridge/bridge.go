package bridge

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gagliardetto/solana-go"
	"github.com/meshplus/unicity-bridge/internal/host"
	"github.com/meshplus/unicity-bridge/pkg/model"
	"github.com/sirupsen/logrus"
)

// MaxRecipientLen bounds the byte length of a destination address
const MaxRecipientLen = 64

// Host is the part of the host ledger the bridge runs on.
type Host interface {
	Execute(fn func(ctx host.Context) error) ([]*model.Record, error)
	Account(addr solana.PublicKey) (*host.Account, error)
}

// Program implements the bridge operations against one deployment.
type Program struct {
	host   Host
	addrs  *Addresses
	auth   Authorizer
	logger logrus.FieldLogger
}

type Option func(*Program)

func WithAuthorizer(auth Authorizer) Option {
	return func(p *Program) {
		p.auth = auth
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Program) {
		p.logger = logger
	}
}

func New(h Host, addrs *Addresses, opts ...Option) *Program {
	p := &Program{
		host:   h,
		addrs:  addrs,
		auth:   AdminPolicy{},
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Program) Addresses() *Addresses {
	return p.addrs
}

// Initialize creates the bridge ledger with admin as its administrator. A
// second call is refused by the host since the ledger address is taken.
func (p *Program) Initialize(signer, admin solana.PublicKey) (*model.BridgeInitialized, error) {
	var ev *model.BridgeInitialized
	_, err := p.host.Execute(func(ctx host.Context) error {
		ledger := &Ledger{Admin: admin}
		data, err := ledger.Marshal()
		if err != nil {
			return err
		}
		if err := ctx.Allocate(p.addrs.Ledger, p.addrs.ProgramID, data); err != nil {
			return fmt.Errorf("allocate bridge ledger: %w", err)
		}

		ev = &model.BridgeInitialized{
			Admin:     admin,
			Timestamp: ctx.Now(),
		}
		ctx.Emit(ev)
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"signer": signer.String(),
		"admin":  admin.String(),
		"ledger": p.addrs.Ledger.String(),
	}).Info("Bridge initialized")

	return ev, nil
}

// LockValue moves amount from depositor into escrow and emits the lock
// record the relayer credits on the destination ledger.
func (p *Program) LockValue(depositor solana.PublicKey, amount uint64, destination string) (*model.TokenLocked, error) {
	var ev *model.TokenLocked
	_, err := p.host.Execute(func(ctx host.Context) error {
		ledger, err := p.ledger(ctx)
		if err != nil {
			return err
		}

		if amount == 0 {
			return ErrInvalidAmount
		}
		if len(destination) > MaxRecipientLen {
			return ErrInvalidRecipient
		}

		if err := ctx.Transfer(depositor, p.addrs.Escrow, amount); err != nil {
			return fmt.Errorf("transfer to escrow: %w", err)
		}

		totalLocked, overflow := math.SafeAdd(ledger.TotalLocked, amount)
		if overflow {
			return ErrOverflow
		}
		nonce, overflow := math.SafeAdd(ledger.Nonce, 1)
		if overflow {
			return ErrOverflow
		}
		ledger.TotalLocked = totalLocked
		ledger.Nonce = nonce

		if err := p.saveLedger(ctx, ledger); err != nil {
			return err
		}

		now := ctx.Now()
		ev = &model.TokenLocked{
			LockID:           DeriveLockID(depositor, nonce, now),
			User:             depositor,
			Amount:           amount,
			UnicityRecipient: destination,
			Nonce:            nonce,
			Timestamp:        now,
		}
		ctx.Emit(ev)
		return nil
	})
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"depositor": depositor.String(),
			"amount":    amount,
			"error":     err.Error(),
		}).Warn("Lock value rejected")
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"lock_id":     ev.LockID.String(),
		"depositor":   depositor.String(),
		"amount":      amount,
		"destination": destination,
		"nonce":       ev.Nonce,
	}).Info("Lock value")

	return ev, nil
}

// EmergencyWithdraw drains the whole escrow balance to caller, provided the
// authorization policy accepts caller. The ledger counters are left alone.
func (p *Program) EmergencyWithdraw(caller solana.PublicKey) (*model.EmergencyWithdrawal, error) {
	var ev *model.EmergencyWithdrawal
	_, err := p.host.Execute(func(ctx host.Context) error {
		ledger, err := p.ledger(ctx)
		if err != nil {
			return err
		}

		if !p.auth.IsAuthorized(caller, ledger) {
			return ErrUnauthorized
		}

		balance, err := ctx.Balance(p.addrs.Escrow)
		if err != nil {
			return fmt.Errorf("read escrow balance: %w", err)
		}
		if err := ctx.Transfer(p.addrs.Escrow, caller, balance); err != nil {
			return fmt.Errorf("drain escrow: %w", err)
		}

		ev = &model.EmergencyWithdrawal{
			Admin:     caller,
			Amount:    balance,
			Timestamp: ctx.Now(),
		}
		ctx.Emit(ev)
		return nil
	})
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"caller": caller.String(),
			"error":  err.Error(),
		}).Warn("Emergency withdrawal rejected")
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"admin":  caller.String(),
		"amount": ev.Amount,
	}).Warn("Emergency withdrawal")

	return ev, nil
}

// State returns the committed bridge ledger.
func (p *Program) State() (*Ledger, error) {
	a, err := p.host.Account(p.addrs.Ledger)
	if err != nil {
		return nil, err
	}
	if !a.Allocated() {
		return nil, ErrNotInitialized
	}

	ledger := &Ledger{}
	if err := ledger.Unmarshal(a.Data); err != nil {
		return nil, err
	}
	return ledger, nil
}

// VaultBalance returns the value the escrow holds right now.
func (p *Program) VaultBalance() (uint64, error) {
	a, err := p.host.Account(p.addrs.Escrow)
	if err != nil {
		return 0, err
	}
	return a.Lamports, nil
}

func (p *Program) ledger(ctx host.Context) (*Ledger, error) {
	data, err := ctx.Data(p.addrs.Ledger)
	if err != nil {
		if errors.Is(err, host.ErrAccountNotFound) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}

	ledger := &Ledger{}
	if err := ledger.Unmarshal(data); err != nil {
		return nil, err
	}
	return ledger, nil
}

func (p *Program) saveLedger(ctx host.Context, ledger *Ledger) error {
	data, err := ledger.Marshal()
	if err != nil {
		return err
	}
	return ctx.SetData(p.addrs.Ledger, data)
}
