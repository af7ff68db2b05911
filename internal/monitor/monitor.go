package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/strategy"
	"github.com/meshplus/bitxhub-kit/storage"
	"github.com/meshplus/unicity-bridge/internal/eventlog"
	"github.com/meshplus/unicity-bridge/pkg/model"
	"github.com/near/borsh-go"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

const (
	defaultRetryInterval = time.Second
	defaultRetryAttempts = 5
	recvBufferSize       = 256
)

// ErrNonceGap is returned when a lock arrives whose nonce does not follow the
// last delivered one
var ErrNonceGap = errors.New("lock nonce gap")

// Cursor is the position of the monitor in the event log.
type Cursor struct {
	Seq   uint64 `json:"seq"`
	Nonce uint64 `json:"nonce"`
}

// LockMonitor follows the event log and hands every lock to its handler
// exactly once and in nonce order. Records it misses on the live
// subscription are fetched back from the log.
type LockMonitor struct {
	source    Source
	storage   storage.Storage
	handler   Handler
	seq       *atomic.Uint64
	nonce     *atomic.Uint64
	suspended *atomic.Bool
	recvCh    chan *model.Record
	sub       *eventlog.Subscription
	interval  time.Duration
	attempts  uint
	logger    logrus.FieldLogger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*LockMonitor)

func WithRetryInterval(interval time.Duration) Option {
	return func(m *LockMonitor) {
		if interval > 0 {
			m.interval = interval
		}
	}
}

func WithRetryAttempts(attempts uint) Option {
	return func(m *LockMonitor) {
		if attempts > 0 {
			m.attempts = attempts
		}
	}
}

// New creates a monitor resuming from the cursor persisted in store.
func New(source Source, store storage.Storage, handler Handler, logger logrus.FieldLogger, opts ...Option) (*LockMonitor, error) {
	ctx, cancel := context.WithCancel(context.Background())

	cursor := &Cursor{}
	if data := store.Get(model.MonitorCursorKey()); data != nil {
		if err := borsh.Deserialize(cursor, data); err != nil {
			cancel()
			return nil, fmt.Errorf("load monitor cursor: %w", err)
		}
	}

	m := &LockMonitor{
		source:    source,
		storage:   store,
		handler:   handler,
		seq:       atomic.NewUint64(cursor.Seq),
		nonce:     atomic.NewUint64(cursor.Nonce),
		suspended: atomic.NewBool(false),
		recvCh:    make(chan *model.Record, recvBufferSize),
		interval:  defaultRetryInterval,
		attempts:  defaultRetryAttempts,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Start subscribes to the log, catches up with what was recorded while the
// monitor was down and then follows new records.
func (m *LockMonitor) Start() error {
	m.sub = m.source.Subscribe(m.recvCh)

	if err := m.catchUp(m.source.Last()); err != nil {
		m.sub.Unsubscribe()
		return fmt.Errorf("recover monitor: %w", err)
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			select {
			case rec := <-m.recvCh:
				for m.suspended.Load() {
					select {
					case <-m.ctx.Done():
						return
					case <-time.After(m.interval):
					}
				}

				m.handleRecord(rec)
			case <-m.ctx.Done():
				return
			}
		}
	}()

	m.logger.WithFields(logrus.Fields{
		"seq":   m.seq.Load(),
		"nonce": m.nonce.Load(),
	}).Info("Monitor started")

	return nil
}

// Stop returns once the record in flight, if any, is done with. Nothing is
// written to the store after Stop returns.
func (m *LockMonitor) Stop() error {
	m.cancel()
	if m.sub != nil {
		m.sub.Unsubscribe()
	}
	m.wg.Wait()

	m.logger.Info("Monitor stopped")
	return nil
}

// Suspend stops delivery until Resume is called.
func (m *LockMonitor) Suspend() {
	m.suspended.Store(true)
}

func (m *LockMonitor) Resume() {
	m.suspended.Store(false)
}

func (m *LockMonitor) Suspended() bool {
	return m.suspended.Load()
}

func (m *LockMonitor) Cursor() *Cursor {
	return &Cursor{
		Seq:   m.seq.Load(),
		Nonce: m.nonce.Load(),
	}
}

// handleRecord filters records already handled and fetches the missing ones
// in [seq+1, rec.Seq) before handling rec itself
func (m *LockMonitor) handleRecord(rec *model.Record) {
	seq := m.seq.Load()
	if rec.Seq <= seq {
		m.logger.WithFields(logrus.Fields{
			"seq":    rec.Seq,
			"cursor": seq,
		}).Debug("Ignore record")
		return
	}

	if rec.Seq > seq+1 {
		m.logger.WithFields(logrus.Fields{
			"seq":    rec.Seq,
			"cursor": seq,
		}).Info("Get missing records")
	}

	if err := m.catchUp(rec.Seq); err != nil {
		if m.ctx.Err() != nil {
			return
		}
		m.logger.WithFields(logrus.Fields{
			"seq":   rec.Seq,
			"error": err.Error(),
		}).Error("Handle record")
		m.Suspend()
	}
}

// catchUp processes every record up to and including seq to
func (m *LockMonitor) catchUp(to uint64) error {
	for m.seq.Load() < to {
		from := m.seq.Load() + 1

		var records []*model.Record
		if err := retry.Retry(func(attempt uint) error {
			records = m.source.Range(from, int(to-from+1))
			if len(records) == 0 || records[0].Seq != from {
				return fmt.Errorf("record %d not available", from)
			}
			return nil
		}, strategy.Limit(m.attempts), m.wait); err != nil {
			return err
		}

		for _, rec := range records {
			if err := m.ctx.Err(); err != nil {
				return err
			}
			if err := m.process(rec); err != nil {
				return err
			}
		}
	}

	return nil
}

func (m *LockMonitor) process(rec *model.Record) error {
	if rec.Name != model.TokenLockedEvent {
		return m.advance(rec.Seq, m.nonce.Load())
	}

	ev, err := rec.Event()
	if err != nil {
		return fmt.Errorf("decode record %d: %w", rec.Seq, err)
	}
	lock := ev.(*model.TokenLocked)

	entry := m.logger.WithFields(logrus.Fields{
		"seq":     rec.Seq,
		"nonce":   lock.Nonce,
		"lock_id": lock.LockID.String(),
	})

	nonce := m.nonce.Load()
	if lock.Nonce <= nonce {
		entry.Info("Ignore lock")
		return m.advance(rec.Seq, nonce)
	}
	if lock.Nonce != nonce+1 {
		entry.WithField("expected", nonce+1).Error("Lock nonce gap")
		return fmt.Errorf("%w: expect %d, got %d", ErrNonceGap, nonce+1, lock.Nonce)
	}

	if err := retry.Retry(func(attempt uint) error {
		if err := m.handler.HandleLock(lock); err != nil {
			entry.WithFields(logrus.Fields{
				"attempt": attempt,
				"error":   err.Error(),
			}).Warn("Handle lock")
			return err
		}
		return nil
	}, strategy.Limit(m.attempts), m.wait); err != nil {
		return fmt.Errorf("handle lock %d: %w", lock.Nonce, err)
	}

	entry.Info("Handle lock")

	return m.advance(rec.Seq, lock.Nonce)
}

// wait is a retry strategy sleeping interval between attempts. It gives up
// once the monitor is stopped.
func (m *LockMonitor) wait(attempt uint) bool {
	if attempt == 0 {
		return true
	}

	select {
	case <-m.ctx.Done():
		return false
	case <-time.After(m.interval):
		return true
	}
}

func (m *LockMonitor) advance(seq, nonce uint64) error {
	data, err := borsh.Serialize(Cursor{Seq: seq, Nonce: nonce})
	if err != nil {
		return fmt.Errorf("serialize cursor: %w", err)
	}
	m.storage.Put(model.MonitorCursorKey(), data)

	m.nonce.Store(nonce)
	m.seq.Store(seq)
	return nil
}
