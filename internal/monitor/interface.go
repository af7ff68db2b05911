package monitor

import (
	"github.com/meshplus/unicity-bridge/internal/eventlog"
	"github.com/meshplus/unicity-bridge/pkg/model"
)

//go:generate mockgen -destination mock_monitor/mock_monitor.go -package mock_monitor -source interface.go
type Handler interface {
	// HandleLock is called once per lock, in nonce order
	HandleLock(lock *model.TokenLocked) error
}

// Source is the ordered log the monitor follows.
type Source interface {
	Subscribe(ch chan<- *model.Record) *eventlog.Subscription
	Range(from uint64, limit int) []*model.Record
	Last() uint64
}
