package monitor

import (
	"github.com/meshplus/unicity-bridge/pkg/model"
	"github.com/sirupsen/logrus"
)

var _ Handler = (*LogHandler)(nil)

// LogHandler records locks in the log. It is what the daemon runs with when
// no relayer is attached in process.
type LogHandler struct {
	logger logrus.FieldLogger
}

func NewLogHandler(logger logrus.FieldLogger) *LogHandler {
	return &LogHandler{logger: logger}
}

func (h *LogHandler) HandleLock(lock *model.TokenLocked) error {
	h.logger.WithFields(logrus.Fields{
		"lock_id":     lock.LockID.String(),
		"user":        lock.User.String(),
		"amount":      lock.Amount,
		"destination": lock.UnicityRecipient,
		"nonce":       lock.Nonce,
		"timestamp":   lock.Timestamp,
	}).Info("Lock ready for relay")
	return nil
}
