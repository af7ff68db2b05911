package bridge

import (
	"errors"
	"fmt"
)

// errorCodeOffset is where custom program error codes start.
const errorCodeOffset = 6000

// Error is a terminal failure of a bridge operation.
type Error struct {
	Code uint32
	Name string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Msg)
}

var (
	ErrInvalidAmount    = &Error{Code: errorCodeOffset, Name: "InvalidAmount", Msg: "Invalid amount: must be greater than 0"}
	ErrInvalidRecipient = &Error{Code: errorCodeOffset + 1, Name: "InvalidRecipient", Msg: "Invalid recipient address"}
	ErrUnauthorized     = &Error{Code: errorCodeOffset + 2, Name: "Unauthorized", Msg: "Unauthorized: only admin can perform this action"}
	ErrOverflow         = &Error{Code: errorCodeOffset + 3, Name: "Overflow", Msg: "Arithmetic overflow"}

	// ErrNotInitialized is returned by every operation but Initialize while
	// the bridge ledger does not exist yet
	ErrNotInitialized = errors.New("bridge not initialized")
)

// AsError extracts the bridge error carried by err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
