package model

import "fmt"

const (
	accountPrefix = "account-"
	eventPrefix   = "event-"
)

func AccountKey(addr string) []byte {
	return []byte(accountPrefix + addr)
}

// EventKey zero-pads the sequence so that a prefix scan returns records in order.
func EventKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", eventPrefix, seq))
}

func EventPrefix() []byte {
	return []byte(eventPrefix)
}

func MonitorCursorKey() []byte {
	return []byte("monitor-cursor")
}
