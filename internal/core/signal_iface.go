package core

import "errors"

// Frame is one encoded outbound message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend queues f without blocking.
	TrySend(Frame) error
	Close()
}

var (
	// ErrBackpressure means the connection's outbound queue is full.
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)
