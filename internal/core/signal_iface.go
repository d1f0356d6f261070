package core

import "errors"

// Frame is one encoded message for a client.
type Frame []byte

var (
	// ErrBackpressure means the outbound queue of the connection is full.
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend queues f without blocking and returns ErrBackpressure or ErrClosed
	// when it cannot.
	TrySend(Frame) error
	Close()
}
