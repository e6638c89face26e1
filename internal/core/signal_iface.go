package core

// Frame is one encoded protocol message.
type Frame []byte

// SessionID identifies a single live connection, not a user.
type SessionID string

// SignalConnection abstracts the outbound half of a client transport.
// Owned by the adapter; the adapter must Close() it.
// TrySend must never block: a frame that cannot be queued is dropped with an error.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
