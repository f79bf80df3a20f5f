// Package transport defines the two socket capabilities the session
// consumes and provides concrete TCP/UDP implementations of them.
package transport

// ControlTransport is the reliable, ordered, bidirectional channel the
// session drives its request/response control exchanges over.
type ControlTransport interface {
	// Connect opens the channel. Calling Connect while already connected
	// is the caller's responsibility to avoid; implementations may treat
	// it as a no-op or an error.
	Connect() error
	// Disconnect closes the channel. Always safe to call, including when
	// not connected or already disconnected.
	Disconnect() error
	// Connected reports whether the channel is currently open.
	Connected() bool
	// Send writes bytes to the channel. Fails if not connected.
	Send(b []byte) error
	// OnMessage registers the callback invoked once per received chunk.
	// Chunks are not guaranteed to align with frame boundaries. Only one
	// callback is active at a time; a later call replaces the former.
	OnMessage(fn func([]byte))
}

// DataTransport is the unreliable datagram receiver the session forwards
// I/Q sample traffic through.
type DataTransport interface {
	// StartListening begins delivering datagrams to the registered
	// callback. Idempotent.
	StartListening() error
	// StopListening halts delivery. Idempotent, interchangeable with Exit.
	StopListening() error
	// Exit is an alias for StopListening kept for interface parity with
	// the reference transport's vocabulary; both are idempotent and
	// either may be used to tear the receiver down.
	Exit() error
	// OnDatagram registers the callback invoked once per received
	// datagram.
	OnDatagram(fn func([]byte))
}
