package channel

import "context"

// ConnectionStateListener receives notifications about connection state changes
type ConnectionStateListener interface {
	// OnConnectionEstablished is called when a new connection is established
	OnConnectionEstablished()

	// OnConnectionLost is called when a connection is lost
	OnConnectionLost()
}

// NotificationChannel represents a pluggable notification transport.
// Users implement this interface to provide TCP, UDP, QUIC or any custom
// link to the device. This is THE KEY INTERFACE that enables pluggable
// transports.
//
// A frame is one notification event: at most one fragment of a logical
// message inbound, one complete command payload outbound. Frames are
// delivered in order; the channel adds no retransmission or
// acknowledgement of its own.
type NotificationChannel interface {
	// Read reads the next notification frame from the device
	// Should block until a frame is available or context is cancelled
	// Implementations must handle timeouts internally or via context
	Read(ctx context.Context) ([]byte, error)

	// Write writes one outbound payload to the device
	// Must be thread-safe as writes may come from concurrent callers
	// Should complete the write or return error
	Write(ctx context.Context, data []byte) error

	// Close closes the channel
	// Should cleanup all resources and unblock any pending Read/Write
	Close() error

	// Statistics returns transport-level statistics
	// Optional - can return zero values if not tracked
	Statistics() TransportStats

	// SetConnectionStateListener sets a listener for connection state changes
	// Optional - channels that don't support connection state notifications can ignore this
	SetConnectionStateListener(listener ConnectionStateListener)
}

// TransportStats provides transport-level statistics
type TransportStats struct {
	BytesSent     uint64 // Total bytes sent
	BytesReceived uint64 // Total bytes received
	WriteErrors   uint64 // Number of write errors
	ReadErrors    uint64 // Number of read errors
	Connects      uint64 // Number of connections (for connection-oriented transports)
	Disconnects   uint64 // Number of disconnections
}

// ChannelState represents the state of a channel
type ChannelState int

const (
	ChannelStateOpen ChannelState = iota
	ChannelStateClosed
)

// String returns string representation of ChannelState
func (s ChannelState) String() string {
	switch s {
	case ChannelStateOpen:
		return "Open"
	case ChannelStateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}
