package channel

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
)

// MemChannel implements NotificationChannel over in-process channels.
// NewMemPair returns two linked endpoints where frames written to one
// side are read from the other. Used to link a probe and a simulated
// device in the same process, and in tests.
type MemChannel struct {
	recv      chan []byte
	send      chan []byte
	closeChan chan struct{}
	peerClose chan struct{}
	closed    bool
	mu        sync.RWMutex

	// State change notifications
	stateListener     ConnectionStateListener
	stateListenerLock sync.RWMutex

	// Statistics
	stats struct {
		bytesSent     atomic.Uint64
		bytesReceived atomic.Uint64
		writeErrors   atomic.Uint64
		readErrors    atomic.Uint64
	}
}

// NewMemPair creates two connected in-memory channels
func NewMemPair() (*MemChannel, *MemChannel) {
	ab := make(chan []byte, 64)
	ba := make(chan []byte, 64)
	aClose := make(chan struct{})
	bClose := make(chan struct{})

	a := &MemChannel{recv: ba, send: ab, closeChan: aClose, peerClose: bClose}
	b := &MemChannel{recv: ab, send: ba, closeChan: bClose, peerClose: aClose}
	return a, b
}

// Read implements NotificationChannel.Read
func (m *MemChannel) Read(ctx context.Context) ([]byte, error) {
	// Frames queued before a close are still delivered
	select {
	case data := <-m.recv:
		m.stats.bytesReceived.Add(uint64(len(data)))
		return data, nil
	default:
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.closeChan:
		return nil, ErrChannelClosed
	case <-m.peerClose:
		m.stats.readErrors.Add(1)
		return nil, io.EOF
	case data := <-m.recv:
		m.stats.bytesReceived.Add(uint64(len(data)))
		return data, nil
	}
}

// Write implements NotificationChannel.Write
func (m *MemChannel) Write(ctx context.Context, data []byte) error {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrChannelClosed
	}
	m.mu.RUnlock()

	// Copy so the caller can reuse its buffer
	frame := make([]byte, len(data))
	copy(frame, data)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-m.peerClose:
		m.stats.writeErrors.Add(1)
		return io.ErrClosedPipe
	case m.send <- frame:
		m.stats.bytesSent.Add(uint64(len(frame)))
		return nil
	}
}

// Close implements NotificationChannel.Close
func (m *MemChannel) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.closeChan)
	m.mu.Unlock()

	m.notifyConnectionLost()
	return nil
}

// Statistics implements NotificationChannel.Statistics
func (m *MemChannel) Statistics() TransportStats {
	return TransportStats{
		BytesSent:     m.stats.bytesSent.Load(),
		BytesReceived: m.stats.bytesReceived.Load(),
		WriteErrors:   m.stats.writeErrors.Load(),
		ReadErrors:    m.stats.readErrors.Load(),
		Connects:      1,
	}
}

// SetConnectionStateListener sets a listener for connection state changes.
// A memory pair is connected from creation, so the listener is notified
// immediately.
func (m *MemChannel) SetConnectionStateListener(listener ConnectionStateListener) {
	m.stateListenerLock.Lock()
	m.stateListener = listener
	m.stateListenerLock.Unlock()

	if listener != nil {
		listener.OnConnectionEstablished()
	}
}

// notifyConnectionLost notifies the listener that a connection was lost
func (m *MemChannel) notifyConnectionLost() {
	m.stateListenerLock.RLock()
	listener := m.stateListener
	m.stateListenerLock.RUnlock()

	if listener != nil {
		listener.OnConnectionLost()
	}
}
