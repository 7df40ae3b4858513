package probe

import "sync/atomic"

// Statistics tracks message-level probe statistics
type Statistics struct {
	numMessagesRx      uint64
	numDecodeErrors    uint64
	numUnknownMessages uint64
	numCommandsTx      uint64
	numCommandErrors   uint64
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	return &Statistics{}
}

// IncrementMessagesRx increments decoded messages
func (s *Statistics) IncrementMessagesRx() {
	atomic.AddUint64(&s.numMessagesRx, 1)
}

// IncrementDecodeErrors increments messages that failed to decode
func (s *Statistics) IncrementDecodeErrors() {
	atomic.AddUint64(&s.numDecodeErrors, 1)
}

// IncrementUnknownMessages increments messages with an unrecognized type
func (s *Statistics) IncrementUnknownMessages() {
	atomic.AddUint64(&s.numUnknownMessages, 1)
}

// IncrementCommandsTx increments commands sent
func (s *Statistics) IncrementCommandsTx() {
	atomic.AddUint64(&s.numCommandsTx, 1)
}

// IncrementCommandErrors increments commands that failed to send
func (s *Statistics) IncrementCommandErrors() {
	atomic.AddUint64(&s.numCommandErrors, 1)
}

// GetMessagesRx returns decoded messages
func (s *Statistics) GetMessagesRx() uint64 {
	return atomic.LoadUint64(&s.numMessagesRx)
}

// GetDecodeErrors returns messages that failed to decode
func (s *Statistics) GetDecodeErrors() uint64 {
	return atomic.LoadUint64(&s.numDecodeErrors)
}

// GetUnknownMessages returns messages with an unrecognized type
func (s *Statistics) GetUnknownMessages() uint64 {
	return atomic.LoadUint64(&s.numUnknownMessages)
}

// GetCommandsTx returns commands sent
func (s *Statistics) GetCommandsTx() uint64 {
	return atomic.LoadUint64(&s.numCommandsTx)
}

// GetCommandErrors returns commands that failed to send
func (s *Statistics) GetCommandErrors() uint64 {
	return atomic.LoadUint64(&s.numCommandErrors)
}

// Reset resets all statistics
func (s *Statistics) Reset() {
	atomic.StoreUint64(&s.numMessagesRx, 0)
	atomic.StoreUint64(&s.numDecodeErrors, 0)
	atomic.StoreUint64(&s.numUnknownMessages, 0)
	atomic.StoreUint64(&s.numCommandsTx, 0)
	atomic.StoreUint64(&s.numCommandErrors, 0)
}
