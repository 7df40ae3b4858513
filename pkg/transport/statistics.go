package transport

import (
	"sync/atomic"
	"time"
)

// Statistics tracks transport layer metrics
type Statistics struct {
	// Fragment counts
	TxFragments uint64
	RxFragments uint64

	// Message counts
	TxMessages uint64
	RxMessages uint64

	// Anomaly counts
	HeaderErrors      uint64
	OrphanFragments   uint64
	AbandonedMessages uint64
	StaleMessages     uint64
	BufferOverflows   uint64

	// Timing (stored as Unix nano for atomic operations)
	lastTxTimeNano int64
	lastRxTimeNano int64
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	return &Statistics{}
}

// IncrementTxFragments increments transmitted fragment count
func (s *Statistics) IncrementTxFragments() {
	atomic.AddUint64(&s.TxFragments, 1)
}

// IncrementRxFragments increments received fragment count
func (s *Statistics) IncrementRxFragments() {
	atomic.AddUint64(&s.RxFragments, 1)
}

// IncrementTxMessages increments transmitted message count
func (s *Statistics) IncrementTxMessages() {
	atomic.AddUint64(&s.TxMessages, 1)
	atomic.StoreInt64(&s.lastTxTimeNano, time.Now().UnixNano())
}

// IncrementRxMessages increments received message count
func (s *Statistics) IncrementRxMessages() {
	atomic.AddUint64(&s.RxMessages, 1)
	atomic.StoreInt64(&s.lastRxTimeNano, time.Now().UnixNano())
}

// IncrementHeaderErrors increments malformed header count
func (s *Statistics) IncrementHeaderErrors() {
	atomic.AddUint64(&s.HeaderErrors, 1)
}

// IncrementOrphanFragments increments orphan fragment count
func (s *Statistics) IncrementOrphanFragments() {
	atomic.AddUint64(&s.OrphanFragments, 1)
}

// IncrementAbandonedMessages increments abandoned message count
func (s *Statistics) IncrementAbandonedMessages() {
	atomic.AddUint64(&s.AbandonedMessages, 1)
}

// IncrementStaleMessages increments stale message count
func (s *Statistics) IncrementStaleMessages() {
	atomic.AddUint64(&s.StaleMessages, 1)
}

// IncrementBufferOverflows increments buffer overflow count
func (s *Statistics) IncrementBufferOverflows() {
	atomic.AddUint64(&s.BufferOverflows, 1)
}

// GetTxFragments returns transmitted fragment count
func (s *Statistics) GetTxFragments() uint64 {
	return atomic.LoadUint64(&s.TxFragments)
}

// GetRxFragments returns received fragment count
func (s *Statistics) GetRxFragments() uint64 {
	return atomic.LoadUint64(&s.RxFragments)
}

// GetTxMessages returns transmitted message count
func (s *Statistics) GetTxMessages() uint64 {
	return atomic.LoadUint64(&s.TxMessages)
}

// GetRxMessages returns received message count
func (s *Statistics) GetRxMessages() uint64 {
	return atomic.LoadUint64(&s.RxMessages)
}

// GetHeaderErrors returns malformed header count
func (s *Statistics) GetHeaderErrors() uint64 {
	return atomic.LoadUint64(&s.HeaderErrors)
}

// GetOrphanFragments returns orphan fragment count
func (s *Statistics) GetOrphanFragments() uint64 {
	return atomic.LoadUint64(&s.OrphanFragments)
}

// GetAbandonedMessages returns abandoned message count
func (s *Statistics) GetAbandonedMessages() uint64 {
	return atomic.LoadUint64(&s.AbandonedMessages)
}

// GetStaleMessages returns stale message count
func (s *Statistics) GetStaleMessages() uint64 {
	return atomic.LoadUint64(&s.StaleMessages)
}

// GetBufferOverflows returns buffer overflow count
func (s *Statistics) GetBufferOverflows() uint64 {
	return atomic.LoadUint64(&s.BufferOverflows)
}

// GetLastTxTime returns the last transmission time
func (s *Statistics) GetLastTxTime() time.Time {
	nano := atomic.LoadInt64(&s.lastTxTimeNano)
	if nano == 0 {
		return time.Time{}
	}
	return time.Unix(0, nano)
}

// GetLastRxTime returns the last reception time
func (s *Statistics) GetLastRxTime() time.Time {
	nano := atomic.LoadInt64(&s.lastRxTimeNano)
	if nano == 0 {
		return time.Time{}
	}
	return time.Unix(0, nano)
}

// Reset resets all statistics to zero
func (s *Statistics) Reset() {
	atomic.StoreUint64(&s.TxFragments, 0)
	atomic.StoreUint64(&s.RxFragments, 0)
	atomic.StoreUint64(&s.TxMessages, 0)
	atomic.StoreUint64(&s.RxMessages, 0)
	atomic.StoreUint64(&s.HeaderErrors, 0)
	atomic.StoreUint64(&s.OrphanFragments, 0)
	atomic.StoreUint64(&s.AbandonedMessages, 0)
	atomic.StoreUint64(&s.StaleMessages, 0)
	atomic.StoreUint64(&s.BufferOverflows, 0)
	atomic.StoreInt64(&s.lastTxTimeNano, 0)
	atomic.StoreInt64(&s.lastRxTimeNano, 0)
}
