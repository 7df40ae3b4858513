package channel

import "sync/atomic"

// Statistics tracks channel-level statistics
type Statistics struct {
	numFramesTx      uint64
	numFramesRx      uint64
	numBadFrames     uint64
	numDroppedFrames uint64
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	return &Statistics{}
}

// FrameTx increments transmitted frames
func (s *Statistics) FrameTx() {
	atomic.AddUint64(&s.numFramesTx, 1)
}

// FrameRx increments received frames
func (s *Statistics) FrameRx() {
	atomic.AddUint64(&s.numFramesRx, 1)
}

// BadFrame increments frames that failed to read
func (s *Statistics) BadFrame() {
	atomic.AddUint64(&s.numBadFrames, 1)
}

// DroppedFrame increments frames dropped for lack of a handler
func (s *Statistics) DroppedFrame() {
	atomic.AddUint64(&s.numDroppedFrames, 1)
}

// GetFramesTx returns transmitted frames
func (s *Statistics) GetFramesTx() uint64 {
	return atomic.LoadUint64(&s.numFramesTx)
}

// GetFramesRx returns received frames
func (s *Statistics) GetFramesRx() uint64 {
	return atomic.LoadUint64(&s.numFramesRx)
}

// GetBadFrames returns frames that failed to read
func (s *Statistics) GetBadFrames() uint64 {
	return atomic.LoadUint64(&s.numBadFrames)
}

// GetDroppedFrames returns frames dropped for lack of a handler
func (s *Statistics) GetDroppedFrames() uint64 {
	return atomic.LoadUint64(&s.numDroppedFrames)
}

// Reset resets all statistics
func (s *Statistics) Reset() {
	atomic.StoreUint64(&s.numFramesTx, 0)
	atomic.StoreUint64(&s.numFramesRx, 0)
	atomic.StoreUint64(&s.numBadFrames, 0)
	atomic.StoreUint64(&s.numDroppedFrames, 0)
}
