package transport

import (
	"sync"
	"time"
)

// Layer ties reassembly, fragmentation and statistics together for one
// device session.
type Layer struct {
	reassembler *Reassembler
	config      Config
	stats       *Statistics

	// arrival time of the first fragment of the in-progress message
	started time.Time

	mu sync.Mutex
}

// NewLayer creates a new transport layer
func NewLayer(config Config) *Layer {
	r := NewReassembler()
	if config.MaxMessageSize > 0 {
		r.maxSize = config.MaxMessageSize
	}
	return &Layer{
		reassembler: r,
		config:      config,
		stats:       NewStatistics(),
	}
}

// Receive processes one raw notification frame and returns the complete
// logical message if the frame finishes one, nil otherwise. Anomalies
// (malformed headers, orphan fragments, overflow) are returned as errors
// and counted; none of them disturb the next message.
func (l *Layer) Receive(frame []byte) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	frag, err := ParseFragment(frame)
	if err != nil {
		if l.config.EnableStatistics {
			l.stats.IncrementHeaderErrors()
		}
		return nil, err
	}

	if l.config.EnableStatistics {
		l.stats.IncrementRxFragments()
	}

	// Drop a stalled partial message before looking at the new fragment.
	// The check only ever discards a buffer that a first fragment would
	// discard anyway, so index zero stays the authoritative reset.
	if l.config.StaleTimeout > 0 && l.reassembler.InProgress() &&
		time.Since(l.started) > l.config.StaleTimeout {
		l.reassembler.Reset()
		if l.config.EnableStatistics {
			l.stats.IncrementStaleMessages()
		}
	}

	if frag.Index == 0 {
		if l.reassembler.InProgress() && l.config.EnableStatistics {
			l.stats.IncrementAbandonedMessages()
		}
		l.started = time.Now()
	}

	message, err := l.reassembler.Process(frag)
	if err != nil {
		if l.config.EnableStatistics {
			switch err {
			case ErrOrphanFragment:
				l.stats.IncrementOrphanFragments()
			case ErrIndexRange, ErrTotalMismatch:
				l.stats.IncrementHeaderErrors()
			case ErrBufferOverflow:
				l.stats.IncrementBufferOverflows()
			}
		}
		return nil, err
	}

	if message != nil && l.config.EnableStatistics {
		l.stats.IncrementRxMessages()
	}

	return message, nil
}

// Send splits a logical message into serialized fragments ready for the
// notification channel.
func (l *Layer) Send(message []byte) ([][]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fragments, err := Split(message, l.config.MaxPayload)
	if err != nil {
		return nil, err
	}

	frames := make([][]byte, len(fragments))
	for i, frag := range fragments {
		frames[i] = frag.Serialize()
	}

	if l.config.EnableStatistics && len(frames) > 0 {
		for range frames {
			l.stats.IncrementTxFragments()
		}
		l.stats.IncrementTxMessages()
	}

	return frames, nil
}

// Stats returns the layer statistics
func (l *Layer) Stats() *Statistics {
	return l.stats
}

// Reassembling returns true if a partial message is buffered
func (l *Layer) Reassembling() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reassembler.InProgress()
}

// Reset discards reassembly state and statistics
func (l *Layer) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reassembler.Reset()
	l.stats.Reset()
}
