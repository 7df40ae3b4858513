package transport

import "errors"

var (
	ErrOrphanFragment = errors.New("fragment without a message in progress")
	ErrTotalMismatch  = errors.New("fragment total conflicts with message in progress")
	ErrBufferOverflow = errors.New("reassembly buffer overflow")
)

// MaxMessageSize is the default cap on a reassembled logical message
const MaxMessageSize = 65536

// Reassembler rebuilds logical messages from fragments. A first fragment
// (index zero) always starts a new message, abandoning any incomplete
// buffer. Completion is tested by presence: the message is done once every
// index 0..total-1 holds a payload, regardless of arrival order.
type Reassembler struct {
	parts    [][]byte
	present  []bool
	received int
	total    int
	size     int
	maxSize  int
}

// NewReassembler creates a new fragment reassembler
func NewReassembler() *Reassembler {
	return &Reassembler{
		maxSize: MaxMessageSize,
	}
}

// Process consumes one fragment. It returns the complete logical message
// when this fragment fills the last missing index, nil otherwise. The
// fragment's payload is retained until the message completes.
func (r *Reassembler) Process(frag *Fragment) ([]byte, error) {
	if frag.Index == 0 {
		// Start of a new message. Any incomplete buffer is discarded
		// without an emitted message for it.
		r.start(int(frag.Total))
	} else if r.total == 0 {
		// No message in progress. This can happen after a reset or when
		// the channel comes up mid-message; wait for the next first
		// fragment to resynchronize.
		return nil, ErrOrphanFragment
	} else if int(frag.Total) != r.total {
		// The first fragment of this message laid out the buffer; a
		// fragment claiming a different total belongs to some other
		// message and is dropped, never re-laid out.
		return nil, ErrTotalMismatch
	}

	if int(frag.Index) >= r.total {
		// Header disagrees with the buffer laid out by the first
		// fragment of this message.
		return nil, ErrIndexRange
	}

	if r.present[frag.Index] {
		// Duplicate delivery: last write wins, the index stays counted
		// exactly once.
		r.size -= len(r.parts[frag.Index])
	} else {
		r.present[frag.Index] = true
		r.received++
	}

	if r.size+len(frag.Payload) > r.maxSize {
		r.Reset()
		return nil, ErrBufferOverflow
	}

	r.parts[frag.Index] = frag.Payload
	r.size += len(frag.Payload)

	if r.received < r.total {
		// More fragments expected
		return nil, nil
	}

	// Every index is populated: concatenate in index order.
	message := make([]byte, 0, r.size)
	for _, part := range r.parts {
		message = append(message, part...)
	}
	r.Reset()
	return message, nil
}

// start lays out a fresh buffer for a message of total fragments
func (r *Reassembler) start(total int) {
	r.parts = make([][]byte, total)
	r.present = make([]bool, total)
	r.received = 0
	r.total = total
	r.size = 0
}

// Reset discards any in-progress message
func (r *Reassembler) Reset() {
	r.parts = nil
	r.present = nil
	r.received = 0
	r.total = 0
	r.size = 0
}

// InProgress returns true if a partially assembled message is buffered
func (r *Reassembler) InProgress() bool {
	return r.total > 0
}
