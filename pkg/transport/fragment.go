package transport

import "errors"

var (
	ErrShortFrame      = errors.New("fragment shorter than header")
	ErrZeroTotal       = errors.New("fragment total of zero")
	ErrIndexRange      = errors.New("fragment index out of range")
	ErrMessageTooLarge = errors.New("message exceeds fragment capacity")
)

// Fragment framing constants
const (
	HeaderSize   = 2   // index byte + total byte
	MaxFragments = 255 // total is carried in a single byte
	DefaultMTU   = 185 // typical frame capacity of low-throughput notification links
)

// DefaultMaxPayload is the default payload capacity of one fragment
const DefaultMaxPayload = DefaultMTU - HeaderSize

// Fragment is one transport-level delivery unit: a slice of a logical
// message plus its position header.
type Fragment struct {
	Index   uint8  // 0-based position within the logical message
	Total   uint8  // fragment count for the message (1-255)
	Payload []byte // payload slice for this index
}

// NewFragment creates a new fragment
func NewFragment(index, total uint8, payload []byte) *Fragment {
	return &Fragment{
		Index:   index,
		Total:   total,
		Payload: payload,
	}
}

// ParseFragment parses a raw notification frame into a fragment.
// The payload is copied out of frame, so the caller may reuse frame.
func ParseFragment(frame []byte) (*Fragment, error) {
	if len(frame) < HeaderSize {
		return nil, ErrShortFrame
	}

	index := frame[0]
	total := frame[1]
	if total == 0 {
		return nil, ErrZeroTotal
	}
	if index >= total {
		return nil, ErrIndexRange
	}

	payload := make([]byte, len(frame)-HeaderSize)
	copy(payload, frame[HeaderSize:])

	return &Fragment{Index: index, Total: total, Payload: payload}, nil
}

// Serialize converts the fragment to wire format
func (f *Fragment) Serialize() []byte {
	result := make([]byte, HeaderSize+len(f.Payload))
	result[0] = f.Index
	result[1] = f.Total
	copy(result[HeaderSize:], f.Payload)
	return result
}

// Split breaks a logical message into fragments carrying at most
// maxPayload bytes each. A non-positive maxPayload falls back to
// DefaultMaxPayload.
func Split(message []byte, maxPayload int) ([]*Fragment, error) {
	if len(message) == 0 {
		return nil, nil
	}
	if maxPayload <= 0 {
		maxPayload = DefaultMaxPayload
	}

	count := (len(message) + maxPayload - 1) / maxPayload
	if count > MaxFragments {
		return nil, ErrMessageTooLarge
	}

	fragments := make([]*Fragment, 0, count)
	index := 0

	for offset := 0; offset < len(message); {
		remaining := len(message) - offset
		size := maxPayload
		if remaining < size {
			size = remaining
		}

		fragments = append(fragments, NewFragment(uint8(index), uint8(count), message[offset:offset+size]))

		offset += size
		index++
	}

	return fragments, nil
}
