package channel

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Stream transports carry each notification frame behind a 2-byte
// big-endian length prefix; datagram transports map one datagram to one
// frame and need no prefix.
const maxFrameSize = 65535

// writeFrame writes one length-prefixed frame to a stream
func writeFrame(w io.Writer, data []byte) error {
	if len(data) > maxFrameSize {
		return fmt.Errorf("frame of %d bytes exceeds limit", len(data))
	}

	var prefix [2]byte
	binary.BigEndian.PutUint16(prefix[:], uint16(len(data)))

	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	_, err := w.Write(data)
	return err
}

// readFrame reads one length-prefixed frame from a stream
func readFrame(r io.Reader) ([]byte, error) {
	var prefix [2]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint16(prefix[:])
	frame := make([]byte, length)
	if length == 0 {
		return frame, nil
	}
	if _, err := io.ReadFull(r, frame); err != nil {
		return nil, err
	}
	return frame, nil
}
