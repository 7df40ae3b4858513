package transport

import "time"

// Config holds configuration for the transport layer
type Config struct {
	// MaxPayload is the largest payload carried by one outbound fragment.
	// Default: DefaultMaxPayload (frame capacity minus the header).
	MaxPayload int

	// MaxMessageSize is the maximum buffer size for reassembly.
	// Default: 65536 bytes.
	MaxMessageSize int

	// StaleTimeout discards a partial message whose first fragment is
	// older than this. Zero disables the check. A first fragment remains
	// the authoritative reset regardless of this setting.
	StaleTimeout time.Duration

	// EnableStatistics enables statistics collection
	EnableStatistics bool
}

// DefaultConfig returns default transport configuration
func DefaultConfig() Config {
	return Config{
		MaxPayload:       DefaultMaxPayload,
		MaxMessageSize:   MaxMessageSize,
		StaleTimeout:     0,
		EnableStatistics: true,
	}
}
