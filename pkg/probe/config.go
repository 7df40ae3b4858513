package probe

import (
	"time"

	"github.com/dmandrioli/piwifi-web/pkg/message"
	"github.com/dmandrioli/piwifi-web/pkg/transport"
)

// Config configures a probe session
type Config struct {
	// Identity
	ID string

	// Timeouts
	ResponseTimeout time.Duration

	// Fragment reassembly
	Transport transport.Config
}

// DefaultConfig returns a probe configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		ID:              "probe",
		ResponseTimeout: 5 * time.Second,
		Transport:       transport.DefaultConfig(),
	}
}

// SessionState tracks the probe's view of the device session. It is
// informational only, operations are never gated on it.
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnected
	StateMonitoring
)

// String returns string representation of SessionState
func (s SessionState) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnected:
		return "Connected"
	case StateMonitoring:
		return "Monitoring"
	default:
		return "Unknown"
	}
}

// Handler receives decoded device messages. Every decoded message is
// delivered here, including responses consumed by a blocking operation.
// Handlers run on the channel's read goroutine, so they must not call
// blocking probe operations.
type Handler interface {
	OnPong(msg *message.Pong)
	OnScanResult(msg *message.ScanResult)
	OnSignal(msg *message.Signal)
	OnChannelSurvey(msg *message.ChannelSurvey)
	OnMonitorStarted(msg *message.MonitorStarted)
	OnMonitorStopped(msg *message.MonitorStopped)
	OnDeviceError(msg *message.Error)
}

// BaseHandler is a no-op Handler for embedding. Override only the
// methods you care about.
type BaseHandler struct{}

func (BaseHandler) OnPong(*message.Pong)                     {}
func (BaseHandler) OnScanResult(*message.ScanResult)         {}
func (BaseHandler) OnSignal(*message.Signal)                 {}
func (BaseHandler) OnChannelSurvey(*message.ChannelSurvey)   {}
func (BaseHandler) OnMonitorStarted(*message.MonitorStarted) {}
func (BaseHandler) OnMonitorStopped(*message.MonitorStopped) {}
func (BaseHandler) OnDeviceError(*message.Error)             {}
