// Package probe implements the client side of the Wi-Fi diagnostic
// protocol. A Probe sends commands to a remote device over a
// notification channel and dispatches the device's responses to an
// application handler.
//
// Commands are fire and forget: the device acknowledges nothing at the
// transport level and responses carry no correlation ids. The probe
// keeps at most one command outstanding and matches responses to
// blocking operations by message type.
package probe

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmandrioli/piwifi-web/internal/logging"
	"github.com/dmandrioli/piwifi-web/pkg/channel"
	"github.com/dmandrioli/piwifi-web/pkg/message"
	"github.com/dmandrioli/piwifi-web/pkg/transport"
)

var (
	ErrNotStarted = errors.New("probe not started")
	ErrTimeout    = errors.New("operation timeout")
)

// Probe is a diagnostic client bound to one device channel
type Probe struct {
	config  Config
	handler Handler
	logger  logging.Logger

	ch    *channel.Channel
	layer *transport.Layer
	stats *Statistics

	// State
	started bool
	session SessionState
	stateMu sync.RWMutex

	// Response handling. pendingWant is the message type a blocking
	// operation is waiting for, empty when none is.
	pendingResp chan message.Message
	pendingWant message.Type
	pendingMu   sync.Mutex

	// Command serialization, one outstanding request at a time
	cmdMu sync.Mutex

	// Concurrency
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new probe attached to the given channel. The probe
// registers itself as the channel's frame handler; Start opens the
// channel and Shutdown closes it.
func New(config Config, handler Handler, ch *channel.Channel, log logging.Logger) (*Probe, error) {
	if handler == nil {
		handler = BaseHandler{}
	}
	if log == nil {
		log = logging.NewNop()
	}
	if config.ResponseTimeout <= 0 {
		config.ResponseTimeout = DefaultConfig().ResponseTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &Probe{
		config:      config,
		handler:     handler,
		logger:      log.WithField("probe", config.ID),
		ch:          ch,
		layer:       transport.NewLayer(config.Transport),
		stats:       NewStatistics(),
		pendingResp: make(chan message.Message, 1),
		ctx:         ctx,
		cancel:      cancel,
	}

	ch.SetFrameHandler(p.onFrame)
	ch.SetConnectionStateListener(p)

	p.logger.Info("probe %s created", config.ID)
	return p, nil
}

// Start opens the channel and begins processing notifications
func (p *Probe) Start() error {
	p.stateMu.Lock()
	if p.started {
		p.stateMu.Unlock()
		return nil
	}
	p.started = true
	p.stateMu.Unlock()

	if err := p.ch.Open(); err != nil {
		p.stateMu.Lock()
		p.started = false
		p.stateMu.Unlock()
		return err
	}

	p.logger.Info("probe %s started", p.config.ID)
	return nil
}

// Shutdown stops the probe and closes the channel
func (p *Probe) Shutdown() error {
	p.stateMu.Lock()
	if !p.started {
		p.stateMu.Unlock()
		return nil
	}
	p.started = false
	p.stateMu.Unlock()

	p.cancel()
	err := p.ch.Close()

	p.logger.Info("probe %s shutdown complete", p.config.ID)
	return err
}

// isStarted returns true if the probe is started
func (p *Probe) isStarted() bool {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	return p.started
}

// SessionState returns the probe's view of the device session
func (p *Probe) SessionState() SessionState {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	return p.session
}

func (p *Probe) setSessionState(state SessionState) {
	p.stateMu.Lock()
	p.session = state
	p.stateMu.Unlock()
}

// onFrame feeds one notification frame into reassembly, dispatching the
// message when it completes. Fragment errors are logged and counted,
// never fatal.
func (p *Probe) onFrame(frame []byte) {
	data, err := p.layer.Receive(frame)
	if err != nil {
		p.logger.Warn("probe %s: fragment error: %v", p.config.ID, err)
		return
	}
	if data == nil {
		// Message still incomplete
		return
	}
	p.dispatch(data)
}

// dispatch decodes one complete message and routes it. A decode failure
// affects only that message, the probe keeps processing.
func (p *Probe) dispatch(data []byte) {
	msg, err := message.Decode(data)
	if err != nil {
		p.stats.IncrementDecodeErrors()
		p.logger.Error("probe %s: message decode failed: %v", p.config.ID, err)
		return
	}

	p.stats.IncrementMessagesRx()
	p.logger.Debug("probe %s: received %s", p.config.ID, msg.Type())

	switch m := msg.(type) {
	case *message.Pong:
		p.handler.OnPong(m)
	case *message.ScanResult:
		p.handler.OnScanResult(m)
	case *message.Signal:
		p.handler.OnSignal(m)
	case *message.ChannelSurvey:
		p.handler.OnChannelSurvey(m)
	case *message.MonitorStarted:
		p.setSessionState(StateMonitoring)
		p.handler.OnMonitorStarted(m)
	case *message.MonitorStopped:
		p.setSessionState(StateConnected)
		p.handler.OnMonitorStopped(m)
	case *message.Error:
		p.logger.Warn("probe %s: device error: %s", p.config.ID, m.Message)
		p.handler.OnDeviceError(m)
	case *message.Unknown:
		p.stats.IncrementUnknownMessages()
		p.logger.Debug("probe %s: ignoring unknown message type %q", p.config.ID, m.TypeName)
		return
	}

	// Offered after handler dispatch so a blocking operation resumes
	// only once the handler has observed its response. Only the awaited
	// type (or an error report) enters the slot, push messages such as
	// signal readings never displace a response.
	p.pendingMu.Lock()
	if p.pendingWant != "" && (msg.Type() == p.pendingWant || msg.Type() == message.TypeError) {
		select {
		case p.pendingResp <- msg:
		default:
		}
	}
	p.pendingMu.Unlock()
}

// Send encodes and sends a command without waiting for any response
func (p *Probe) Send(cmd *message.Command) error {
	if !p.isStarted() {
		return ErrNotStarted
	}

	data, err := cmd.Encode()
	if err != nil {
		return err
	}

	if err := p.ch.Write(data); err != nil {
		p.stats.IncrementCommandErrors()
		return err
	}

	p.stats.IncrementCommandsTx()
	p.logger.Debug("probe %s: sent %s", p.config.ID, cmd.Cmd)
	return nil
}

// OnConnectionEstablished implements channel.ConnectionStateListener.
// A new connection starts a fresh fragment stream, so any partial
// reassembly from the old connection is dropped.
func (p *Probe) OnConnectionEstablished() {
	p.layer.Reset()
	p.setSessionState(StateConnected)
	p.logger.Info("probe %s: device connected", p.config.ID)
}

// OnConnectionLost implements channel.ConnectionStateListener
func (p *Probe) OnConnectionLost() {
	p.setSessionState(StateDisconnected)
	p.logger.Warn("probe %s: device connection lost", p.config.ID)
}

// TransportStats returns reassembly statistics
func (p *Probe) TransportStats() *transport.Statistics {
	return p.layer.Stats()
}

// GetStatistics returns message-level statistics
func (p *Probe) GetStatistics() *Statistics {
	return p.stats
}

// String returns string representation
func (p *Probe) String() string {
	return fmt.Sprintf("Probe{ID=%s}", p.config.ID)
}
