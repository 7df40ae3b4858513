package probe

import (
	"fmt"
	"time"

	"github.com/dmandrioli/piwifi-web/pkg/message"
)

// Blocking operations. Each sends one command and waits for the
// response type that command produces. Messages of other types arriving
// in the meantime go to the handler as usual and do not disturb the
// wait.

// Ping checks device liveness
func (p *Probe) Ping() error {
	_, err := p.sendAndWait(message.NewPingCommand(), message.TypePong)
	return err
}

// Scan requests a network scan and returns the visible networks
func (p *Probe) Scan() (*message.ScanResult, error) {
	resp, err := p.sendAndWait(message.NewScanCommand(), message.TypeScanResult)
	if err != nil {
		return nil, err
	}
	return resp.(*message.ScanResult), nil
}

// Channels requests per-band channel utilization
func (p *Probe) Channels() (*message.ChannelSurvey, error) {
	resp, err := p.sendAndWait(message.NewChannelsCommand(), message.TypeChannels)
	if err != nil {
		return nil, err
	}
	return resp.(*message.ChannelSurvey), nil
}

// StartMonitor asks the device to begin monitoring the named network.
// Signal messages then arrive via Handler.OnSignal until StopMonitor.
func (p *Probe) StartMonitor(ssid string) (*message.MonitorStarted, error) {
	cmd := message.NewMonitorCommand(ssid)
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	resp, err := p.sendAndWait(cmd, message.TypeMonitorStarted)
	if err != nil {
		return nil, err
	}
	return resp.(*message.MonitorStarted), nil
}

// StopMonitor stops an active monitoring session
func (p *Probe) StopMonitor() error {
	_, err := p.sendAndWait(message.NewStopCommand(), message.TypeMonitorStopped)
	return err
}

// sendAndWait sends a command and waits for a response of the wanted
// type. An error message from the device aborts the wait.
func (p *Probe) sendAndWait(cmd *message.Command, want message.Type) (message.Message, error) {
	p.cmdMu.Lock()
	defer p.cmdMu.Unlock()

	// Arm the response slot, discarding anything stale from a previous
	// timed out request
	p.pendingMu.Lock()
	p.pendingWant = want
	select {
	case <-p.pendingResp:
	default:
	}
	p.pendingMu.Unlock()

	defer func() {
		p.pendingMu.Lock()
		p.pendingWant = ""
		p.pendingMu.Unlock()
	}()

	if err := p.Send(cmd); err != nil {
		return nil, err
	}

	timer := time.NewTimer(p.config.ResponseTimeout)
	defer timer.Stop()

	select {
	case resp := <-p.pendingResp:
		if e, ok := resp.(*message.Error); ok {
			return nil, fmt.Errorf("device error: %s", e.Message)
		}
		return resp, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-p.ctx.Done():
		return nil, p.ctx.Err()
	}
}
