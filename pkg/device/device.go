// Package device implements a simulated diagnostic device: the remote
// end of the protocol. It decodes commands arriving on a notification
// channel and answers with fragmented notification frames, including a
// periodic signal stream while monitoring.
//
// The simulator backs the simulate CLI command and the end-to-end
// tests. It answers scans from a configurable network table instead of
// real radio hardware.
package device

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/dmandrioli/piwifi-web/internal/logging"
	"github.com/dmandrioli/piwifi-web/pkg/channel"
	"github.com/dmandrioli/piwifi-web/pkg/message"
	"github.com/dmandrioli/piwifi-web/pkg/transport"
)

// Device is a simulated diagnostic device bound to one channel
type Device struct {
	config Config
	logger logging.Logger

	ch    *channel.Channel
	layer *transport.Layer

	// Monitoring
	monitorSSID   string
	monitorCancel context.CancelFunc
	monitorMu     sync.Mutex

	// Serializes whole outbound messages. The command handler and the
	// signal loop both send, and the fragments of one message must
	// reach the channel as an unbroken run: a foreign first fragment in
	// the middle would abandon the message on the receiving side.
	sendMu sync.Mutex

	// State
	started bool
	stateMu sync.RWMutex

	// Concurrency
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new simulated device attached to the given channel
func New(config Config, ch *channel.Channel, log logging.Logger) (*Device, error) {
	if log == nil {
		log = logging.NewNop()
	}
	if config.SignalPeriod <= 0 {
		config.SignalPeriod = DefaultConfig().SignalPeriod
	}
	if config.MaxPayload <= 0 {
		config.MaxPayload = transport.DefaultMaxPayload
	}

	ctx, cancel := context.WithCancel(context.Background())

	tc := transport.DefaultConfig()
	tc.MaxPayload = config.MaxPayload

	d := &Device{
		config: config,
		logger: log.WithField("device", config.ID),
		ch:     ch,
		layer:  transport.NewLayer(tc),
		ctx:    ctx,
		cancel: cancel,
	}

	ch.SetFrameHandler(d.onFrame)

	d.logger.Info("device %s created", config.ID)
	return d, nil
}

// Start opens the channel and begins answering commands
func (d *Device) Start() error {
	d.stateMu.Lock()
	if d.started {
		d.stateMu.Unlock()
		return nil
	}
	d.started = true
	d.stateMu.Unlock()

	if err := d.ch.Open(); err != nil {
		d.stateMu.Lock()
		d.started = false
		d.stateMu.Unlock()
		return err
	}

	d.logger.Info("device %s started", d.config.ID)
	return nil
}

// Shutdown stops the device and closes the channel
func (d *Device) Shutdown() error {
	d.stateMu.Lock()
	if !d.started {
		d.stateMu.Unlock()
		return nil
	}
	d.started = false
	d.stateMu.Unlock()

	d.stopSignalLoop()
	d.cancel()
	err := d.ch.Close()
	d.wg.Wait()

	d.logger.Info("device %s shutdown complete", d.config.ID)
	return err
}

// MonitorSSID returns the SSID currently being monitored, empty when
// idle
func (d *Device) MonitorSSID() string {
	d.monitorMu.Lock()
	defer d.monitorMu.Unlock()
	return d.monitorSSID
}

// onFrame handles one inbound frame. Commands arrive as a single frame
// of raw JSON, only device notifications are fragmented.
func (d *Device) onFrame(frame []byte) {
	cmd, err := message.DecodeCommand(frame)
	if err != nil {
		d.logger.Warn("device %s: bad command: %v", d.config.ID, err)
		d.sendError("invalid command")
		return
	}

	d.logger.Debug("device %s: received %s", d.config.ID, cmd.Cmd)

	switch cmd.Cmd {
	case message.CmdPing:
		d.send(&message.Pong{})

	case message.CmdScan:
		d.send(&message.ScanResult{Networks: d.scanNetworks()})

	case message.CmdChannels:
		d.send(d.survey())

	case message.CmdMonitor:
		d.startMonitor(cmd.SSID)

	case message.CmdStop:
		d.stopMonitor()

	default:
		d.sendError(fmt.Sprintf("unknown command %q", cmd.Cmd))
	}
}

// scanNetworks returns the network table, never nil so an empty table
// still encodes as an empty list
func (d *Device) scanNetworks() []message.Network {
	if d.config.Networks == nil {
		return []message.Network{}
	}
	return d.config.Networks
}

// survey counts table networks per channel. Band 2.4G covers channels
// 1-13, band 5G covers channels 36-64 in steps of 4.
func (d *Device) survey() *message.ChannelSurvey {
	s := &message.ChannelSurvey{
		Band2G: make([]int, 13),
		Band5G: make([]int, 8),
	}

	for _, n := range d.config.Networks {
		switch {
		case n.Channel >= 1 && n.Channel <= 13:
			s.Band2G[n.Channel-1]++
		case n.Channel >= 36 && n.Channel <= 64 && (n.Channel-36)%4 == 0:
			s.Band5G[(n.Channel-36)/4]++
		}
	}
	return s
}

// startMonitor begins a signal stream for the named network. A monitor
// command while already monitoring restarts the stream for the new
// SSID.
func (d *Device) startMonitor(ssid string) {
	if ssid == "" {
		d.sendError("monitor requires an ssid")
		return
	}

	d.stopSignalLoop()

	loopCtx, loopCancel := context.WithCancel(d.ctx)

	d.monitorMu.Lock()
	d.monitorSSID = ssid
	d.monitorCancel = loopCancel
	d.monitorMu.Unlock()

	d.send(&message.MonitorStarted{SSID: ssid})
	d.logger.Info("device %s: monitoring %q", d.config.ID, ssid)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.signalLoop(loopCtx, d.baseRSSI(ssid))
	}()
}

// stopMonitor ends the signal stream and confirms, even when no
// monitor is active
func (d *Device) stopMonitor() {
	d.stopSignalLoop()
	d.send(&message.MonitorStopped{})
	d.logger.Info("device %s: monitoring stopped", d.config.ID)
}

// stopSignalLoop cancels any running signal loop
func (d *Device) stopSignalLoop() {
	d.monitorMu.Lock()
	if d.monitorCancel != nil {
		d.monitorCancel()
		d.monitorCancel = nil
	}
	d.monitorSSID = ""
	d.monitorMu.Unlock()
}

// signalLoop emits one signal reading per period until cancelled
func (d *Device) signalLoop(ctx context.Context, base int) {
	ticker := time.NewTicker(d.config.SignalPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.send(&message.Signal{
				RSSI:      base + rand.Intn(7) - 3,
				Timestamp: time.Now().UnixMilli(),
			})
		}
	}
}

// baseRSSI looks up the table RSSI for an SSID, falling back to a
// nominal mid-range reading
func (d *Device) baseRSSI(ssid string) int {
	for _, n := range d.config.Networks {
		if n.SSID == ssid {
			return n.RSSI
		}
	}
	return -60
}

// send encodes a message, fragments it and writes the frames. Held
// under sendMu from fragmentation through the last write so concurrent
// messages never interleave their fragments.
func (d *Device) send(msg message.Message) {
	data, err := message.Encode(msg)
	if err != nil {
		d.logger.Error("device %s: encode failed: %v", d.config.ID, err)
		return
	}

	d.sendMu.Lock()
	defer d.sendMu.Unlock()

	frames, err := d.layer.Send(data)
	if err != nil {
		d.logger.Error("device %s: fragmenting failed: %v", d.config.ID, err)
		return
	}

	for _, frame := range frames {
		if err := d.ch.Write(frame); err != nil {
			d.logger.Error("device %s: write failed: %v", d.config.ID, err)
			return
		}
	}

	d.logger.Debug("device %s: sent %s in %d frame(s)", d.config.ID, msg.Type(), len(frames))
}

// sendError reports a device-side failure to the client
func (d *Device) sendError(text string) {
	d.send(&message.Error{Message: text})
}

// String returns string representation
func (d *Device) String() string {
	return fmt.Sprintf("Device{ID=%s}", d.config.ID)
}
