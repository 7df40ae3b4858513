package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmandrioli/piwifi-web/internal/logging"
)

var (
	ErrChannelClosed = errors.New("channel is closed")
	ErrChannelOpen   = errors.New("channel is already open")
	ErrNoHandler     = errors.New("no frame handler registered")
)

// FrameHandler consumes inbound notification frames in arrival order
type FrameHandler func(frame []byte)

// Channel drives a NotificationChannel: it owns the read loop delivering
// frames to the registered handler and a write loop serializing outbound
// payloads.
type Channel struct {
	id     string
	notif  NotificationChannel
	stats  *Statistics
	logger logging.Logger

	// Frame delivery
	handler   FrameHandler
	handlerMu sync.RWMutex

	// State
	state   ChannelState
	stateMu sync.RWMutex

	// Concurrency
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Write queue for serializing writes
	writeQueue chan *writeRequest
}

// writeRequest represents a write request
type writeRequest struct {
	data []byte
	resp chan error
}

// New creates a new channel
func New(id string, notif NotificationChannel, log logging.Logger) *Channel {
	if log == nil {
		log = logging.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Channel{
		id:         id,
		notif:      notif,
		stats:      NewStatistics(),
		logger:     log.WithField("channel", id),
		state:      ChannelStateClosed,
		ctx:        ctx,
		cancel:     cancel,
		writeQueue: make(chan *writeRequest, 100),
	}
}

// ID returns the channel ID
func (c *Channel) ID() string {
	return c.id
}

// SetFrameHandler registers the consumer of inbound frames. Must be set
// before Open; frames arriving without a handler are dropped.
func (c *Channel) SetFrameHandler(handler FrameHandler) {
	c.handlerMu.Lock()
	c.handler = handler
	c.handlerMu.Unlock()
}

// SetConnectionStateListener forwards a state listener to the underlying
// notification channel
func (c *Channel) SetConnectionStateListener(listener ConnectionStateListener) {
	c.notif.SetConnectionStateListener(listener)
}

// Open opens the channel and starts processing
func (c *Channel) Open() error {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	if c.state == ChannelStateOpen {
		return ErrChannelOpen
	}

	c.state = ChannelStateOpen
	c.logger.Info("channel opening")

	// Start read loop
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.readLoop()
	}()

	// Start write loop
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.writeLoop()
	}()

	c.logger.Info("channel opened")
	return nil
}

// Close closes the channel
func (c *Channel) Close() error {
	c.stateMu.Lock()
	if c.state == ChannelStateClosed {
		c.stateMu.Unlock()
		return nil
	}
	c.state = ChannelStateClosed
	c.stateMu.Unlock()

	c.logger.Info("channel closing")

	// Cancel context to stop goroutines
	c.cancel()

	// Close notification channel
	if err := c.notif.Close(); err != nil {
		c.logger.Error("error closing notification channel: %v", err)
	}

	// Wait for goroutines to finish
	c.wg.Wait()

	c.logger.Info("channel closed")
	return nil
}

// readLoop continuously reads frames from the notification channel
func (c *Channel) readLoop() {
	c.logger.Debug("read loop started")
	defer c.logger.Debug("read loop stopped")

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		frame, err := c.notif.Read(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				// Context cancelled, normal shutdown
				return
			}
			c.logger.Error("read error: %v", err)
			c.stats.BadFrame()
			continue
		}

		c.stats.FrameRx()

		c.handlerMu.RLock()
		handler := c.handler
		c.handlerMu.RUnlock()

		if handler == nil {
			c.logger.Warn("frame dropped: %v", ErrNoHandler)
			c.stats.DroppedFrame()
			continue
		}
		handler(frame)
	}
}

// writeLoop processes write requests
func (c *Channel) writeLoop() {
	c.logger.Debug("write loop started")
	defer c.logger.Debug("write loop stopped")

	for {
		select {
		case <-c.ctx.Done():
			// Drain remaining requests with error
			for {
				select {
				case req := <-c.writeQueue:
					req.resp <- ErrChannelClosed
				default:
					return
				}
			}

		case req := <-c.writeQueue:
			err := c.notif.Write(c.ctx, req.data)
			if err != nil {
				c.logger.Error("write error: %v", err)
			} else {
				c.stats.FrameTx()
			}
			req.resp <- err
		}
	}
}

// Write writes one outbound payload through the channel
func (c *Channel) Write(data []byte) error {
	c.stateMu.RLock()
	if c.state != ChannelStateOpen {
		c.stateMu.RUnlock()
		return ErrChannelClosed
	}
	c.stateMu.RUnlock()

	req := &writeRequest{
		data: data,
		resp: make(chan error, 1),
	}

	select {
	case c.writeQueue <- req:
	case <-c.ctx.Done():
		return ErrChannelClosed
	}

	// The write loop answers every queued request, but a request that
	// slips in after the shutdown drain would wait forever without the
	// second case.
	select {
	case err := <-req.resp:
		return err
	case <-c.ctx.Done():
		return ErrChannelClosed
	}
}

// GetStatistics returns channel statistics
func (c *Channel) GetStatistics() *Statistics {
	return c.stats
}

// GetTransportStatistics returns notification channel statistics
func (c *Channel) GetTransportStatistics() TransportStats {
	return c.notif.Statistics()
}

// State returns the current channel state
func (c *Channel) State() ChannelState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// String returns string representation of channel
func (c *Channel) String() string {
	return fmt.Sprintf("Channel{ID=%s, State=%s}", c.id, c.State())
}
