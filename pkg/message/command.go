package message

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMonitorSSID = errors.New("monitor command requires an ssid")
)

// CommandType identifies the type of an outbound command
type CommandType string

// Outbound command types
const (
	CmdPing     CommandType = "ping"     // liveness check
	CmdScan     CommandType = "scan"     // scan for visible networks
	CmdChannels CommandType = "channels" // survey channel congestion
	CmdMonitor  CommandType = "monitor"  // start monitoring an SSID
	CmdStop     CommandType = "stop"     // stop monitoring
)

// Command is an outbound request to the device. The wire shape is a JSON
// object with a cmd discriminant plus command-specific fields.
type Command struct {
	Cmd  CommandType `json:"cmd"`
	SSID string      `json:"ssid,omitempty"`
}

// NewPingCommand creates a ping command
func NewPingCommand() *Command {
	return &Command{Cmd: CmdPing}
}

// NewScanCommand creates a scan command
func NewScanCommand() *Command {
	return &Command{Cmd: CmdScan}
}

// NewChannelsCommand creates a channel survey command
func NewChannelsCommand() *Command {
	return &Command{Cmd: CmdChannels}
}

// NewMonitorCommand creates a command to monitor the given SSID
func NewMonitorCommand(ssid string) *Command {
	return &Command{Cmd: CmdMonitor, SSID: ssid}
}

// NewStopCommand creates a command to stop monitoring
func NewStopCommand() *Command {
	return &Command{Cmd: CmdStop}
}

// Validate checks that the command is well formed
func (c *Command) Validate() error {
	switch c.Cmd {
	case CmdPing, CmdScan, CmdChannels, CmdStop:
		return nil
	case CmdMonitor:
		if c.SSID == "" {
			return ErrMonitorSSID
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", c.Cmd)
	}
}

// Encode validates the command and serializes it for the outbound
// transport write.
func (c *Command) Encode() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(c)
}

// DecodeCommand parses an inbound command payload. Used by device-side
// implementations such as the simulator.
func DecodeCommand(data []byte) (*Command, error) {
	var head struct {
		Cmd *string `json:"cmd"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	if head.Cmd == nil {
		return nil, errors.New("command has no cmd field")
	}

	var c Command
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	return &c, nil
}
