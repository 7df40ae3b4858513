// Package message defines the logical messages exchanged with the
// diagnostic device: the inbound tagged union keyed by the type field and
// the outbound command vocabulary.
package message

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrMissingType = errors.New("message has no type field")
)

// Type is the discriminant of an inbound message
type Type string

// Inbound message types
const (
	TypePong           Type = "pong"            // reply to a ping command
	TypeScanResult     Type = "scan_result"     // reply to a scan command
	TypeSignal         Type = "signal"          // periodic reading while monitoring
	TypeChannels       Type = "channels"        // reply to a channels command
	TypeMonitorStarted Type = "monitor_started" // monitor command accepted
	TypeMonitorStopped Type = "monitor_stopped" // stop command accepted
	TypeError          Type = "error"           // device-side failure report
)

// Message is implemented by every inbound message variant
type Message interface {
	Type() Type
}

// Pong is the reply to a ping command
type Pong struct{}

// ScanResult carries the networks visible to the device, in the order the
// device reported them.
type ScanResult struct {
	Networks []Network `json:"networks"`
}

// Network is one access point found by a scan
type Network struct {
	SSID     string `json:"ssid"`
	Channel  int    `json:"channel"`
	Security string `json:"security"`
	RSSI     int    `json:"rssi"` // dBm
}

// Hidden reports whether the network hides its SSID
func (n Network) Hidden() bool {
	return n.SSID == ""
}

// Signal is one reading for the monitored network
type Signal struct {
	RSSI      int   `json:"rssi"`      // dBm
	Timestamp int64 `json:"timestamp"` // milliseconds since the Unix epoch
}

// Time returns the reading time
func (s *Signal) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// ChannelSurvey reports how many networks occupy each Wi-Fi channel,
// one count per channel in band order.
type ChannelSurvey struct {
	Band2G []int `json:"band_2g"`
	Band5G []int `json:"band_5g"`
}

// MonitorStarted confirms that the device began monitoring an SSID
type MonitorStarted struct {
	SSID string `json:"ssid"`
}

// MonitorStopped confirms that the device stopped monitoring
type MonitorStopped struct{}

// Error is a device-side failure report. It is a successfully decoded
// message, not a protocol failure.
type Error struct {
	Message string `json:"message"`
}

// Unknown preserves a well-formed message whose type is not part of this
// protocol generation. It is dropped at dispatch, never treated as an
// error, so newer devices stay compatible with older clients.
type Unknown struct {
	TypeName string
	Raw      json.RawMessage
}

func (*Pong) Type() Type           { return TypePong }
func (*ScanResult) Type() Type     { return TypeScanResult }
func (*Signal) Type() Type         { return TypeSignal }
func (*ChannelSurvey) Type() Type  { return TypeChannels }
func (*MonitorStarted) Type() Type { return TypeMonitorStarted }
func (*MonitorStopped) Type() Type { return TypeMonitorStopped }
func (*Error) Type() Type          { return TypeError }
func (m *Unknown) Type() Type      { return Type(m.TypeName) }

// Encode serializes a message with its type discriminator, producing
// the wire form Decode accepts. Used by the device side.
func Encode(msg Message) ([]byte, error) {
	switch m := msg.(type) {
	case *Pong:
		return json.Marshal(struct {
			Type Type `json:"type"`
		}{TypePong})

	case *ScanResult:
		return json.Marshal(struct {
			Type     Type      `json:"type"`
			Networks []Network `json:"networks"`
		}{TypeScanResult, m.Networks})

	case *Signal:
		return json.Marshal(struct {
			Type      Type  `json:"type"`
			RSSI      int   `json:"rssi"`
			Timestamp int64 `json:"timestamp"`
		}{TypeSignal, m.RSSI, m.Timestamp})

	case *ChannelSurvey:
		return json.Marshal(struct {
			Type   Type  `json:"type"`
			Band2G []int `json:"band_2g"`
			Band5G []int `json:"band_5g"`
		}{TypeChannels, m.Band2G, m.Band5G})

	case *MonitorStarted:
		return json.Marshal(struct {
			Type Type   `json:"type"`
			SSID string `json:"ssid"`
		}{TypeMonitorStarted, m.SSID})

	case *MonitorStopped:
		return json.Marshal(struct {
			Type Type `json:"type"`
		}{TypeMonitorStopped})

	case *Error:
		return json.Marshal(struct {
			Type    Type   `json:"type"`
			Message string `json:"message"`
		}{TypeError, m.Message})

	case *Unknown:
		return append([]byte(nil), m.Raw...), nil

	default:
		return nil, fmt.Errorf("encode: unsupported message %T", msg)
	}
}

// Decode parses a reassembled buffer into a typed message. It fails when
// the buffer is not a JSON object or carries no string type field; an
// unrecognized type value decodes into Unknown instead of failing.
func Decode(data []byte) (Message, error) {
	var head struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	if head.Type == nil {
		return nil, ErrMissingType
	}

	switch Type(*head.Type) {
	case TypePong:
		return &Pong{}, nil

	case TypeScanResult:
		var m ScanResult
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", TypeScanResult, err)
		}
		return &m, nil

	case TypeSignal:
		var m Signal
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", TypeSignal, err)
		}
		return &m, nil

	case TypeChannels:
		var m ChannelSurvey
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", TypeChannels, err)
		}
		return &m, nil

	case TypeMonitorStarted:
		var m MonitorStarted
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", TypeMonitorStarted, err)
		}
		return &m, nil

	case TypeMonitorStopped:
		return &MonitorStopped{}, nil

	case TypeError:
		var m Error
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", TypeError, err)
		}
		return &m, nil

	default:
		return &Unknown{TypeName: *head.Type, Raw: data}, nil
	}
}
