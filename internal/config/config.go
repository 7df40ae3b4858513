// Package config loads the piwifi configuration from a YAML file and
// PIWIFI_ environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/dmandrioli/piwifi-web/internal/logging"
	"github.com/dmandrioli/piwifi-web/pkg/device"
	"github.com/dmandrioli/piwifi-web/pkg/probe"
)

// Config is the root of the configuration file
type Config struct {
	Probe   ProbeConfig    `mapstructure:"probe"`
	Channel ChannelConfig  `mapstructure:"channel"`
	Log     logging.Config `mapstructure:"log"`
	Device  DeviceConfig   `mapstructure:"device"`
}

// ProbeConfig holds the client side settings
type ProbeConfig struct {
	ID              string        `mapstructure:"id"`
	ResponseTimeout time.Duration `mapstructure:"response_timeout"`
	MaxMessageSize  int           `mapstructure:"max_message_size"`
	StaleTimeout    time.Duration `mapstructure:"stale_timeout"`
}

// ChannelConfig selects the transport and carries its settings. The
// options block is free form so each transport can define its own keys.
type ChannelConfig struct {
	Type    string                 `mapstructure:"type"`
	Options map[string]interface{} `mapstructure:"options"`
}

// TransportOptions is the decoded shape of a channel options block
type TransportOptions struct {
	Address        string        `mapstructure:"address"`
	Server         bool          `mapstructure:"server"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// DeviceConfig holds the simulated device settings
type DeviceConfig struct {
	ID           string        `mapstructure:"id"`
	SignalPeriod time.Duration `mapstructure:"signal_period"`
	MaxPayload   int           `mapstructure:"max_payload"`
	NetworksFile string        `mapstructure:"networks_file"`
}

// DecodeOptions decodes the free form options block into a typed struct.
// Duration values may be given as strings such as "5s".
func (c ChannelConfig) DecodeOptions() (TransportOptions, error) {
	var opts TransportOptions

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     &opts,
	})
	if err != nil {
		return opts, err
	}
	if err := decoder.Decode(c.Options); err != nil {
		return opts, fmt.Errorf("invalid %s channel options: %w", c.Type, err)
	}
	return opts, nil
}

// ProbeConfig converts the loaded settings into a probe configuration
func (c *Config) ProbeConfig() probe.Config {
	pc := probe.DefaultConfig()
	if c.Probe.ID != "" {
		pc.ID = c.Probe.ID
	}
	if c.Probe.ResponseTimeout > 0 {
		pc.ResponseTimeout = c.Probe.ResponseTimeout
	}
	if c.Probe.MaxMessageSize > 0 {
		pc.Transport.MaxMessageSize = c.Probe.MaxMessageSize
	}
	pc.Transport.StaleTimeout = c.Probe.StaleTimeout
	return pc
}

// DeviceConfig converts the loaded settings into a device configuration.
// The network table is read from NetworksFile when one is given.
func (c *Config) DeviceConfig() (device.Config, error) {
	dc := device.DefaultConfig()
	if c.Device.ID != "" {
		dc.ID = c.Device.ID
	}
	if c.Device.SignalPeriod > 0 {
		dc.SignalPeriod = c.Device.SignalPeriod
	}
	if c.Device.MaxPayload > 0 {
		dc.MaxPayload = c.Device.MaxPayload
	}
	if c.Device.NetworksFile != "" {
		networks, err := device.LoadNetworksFile(c.Device.NetworksFile)
		if err != nil {
			return dc, err
		}
		dc.Networks = networks
	}
	return dc, nil
}
