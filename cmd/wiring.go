package cmd

import (
	"fmt"

	"github.com/dmandrioli/piwifi-web/internal/config"
	"github.com/dmandrioli/piwifi-web/internal/logging"
	"github.com/dmandrioli/piwifi-web/pkg/channel"
	"github.com/dmandrioli/piwifi-web/pkg/probe"
)

// defaultAddress is the piwifi device in access point mode
const defaultAddress = "192.168.4.1:20000"

// loadConfig reads the configuration and applies flag overrides on top
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		return nil, err
	}

	if transportType != "" {
		cfg.Channel.Type = transportType
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if address != "" {
		if cfg.Channel.Options == nil {
			cfg.Channel.Options = map[string]interface{}{}
		}
		cfg.Channel.Options["address"] = address
	}
	return cfg, nil
}

// newNotificationChannel builds the configured transport. The simulator
// passes server=true to listen instead of connect.
func newNotificationChannel(cfg *config.Config, server bool) (channel.NotificationChannel, error) {
	opts, err := cfg.Channel.DecodeOptions()
	if err != nil {
		return nil, err
	}
	if opts.Address == "" {
		opts.Address = defaultAddress
	}
	if server {
		opts.Server = true
	}

	switch cfg.Channel.Type {
	case "tcp":
		return channel.NewTCPChannel(channel.TCPChannelConfig{
			Address:        opts.Address,
			IsServer:       opts.Server,
			ReconnectDelay: opts.ReconnectDelay,
			ReadTimeout:    opts.ReadTimeout,
			WriteTimeout:   opts.WriteTimeout,
		})
	case "udp":
		return channel.NewUDPChannel(channel.UDPChannelConfig{
			Address:      opts.Address,
			IsServer:     opts.Server,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		})
	case "quic":
		return channel.NewQUICChannel(channel.QUICChannelConfig{
			Address:        opts.Address,
			IsServer:       opts.Server,
			ReconnectDelay: opts.ReconnectDelay,
			ReadTimeout:    opts.ReadTimeout,
			WriteTimeout:   opts.WriteTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown transport type %q", cfg.Channel.Type)
	}
}

// connectProbe wires a probe to the configured transport and starts it.
// The returned cleanup shuts everything down.
func connectProbe(handler probe.Handler) (*probe.Probe, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	log := logging.New(cfg.Log)

	notif, err := newNotificationChannel(cfg, false)
	if err != nil {
		return nil, nil, err
	}

	ch := channel.New(cfg.Channel.Type, notif, log)
	p, err := probe.New(cfg.ProbeConfig(), handler, ch, log)
	if err != nil {
		return nil, nil, err
	}
	if err := p.Start(); err != nil {
		return nil, nil, err
	}

	return p, func() { p.Shutdown() }, nil
}
