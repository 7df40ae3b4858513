package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmandrioli/piwifi-web/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "piwifi.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
probe:
  id: bench-probe
  response_timeout: 2s
  max_message_size: 32768
  stale_timeout: 30s

channel:
  type: quic
  options:
    address: 192.168.4.1:20000
    reconnect_delay: 2s
    read_timeout: 5s

log:
  level: debug
  format: json
  file:
    filename: /tmp/piwifi.log
    max_size: 10

device:
  id: bench-device
  signal_period: 500ms
  max_payload: 120
`)

	cfg, err := config.Load(path)
	require.NoError(t, err, "failed to load config")

	assert.Equal(t, "bench-probe", cfg.Probe.ID)
	assert.Equal(t, 2*time.Second, cfg.Probe.ResponseTimeout)
	assert.Equal(t, 32768, cfg.Probe.MaxMessageSize)
	assert.Equal(t, 30*time.Second, cfg.Probe.StaleTimeout)

	assert.Equal(t, "quic", cfg.Channel.Type)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	require.NotNil(t, cfg.Log.File)
	assert.Equal(t, "/tmp/piwifi.log", cfg.Log.File.Filename)

	assert.Equal(t, "bench-device", cfg.Device.ID)
	assert.Equal(t, 500*time.Millisecond, cfg.Device.SignalPeriod)
	assert.Equal(t, 120, cfg.Device.MaxPayload)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
log:
  level: warn
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "probe", cfg.Probe.ID)
	assert.Equal(t, 5*time.Second, cfg.Probe.ResponseTimeout)
	assert.Equal(t, "tcp", cfg.Channel.Type)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, time.Second, cfg.Device.SignalPeriod)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PIWIFI_CHANNEL_TYPE", "udp")
	t.Setenv("PIWIFI_PROBE_RESPONSE_TIMEOUT", "10s")

	path := writeConfigFile(t, `
channel:
  type: tcp
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "udp", cfg.Channel.Type, "environment should win over the file")
	assert.Equal(t, 10*time.Second, cfg.Probe.ResponseTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	assert.Equal(t, "tcp", cfg.Channel.Type)
	assert.Equal(t, 5*time.Second, cfg.Probe.ResponseTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestChannelConfig_DecodeOptions(t *testing.T) {
	cc := config.ChannelConfig{
		Type: "tcp",
		Options: map[string]interface{}{
			"address":         "10.0.0.5:20000",
			"server":          true,
			"reconnect_delay": "3s",
			"write_timeout":   "1s",
		},
	}

	opts, err := cc.DecodeOptions()
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5:20000", opts.Address)
	assert.True(t, opts.Server)
	assert.Equal(t, 3*time.Second, opts.ReconnectDelay)
	assert.Equal(t, time.Second, opts.WriteTimeout)
	assert.Zero(t, opts.ReadTimeout)
}

func TestChannelConfig_DecodeOptions_Invalid(t *testing.T) {
	cc := config.ChannelConfig{
		Type:    "tcp",
		Options: map[string]interface{}{"read_timeout": "not a duration"},
	}

	_, err := cc.DecodeOptions()
	assert.Error(t, err)
}

func TestConfig_ProbeConfig(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Probe.ID = "p1"
	cfg.Probe.ResponseTimeout = 2 * time.Second
	cfg.Probe.StaleTimeout = time.Minute

	pc := cfg.ProbeConfig()

	assert.Equal(t, "p1", pc.ID)
	assert.Equal(t, 2*time.Second, pc.ResponseTimeout)
	assert.Equal(t, time.Minute, pc.Transport.StaleTimeout)
}

func TestConfig_DeviceConfig(t *testing.T) {
	networksPath := filepath.Join(t.TempDir(), "networks.yml")
	require.NoError(t, os.WriteFile(networksPath, []byte(`
networks:
  - ssid: TestNet
    channel: 11
    security: wpa2
    rssi: -60
`), 0o644))

	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Device.NetworksFile = networksPath

	dc, err := cfg.DeviceConfig()
	require.NoError(t, err)
	require.Len(t, dc.Networks, 1)
	assert.Equal(t, "TestNet", dc.Networks[0].SSID)
}

func TestConfig_DeviceConfig_MissingNetworksFile(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Device.NetworksFile = filepath.Join(t.TempDir(), "absent.yml")

	_, err = cfg.DeviceConfig()
	assert.Error(t, err)
}
