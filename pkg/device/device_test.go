package device_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmandrioli/piwifi-web/pkg/channel"
	"github.com/dmandrioli/piwifi-web/pkg/device"
	"github.com/dmandrioli/piwifi-web/pkg/message"
	"github.com/dmandrioli/piwifi-web/pkg/transport"
)

// diagClient drives a device from the client side of a memory pair
type diagClient struct {
	end   *channel.MemChannel
	layer *transport.Layer
}

func newTestDevice(t *testing.T, config device.Config) (*device.Device, *diagClient) {
	t.Helper()

	local, remote := channel.NewMemPair()

	d, err := device.New(config, channel.New("mem", local, nil), nil)
	require.NoError(t, err, "failed to create device")
	require.NoError(t, d.Start(), "failed to start device")

	t.Cleanup(func() {
		d.Shutdown()
		remote.Close()
	})

	return d, &diagClient{
		end:   remote,
		layer: transport.NewLayer(transport.DefaultConfig()),
	}
}

func (c *diagClient) sendCommand(t *testing.T, raw string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.end.Write(ctx, []byte(raw)), "command write failed")
}

// nextMessage reassembles frames until one complete message decodes
func (c *diagClient) nextMessage(t *testing.T) message.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for {
		frame, err := c.end.Read(ctx)
		require.NoError(t, err, "device stopped responding")

		data, err := c.layer.Receive(frame)
		require.NoError(t, err, "fragment error")
		if data == nil {
			continue
		}

		msg, err := message.Decode(data)
		require.NoError(t, err, "device sent an undecodable message")
		return msg
	}
}

func TestDevice_AnswersPing(t *testing.T) {
	_, client := newTestDevice(t, device.DefaultConfig())

	client.sendCommand(t, `{"cmd":"ping"}`)

	msg := client.nextMessage(t)
	assert.IsType(t, &message.Pong{}, msg)
}

func TestDevice_ScanReturnsNetworkTable(t *testing.T) {
	config := device.DefaultConfig()
	config.Networks = []message.Network{
		{SSID: "Alpha", Channel: 1, Security: "wpa2", RSSI: -40},
		{SSID: "Beta", Channel: 6, Security: "open", RSSI: -65},
	}
	_, client := newTestDevice(t, config)

	client.sendCommand(t, `{"cmd":"scan"}`)

	msg := client.nextMessage(t)
	result, ok := msg.(*message.ScanResult)
	require.True(t, ok, "expected scan_result, got %s", msg.Type())
	require.Len(t, result.Networks, 2)
	assert.Equal(t, "Alpha", result.Networks[0].SSID)
	assert.Equal(t, -65, result.Networks[1].RSSI)
}

func TestDevice_ScanWithEmptyTable(t *testing.T) {
	config := device.DefaultConfig()
	config.Networks = nil
	_, client := newTestDevice(t, config)

	client.sendCommand(t, `{"cmd":"scan"}`)

	msg := client.nextMessage(t)
	result, ok := msg.(*message.ScanResult)
	require.True(t, ok, "expected scan_result, got %s", msg.Type())
	assert.Empty(t, result.Networks)
}

func TestDevice_SurveyCountsPerChannel(t *testing.T) {
	config := device.DefaultConfig()
	config.Networks = []message.Network{
		{SSID: "A", Channel: 1},
		{SSID: "B", Channel: 6},
		{SSID: "C", Channel: 6},
		{SSID: "D", Channel: 36},
	}
	_, client := newTestDevice(t, config)

	client.sendCommand(t, `{"cmd":"channels"}`)

	msg := client.nextMessage(t)
	survey, ok := msg.(*message.ChannelSurvey)
	require.True(t, ok, "expected channels, got %s", msg.Type())
	require.Len(t, survey.Band2G, 13)
	require.Len(t, survey.Band5G, 8)
	assert.Equal(t, 1, survey.Band2G[0], "channel 1")
	assert.Equal(t, 2, survey.Band2G[5], "channel 6")
	assert.Equal(t, 1, survey.Band5G[0], "channel 36")
}

func TestDevice_ResponsesAreFragmented(t *testing.T) {
	config := device.DefaultConfig()
	config.MaxPayload = 10
	_, client := newTestDevice(t, config)

	client.sendCommand(t, `{"cmd":"ping"}`)

	// {"type":"pong"} is 15 bytes, so a 10-byte payload budget forces
	// two fragments
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	frame, err := client.end.Read(ctx)
	require.NoError(t, err)
	frag, err := transport.ParseFragment(frame)
	require.NoError(t, err)
	assert.EqualValues(t, 0, frag.Index)
	assert.EqualValues(t, 2, frag.Total)

	data, err := client.layer.Receive(frame)
	require.NoError(t, err)
	require.Nil(t, data, "message complete after first of two fragments")

	frame, err = client.end.Read(ctx)
	require.NoError(t, err)
	data, err = client.layer.Receive(frame)
	require.NoError(t, err)
	require.NotNil(t, data, "message incomplete after both fragments")

	msg, err := message.Decode(data)
	require.NoError(t, err)
	assert.IsType(t, &message.Pong{}, msg)
}

func TestDevice_MonitorStreamsSignals(t *testing.T) {
	config := device.DefaultConfig()
	config.SignalPeriod = 20 * time.Millisecond
	d, client := newTestDevice(t, config)

	client.sendCommand(t, `{"cmd":"monitor","ssid":"HomeNet"}`)

	msg := client.nextMessage(t)
	started, ok := msg.(*message.MonitorStarted)
	require.True(t, ok, "expected monitor_started, got %s", msg.Type())
	assert.Equal(t, "HomeNet", started.SSID)
	assert.Equal(t, "HomeNet", d.MonitorSSID())

	// Readings wander around the table RSSI for HomeNet (-48)
	for i := 0; i < 2; i++ {
		msg = client.nextMessage(t)
		sig, ok := msg.(*message.Signal)
		require.True(t, ok, "expected signal, got %s", msg.Type())
		assert.GreaterOrEqual(t, sig.RSSI, -51)
		assert.LessOrEqual(t, sig.RSSI, -45)
		assert.NotZero(t, sig.Timestamp)
	}

	client.sendCommand(t, `{"cmd":"stop"}`)

	// Signals already in flight may precede the confirmation
	for i := 0; i < 10; i++ {
		msg = client.nextMessage(t)
		if _, ok := msg.(*message.MonitorStopped); ok {
			assert.Equal(t, "", d.MonitorSSID())
			return
		}
	}
	t.Fatal("monitor_stopped never arrived")
}

func TestDevice_ConcurrentSendsDoNotInterleaveFragments(t *testing.T) {
	// A tiny payload budget fragments every message, including the
	// signal readings, and a fast signal period keeps the monitor loop
	// sending while the command handler answers scans. Fragment runs of
	// concurrent messages must never interleave: the client would see
	// the overlap as abandoned messages and orphan fragments.
	config := device.DefaultConfig()
	config.MaxPayload = 4
	config.SignalPeriod = time.Millisecond
	_, client := newTestDevice(t, config)

	client.sendCommand(t, `{"cmd":"monitor","ssid":"HomeNet"}`)

	// Issue scans from a separate goroutine while signals stream.
	// t.Errorf is safe off the test goroutine, require is not.
	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for i := 0; i < 20; i++ {
			if err := client.end.Write(ctx, []byte(`{"cmd":"scan"}`)); err != nil {
				t.Errorf("scan command write failed: %v", err)
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
		if err := client.end.Write(ctx, []byte(`{"cmd":"stop"}`)); err != nil {
			t.Errorf("stop command write failed: %v", err)
		}
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		ctx, cancel := context.WithDeadline(context.Background(), deadline)
		frame, err := client.end.Read(ctx)
		cancel()
		if err != nil {
			t.Fatalf("device stopped responding: %v", err)
		}

		data, err := client.layer.Receive(frame)
		require.NoError(t, err, "fragment stream corrupted")
		if data == nil {
			continue
		}

		msg, err := message.Decode(data)
		require.NoError(t, err)
		if _, ok := msg.(*message.MonitorStopped); ok {
			break
		}
	}
	<-done

	stats := client.layer.Stats()
	assert.Zero(t, stats.GetAbandonedMessages(), "fragments of concurrent messages interleaved")
	assert.Zero(t, stats.GetOrphanFragments())
	assert.Zero(t, stats.GetHeaderErrors())
}

func TestDevice_StopWithoutMonitorStillConfirms(t *testing.T) {
	_, client := newTestDevice(t, device.DefaultConfig())

	client.sendCommand(t, `{"cmd":"stop"}`)

	msg := client.nextMessage(t)
	assert.IsType(t, &message.MonitorStopped{}, msg)
}

func TestDevice_MonitorWithoutSSID(t *testing.T) {
	_, client := newTestDevice(t, device.DefaultConfig())

	client.sendCommand(t, `{"cmd":"monitor"}`)

	msg := client.nextMessage(t)
	errMsg, ok := msg.(*message.Error)
	require.True(t, ok, "expected error, got %s", msg.Type())
	assert.Contains(t, errMsg.Message, "ssid")
}

func TestDevice_UnknownCommand(t *testing.T) {
	_, client := newTestDevice(t, device.DefaultConfig())

	client.sendCommand(t, `{"cmd":"reboot"}`)

	msg := client.nextMessage(t)
	errMsg, ok := msg.(*message.Error)
	require.True(t, ok, "expected error, got %s", msg.Type())
	assert.Contains(t, errMsg.Message, "unknown command")
}

func TestDevice_MalformedCommand(t *testing.T) {
	_, client := newTestDevice(t, device.DefaultConfig())

	client.sendCommand(t, `not json at all`)

	msg := client.nextMessage(t)
	errMsg, ok := msg.(*message.Error)
	require.True(t, ok, "expected error, got %s", msg.Type())
	assert.Contains(t, errMsg.Message, "invalid command")
}

func TestLoadNetworksFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networks.yml")
	content := `networks:
  - ssid: HomeNet
    channel: 6
    security: wpa2
    rssi: -48
  - ssid: Lab-5G
    channel: 36
    security: wpa3
    rssi: -55
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	networks, err := device.LoadNetworksFile(path)
	require.NoError(t, err)
	require.Len(t, networks, 2)
	assert.Equal(t, "HomeNet", networks[0].SSID)
	assert.Equal(t, 6, networks[0].Channel)
	assert.Equal(t, "wpa3", networks[1].Security)
	assert.Equal(t, -55, networks[1].RSSI)
}

func TestLoadNetworksFile_Missing(t *testing.T) {
	_, err := device.LoadNetworksFile(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
