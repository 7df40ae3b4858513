package message

import (
	"errors"
	"testing"
)

func TestCommand_EncodeWireShape(t *testing.T) {
	tests := []struct {
		name string
		cmd  *Command
		want string
	}{
		{"ping", NewPingCommand(), `{"cmd":"ping"}`},
		{"scan", NewScanCommand(), `{"cmd":"scan"}`},
		{"channels", NewChannelsCommand(), `{"cmd":"channels"}`},
		{"monitor", NewMonitorCommand("HomeNet"), `{"cmd":"monitor","ssid":"HomeNet"}`},
		{"stop", NewStopCommand(), `{"cmd":"stop"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.cmd.Encode()
			if err != nil {
				t.Fatalf("Encode error: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Wire mismatch:\n  want %s\n  got  %s", tt.want, data)
			}
		})
	}
}

func TestCommand_MonitorRequiresSSID(t *testing.T) {
	cmd := &Command{Cmd: CmdMonitor}
	if _, err := cmd.Encode(); !errors.Is(err, ErrMonitorSSID) {
		t.Errorf("Expected ErrMonitorSSID, got %v", err)
	}
}

func TestCommand_UnknownRejected(t *testing.T) {
	cmd := &Command{Cmd: CommandType("reboot")}
	if err := cmd.Validate(); err == nil {
		t.Error("Expected error for unknown command")
	}
}

func TestDecodeCommand_RoundTrip(t *testing.T) {
	data, err := NewMonitorCommand("Cafe5G").Encode()
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	cmd, err := DecodeCommand(data)
	if err != nil {
		t.Fatalf("DecodeCommand error: %v", err)
	}
	if cmd.Cmd != CmdMonitor || cmd.SSID != "Cafe5G" {
		t.Errorf("Round trip mismatch: %+v", cmd)
	}
}

func TestDecodeCommand_MissingCmd(t *testing.T) {
	if _, err := DecodeCommand([]byte(`{"ssid":"x"}`)); err == nil {
		t.Error("Expected error for payload without cmd field")
	}
	if _, err := DecodeCommand([]byte(`garbage`)); err == nil {
		t.Error("Expected error for malformed payload")
	}
}
