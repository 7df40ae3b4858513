package message

import (
	"errors"
	"testing"
	"time"
)

func TestDecode_Pong(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"pong"}`))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if _, ok := msg.(*Pong); !ok {
		t.Fatalf("Expected *Pong, got %T", msg)
	}
	if msg.Type() != TypePong {
		t.Errorf("Expected type pong, got %s", msg.Type())
	}
}

func TestDecode_ScanResult(t *testing.T) {
	data := []byte(`{"type":"scan_result","networks":[
		{"ssid":"HomeNet","channel":6,"security":"WPA2","rssi":-48},
		{"channel":11,"security":"OPEN","rssi":-71},
		{"ssid":"Cafe5G","channel":36,"security":"WPA3","rssi":-60}
	]}`)

	msg, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	scan, ok := msg.(*ScanResult)
	if !ok {
		t.Fatalf("Expected *ScanResult, got %T", msg)
	}
	if len(scan.Networks) != 3 {
		t.Fatalf("Expected 3 networks, got %d", len(scan.Networks))
	}

	// Order must be preserved as received.
	if scan.Networks[0].SSID != "HomeNet" || scan.Networks[2].SSID != "Cafe5G" {
		t.Errorf("Network order not preserved: %+v", scan.Networks)
	}
	if scan.Networks[0].Channel != 6 || scan.Networks[0].RSSI != -48 {
		t.Errorf("Network fields mismatch: %+v", scan.Networks[0])
	}

	// Absent ssid means a hidden network.
	if !scan.Networks[1].Hidden() {
		t.Error("Network without ssid should report as hidden")
	}
	if scan.Networks[0].Hidden() {
		t.Error("Named network should not report as hidden")
	}
}

func TestDecode_Signal(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"signal","rssi":-52,"timestamp":1712000000000}`))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	sig, ok := msg.(*Signal)
	if !ok {
		t.Fatalf("Expected *Signal, got %T", msg)
	}
	if sig.RSSI != -52 {
		t.Errorf("Expected rssi -52, got %d", sig.RSSI)
	}
	if want := time.UnixMilli(1712000000000); !sig.Time().Equal(want) {
		t.Errorf("Expected time %v, got %v", want, sig.Time())
	}
}

func TestDecode_ChannelSurvey(t *testing.T) {
	data := []byte(`{"type":"channels","band_2g":[3,0,1,0,0,5,0,0,0,2,1],"band_5g":[1,0,2,0]}`)

	msg, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	survey, ok := msg.(*ChannelSurvey)
	if !ok {
		t.Fatalf("Expected *ChannelSurvey, got %T", msg)
	}
	if len(survey.Band2G) != 11 {
		t.Errorf("Expected 11 counts for 2.4 GHz, got %d", len(survey.Band2G))
	}
	if survey.Band2G[5] != 5 {
		t.Errorf("Expected 5 networks on channel 6, got %d", survey.Band2G[5])
	}
	if len(survey.Band5G) != 4 {
		t.Errorf("Expected 4 counts for 5 GHz, got %d", len(survey.Band5G))
	}
}

func TestDecode_MonitorStartedStopped(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"monitor_started","ssid":"HomeNet"}`))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	started, ok := msg.(*MonitorStarted)
	if !ok {
		t.Fatalf("Expected *MonitorStarted, got %T", msg)
	}
	if started.SSID != "HomeNet" {
		t.Errorf("Expected ssid HomeNet, got %q", started.SSID)
	}

	msg, err = Decode([]byte(`{"type":"monitor_stopped"}`))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if _, ok := msg.(*MonitorStopped); !ok {
		t.Fatalf("Expected *MonitorStopped, got %T", msg)
	}
}

func TestDecode_ErrorMessage(t *testing.T) {
	// An error message is a valid decode, not a protocol failure.
	msg, err := Decode([]byte(`{"type":"error","message":"scan already running"}`))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	errMsg, ok := msg.(*Error)
	if !ok {
		t.Fatalf("Expected *Error, got %T", msg)
	}
	if errMsg.Message != "scan already running" {
		t.Errorf("Unexpected message: %q", errMsg.Message)
	}
}

func TestDecode_UnknownType(t *testing.T) {
	data := []byte(`{"type":"firmware_update","progress":40}`)

	msg, err := Decode(data)
	if err != nil {
		t.Fatalf("Unknown type must not be a decode failure: %v", err)
	}

	unknown, ok := msg.(*Unknown)
	if !ok {
		t.Fatalf("Expected *Unknown, got %T", msg)
	}
	if unknown.TypeName != "firmware_update" {
		t.Errorf("Expected type name preserved, got %q", unknown.TypeName)
	}
	if string(unknown.Raw) != string(data) {
		t.Errorf("Raw payload not preserved: %s", unknown.Raw)
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"type":"pong"`)); err == nil {
		t.Error("Expected error for truncated JSON")
	}
	if _, err := Decode([]byte(`not json at all`)); err == nil {
		t.Error("Expected error for non-JSON input")
	}
	if _, err := Decode([]byte(`[1,2,3]`)); err == nil {
		t.Error("Expected error for non-object input")
	}
}

func TestDecode_MissingType(t *testing.T) {
	if _, err := Decode([]byte(`{"rssi":-40}`)); !errors.Is(err, ErrMissingType) {
		t.Errorf("Expected ErrMissingType, got %v", err)
	}
}

func TestDecode_NonStringType(t *testing.T) {
	if _, err := Decode([]byte(`{"type":123}`)); err == nil {
		t.Error("Expected error for numeric type field")
	}
}

func TestDecode_BadVariantFields(t *testing.T) {
	if _, err := Decode([]byte(`{"type":"scan_result","networks":42}`)); err == nil {
		t.Error("Expected error for malformed networks field")
	}
	if _, err := Decode([]byte(`{"type":"signal","rssi":"loud"}`)); err == nil {
		t.Error("Expected error for malformed rssi field")
	}
}
