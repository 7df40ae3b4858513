package channel

import (
	"testing"
	"time"
)

func TestUDPChannel_ClientListenerNotifiedOnAttach(t *testing.T) {
	// A UDP client binds its socket in the constructor and can send
	// right away, so a listener attached afterwards hears about the
	// connection retroactively.
	uc, err := NewUDPChannel(UDPChannelConfig{Address: "127.0.0.1:20000"})
	if err != nil {
		t.Fatalf("failed to create channel: %v", err)
	}
	defer uc.Close()

	listener := newRecordingListener()
	uc.SetConnectionStateListener(listener)

	select {
	case <-listener.established:
	case <-time.After(time.Second):
		t.Fatal("bound client socket was never reported to the listener")
	}
}

func TestUDPChannel_ServerListenerWaitsForPeer(t *testing.T) {
	uc, err := NewUDPChannel(UDPChannelConfig{Address: "127.0.0.1:0", IsServer: true})
	if err != nil {
		t.Fatalf("failed to create channel: %v", err)
	}
	defer uc.Close()

	// A server has no peer yet; attaching must not fabricate one.
	listener := newRecordingListener()
	uc.SetConnectionStateListener(listener)

	select {
	case <-listener.established:
		t.Fatal("server reported a connection before any peer datagram")
	case <-time.After(50 * time.Millisecond):
	}
}
