package channel

import (
	"net"
	"testing"
	"time"
)

// recordingListener captures state notifications on buffered channels
type recordingListener struct {
	established chan struct{}
	lost        chan struct{}
}

func newRecordingListener() *recordingListener {
	return &recordingListener{
		established: make(chan struct{}, 4),
		lost:        make(chan struct{}, 4),
	}
}

func (l *recordingListener) OnConnectionEstablished() { l.established <- struct{}{} }
func (l *recordingListener) OnConnectionLost()        { l.lost <- struct{}{} }

func TestTCPChannel_ListenerAttachedAfterConnect(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()

	// The client connects inside the constructor, before any listener
	// can be attached.
	tc, err := NewTCPChannel(TCPChannelConfig{Address: ln.Addr().String()})
	if err != nil {
		t.Fatalf("failed to create channel: %v", err)
	}
	defer tc.Close()

	if !tc.IsConnected() {
		t.Fatal("client should be connected after construction")
	}

	// Attaching now must still report the existing connection.
	listener := newRecordingListener()
	tc.SetConnectionStateListener(listener)

	select {
	case <-listener.established:
	case <-time.After(time.Second):
		t.Fatal("existing connection was never reported to the listener")
	}

	select {
	case conn := <-accepted:
		conn.Close()
	case <-time.After(time.Second):
		t.Fatal("server never accepted the connection")
	}
}
