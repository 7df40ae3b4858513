package channel

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func TestMemPair_FramesCross(t *testing.T) {
	a, b := NewMemPair()
	defer a.Close()
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := a.Write(ctx, []byte("from a")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	frame, err := b.Read(ctx)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Equal(frame, []byte("from a")) {
		t.Errorf("expected %q, got %q", "from a", frame)
	}
}

func TestMemPair_WriteCopiesData(t *testing.T) {
	a, b := NewMemPair()
	defer a.Close()
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	buf := []byte{1, 2, 3}
	if err := a.Write(ctx, buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	buf[0] = 99

	frame, err := b.Read(ctx)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if frame[0] != 1 {
		t.Errorf("frame shares caller buffer: got %v", frame)
	}
}

func TestMemPair_ReadAfterPeerClose(t *testing.T) {
	a, b := NewMemPair()
	defer a.Close()

	b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := a.Read(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestMemPair_QueuedFrameSurvivesPeerClose(t *testing.T) {
	a, b := NewMemPair()
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := b.Write(ctx, []byte("last words")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	b.Close()

	frame, err := a.Read(ctx)
	if err != nil {
		t.Fatalf("expected queued frame, got error: %v", err)
	}
	if !bytes.Equal(frame, []byte("last words")) {
		t.Errorf("expected %q, got %q", "last words", frame)
	}
}

func TestMemPair_WriteAfterOwnClose(t *testing.T) {
	a, b := NewMemPair()
	defer b.Close()

	a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := a.Write(ctx, []byte("x")); !errors.Is(err, ErrChannelClosed) {
		t.Errorf("expected ErrChannelClosed, got %v", err)
	}
}

func TestMemPair_CloseIdempotent(t *testing.T) {
	a, b := NewMemPair()
	defer b.Close()

	if err := a.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
}
