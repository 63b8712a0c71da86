// Package helpers provides common utilities for integration tests.
package helpers

import (
	"context"
	stdnet "net"
	"testing"
	"time"

	"vtkit/mocks"
	"vtkit/pkg/config"
	"vtkit/pkg/net"
)

// FreePort grabs a port the OS considers free. The listener is closed
// before returning, so a test racing for the same port can still fail,
// but in practice the window is small enough.
func FreePort(t *testing.T) int {
	t.Helper()

	l, err := stdnet.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("grabbing free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*stdnet.TCPAddr).Port
}

// NewShareConfig builds a shared config backed by a fresh mock kernel,
// listening on a free loopback port.
func NewShareConfig(t *testing.T, proto config.Protocol) (*mocks.MockKernel, *config.Shared) {
	t.Helper()

	k, err := mocks.NewMockKernel()
	if err != nil {
		t.Fatalf("NewMockKernel() failed: %v", err)
	}
	t.Cleanup(func() { k.Close() })

	cfg := &config.Shared{
		Protocol: proto,
		Host:     "127.0.0.1",
		Port:     FreePort(t),
		Timeout:  5 * time.Second,
		Deps:     k.Dependencies(),
	}

	return k, cfg
}

// DialRetry dials the share until it answers or the context expires.
// The share side needs a moment to bind its listener.
func DialRetry(ctx context.Context, t *testing.T, cfg *config.Shared) stdnet.Conn {
	t.Helper()

	for {
		conn, err := net.Dial(ctx, cfg)
		if err == nil {
			return conn
		}

		select {
		case <-ctx.Done():
			t.Fatalf("dialing share: %v", err)
			return nil
		case <-time.After(50 * time.Millisecond):
		}
	}
}
