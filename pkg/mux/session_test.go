package mux

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"vtkit/pkg/mux/msg"
)

func setupSessions(t *testing.T) (*ClientSession, *HostSession) {
	t.Helper()

	c1, c2 := net.Pipe()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hostCh := make(chan *HostSession, 1)
	errCh := make(chan error, 1)
	go func() {
		h, err := AcceptSessionContext(ctx, c2, 5*time.Second)
		errCh <- err
		hostCh <- h
	}()

	client, err := OpenSessionContext(ctx, c1, 5*time.Second)
	if err != nil {
		t.Fatalf("OpenSessionContext() error = %v", err)
	}

	if err := <-errCh; err != nil {
		t.Fatalf("AcceptSessionContext() error = %v", err)
	}
	host := <-hostCh

	t.Cleanup(func() {
		client.Close()
		host.Close()
	})

	return client, host
}

func TestSession_HelloFromHost(t *testing.T) {
	t.Parallel()

	client, host := setupSessions(t)

	ctx := context.Background()

	want := msg.Hello{ID: "host-1", VT: 5, AllowSwitch: true}
	if err := host.SendContext(ctx, want); err != nil {
		t.Fatalf("host.SendContext() error = %v", err)
	}

	got, err := client.ReceiveContext(ctx)
	if err != nil {
		t.Fatalf("client.ReceiveContext() error = %v", err)
	}

	hello, ok := got.(msg.Hello)
	if !ok {
		t.Fatalf("received %T, want msg.Hello", got)
	}
	if hello != want {
		t.Errorf("received %+v, want %+v", hello, want)
	}
}

func TestSession_SwitchFromClient(t *testing.T) {
	t.Parallel()

	client, host := setupSessions(t)

	ctx := context.Background()

	if err := client.SendContext(ctx, msg.Switch{VT: 3}); err != nil {
		t.Fatalf("client.SendContext() error = %v", err)
	}

	got, err := host.ReceiveContext(ctx)
	if err != nil {
		t.Fatalf("host.ReceiveContext() error = %v", err)
	}

	sw, ok := got.(msg.Switch)
	if !ok {
		t.Fatalf("received %T, want msg.Switch", got)
	}
	if sw.VT != 3 {
		t.Errorf("Switch.VT = %d, want 3", sw.VT)
	}
}

func TestSession_DataChannel(t *testing.T) {
	t.Parallel()

	client, host := setupSessions(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dataCh := make(chan net.Conn, 1)
	errCh := make(chan error, 1)
	go func() {
		c, err := host.AcceptDataChannelContext(ctx)
		errCh <- err
		dataCh <- c
	}()

	clientData, err := client.OpenDataChannelContext(ctx)
	if err != nil {
		t.Fatalf("OpenDataChannelContext() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("AcceptDataChannelContext() error = %v", err)
	}
	hostData := <-dataCh

	go hostData.Write([]byte("vt-bytes"))

	buf := make([]byte, 8)
	if _, err := io.ReadFull(clientData, buf); err != nil {
		t.Fatalf("ReadFull() error = %v", err)
	}
	if string(buf) != "vt-bytes" {
		t.Errorf("data = %q, want %q", buf, "vt-bytes")
	}
}

func TestSession_ReceiveContextCancelled(t *testing.T) {
	t.Parallel()

	client, _ := setupSessions(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if _, err := client.ReceiveContext(ctx); err == nil {
		t.Error("ReceiveContext() returned nil error after cancellation")
	}
}
