package mux

import (
	"context"
	"encoding/gob"
	"fmt"
	"net"
	"sync"
	"time"

	"vtkit/pkg/mux/msg"

	"github.com/hashicorp/yamux"
)

// ClientSession is the joining side of a share connection. It opens the
// yamux channels, decodes control messages from the host and encodes
// its own requests.
type ClientSession struct {
	sess *session

	enc *gob.Encoder
	dec *gob.Decoder

	timeout time.Duration

	mu sync.Mutex
}

// Close closes the session.
func (s *ClientSession) Close() error {
	if s.sess == nil {
		return nil
	}
	return s.sess.Close()
}

// OpenSessionContext creates a client session and opens the two control
// channels. timeout bounds control operations from here on.
func OpenSessionContext(ctx context.Context, conn net.Conn, timeout time.Duration) (*ClientSession, error) {
	out := ClientSession{
		sess:    &session{},
		timeout: timeout,
	}
	var err error

	out.sess.mux, err = yamux.Client(conn, muxConfig())
	if err != nil {
		return nil, fmt.Errorf("yamux.Client(conn): %w", err)
	}

	out.sess.ctlHostToClient, err = out.openChannelContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("openChannelContext() for ctlHostToClient: %w", err)
	}
	out.dec = gob.NewDecoder(out.sess.ctlHostToClient)

	out.sess.ctlClientToHost, err = out.openChannelContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("openChannelContext() for ctlClientToHost: %w", err)
	}
	out.enc = gob.NewEncoder(out.sess.ctlClientToHost)

	return &out, nil
}

// OpenDataChannelContext opens the stream that carries the terminal bytes.
func (s *ClientSession) OpenDataChannelContext(ctx context.Context) (net.Conn, error) {
	return s.openChannelContext(ctx)
}

// openChannelContext opens a yamux stream with ctx cancellation and a
// default timeout derived from the session config.
func (s *ClientSession) openChannelContext(ctx context.Context) (net.Conn, error) {
	if s.sess == nil || s.sess.mux == nil {
		return nil, fmt.Errorf("no mux session")
	}

	if _, has := ctx.Deadline(); !has && s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	type result struct {
		c   net.Conn
		err error
	}
	resCh := make(chan result, 1)
	go func() {
		out, err := s.sess.mux.Open()
		// buffered so this goroutine never blocks if the caller returns early
		resCh <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-resCh:
		if r.err != nil {
			return nil, fmt.Errorf("session.Open(): %w", r.err)
		}
		return r.c, nil
	}
}

// SendContext encodes m on the client-to-host control channel.
func (s *ClientSession) SendContext(ctx context.Context, m msg.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	dl := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(dl) {
		dl = d
	}

	_ = s.sess.ctlClientToHost.SetWriteDeadline(dl)
	defer s.sess.ctlClientToHost.SetWriteDeadline(time.Time{})

	if err := s.enc.Encode(&m); err != nil {
		return fmt.Errorf("sending msg: %w", err)
	}
	return nil
}

// ReceiveContext decodes one message from the host-to-client control
// channel, honoring ctx. Without a caller deadline, cancellation
// interrupts the blocking decode via an immediate read deadline.
func (s *ClientSession) ReceiveContext(ctx context.Context) (msg.Message, error) {
	return receiveContext(ctx, s.sess.ctlHostToClient, s.dec, s.timeout)
}

// receiveContext is the shared decode path for both session types.
func receiveContext(ctx context.Context, conn net.Conn, dec *gob.Decoder, timeout time.Duration) (msg.Message, error) {
	var m msg.Message

	dl := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(dl) {
		dl = d
	}

	_ = conn.SetReadDeadline(dl)
	defer conn.SetReadDeadline(time.Time{})

	if _, ok := ctx.Deadline(); !ok {
		done := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				_ = conn.SetReadDeadline(time.Now())
			case <-done:
			}
		}()
		defer close(done)
	}

	err := dec.Decode(&m)
	return m, err
}
