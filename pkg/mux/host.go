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

// HostSession is the serving side of a share connection. It accepts
// the channels the client opens, encodes control messages to the
// client and decodes its requests.
type HostSession struct {
	sess *session

	enc *gob.Encoder
	dec *gob.Decoder

	timeout time.Duration

	mu sync.Mutex
}

// Close closes the host session and its underlying connection.
func (s *HostSession) Close() error {
	return s.sess.Close()
}

// AcceptSessionContext creates a host session over conn, accepting the
// two control channels the client opens. timeout bounds control
// operations from here on.
func AcceptSessionContext(ctx context.Context, conn net.Conn, timeout time.Duration) (*HostSession, error) {
	out := HostSession{
		sess:    &session{},
		timeout: timeout,
	}
	var err error

	out.sess.mux, err = yamux.Server(conn, muxConfig())
	if err != nil {
		return nil, fmt.Errorf("yamux.Server(conn): %w", err)
	}

	out.sess.ctlHostToClient, err = out.acceptChannelContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("acceptChannelContext() for ctlHostToClient: %w", err)
	}
	out.enc = gob.NewEncoder(out.sess.ctlHostToClient)

	out.sess.ctlClientToHost, err = out.acceptChannelContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("acceptChannelContext() for ctlClientToHost: %w", err)
	}
	out.dec = gob.NewDecoder(out.sess.ctlClientToHost)

	return &out, nil
}

// AcceptDataChannelContext accepts the stream that carries the terminal bytes.
func (s *HostSession) AcceptDataChannelContext(ctx context.Context) (net.Conn, error) {
	return s.acceptChannelContext(ctx)
}

// acceptChannelContext accepts a new yamux stream using the provided context.
func (s *HostSession) acceptChannelContext(ctx context.Context) (net.Conn, error) {
	if s.sess == nil || s.sess.mux == nil {
		return nil, fmt.Errorf("no mux session")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, time.Now().Add(s.timeout))
		defer cancel()
	}

	stream, err := s.sess.mux.AcceptStreamWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("AcceptStreamWithContext(): %w", err)
	}
	return stream, nil
}

// SendContext encodes m on the host-to-client control channel.
func (s *HostSession) SendContext(ctx context.Context, m msg.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	dl := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(dl) {
		dl = d
	}

	_ = s.sess.ctlHostToClient.SetWriteDeadline(dl)
	defer s.sess.ctlHostToClient.SetWriteDeadline(time.Time{})

	if err := s.enc.Encode(&m); err != nil {
		return fmt.Errorf("sending msg: %w", err)
	}
	return nil
}

// ReceiveContext decodes one message from the client-to-host control
// channel, honoring ctx.
func (s *HostSession) ReceiveContext(ctx context.Context) (msg.Message, error) {
	return receiveContext(ctx, s.sess.ctlClientToHost, s.dec, s.timeout)
}
