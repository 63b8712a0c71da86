// Package share implements both sides of console sharing: the host
// serves an open terminal's byte stream over a mux session, the client
// attaches the local terminal to it and may request switches.
package share

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"vtkit/pkg/config"
	"vtkit/pkg/log"
	"vtkit/pkg/mux"
	"vtkit/pkg/mux/msg"
	"vtkit/pkg/pipeio"
	"vtkit/pkg/vt"
)

// Host serves one share connection. It owns the mux session but not
// the console: the terminal stays allocated across connections because
// the caller keeps its own handle open.
type Host struct {
	ctx  context.Context
	cfg  *config.Shared
	sCfg *config.Share

	console *vt.Console
	vtNum   int
	id      string

	remoteAddr string

	sess *mux.HostSession
}

// NewHost creates a host handler over the given connection.
func NewHost(ctx context.Context, cfg *config.Shared, sCfg *config.Share, console *vt.Console, vtNum int, id string, conn net.Conn) (*Host, error) {
	sess, err := mux.AcceptSessionContext(ctx, conn, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("mux.AcceptSessionContext(conn): %s", err)
	}

	return &Host{
		ctx:        ctx,
		cfg:        cfg,
		sCfg:       sCfg,
		console:    console,
		vtNum:      vtNum,
		id:         id,
		remoteAddr: conn.RemoteAddr().String(),
		sess:       sess,
	}, nil
}

// Close closes the host's mux session.
func (h *Host) Close() error {
	return h.sess.Close()
}

// Handle runs the share protocol for one connection: announce the
// terminal, accept the data channel, then pipe terminal bytes while
// answering switch requests on the control channel.
func (h *Host) Handle() error {
	defer log.InfoMsg("Session with %s closed\n", h.remoteAddr)

	ctx, cancel := context.WithCancel(h.ctx)
	defer cancel()

	if err := h.sess.SendContext(ctx, msg.Hello{
		ID:          h.id,
		VT:          h.vtNum,
		AllowSwitch: h.sCfg.AllowSwitch,
	}); err != nil {
		return fmt.Errorf("sending hello: %s", err)
	}

	connData, err := h.sess.AcceptDataChannelContext(ctx)
	if err != nil {
		return fmt.Errorf("accepting data channel: %s", err)
	}
	defer connData.Close()

	log.InfoMsg("Session with %s established, sharing tty%d\n", h.remoteAddr, h.vtNum)

	// separate handle so closing it cannot tear down the shared terminal
	term, err := h.console.OpenVT(h.vtNum)
	if err != nil {
		return fmt.Errorf("opening tty%d: %s", h.vtNum, err)
	}

	go h.serveControl(ctx)

	// a plain device read blocks in the kernel where Close cannot
	// interrupt it, which would leak the connection slot
	pipeio.Pipe(ctx, pipeio.NewDevice(term, term.File()), connData, func(err error) {
		if h.cfg.Verbose {
			log.ErrorMsg("Pipe(tty%d, conn): %s\n", h.vtNum, err)
		}
	})

	return nil
}

// serveControl answers control messages until the session ends.
func (h *Host) serveControl(ctx context.Context) {
	for {
		m, err := h.sess.ReceiveContext(ctx)
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return
			}
			// deadline ticks between messages are expected on an idle channel
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}

			log.ErrorMsg("Receiving next request: %s\n", err)
			return
		}

		switch message := m.(type) {
		case msg.Switch:
			h.handleSwitch(message)
		default:
			log.ErrorMsg("Unsupported message type '%s'\n", m.MsgType())
		}
	}
}

func (h *Host) handleSwitch(m msg.Switch) {
	if !h.sCfg.AllowSwitch {
		log.VerboseMsg("Denied switch request to tty%d\n", m.VT)
		return
	}

	log.InfoMsg("Switch request: activating tty%d\n", m.VT)
	if err := h.console.SwitchTo(m.VT); err != nil {
		log.ErrorMsg("SwitchTo(%d): %s\n", m.VT, err)
	}
}
