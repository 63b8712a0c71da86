package share

import (
	"context"
	"fmt"
	"net"

	"vtkit/pkg/config"
	"vtkit/pkg/log"
	"vtkit/pkg/mux"
	"vtkit/pkg/mux/msg"
	"vtkit/pkg/terminal"
)

// Client is the joining side of a share connection.
type Client struct {
	ctx  context.Context
	cfg  *config.Shared
	jCfg *config.Join

	remoteAddr string

	sess *mux.ClientSession
}

// NewClient creates a client handler over the given connection.
func NewClient(ctx context.Context, cfg *config.Shared, jCfg *config.Join, conn net.Conn) (*Client, error) {
	sess, err := mux.OpenSessionContext(ctx, conn, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("mux.OpenSessionContext(conn): %s", err)
	}

	return &Client{
		ctx:        ctx,
		cfg:        cfg,
		jCfg:       jCfg,
		remoteAddr: conn.RemoteAddr().String(),
		sess:       sess,
	}, nil
}

// Close closes the client's mux session.
func (c *Client) Close() error {
	return c.sess.Close()
}

// Handle attaches the local terminal to the shared one: wait for the
// host's hello, optionally request a switch, open the data channel and
// pipe stdio in raw mode until either side ends the session.
func (c *Client) Handle() error {
	defer log.InfoMsg("Session with %s closed\n", c.remoteAddr)

	ctx, cancel := context.WithCancel(c.ctx)
	defer cancel()

	m, err := c.sess.ReceiveContext(ctx)
	if err != nil {
		return fmt.Errorf("receiving hello: %s", err)
	}
	hello, ok := m.(msg.Hello)
	if !ok {
		return fmt.Errorf("expected hello, got '%s'", m.MsgType())
	}

	log.InfoMsg("Attached to tty%d on %s (%s)\n", hello.VT, c.remoteAddr, hello.ID)

	if c.jCfg.RequestVT > 0 {
		if !hello.AllowSwitch {
			log.InfoMsg("Host does not allow switch requests, staying on tty%d\n", hello.VT)
		} else if err := c.sess.SendContext(ctx, msg.Switch{VT: c.jCfg.RequestVT}); err != nil {
			return fmt.Errorf("requesting switch to tty%d: %s", c.jCfg.RequestVT, err)
		}
	}

	connData, err := c.sess.OpenDataChannelContext(ctx)
	if err != nil {
		return fmt.Errorf("opening data channel: %s", err)
	}

	return terminal.PipeRaw(ctx, connData, c.cfg.Verbose)
}
