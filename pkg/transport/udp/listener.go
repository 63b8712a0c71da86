package udp

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"vtkit/pkg/config"
	"vtkit/pkg/log"
	"vtkit/pkg/transport"

	kcp "github.com/xtaci/kcp-go/v5"
)

// Listener serves KCP sessions over UDP, one at a time. Sessions
// arriving while a handler runs are closed.
type Listener struct {
	kcpListener *kcp.Listener
	sem         chan struct{} // capacity 1, allows a single active handler
}

// NewListener creates a new UDP listener with KCP on the specified address.
// The deps parameter is optional and can be nil to use default implementations.
func NewListener(addr string, deps *config.Dependencies) (*Listener, error) {
	if _, err := net.ResolveUDPAddr("udp", addr); err != nil {
		return nil, fmt.Errorf("net.ResolveUDPAddr(udp, %s): %w", addr, err)
	}

	packetConnFn := config.GetPacketListenerFunc(deps)
	conn, err := packetConnFn("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen(udp, %s): %w", addr, err)
	}

	kcpListener, err := kcp.ServeConn(nil, 0, 0, conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("kcp.ServeConn(): %w", err)
	}

	l := &Listener{
		kcpListener: kcpListener,
		sem:         make(chan struct{}, 1),
	}
	l.sem <- struct{}{}
	return l, nil
}

// Serve accepts KCP sessions until the listener is closed.
func (l *Listener) Serve(handle transport.Handler) error {
	for {
		kcpConn, err := l.kcpListener.AcceptKCP()
		if err != nil {
			// listener closed is a clean shutdown
			if errors.Is(err, net.ErrClosed) ||
				errors.Is(err, io.ErrClosedPipe) ||
				strings.Contains(err.Error(), "use of closed network connection") {
				return nil
			}
			return fmt.Errorf("AcceptKCP(): %w", err)
		}

		tuneSession(kcpConn)

		select {
		case <-l.sem:
			go func(c *kcp.UDPSession) {
				defer func() {
					_ = c.Close()
					l.sem <- struct{}{}
				}()
				defer func() {
					if r := recover(); r != nil {
						log.ErrorMsg("Handler panic: %v\n", r)
					}
				}()

				log.InfoMsg("New KCP session from %s\n", c.RemoteAddr())

				if err := handle(c); err != nil {
					log.ErrorMsg("Handling connection: %s\n", err)
				}
			}(kcpConn)

		default:
			// already handling one, close the extra session
			_ = kcpConn.Close()
		}
	}
}

// Close stops the listener.
func (l *Listener) Close() error {
	return l.kcpListener.Close()
}

// Addr returns the listener's network address.
func (l *Listener) Addr() net.Addr {
	return l.kcpListener.Addr()
}
