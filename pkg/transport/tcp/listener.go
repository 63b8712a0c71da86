package tcp

import (
	"fmt"
	"net"
	"sync"

	"vtkit/pkg/config"
	"vtkit/pkg/log"
	"vtkit/pkg/transport"
)

// Listener serves TCP connections one at a time. Extra connections
// arriving while a handler runs are closed immediately.
type Listener struct {
	nl net.Listener

	rdy bool // whether we can handle a new connection
	mu  sync.Mutex
}

// NewListener creates a TCP listener on the specified address.
func NewListener(addr string, deps *config.Dependencies) (*Listener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.ResolveTCPAddr(tcp, %s): %s", addr, err)
	}

	listenFn := config.GetTCPListenerFunc(deps)
	nl, err := listenFn("tcp", tcpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen(tcp, %s): %s", addr, err)
	}

	return &Listener{
		nl:  nl,
		rdy: true,
	}, nil
}

// Serve accepts connections until the listener is closed.
func (l *Listener) Serve(handle transport.Handler) error {
	for {
		conn, err := l.nl.Accept()
		if err != nil {
			return fmt.Errorf("Accept(): %s", err)
		}

		l.mu.Lock()
		if !l.rdy {
			conn.Close() // we already handle a connection
			l.mu.Unlock()
			continue
		}
		l.rdy = false
		l.mu.Unlock()

		go func() {
			defer func() {
				l.mu.Lock()
				l.rdy = true
				l.mu.Unlock()
			}()

			log.InfoMsg("New TCP connection from %s\n", conn.RemoteAddr())

			if err := handle(conn); err != nil {
				log.ErrorMsg("Handling connection: %s\n", err)
			}
		}()
	}
}

// Close stops the listener.
func (l *Listener) Close() error {
	return l.nl.Close()
}

// Addr returns the listener's network address.
func (l *Listener) Addr() net.Addr {
	return l.nl.Addr()
}
