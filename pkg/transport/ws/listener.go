package ws

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"vtkit/pkg/config"
	"vtkit/pkg/crypto"
	"vtkit/pkg/log"
	"vtkit/pkg/transport"

	"github.com/coder/websocket"
)

// Listener serves WebSocket connections, one at a time. Connections
// arriving while a handler runs are rejected with HTTP 503.
type Listener struct {
	nl  net.Listener
	srv *http.Server

	rdy bool
	mu  sync.Mutex
}

// NewListener creates a WebSocket listener on the specified address.
// With useTLS the transport runs over HTTPS with an ephemeral
// self-signed certificate; peer verification happens at the
// application layer.
func NewListener(addr string, useTLS bool, deps *config.Dependencies) (*Listener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.ResolveTCPAddr(tcp, %s): %w", addr, err)
	}

	listenFn := config.GetTCPListenerFunc(deps)
	nl, err := listenFn("tcp", tcpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen(tcp, %s): %w", addr, err)
	}

	if useTLS {
		tlsNl, err := wrapWithTLS(nl)
		if err != nil {
			nl.Close()
			return nil, fmt.Errorf("wrap with TLS: %w", err)
		}
		nl = tlsNl
	}

	return &Listener{
		nl:  nl,
		rdy: true,
	}, nil
}

// wrapWithTLS wraps a listener with TLS using an ephemeral certificate.
func wrapWithTLS(nl net.Listener) (net.Listener, error) {
	_, cert, err := crypto.GenerateCertificates("")
	if err != nil {
		return nil, fmt.Errorf("crypto.GenerateCertificates(): %w", err)
	}

	tlsCfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS13,
	}

	return tls.NewListener(nl, tlsCfg), nil
}

// Serve upgrades incoming HTTP requests to WebSocket and hands the
// resulting connections to handle. It blocks until Close.
func (l *Listener) Serve(handle transport.Handler) error {
	l.srv = &http.Server{
		Handler: l.upgradeHandler(handle),

		// timeouts for long-lived tunnel connections
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       0,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	err := l.srv.Serve(l.nl)
	if err == nil || errors.Is(err, http.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return fmt.Errorf("http.Server.Serve(): %w", err)
}

func (l *Listener) upgradeHandler(handle transport.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l.mu.Lock()
		if !l.rdy {
			l.mu.Unlock()
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		l.rdy = false
		l.mu.Unlock()

		defer func() {
			l.mu.Lock()
			l.rdy = true
			l.mu.Unlock()
		}()

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols: []string{"bin"},
		})
		if err != nil {
			log.ErrorMsg("websocket.Accept(): %s\n", err)
			return
		}

		conn := websocket.NetConn(r.Context(), c, websocket.MessageBinary)
		defer conn.Close()

		log.InfoMsg("New WS connection from %s\n", conn.RemoteAddr())

		if err := handle(conn); err != nil {
			log.ErrorMsg("Handling connection: %s\n", err)
		}
	}
}

// Close stops the listener.
func (l *Listener) Close() error {
	if l.srv != nil {
		return l.srv.Close()
	}
	return l.nl.Close()
}

// Addr returns the listener's network address.
func (l *Listener) Addr() net.Addr {
	return l.nl.Addr()
}
