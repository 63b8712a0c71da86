// Package transport defines the interfaces the console sharing layer
// uses to move bytes, with tcp, ws and udp implementations in
// subpackages.
package transport

import (
	"context"
	"net"
)

// Handler processes an incoming connection. The connection is closed
// after the handler returns.
type Handler func(net.Conn) error

// Dialer establishes outbound connections.
type Dialer interface {
	Dial(ctx context.Context) (net.Conn, error)
}

// Listener accepts connections and hands them to a Handler. Serve
// blocks until the listener is closed.
type Listener interface {
	Serve(handle Handler) error
	Close() error
}
