// Package tcp implements the transport interfaces over plain TCP.
package tcp

import (
	"context"
	"fmt"
	"net"

	"vtkit/pkg/config"
)

// Dialer implements the transport.Dialer interface for TCP connections.
type Dialer struct {
	tcpAddr *net.TCPAddr
	dialFn  config.TCPDialerFunc
}

// NewDialer creates a new TCP dialer for the specified address.
// The deps parameter is optional and can be nil to use default implementations.
func NewDialer(addr string, deps *config.Dependencies) (*Dialer, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.ResolveTCPAddr(tcp, %s): %s", addr, err)
	}

	return &Dialer{
		tcpAddr: tcpAddr,
		dialFn:  config.GetTCPDialerFunc(deps),
	}, nil
}

// Dial establishes a TCP connection to the configured address with keep-alive enabled.
func (d *Dialer) Dial(ctx context.Context) (net.Conn, error) {
	conn, err := d.dialFn("tcp", nil, d.tcpAddr)
	if err != nil {
		return nil, fmt.Errorf("net.DialTCP(tcp, %s): %s", d.tcpAddr.String(), err)
	}

	if tc, ok := conn.(*net.TCPConn); ok {
		tc.SetKeepAlive(true)
	}
	return conn, nil
}
