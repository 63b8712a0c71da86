// Package udp implements the transport interfaces over UDP, using KCP
// for reliable in-order delivery.
package udp

import (
	"context"
	"fmt"
	"net"

	"vtkit/pkg/config"

	kcp "github.com/xtaci/kcp-go/v5"
)

// Dialer implements the transport.Dialer interface for UDP connections with KCP.
type Dialer struct {
	remoteAddr   *net.UDPAddr
	packetConnFn config.PacketListenerFunc
}

// NewDialer creates a new UDP dialer for the specified address.
// The deps parameter is optional and can be nil to use default implementations.
func NewDialer(addr string, deps *config.Dependencies) (*Dialer, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.ResolveUDPAddr(udp, %s): %w", addr, err)
	}

	return &Dialer{
		remoteAddr:   udpAddr,
		packetConnFn: config.GetPacketListenerFunc(deps),
	}, nil
}

// Dial establishes a KCP session over UDP to the configured address.
func (d *Dialer) Dial(ctx context.Context) (net.Conn, error) {
	conn, err := d.packetConnFn("udp", ":0")
	if err != nil {
		return nil, fmt.Errorf("net.ListenPacket(udp, :0): %w", err)
	}

	kcpConn, err := kcp.NewConn(d.remoteAddr.String(), nil, 0, 0, conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("kcp.NewConn(%s): %w", d.remoteAddr.String(), err)
	}

	tuneSession(kcpConn)

	return kcpConn, nil
}

// tuneSession configures a KCP session for interactive traffic: fast
// resend, no congestion control, stream mode, large windows.
func tuneSession(s *kcp.UDPSession) {
	s.SetNoDelay(1, 10, 2, 1)
	s.SetStreamMode(true)
	s.SetWindowSize(1024, 1024)
}
