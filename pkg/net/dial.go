// Package net establishes share connections. It picks a transport from
// the configured protocol and optionally upgrades the raw connection
// with application-layer TLS, mutually authenticated when a key is set.
package net

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"time"

	"vtkit/pkg/config"
	"vtkit/pkg/crypto"
	"vtkit/pkg/format"
	"vtkit/pkg/log"
	"vtkit/pkg/transport"
	"vtkit/pkg/transport/tcp"
	"vtkit/pkg/transport/udp"
	"vtkit/pkg/transport/ws"
)

// Dial connects to the configured remote address and applies the TLS
// upgrade if requested. ctx cancels the dial.
func Dial(ctx context.Context, cfg *config.Shared) (net.Conn, error) {
	addr := format.Addr(cfg.Host, cfg.Port)

	log.InfoMsg("Connecting to %s\n", addr)
	log.VerboseMsg("Dialing %s using protocol %s\n", addr, cfg.Protocol)

	d, err := newDialer(addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("NewDialer: %w", err)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	conn, err := d.Dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("Dial(): %w", err)
	}

	if cfg.SSL {
		tlsConn, err := upgradeToTLS(conn, cfg.GetKey(), cfg.Timeout)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("upgradeToTLS: %w", err)
		}
		conn = tlsConn
	}

	return conn, nil
}

func newDialer(addr string, cfg *config.Shared) (transport.Dialer, error) {
	switch cfg.Protocol {
	case config.ProtoWS, config.ProtoWSS:
		return ws.NewDialer(addr, cfg.Protocol), nil
	case config.ProtoUDP:
		return udp.NewDialer(addr, cfg.Deps)
	default:
		return tcp.NewDialer(addr, cfg.Deps)
	}
}

// upgradeToTLS wraps conn in client-side TLS. With a key, both ends
// derive the same CA and verify each other's leaf against it. Hostname
// verification is skipped, the CA match is what authenticates peers.
func upgradeToTLS(conn net.Conn, key string, timeout time.Duration) (net.Conn, error) {
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS13,
		InsecureSkipVerify: true,
	}

	if key != "" {
		caCert, cert, err := crypto.GenerateCertificates(key)
		if err != nil {
			return nil, fmt.Errorf("crypto.GenerateCertificates(key): %w", err)
		}

		cfg.Certificates = []tls.Certificate{cert}
		cfg.VerifyPeerCertificate = func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
			return verifyAgainstCA(caCert, rawCerts)
		}
	}

	tlsConn := tls.Client(conn, cfg)
	if err := handshake(tlsConn, timeout); err != nil {
		return nil, fmt.Errorf("tlsConn.Handshake(): %w", err)
	}

	return tlsConn, nil
}

// verifyAgainstCA verifies the peer certificate chains to our derived
// CA, ignoring SANs.
func verifyAgainstCA(caCert *x509.CertPool, rawCerts [][]byte) error {
	if len(rawCerts) != 1 {
		return fmt.Errorf("unexpected number of rawCerts: %d", len(rawCerts))
	}

	cert, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("x509.ParseCertificate(rawCert): %s", err)
	}

	if _, err := cert.Verify(x509.VerifyOptions{
		Roots: caCert,
	}); err != nil {
		return fmt.Errorf("cert.Verify(caCert): %s", err)
	}

	return nil
}

// handshake runs the TLS handshake under a deadline and clears the
// deadline afterwards so it cannot kill the healthy connection later.
func handshake(tlsConn *tls.Conn, timeout time.Duration) error {
	if timeout > 0 {
		_ = tlsConn.SetDeadline(time.Now().Add(timeout))
		defer tlsConn.SetDeadline(time.Time{})
	}

	return tlsConn.Handshake()
}
