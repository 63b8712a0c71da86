package net

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"

	"vtkit/pkg/config"
	"vtkit/pkg/crypto"
	"vtkit/pkg/format"
	"vtkit/pkg/log"
	"vtkit/pkg/transport"
	"vtkit/pkg/transport/tcp"
	"vtkit/pkg/transport/udp"
	"vtkit/pkg/transport/ws"
)

// ListenAndServe listens on the configured address and hands accepted
// connections to handler, after the TLS upgrade if one is configured.
// It blocks until ctx is cancelled or the listener fails.
func ListenAndServe(ctx context.Context, cfg *config.Shared, handler transport.Handler) error {
	addr := format.Addr(cfg.Host, cfg.Port)

	l, err := newListener(addr, cfg)
	if err != nil {
		return fmt.Errorf("newListener(%s): %w", addr, err)
	}

	if cfg.SSL {
		handler, err = wrapWithTLS(handler, cfg)
		if err != nil {
			l.Close()
			return fmt.Errorf("wrapWithTLS: %w", err)
		}
	}

	log.InfoMsg("Listening on %s\n", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Serve(handler)
	}()

	select {
	case <-ctx.Done():
		l.Close()
		<-errCh
		return nil
	case err := <-errCh:
		l.Close()
		return err
	}
}

func newListener(addr string, cfg *config.Shared) (transport.Listener, error) {
	switch cfg.Protocol {
	case config.ProtoWS, config.ProtoWSS:
		return ws.NewListener(addr, cfg.Protocol == config.ProtoWSS, cfg.Deps)
	case config.ProtoUDP:
		return udp.NewListener(addr, cfg.Deps)
	default:
		return tcp.NewListener(addr, cfg.Deps)
	}
}

// wrapWithTLS returns a handler that performs the server-side TLS
// upgrade before delegating to handler.
func wrapWithTLS(handler transport.Handler, cfg *config.Shared) (transport.Handler, error) {
	caCert, cert, err := crypto.GenerateCertificates(cfg.GetKey())
	if err != nil {
		return nil, fmt.Errorf("crypto.GenerateCertificates(key): %w", err)
	}

	tlsCfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS13,
	}
	if cfg.GetKey() != "" {
		tlsCfg.ClientAuth = tls.RequireAndVerifyClientCert
		tlsCfg.ClientCAs = caCert
	}

	return func(conn net.Conn) error {
		tlsConn := tls.Server(conn, tlsCfg)
		if err := handshake(tlsConn, cfg.Timeout); err != nil {
			tlsConn.Close()
			return fmt.Errorf("TLS handshake: %w", err)
		}

		return handler(tlsConn)
	}, nil
}
