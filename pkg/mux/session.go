// Package mux multiplexes a share connection into control and data
// channels over a single yamux session. The client side opens channels,
// the host side accepts them, always in the same order: host-to-client
// control first, client-to-host control second, then the data channel.
package mux

import (
	"io"
	stdlog "log"
	"net"

	"github.com/hashicorp/yamux"
)

type session struct {
	mux *yamux.Session

	ctlHostToClient net.Conn
	ctlClientToHost net.Conn
}

func (s *session) Close() error {
	if s.ctlHostToClient != nil {
		s.ctlHostToClient.Close() // best effort
	}

	if s.ctlClientToHost != nil {
		s.ctlClientToHost.Close() // best effort
	}

	return s.mux.Close()
}

func muxConfig() *yamux.Config {
	cfg := yamux.DefaultConfig()

	cfg.LogOutput = nil
	cfg.Logger = stdlog.New(io.Discard, "", stdlog.LstdFlags) // discard all console logging in yamux

	return cfg
}
