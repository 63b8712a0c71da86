// Package entrypoint provides the entry functions for the operation
// modes of vtctl, separating the flow logic from CLI argument parsing.
package entrypoint

import (
	"context"
	"errors"
	"fmt"
	stdnet "net"
	"os"

	"vtkit/pkg/config"
	"vtkit/pkg/log"
	"vtkit/pkg/net"
	"vtkit/pkg/share"
	"vtkit/pkg/vt"
)

// Share opens or allocates a terminal and serves its byte stream to
// joining clients until ctx is cancelled.
func Share(parent context.Context, cfg *config.Shared, sCfg *config.Share) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if cfg.Verbose {
		log.EnableVerbose()
	}

	console, err := vt.OpenConsoleAt(cfg.Console(), cfg.Deps)
	if err != nil {
		return fmt.Errorf("opening console: %w", err)
	}
	defer console.Close()

	term, err := pickTerminal(console, sCfg)
	if err != nil {
		return fmt.Errorf("picking terminal: %w", err)
	}
	defer term.Close()

	log.InfoMsg("Sharing tty%d\n", term.Number())

	id, err := os.Hostname()
	if err != nil || id == "" {
		id = "vtkit"
	}

	handler := func(conn stdnet.Conn) error {
		h, err := share.NewHost(ctx, cfg, sCfg, console, term.Number(), id, conn)
		if err != nil {
			return fmt.Errorf("creating host handler: %w", err)
		}
		defer h.Close()

		return h.Handle()
	}

	if err := net.ListenAndServe(ctx, cfg, handler); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// pickTerminal resolves the share config to a terminal handle: a fixed
// number if given, otherwise a fresh allocation.
func pickTerminal(console *vt.Console, sCfg *config.Share) (*vt.VT, error) {
	switch {
	case sCfg.VTNum > 0:
		return console.OpenVT(sCfg.VTNum)
	case sCfg.MinVT > 0:
		return console.NewVTWithMinimum(sCfg.MinVT)
	default:
		return console.NewVT()
	}
}
