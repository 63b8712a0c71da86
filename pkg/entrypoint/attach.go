package entrypoint

import (
	"context"
	"fmt"

	"vtkit/pkg/config"
	"vtkit/pkg/log"
	"vtkit/pkg/pipeio"
	"vtkit/pkg/terminal"
	"vtkit/pkg/vt"
)

// Attach mirrors the calling terminal onto VT n in raw mode, so
// keystrokes go to the VT and its output appears here.
func Attach(parent context.Context, cfg *config.Shared, n int) error {
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

	term, err := console.OpenVT(n)
	if err != nil {
		return fmt.Errorf("opening tty%d: %w", n, err)
	}
	defer term.Close()

	return terminal.PipeRaw(ctx, pipeio.NewDevice(term, term.File()), cfg.Verbose)
}
