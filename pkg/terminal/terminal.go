package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"vtkit/pkg/log"
	"vtkit/pkg/pipeio"

	"golang.org/x/term"
)

// Pipe connects stdio to rwc until one side closes or ctx is cancelled.
func Pipe(ctx context.Context, rwc io.ReadWriteCloser, verbose bool) {
	pipeio.Pipe(ctx, pipeio.NewStdio(), rwc, func(err error) {
		if verbose {
			log.ErrorMsg("Pipe(stdio, rwc): %s\n", err)
		}
	})
}

// PipeRaw is Pipe with the local terminal in raw mode, so control
// sequences pass through to the other end unmangled. When stdin is
// not a terminal it degrades to a plain Pipe.
func PipeRaw(ctx context.Context, rwc io.ReadWriteCloser, verbose bool) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		Pipe(ctx, rwc, verbose)
		return nil
	}

	log.InfoMsg("Enabling raw mode\n")
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("setting terminal to raw mode: %s", err)
	}

	defer func() {
		log.InfoMsg("Disabling raw mode\n")
		term.Restore(int(os.Stdin.Fd()), oldState)
		fmt.Printf("\033[2K\r") // clear line
	}()

	Pipe(ctx, rwc, verbose)
	return nil
}
