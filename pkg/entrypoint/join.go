package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"vtkit/pkg/config"
	"vtkit/pkg/log"
	"vtkit/pkg/net"
	"vtkit/pkg/share"
)

// Join connects to a share and attaches the local terminal to it.
func Join(parent context.Context, cfg *config.Shared, jCfg *config.Join) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if cfg.Verbose {
		log.EnableVerbose()
	}

	conn, err := net.Dial(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting: %w", err)
	}

	c, err := share.NewClient(ctx, cfg, jCfg, conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating client handler: %w", err)
	}

	var closeOnce sync.Once
	closeClient := func() {
		closeOnce.Do(func() {
			_ = c.Close()
			_ = conn.Close()
		})
	}
	defer closeClient()

	errCh := make(chan error, 1)
	go func() { errCh <- c.Handle() }()

	select {
	case <-ctx.Done():
		closeClient()
		err := <-errCh
		if err == nil || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("handling after cancel: %w", err)

	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("handling: %w", err)
		}
		return nil
	}
}
