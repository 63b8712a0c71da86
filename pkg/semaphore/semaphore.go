// Package semaphore provides a timeout-aware slot semaphore. vtkit uses a
// one-slot semaphore to keep at most one VT switch negotiation in flight
// per process; the transports use it to limit concurrent connections.
package semaphore

import (
	"context"
	"fmt"
	"time"
)

// SwitchSemaphore controls concurrent access with optional timeout support.
// It uses a buffered channel to limit the number of concurrent operations.
type SwitchSemaphore struct {
	sem     chan struct{}
	timeout time.Duration
}

// New creates a semaphore with capacity n. All n slots start available.
// A timeout <= 0 means Acquire waits indefinitely (or until ctx cancels).
func New(n int, timeout time.Duration) *SwitchSemaphore {
	sem := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		sem <- struct{}{}
	}
	return &SwitchSemaphore{sem: sem, timeout: timeout}
}

// Acquire takes a slot. It returns an error if the timeout expires or the
// context is cancelled first. A nil semaphore is a no-op.
func (s *SwitchSemaphore) Acquire(ctx context.Context) error {
	if s == nil {
		return nil
	}

	waitCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	select {
	case <-s.sem:
		return nil
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("timeout acquiring slot after %v", s.timeout)
	}
}

// Release returns a slot. A nil semaphore is a no-op.
func (s *SwitchSemaphore) Release() {
	if s == nil {
		return
	}
	s.sem <- struct{}{}
}
