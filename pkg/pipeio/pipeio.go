// Package pipeio copies data bidirectionally between two ReadWriteClosers,
// e.g. a VT device and a network connection or the calling terminal.
package pipeio

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Pipe copies in both directions between rwc1 and rwc2 until one side
// fails or ctx is cancelled. Both sides are closed before Pipe returns, so
// blocked reads get unstuck. Copy errors are reported through logfunc.
func Pipe(ctx context.Context, rwc1 io.ReadWriteCloser, rwc2 io.ReadWriteCloser, logfunc func(error)) {
	var wg sync.WaitGroup
	var o sync.Once

	closeBoth := func() {
		rwc1.Close()
		rwc2.Close()
	}

	done := make(chan struct{})

	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := io.Copy(rwc1, rwc2); err != nil {
			logfunc(fmt.Errorf("io.Copy(rwc1, rwc2): %s", err))
		}
		o.Do(closeBoth)
	}()

	go func() {
		defer wg.Done()
		if _, err := io.Copy(rwc2, rwc1); err != nil {
			logfunc(fmt.Errorf("io.Copy(rwc2, rwc1): %s", err))
		}
		o.Do(closeBoth)
	}()

	go func() {
		select {
		case <-ctx.Done():
			o.Do(closeBoth)
		case <-done:
		}
	}()

	wg.Wait()
	close(done)
}
