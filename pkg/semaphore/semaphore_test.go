package semaphore

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()

	sem := New(5, 10*time.Second)
	if sem == nil {
		t.Fatal("New() returned nil")
	}
	if sem.timeout != 10*time.Second {
		t.Errorf("timeout = %v; want 10s", sem.timeout)
	}
	if cap(sem.sem) != 5 {
		t.Errorf("capacity = %d; want 5", cap(sem.sem))
	}
	if len(sem.sem) != 5 {
		t.Errorf("initial length = %d; want 5", len(sem.sem))
	}
}

func TestAcquireRelease(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		capacity int
		timeout  time.Duration
	}{
		{"capacity-1", 1, 1 * time.Second},
		{"capacity-5", 5, 1 * time.Second},
		{"no-timeout", 3, 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sem := New(tc.capacity, tc.timeout)
			ctx := context.Background()

			for i := 0; i < tc.capacity; i++ {
				if err := sem.Acquire(ctx); err != nil {
					t.Fatalf("Acquire() %d failed: %v", i, err)
				}
			}

			if len(sem.sem) != 0 {
				t.Errorf("after acquiring all slots, len = %d; want 0", len(sem.sem))
			}

			for i := 0; i < tc.capacity; i++ {
				sem.Release()
			}

			if len(sem.sem) != tc.capacity {
				t.Errorf("after releasing all slots, len = %d; want %d", len(sem.sem), tc.capacity)
			}
		})
	}
}

func TestAcquireTimeout(t *testing.T) {
	t.Parallel()

	sem := New(1, 50*time.Millisecond)
	ctx := context.Background()

	if err := sem.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire() failed: %v", err)
	}

	start := time.Now()
	err := sem.Acquire(ctx)
	if err == nil {
		t.Fatal("second Acquire() succeeded; want timeout error")
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("second Acquire() returned after %v; want at least ~50ms", elapsed)
	}
}

func TestAcquireContextCancel(t *testing.T) {
	t.Parallel()

	sem := New(1, 0) // no timeout: only ctx can interrupt
	ctx, cancel := context.WithCancel(context.Background())

	if err := sem.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire() failed: %v", err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if err := sem.Acquire(ctx); err != context.Canceled {
		t.Errorf("Acquire() = %v; want context.Canceled", err)
	}
}

func TestSerialization(t *testing.T) {
	t.Parallel()

	sem := New(1, 0)
	ctx := context.Background()

	var mu sync.Mutex
	inFlight := 0
	maxInFlight := 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := sem.Acquire(ctx); err != nil {
				t.Errorf("Acquire() failed: %v", err)
				return
			}
			defer sem.Release()

			mu.Lock()
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxInFlight != 1 {
		t.Errorf("max concurrent holders = %d; want 1", maxInFlight)
	}
}

func TestNilSemaphore(t *testing.T) {
	t.Parallel()

	var sem *SwitchSemaphore

	if err := sem.Acquire(context.Background()); err != nil {
		t.Errorf("nil Acquire() = %v; want nil", err)
	}
	sem.Release() // must not panic
}
