package vt

import "vtkit/pkg/semaphore"

// ResetCoordinator replaces the process-wide switch coordinator so tests
// can re-register signal delivery with a fresh fake kernel.
func ResetCoordinator() {
	coord = &coordinator{
		slot: semaphore.New(1, 0),
	}
}
