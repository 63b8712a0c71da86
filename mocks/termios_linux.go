//go:build linux
// +build linux

package mocks

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// termiosIoctl emulates TCGETS/TCSETS with a per-terminal local flag
// word. Echo starts out enabled, like a freshly opened terminal.
// Callers hold k.mu.
func (k *MockKernel) termiosIoctl(fd uintptr, req uint, arg uintptr) (bool, error) {
	num, ok := k.files[fd]
	if !ok {
		return false, nil
	}

	switch req {
	case unix.TCGETS:
		tio := (*unix.Termios)(unsafe.Pointer(arg))
		*tio = unix.Termios{Lflag: k.lflagLocked(num)}
		return true, nil

	case unix.TCSETS:
		tio := (*unix.Termios)(unsafe.Pointer(arg))
		k.lflags[num] = tio.Lflag
		return true, nil
	}

	return false, nil
}

func (k *MockKernel) lflagLocked(num int) uint32 {
	if flags, ok := k.lflags[num]; ok {
		return flags
	}
	return unix.ECHO
}

// EchoEnabled reports whether the fake terminal currently echoes input.
func (k *MockKernel) EchoEnabled(n int) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.lflagLocked(n)&unix.ECHO != 0
}
