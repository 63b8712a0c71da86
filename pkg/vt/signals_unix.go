//go:build !windows
// +build !windows

package vt

import "syscall"

// Signals the kernel is asked to deliver for the switch handshake, wired in
// via VT_SETMODE. SIGUSR1/SIGUSR2 are the conventional choice.
const (
	relSignal = syscall.SIGUSR1
	acqSignal = syscall.SIGUSR2
)
