//go:build windows
// +build windows

package vt

import "syscall"

// Placeholder numbers so the package compiles; every kernel call fails with
// ErrUnsupported on windows before these are ever used.
const (
	relSignal = syscall.Signal(0x0a)
	acqSignal = syscall.Signal(0x0c)
)
