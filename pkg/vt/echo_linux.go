//go:build linux
// +build linux

package vt

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Echo enables or disables echoing of input on this terminal.
func (v *VT) Echo(on bool) error {
	var tio unix.Termios
	if _, err := v.console.ioctl(v.f.Fd(), unix.TCGETS, uintptr(unsafe.Pointer(&tio))); err != nil {
		return &IoError{Op: "tcgets", Num: v.num, Err: err}
	}

	if on {
		tio.Lflag |= unix.ECHO
	} else {
		tio.Lflag &^= unix.ECHO
	}

	if _, err := v.console.ioctl(v.f.Fd(), unix.TCSETS, uintptr(unsafe.Pointer(&tio))); err != nil {
		return &IoError{Op: "tcsets", Num: v.num, Err: err}
	}
	return nil
}
