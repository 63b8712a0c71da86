//go:build linux
// +build linux

package vt

import (
	"golang.org/x/sys/unix"
)

// sysIoctl issues an ioctl, retrying on EINTR. The result value of the
// syscall is returned because some VT requests report data through it.
func sysIoctl(fd uintptr, req uint, arg uintptr) (int, error) {
	for {
		r, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(req), arg)
		if errno == unix.EINTR {
			continue
		}
		if errno != 0 {
			return 0, errno
		}
		return int(r), nil
	}
}
