//go:build !linux
// +build !linux

package vt

func sysIoctl(fd uintptr, req uint, arg uintptr) (int, error) {
	return 0, ErrUnsupported
}
