//go:build !linux && !windows
// +build !linux,!windows

package mocks

// termiosIoctl is a no-op off linux; the caller falls through to ENOTTY.
func (k *MockKernel) termiosIoctl(fd uintptr, req uint, arg uintptr) (bool, error) {
	return false, nil
}
