//go:build !linux
// +build !linux

package vt

// Echo enables or disables echoing of input on this terminal.
func (v *VT) Echo(on bool) error {
	return ErrUnsupported
}
