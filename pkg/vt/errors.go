package vt

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned on platforms without kernel virtual terminals.
var ErrUnsupported = errors.New("virtual terminals require linux")

// OpenError reports a failure to open a console or VT device node.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("opening %s: %s", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// AllocationError reports that no VT could be allocated, either because the
// kernel has no free slot or the post-allocation open failed.
type AllocationError struct {
	Min int // requested minimum number, 0 if none
	Err error
}

func (e *AllocationError) Error() string {
	if e.Min > 0 {
		return fmt.Sprintf("allocating VT (min %d): %s", e.Min, e.Err)
	}
	return fmt.Sprintf("allocating VT: %s", e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

// SwitchError reports a rejected or failed VT switch.
type SwitchError struct {
	Num int
	Err error
}

func (e *SwitchError) Error() string {
	return fmt.Sprintf("switching to VT %d: %s", e.Num, e.Err)
}

func (e *SwitchError) Unwrap() error { return e.Err }

// IoError reports a read/write or control failure on an open VT.
type IoError struct {
	Op  string
	Num int
	Err error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s on VT %d: %s", e.Op, e.Num, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }
