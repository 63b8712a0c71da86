package vt

import (
	"fmt"
	"io"
	"os"
	"unsafe"
)

// VT is an allocated virtual terminal. It owns the descriptor to its
// /dev/ttyN device node and releases it on Close. Read and Write pass
// through to the device without buffering or framing.
type VT struct {
	console *Console
	f       *os.File
	num     int
}

// Number returns the VT number N of this terminal's /dev/ttyN device.
func (v *VT) Number() int {
	return v.num
}

// File exposes the underlying device file, e.g. for piping.
func (v *VT) File() *os.File {
	return v.f
}

// Switch makes this VT the foreground terminal. The VT is put under
// process-controlled switching first, so the kernel negotiates release and
// acquisition with this process from here on. Switch blocks until the
// kernel confirms the VT is foreground.
func (v *VT) Switch() error {
	return switchTo(v.console, v.num, v)
}

// Read reads bytes produced by the VT's kernel input source. It blocks
// until data is available or the device is closed.
func (v *VT) Read(p []byte) (int, error) {
	n, err := v.f.Read(p)
	if err != nil && err != io.EOF {
		return n, &IoError{Op: "read", Num: v.num, Err: err}
	}
	return n, err
}

// Write sends bytes to the VT's kernel output sink.
func (v *VT) Write(p []byte) (int, error) {
	n, err := v.f.Write(p)
	if err != nil {
		return n, &IoError{Op: "write", Num: v.num, Err: err}
	}
	return n, nil
}

// Close releases this VT's descriptor. The kernel's VT slot stays
// allocated; use Console.DisallocateVT to release it explicitly.
func (v *VT) Close() error {
	coord.forget(v)
	return v.f.Close()
}

// Clear erases the terminal's content and homes the cursor.
func (v *VT) Clear() error {
	if _, err := v.Write([]byte("\x1b[H\x1b[2J")); err != nil {
		return err
	}
	return nil
}

// Blank blanks or unblanks this terminal's screen.
func (v *VT) Blank(blank bool) error {
	op := int32(TIOCL_BLANKSCREEN)
	if !blank {
		op = TIOCL_UNBLANKSCREEN
	}
	if _, err := v.console.ioctl(v.f.Fd(), TIOCLINUX, uintptr(unsafe.Pointer(&op))); err != nil {
		return &IoError{Op: "blank", Num: v.num, Err: err}
	}
	return nil
}

// SetBlankTimer sets the console blank interval in minutes. 0 disables
// blanking. Read the current value with Console.BlankTimer.
func (v *VT) SetBlankTimer(minutes uint) error {
	if _, err := v.Write([]byte(fmt.Sprintf("\x1b[9;%d]", minutes))); err != nil {
		return err
	}
	return nil
}
