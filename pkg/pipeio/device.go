package pipeio

import (
	"io"
	"os"

	"github.com/muesli/cancelreader"
)

// Device wraps a terminal device handle so a blocked read can be
// interrupted by Close. A read on a device fd sits in a blocking
// syscall outside the runtime's poller, where closing the file does
// not reach it.
type Device struct {
	rwc    io.ReadWriteCloser
	reader cancelreader.CancelReader
}

// NewDevice creates a Device over rwc, reading through f. When the
// platform offers no cancelable reading, reads go straight to rwc.
func NewDevice(rwc io.ReadWriteCloser, f *os.File) *Device {
	out := &Device{rwc: rwc}

	reader, err := cancelreader.NewReader(f)
	if err != nil {
		return out
	}

	out.reader = reader
	return out
}

// Read reads from the device, through the cancelable reader if available.
func (d *Device) Read(p []byte) (n int, err error) {
	if d.reader != nil {
		return d.reader.Read(p)
	}

	return d.rwc.Read(p)
}

// Write writes to the device.
func (d *Device) Write(p []byte) (n int, err error) {
	return d.rwc.Write(p)
}

// Close cancels any pending read, then closes the device.
func (d *Device) Close() error {
	if d.reader != nil {
		d.reader.Cancel()
	}
	return d.rwc.Close()
}
