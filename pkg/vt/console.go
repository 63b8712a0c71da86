// Package vt manages Linux virtual terminals: allocating VTs, switching the
// foreground VT and negotiating the kernel's switch handshake.
//
// A Console is a handle to the console device node and allocates VTs; a VT
// wraps one /dev/ttyN device. Both own their file descriptor exclusively and
// release it on Close. Closing never deallocates the kernel's VT slot, that
// is a separate explicit call.
package vt

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"unsafe"

	"vtkit/pkg/config"
)

const blankParamPath = "/sys/module/kernel/parameters/consoleblank"

// Console is a handle to the console device file, usually /dev/console.
// It queries and allocates virtual terminals.
type Console struct {
	f *os.File

	ioctl    config.IoctlFunc
	openFile config.OpenFileFunc
	readFile config.ReadFileFunc
	deps     *config.Dependencies
}

// OpenConsole opens a handle to the default console device.
func OpenConsole() (*Console, error) {
	return OpenConsoleAt(config.DefaultConsolePath, nil)
}

// OpenConsoleAt opens a handle to the console device at path. The deps
// parameter is optional and can be nil to use the real kernel.
func OpenConsoleAt(path string, deps *config.Dependencies) (*Console, error) {
	open := config.GetOpenFileFunc(deps)

	f, err := open(path, os.O_RDWR, 0)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	return &Console{
		f:        f,
		ioctl:    getIoctlFunc(deps),
		openFile: open,
		readFile: config.GetReadFileFunc(deps),
		deps:     deps,
	}, nil
}

func getIoctlFunc(deps *config.Dependencies) config.IoctlFunc {
	if deps != nil && deps.Ioctl != nil {
		return deps.Ioctl
	}
	return sysIoctl
}

// Close releases the console descriptor. VTs opened through this console
// keep their own descriptors and stay usable.
func (c *Console) Close() error {
	return c.f.Close()
}

// State returns the kernel's VT state: foreground VT number and the in-use
// bitmask covering the first 16 VTs.
func (c *Console) State() (Stat, error) {
	var st Stat
	if _, err := c.ioctl(c.f.Fd(), VT_GETSTATE, uintptr(unsafe.Pointer(&st))); err != nil {
		return Stat{}, fmt.Errorf("vt_getstate: %w", err)
	}
	return st, nil
}

// CurrentVT returns the number of the foreground virtual terminal.
func (c *Console) CurrentVT() (int, error) {
	st, err := c.State()
	if err != nil {
		return 0, err
	}
	return int(st.Active), nil
}

// NewVT allocates a new virtual terminal. The kernel picks the lowest
// unallocated number. Switch to it with VT.Switch or Console.SwitchTo.
func (c *Console) NewVT() (*VT, error) {
	return c.NewVTWithMinimum(0)
}

// NewVTWithMinimum allocates a new virtual terminal with a number greater
// than or equal to min. Systems usually have at most 16 or 64 VTs, so keep
// the threshold modest.
func (c *Console) NewVTWithMinimum(min int) (*VT, error) {
	n, err := c.openQry()
	if err != nil {
		return nil, &AllocationError{Min: min, Err: err}
	}

	if n >= min {
		return c.OpenVT(n)
	}

	// Fast path: the VT_GETSTATE mask reports the state of the first 16
	// VTs, so the first free number >= min can be read off directly.
	st, err := c.State()
	if err != nil {
		return nil, &AllocationError{Min: min, Err: err}
	}
	for n = min; n < 16; n++ {
		if st.State&(1<<uint(n)) == 0 {
			return c.OpenVT(n)
		}
	}

	// Slow path: all of the first 16 VTs are occupied. The kernel only ever
	// reports the single lowest free VT, so hold each one open until the
	// reported number reaches min. This should never happen in practice.
	var held []*os.File
	defer func() {
		for _, f := range held {
			f.Close()
		}
	}()

	first := 0
	var file *os.File
	for first < min {
		first, err = c.openQry()
		if err != nil {
			return nil, &AllocationError{Min: min, Err: err}
		}
		file, err = c.openFile(ttyPath(first), os.O_RDWR, 0)
		if err != nil {
			return nil, &AllocationError{Min: min, Err: err}
		}
		held = append(held, file)
	}

	held = held[:len(held)-1] // the last open becomes the VT's own handle
	return c.newVTWithFile(first, file), nil
}

// OpenVT opens the virtual terminal with the given number.
func (c *Console) OpenVT(n int) (*VT, error) {
	f, err := c.openFile(ttyPath(n), os.O_RDWR, 0)
	if err != nil {
		return nil, &AllocationError{Err: err}
	}
	return c.newVTWithFile(n, f), nil
}

func (c *Console) newVTWithFile(n int, f *os.File) *VT {
	return &VT{
		console: c,
		f:       f,
		num:     n,
	}
}

// SwitchTo makes the VT with the given number the foreground terminal and
// blocks until the kernel confirms the switch.
func (c *Console) SwitchTo(n int) error {
	return switchTo(c, n, nil)
}

// LockSwitching enables or disables VT switching (usually done with
// Ctrl+Alt+Fn).
func (c *Console) LockSwitching(lock bool) error {
	req := uint(VT_LOCKSWITCH)
	if !lock {
		req = VT_UNLOCKSWITCH
	}
	if _, err := c.ioctl(c.f.Fd(), req, 1); err != nil {
		return fmt.Errorf("vt_lockswitch(%v): %w", lock, err)
	}
	return nil
}

// DisallocateVT releases the kernel resources of the VT with the given
// number. The VT must not be open or foreground.
func (c *Console) DisallocateVT(n int) error {
	if _, err := c.ioctl(c.f.Fd(), VT_DISALLOCATE, uintptr(n)); err != nil {
		return fmt.Errorf("vt_disallocate(%d): %w", n, err)
	}
	return nil
}

// BlankTimer returns the console blank timer in seconds. 0 means the timer
// is disabled. Change it with VT.SetBlankTimer.
func (c *Console) BlankTimer() (uint, error) {
	raw, err := c.readFile(blankParamPath)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", blankParamPath, err)
	}
	v, err := strconv.ParseUint(string(bytes.TrimSpace(raw)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", blankParamPath, err)
	}
	return uint(v), nil
}

// openQry asks the kernel for the lowest free VT number.
func (c *Console) openQry() (int, error) {
	var n int32
	if _, err := c.ioctl(c.f.Fd(), VT_OPENQRY, uintptr(unsafe.Pointer(&n))); err != nil {
		return 0, fmt.Errorf("vt_openqry: %w", err)
	}
	if n < 0 {
		return 0, fmt.Errorf("vt_openqry: no free VT")
	}
	return int(n), nil
}

func ttyPath(n int) string {
	return fmt.Sprintf("/dev/tty%d", n)
}
