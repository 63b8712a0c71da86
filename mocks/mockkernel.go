//go:build !windows
// +build !windows

// Package mocks provides mock implementations for testing.
package mocks

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"vtkit/pkg/config"
	"vtkit/pkg/vt"
)

var ttyRe = regexp.MustCompile(`^/dev/tty(\d+)$`)

// MockKernel simulates the kernel's virtual terminal subsystem in memory.
// Terminal nodes are backed by FIFOs so reads block like tty reads do;
// ioctls update the fake VT table. It implements the function types of
// config.Dependencies, so the vt package can be exercised without a
// real console.
type MockKernel struct {
	mu   sync.Mutex
	cond *sync.Cond

	dir       string
	active    int
	allocated map[int]bool
	files     map[uintptr]int // fd -> VT number, -1 for the console
	modes     map[int]vt.ModeInfo
	locked    bool

	requireAck bool
	pending    int  // target of an unfinished switch, 0 if none
	overlapped bool // an activation arrived while another was pending

	relDisp []int // recorded VT_RELDISP arguments, in order

	sigCh chan<- os.Signal

	blankSeconds string // contents of the consoleblank sysfs parameter

	lflags map[int]uint32 // termios local flags per terminal, linux only
}

// NewMockKernel creates a fake kernel with VT 1 allocated and foreground.
func NewMockKernel() (*MockKernel, error) {
	dir, err := os.MkdirTemp("", "mockvt")
	if err != nil {
		return nil, err
	}

	k := &MockKernel{
		dir:          dir,
		active:       1,
		allocated:    map[int]bool{1: true},
		files:        make(map[uintptr]int),
		modes:        make(map[int]vt.ModeInfo),
		blankSeconds: "600\n",
		lflags:       make(map[int]uint32),
	}
	k.cond = sync.NewCond(&k.mu)
	return k, nil
}

// Close removes the backing files. Blocked WaitActive calls are woken up.
func (k *MockKernel) Close() error {
	k.mu.Lock()
	k.cond.Broadcast()
	k.mu.Unlock()
	return os.RemoveAll(k.dir)
}

// Dependencies returns a config.Dependencies wired to this fake kernel.
func (k *MockKernel) Dependencies() *config.Dependencies {
	return &config.Dependencies{
		Ioctl:      k.Ioctl,
		OpenFile:   k.OpenFile,
		ReadFile:   k.ReadFile,
		Notify:     k.Notify,
		StopNotify: k.StopNotify,
	}
}

// RequireAck makes switches to a process-controlled VT hang until the
// acquire signal is acknowledged with VT_RELDISP(VT_ACKACQ), like a kernel
// in VT_PROCESS mode.
func (k *MockKernel) RequireAck(on bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.requireAck = on
}

// Active returns the fake foreground VT number.
func (k *MockKernel) Active() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.active
}

// Overlapped reports whether an activation arrived while another switch
// negotiation was still pending.
func (k *MockKernel) Overlapped() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.overlapped
}

// Allocate marks VT n as in use, as if another process had opened it.
func (k *MockKernel) Allocate(n int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.allocated[n] = true
}

// RelDispCalls returns the recorded VT_RELDISP arguments in call order.
func (k *MockKernel) RelDispCalls() []int {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]int, len(k.relDisp))
	copy(out, k.relDisp)
	return out
}

// BackingPath returns the FIFO backing /dev/ttyN.
func (k *MockKernel) BackingPath(n int) string {
	return filepath.Join(k.dir, fmt.Sprintf("tty%d", n))
}

// InjectInput makes data appear on VT n, as if typed on it. The VT must
// be open.
func (k *MockKernel) InjectInput(n int, data []byte) error {
	fd, err := unix.Open(k.BackingPath(n), unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("open tty%d for input: %w", n, err)
	}
	defer unix.Close(fd)

	if _, err := unix.Write(fd, data); err != nil {
		return fmt.Errorf("inject input on tty%d: %w", n, err)
	}
	return nil
}

// DrainOutput returns whatever is currently buffered on VT n, without
// blocking. Empty means nothing has been written since the last drain.
func (k *MockKernel) DrainOutput(n int) ([]byte, error) {
	fd, err := unix.Open(k.BackingPath(n), unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open tty%d for output: %w", n, err)
	}
	defer unix.Close(fd)

	buf := make([]byte, 4096)
	m, err := unix.Read(fd, buf)
	if err != nil {
		if err == unix.EAGAIN {
			return nil, nil
		}
		return nil, fmt.Errorf("drain tty%d: %w", n, err)
	}
	if m < 0 {
		m = 0
	}
	return buf[:m], nil
}

// SimulateExternalSwitch acts as if another process activated VT n. If the
// current foreground VT is process-controlled, the release signal is
// delivered and the switch completes only once it is granted.
func (k *MockKernel) SimulateExternalSwitch(n int) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if m, ok := k.modes[k.active]; ok && m.Mode == vt.VT_PROCESS && k.sigCh != nil {
		k.pending = n
		k.sigCh <- syscall.Signal(m.Relsig)
		return
	}
	k.completeSwitch(n)
}

// OpenFile opens a fake device node. /dev/ttyN allocates VT n; any other
// path is treated as the console device.
func (k *MockKernel) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	num := -1
	if m := ttyRe.FindStringSubmatch(name); m != nil {
		num, _ = strconv.Atoi(m[1])
	}

	backing := filepath.Join(k.dir, "console")
	if num >= 0 {
		backing = k.BackingPath(num)
		if _, err := os.Stat(backing); err != nil {
			if err := unix.Mkfifo(backing, 0600); err != nil {
				return nil, err
			}
		}
	}

	// O_RDWR on a FIFO never blocks on open and never reads EOF, which
	// mirrors how a tty behaves.
	f, err := os.OpenFile(backing, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}

	if num >= 0 {
		k.allocated[num] = true
	}
	k.files[f.Fd()] = num
	return f, nil
}

// ReadFile serves sysfs parameter reads.
func (k *MockKernel) ReadFile(name string) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return []byte(k.blankSeconds), nil
}

// Notify records the signal channel so the fake kernel can deliver
// handshake signals directly, without real process signals.
func (k *MockKernel) Notify(c chan<- os.Signal, sig ...os.Signal) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.sigCh = c
}

// StopNotify drops the recorded signal channel.
func (k *MockKernel) StopNotify(c chan<- os.Signal) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.sigCh = nil
}

// Ioctl dispatches fake VT ioctls.
func (k *MockKernel) Ioctl(fd uintptr, req uint, arg uintptr) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch req {
	case vt.VT_OPENQRY:
		n := k.lowestFree()
		*(*int32)(unsafe.Pointer(arg)) = int32(n)
		return 0, nil

	case vt.VT_GETSTATE:
		st := (*vt.Stat)(unsafe.Pointer(arg))
		st.Active = uint16(k.active)
		st.State = k.stateMask()
		return 0, nil

	case vt.VT_ACTIVATE:
		return 0, k.activate(fd, int(arg))

	case vt.VT_WAITACTIVE:
		for k.active != int(arg) {
			k.cond.Wait()
		}
		return 0, nil

	case vt.VT_SETMODE:
		num, ok := k.files[fd]
		if !ok || num < 0 {
			return 0, syscall.EBADF
		}
		k.modes[num] = *(*vt.ModeInfo)(unsafe.Pointer(arg))
		return 0, nil

	case vt.VT_RELDISP:
		return 0, k.relDispLocked(int(arg))

	case vt.VT_DISALLOCATE:
		n := int(arg)
		if n == k.active {
			return 0, syscall.EBUSY
		}
		delete(k.allocated, n)
		return 0, nil

	case vt.VT_LOCKSWITCH:
		k.locked = true
		return 0, nil

	case vt.VT_UNLOCKSWITCH:
		k.locked = false
		return 0, nil

	case vt.TIOCLINUX:
		return 0, nil

	default:
		if handled, err := k.termiosIoctl(fd, req, arg); handled {
			return 0, err
		}
		return 0, syscall.ENOTTY
	}
}

func (k *MockKernel) lowestFree() int {
	for n := 1; ; n++ {
		if !k.allocated[n] {
			return n
		}
	}
}

func (k *MockKernel) stateMask() uint16 {
	var mask uint16
	for n := 0; n < 16; n++ {
		if k.allocated[n] {
			mask |= 1 << uint(n)
		}
	}
	return mask
}

func (k *MockKernel) activate(fd uintptr, n int) error {
	if k.locked {
		return syscall.EPERM
	}
	if !k.allocated[n] {
		return syscall.ENXIO
	}
	if n == k.active {
		return nil
	}
	if k.pending != 0 {
		k.overlapped = true
	}

	if k.requireAck {
		if m, ok := k.modes[n]; ok && m.Mode == vt.VT_PROCESS && k.sigCh != nil {
			// the target owner must acknowledge acquisition first
			k.pending = n
			k.sigCh <- syscall.Signal(m.Acqsig)
			return nil
		}
	}

	k.completeSwitch(n)
	return nil
}

func (k *MockKernel) relDispLocked(arg int) error {
	k.relDisp = append(k.relDisp, arg)

	switch arg {
	case 0:
		// release denied, abandon pending switch
		k.pending = 0
	case 1, vt.VT_ACKACQ:
		if k.pending != 0 {
			k.completeSwitch(k.pending)
		}
	default:
		return syscall.EINVAL
	}
	return nil
}

func (k *MockKernel) completeSwitch(n int) {
	k.active = n
	k.pending = 0
	k.cond.Broadcast()
}
