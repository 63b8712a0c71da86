package vt

import (
	"context"
	"os"
	"sync"
	"unsafe"

	"vtkit/pkg/config"
	"vtkit/pkg/semaphore"
)

// The kernel runs VT switches cooperatively: before taking the foreground
// away from a process-controlled VT it sends the configured release signal
// and waits for a VT_RELDISP acknowledgement; when such a VT becomes
// foreground again it sends the acquire signal and expects VT_ACKACQ.
//
// Signals are addressed to the process, not to a VT handle, so all switch
// bookkeeping lives in one process-wide coordinator. Acknowledgement ioctls
// are issued from a plain goroutine fed by os/signal, never from signal
// context.
type coordinator struct {
	slot *semaphore.SwitchSemaphore // one slot, serializes switch negotiations

	once  sync.Once
	sigCh chan os.Signal

	mu    sync.Mutex // guards the process-controlled device below
	fd    uintptr
	has   bool
	ioctl config.IoctlFunc
}

var coord = &coordinator{
	slot: semaphore.New(1, 0),
}

// switchTo performs one switch negotiation. If v is non-nil it is put under
// process-controlled switching before the activation is requested. The call
// blocks until VT_WAITACTIVE confirms the target is foreground.
func switchTo(c *Console, n int, v *VT) error {
	if err := coord.slot.Acquire(context.Background()); err != nil {
		return &SwitchError{Num: n, Err: err}
	}
	defer coord.slot.Release()

	if v != nil {
		if err := coord.control(v); err != nil {
			return &SwitchError{Num: n, Err: err}
		}
	}

	if _, err := c.ioctl(c.f.Fd(), VT_ACTIVATE, uintptr(n)); err != nil {
		return &SwitchError{Num: n, Err: err}
	}
	if _, err := c.ioctl(c.f.Fd(), VT_WAITACTIVE, uintptr(n)); err != nil {
		return &SwitchError{Num: n, Err: err}
	}

	return nil
}

// control registers the signal handlers (once per process) and puts v's
// device under process-controlled switching. A previously controlled device
// is returned to automatic switching first: the kernel addresses handshake
// signals to the process, so only one device can be negotiated for.
func (co *coordinator) control(v *VT) error {
	co.once.Do(func() {
		co.sigCh = make(chan os.Signal, 8)
		notify := config.GetNotifyFunc(v.console.deps)
		notify(co.sigCh, relSignal, acqSignal)
		go co.serve()
	})

	co.mu.Lock()
	defer co.mu.Unlock()

	fd := v.f.Fd()
	if co.has && co.fd == fd {
		return nil
	}

	if co.has {
		co.setMode(co.fd, VT_AUTO)
	}

	mode := ModeInfo{
		Mode:   VT_PROCESS,
		Relsig: int16(relSignal),
		Acqsig: int16(acqSignal),
	}
	if _, err := v.console.ioctl(fd, VT_SETMODE, uintptr(unsafe.Pointer(&mode))); err != nil {
		co.has = false
		return err
	}

	co.fd = fd
	co.has = true
	co.ioctl = v.console.ioctl
	return nil
}

// serve acknowledges handshake signals for the life of the process. The
// kernel applies its own mode-dependent default if we never answer; no
// additional timeout is imposed here.
func (co *coordinator) serve() {
	for sig := range co.sigCh {
		co.mu.Lock()
		fd, has, ioctl := co.fd, co.has, co.ioctl
		co.mu.Unlock()

		if !has {
			continue
		}

		switch sig {
		case relSignal:
			// grant the release so the pending switch can complete
			ioctl(fd, VT_RELDISP, 1)
		case acqSignal:
			// confirm we resumed responsibility for the VT
			ioctl(fd, VT_RELDISP, VT_ACKACQ)
		}
	}
}

// forget returns v's device to automatic switching if it was the controlled
// one. Called when the VT handle is closed.
func (co *coordinator) forget(v *VT) {
	co.mu.Lock()
	defer co.mu.Unlock()

	if !co.has || co.fd != v.f.Fd() {
		return
	}
	co.setMode(co.fd, VT_AUTO)
	co.has = false
}

func (co *coordinator) setMode(fd uintptr, m int8) {
	mode := ModeInfo{Mode: m}
	co.ioctl(fd, VT_SETMODE, uintptr(unsafe.Pointer(&mode))) // best effort
}
