//go:build !windows
// +build !windows

package vt_test

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"vtkit/pkg/vt"
)

func TestVT_WriteReadBack(t *testing.T) {
	t.Parallel()

	k := newKernel(t)
	c := openConsole(t, k)

	v, err := c.NewVT()
	if err != nil {
		t.Fatalf("NewVT() failed: %v", err)
	}
	defer v.Close()

	payload := []byte("hello from vtkit\x1b[0m\x00\xff")
	n, err := v.Write(payload)
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if n != len(payload) {
		t.Fatalf("Write() = %d bytes; want %d", n, len(payload))
	}

	// a peer handle on the same device sees the exact byte sequence
	got, err := k.DrainOutput(v.Number())
	if err != nil {
		t.Fatalf("reading backing device failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("device content = %q; want %q", got, payload)
	}
}

func TestVT_Clear(t *testing.T) {
	t.Parallel()

	k := newKernel(t)
	c := openConsole(t, k)

	v, err := c.NewVT()
	if err != nil {
		t.Fatalf("NewVT() failed: %v", err)
	}
	defer v.Close()

	if err := v.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}

	got, err := k.DrainOutput(v.Number())
	if err != nil {
		t.Fatalf("reading backing device failed: %v", err)
	}
	if !bytes.Equal(got, []byte("\x1b[H\x1b[2J")) {
		t.Errorf("device content = %q; want clear sequence", got)
	}
}

func TestVT_SetBlankTimer(t *testing.T) {
	t.Parallel()

	k := newKernel(t)
	c := openConsole(t, k)

	v, err := c.NewVT()
	if err != nil {
		t.Fatalf("NewVT() failed: %v", err)
	}
	defer v.Close()

	if err := v.SetBlankTimer(10); err != nil {
		t.Fatalf("SetBlankTimer() failed: %v", err)
	}

	got, err := k.DrainOutput(v.Number())
	if err != nil {
		t.Fatalf("reading backing device failed: %v", err)
	}
	if !bytes.Equal(got, []byte("\x1b[9;10]")) {
		t.Errorf("device content = %q; want blank timer sequence", got)
	}
}

func TestVT_CloseKeepsForeground(t *testing.T) {
	t.Parallel()

	k := newKernel(t)
	c := openConsole(t, k)

	a, err := c.NewVT()
	if err != nil {
		t.Fatalf("NewVT() failed: %v", err)
	}
	b, err := c.NewVT()
	if err != nil {
		t.Fatalf("NewVT() failed: %v", err)
	}
	defer b.Close()

	if err := c.SwitchTo(b.Number()); err != nil {
		t.Fatalf("SwitchTo(%d) failed: %v", b.Number(), err)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if got := k.Active(); got != b.Number() {
		t.Errorf("active VT after closing another handle = %d; want %d", got, b.Number())
	}
}

func TestSwitch_AcquireHandshake(t *testing.T) {
	vt.ResetCoordinator()

	k := newKernel(t)
	k.RequireAck(true)
	c := openConsole(t, k)

	v, err := c.NewVT()
	if err != nil {
		t.Fatalf("NewVT() failed: %v", err)
	}
	defer v.Close()

	// Switch blocks until the coordinator acknowledged the acquire signal
	// with VT_RELDISP(VT_ACKACQ) and the kernel completed the switch.
	if err := v.Switch(); err != nil {
		t.Fatalf("Switch() failed: %v", err)
	}

	if got := k.Active(); got != v.Number() {
		t.Errorf("active VT = %d; want %d", got, v.Number())
	}

	calls := k.RelDispCalls()
	if len(calls) == 0 || calls[len(calls)-1] != vt.VT_ACKACQ {
		t.Errorf("VT_RELDISP calls = %v; want final VT_ACKACQ", calls)
	}
}

func TestSwitch_ReleaseHandshake(t *testing.T) {
	vt.ResetCoordinator()

	k := newKernel(t)
	c := openConsole(t, k)

	v, err := c.NewVT()
	if err != nil {
		t.Fatalf("NewVT() failed: %v", err)
	}
	defer v.Close()

	if err := v.Switch(); err != nil {
		t.Fatalf("Switch() failed: %v", err)
	}

	// another process asks for VT 1: the kernel sends the release signal
	// and the coordinator must grant it with VT_RELDISP(1)
	k.SimulateExternalSwitch(1)

	deadline := time.Now().Add(2 * time.Second)
	for k.Active() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("release was never granted; active = %d", k.Active())
		}
		time.Sleep(time.Millisecond)
	}

	var granted bool
	for _, arg := range k.RelDispCalls() {
		if arg == 1 {
			granted = true
		}
	}
	if !granted {
		t.Errorf("VT_RELDISP calls = %v; want a release grant (1)", k.RelDispCalls())
	}
}

func TestSwitch_SerializesConcurrentRequests(t *testing.T) {
	vt.ResetCoordinator()

	k := newKernel(t)
	k.RequireAck(true)
	c := openConsole(t, k)

	a, err := c.NewVT()
	if err != nil {
		t.Fatalf("NewVT() failed: %v", err)
	}
	defer a.Close()
	b, err := c.NewVT()
	if err != nil {
		t.Fatalf("NewVT() failed: %v", err)
	}
	defer b.Close()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		v := a
		if i%2 == 1 {
			v = b
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := v.Switch(); err != nil {
				t.Errorf("Switch() to %d failed: %v", v.Number(), err)
			}
		}()
	}
	wg.Wait()

	if k.Overlapped() {
		t.Error("two switch negotiations were in flight at once")
	}

	active := k.Active()
	if active != a.Number() && active != b.Number() {
		t.Errorf("active VT = %d; want %d or %d", active, a.Number(), b.Number())
	}
}

func TestScenario_AllocateSwitchInspect(t *testing.T) {
	vt.ResetCoordinator()

	k := newKernel(t)
	c := openConsole(t, k)

	a, err := c.NewVT()
	if err != nil {
		t.Fatalf("NewVT() for a failed: %v", err)
	}
	defer a.Close()

	b, err := c.NewVT()
	if err != nil {
		t.Fatalf("NewVT() for b failed: %v", err)
	}
	defer b.Close()

	if err := a.Switch(); err != nil {
		t.Fatalf("Switch() to a failed: %v", err)
	}
	if err := b.Switch(); err != nil {
		t.Fatalf("Switch() to b failed: %v", err)
	}

	st, err := c.State()
	if err != nil {
		t.Fatalf("State() failed: %v", err)
	}
	if int(st.Active) != b.Number() {
		t.Errorf("foreground = %d; want %d", st.Active, b.Number())
	}
	if int(st.Active) == a.Number() {
		t.Error("a still reports foreground after switching to b")
	}
}
