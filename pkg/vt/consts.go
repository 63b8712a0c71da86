package vt

// ioctl request codes from <linux/vt.h>, missing from golang.org/x/sys/unix.
const (
	VT_OPENQRY      = 0x5600
	VT_GETMODE      = 0x5601
	VT_SETMODE      = 0x5602
	VT_GETSTATE     = 0x5603
	VT_RELDISP      = 0x5605
	VT_ACTIVATE     = 0x5606
	VT_WAITACTIVE   = 0x5607
	VT_DISALLOCATE  = 0x5608
	VT_LOCKSWITCH   = 0x560B
	VT_UNLOCKSWITCH = 0x560C
)

// Switch modes for VT_SETMODE and the release acknowledgement value.
const (
	VT_AUTO    = 0x00
	VT_PROCESS = 0x01
	VT_ACKACQ  = 0x02
)

// TIOCLINUX subcodes from <linux/tiocl.h>.
const (
	TIOCLINUX           = 0x541C
	TIOCL_UNBLANKSCREEN = 4
	TIOCL_BLANKSCREEN   = 14
)

// Stat mirrors struct vt_stat from <linux/vt.h>. Active is the foreground
// VT number, State a bitmask with one bit per in-use VT among the first 16.
type Stat struct {
	Active uint16
	Signal uint16
	State  uint16
}

// ModeInfo mirrors struct vt_mode from <linux/vt.h>.
type ModeInfo struct {
	Mode   int8
	Waitv  int8
	Relsig int16
	Acqsig int16
	Frsig  int16
}
