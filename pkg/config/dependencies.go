package config

import (
	"net"
	"os"
	"os/signal"
)

// Dependencies contains injectable dependencies for testing and customization.
// All fields are optional and will use default implementations if nil. The
// ioctl, open and signal functions together form the kernel surface of the
// vt package, so tests can run against a fake kernel.
type Dependencies struct {
	Ioctl      IoctlFunc
	OpenFile   OpenFileFunc
	ReadFile   ReadFileFunc
	Notify     NotifyFunc
	StopNotify StopNotifyFunc

	TCPDialer      TCPDialerFunc
	TCPListener    TCPListenerFunc
	PacketListener PacketListenerFunc
}

// IoctlFunc issues an ioctl request against an open descriptor. It returns
// the syscall result value, which some requests (VT_OPENQRY among them) use
// to report data instead of an output argument.
type IoctlFunc func(fd uintptr, req uint, arg uintptr) (int, error)

// OpenFileFunc opens a device node. It matches os.OpenFile to allow mock
// implementations backed by regular files or pipes.
type OpenFileFunc func(name string, flag int, perm os.FileMode) (*os.File, error)

// ReadFileFunc reads a whole file, matching os.ReadFile. Used for sysfs
// parameters such as the console blank timer.
type ReadFileFunc func(name string) ([]byte, error)

// NotifyFunc registers a channel for signal delivery, matching signal.Notify.
// Mock implementations can deliver signals directly into the channel.
type NotifyFunc func(c chan<- os.Signal, sig ...os.Signal)

// StopNotifyFunc cancels a signal registration, matching signal.Stop.
type StopNotifyFunc func(c chan<- os.Signal)

// TCPDialerFunc is a function that dials a TCP connection.
type TCPDialerFunc func(network string, laddr, raddr *net.TCPAddr) (net.Conn, error)

// TCPListenerFunc is a function that creates a TCP listener.
type TCPListenerFunc func(network string, laddr *net.TCPAddr) (net.Listener, error)

// PacketListenerFunc is a function that creates a packet listener.
type PacketListenerFunc func(network, address string) (net.PacketConn, error)

// GetOpenFileFunc returns the open function from dependencies, or os.OpenFile.
func GetOpenFileFunc(deps *Dependencies) OpenFileFunc {
	if deps != nil && deps.OpenFile != nil {
		return deps.OpenFile
	}
	return os.OpenFile
}

// GetReadFileFunc returns the read function from dependencies, or os.ReadFile.
func GetReadFileFunc(deps *Dependencies) ReadFileFunc {
	if deps != nil && deps.ReadFile != nil {
		return deps.ReadFile
	}
	return os.ReadFile
}

// GetNotifyFunc returns the notify function from dependencies, or signal.Notify.
func GetNotifyFunc(deps *Dependencies) NotifyFunc {
	if deps != nil && deps.Notify != nil {
		return deps.Notify
	}
	return signal.Notify
}

// GetStopNotifyFunc returns the stop function from dependencies, or signal.Stop.
func GetStopNotifyFunc(deps *Dependencies) StopNotifyFunc {
	if deps != nil && deps.StopNotify != nil {
		return deps.StopNotify
	}
	return signal.Stop
}

// GetTCPDialerFunc returns the TCP dialer function from dependencies, or net.DialTCP.
func GetTCPDialerFunc(deps *Dependencies) TCPDialerFunc {
	if deps != nil && deps.TCPDialer != nil {
		return deps.TCPDialer
	}
	return func(network string, laddr, raddr *net.TCPAddr) (net.Conn, error) {
		return net.DialTCP(network, laddr, raddr)
	}
}

// GetTCPListenerFunc returns the TCP listener function from dependencies, or net.ListenTCP.
func GetTCPListenerFunc(deps *Dependencies) TCPListenerFunc {
	if deps != nil && deps.TCPListener != nil {
		return deps.TCPListener
	}
	return func(network string, laddr *net.TCPAddr) (net.Listener, error) {
		return net.ListenTCP(network, laddr)
	}
}

// GetPacketListenerFunc returns the packet listener function from dependencies, or net.ListenPacket.
func GetPacketListenerFunc(deps *Dependencies) PacketListenerFunc {
	if deps != nil && deps.PacketListener != nil {
		return deps.PacketListener
	}
	return net.ListenPacket
}
