// Package config holds the configuration structs shared by the vtctl
// commands and the injectable dependencies used for testing.
package config

import (
	"time"
)

// DefaultConsolePath is the device node used to talk to the kernel's
// virtual terminal subsystem unless overridden.
const DefaultConsolePath = "/dev/console"

// Protocol identifies a share transport.
type Protocol int

// Supported share transports.
const (
	ProtoTCP Protocol = iota
	ProtoWS
	ProtoWSS
	ProtoUDP
)

// String returns the protocol scheme as used in transport specs.
func (p Protocol) String() string {
	switch p {
	case ProtoWS:
		return "ws"
	case ProtoWSS:
		return "wss"
	case ProtoUDP:
		return "udp"
	default:
		return "tcp"
	}
}

// Shared is the configuration common to all vtctl commands.
type Shared struct {
	ConsolePath string // console device node, DefaultConsolePath if empty

	Protocol Protocol // share transport, only used by share/join
	Host     string
	Port     int
	SSL      bool
	Key      string // mTLS key, empty disables client authentication
	Timeout  time.Duration

	Verbose bool

	Deps *Dependencies
}

// Console returns the configured console device path.
func (c *Shared) Console() string {
	if c.ConsolePath == "" {
		return DefaultConsolePath
	}
	return c.ConsolePath
}

// KeySalt is prepended to user keys before certificate derivation.
// Overwrite with a custom value during release builds.
var KeySalt = "mJ2u0Vv6rQyCBsQjwxSGgaOYnbMat3Fz"

// GetKey returns the salted mTLS key, or "" if none was configured.
func (c *Shared) GetKey() string {
	if c.Key == "" {
		return ""
	}

	return KeySalt + c.Key
}

// Share is the configuration for hosting a console share.
type Share struct {
	VTNum       int  // serve this VT, 0 allocates a new one
	MinVT       int  // minimum number when allocating
	AllowSwitch bool // allow guests to request VT switches
}

// Join is the configuration for joining a console share.
type Join struct {
	RequestVT int // ask the host to switch to this VT after connecting, 0 for none
}
