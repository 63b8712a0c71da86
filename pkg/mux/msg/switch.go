package msg

import "encoding/gob"

func init() {
	gob.Register(Switch{})
}

// Switch asks the host to make another terminal the foreground one.
// The host ignores it unless switching was allowed in its Hello.
type Switch struct {
	VT int // terminal number to activate
}

// MsgType returns the message type identifier for Switch messages.
func (m Switch) MsgType() string {
	return "Switch"
}
