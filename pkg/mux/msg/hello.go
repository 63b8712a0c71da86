package msg

import "encoding/gob"

func init() {
	gob.Register(Hello{})
}

// Hello is sent by the host once the session is established. It tells
// the client which terminal it is attached to and whether switch
// requests will be honored.
type Hello struct {
	ID          string // identifier of the hosting side
	VT          int    // terminal number being shared
	AllowSwitch bool   // whether Switch messages are accepted
}

// MsgType returns the message type identifier for Hello messages.
func (m Hello) MsgType() string {
	return "Hello"
}
