// Package msg defines the control messages exchanged between a console
// host and a joined client. Messages are gob-encoded and travel over
// dedicated control channels next to the data stream.
package msg

// Message is the interface all control message types implement.
// MsgType returns a string identifier used for debugging and logging.
type Message interface {
	MsgType() string
}
