package websockets

// Event is a handshake event exchanged between the engine and its caller.
// The concrete types are Connect, Accept and Reject; exactly one of Accept
// or Reject is produced per handshake attempt.
type Event interface {
	isEvent()
}

// Connect carries the handshake request produced by
// ClientConnection.Connect. Pass it to Send to obtain the bytes to write.
type Connect struct {
	Request *Request
}

// Accept reports a successful handshake; the connection is Open.
type Accept struct {
	Response *Response
}

// Reject reports a failed handshake attempt. Err describes the validation
// failure for a 101 response, and is nil when the server simply declined to
// upgrade (any other status code); the connection stays in Connecting either
// way, and closing the transport is the caller's decision.
type Reject struct {
	Response *Response
	Err      error
}

func (Connect) isEvent() {}
func (Accept) isEvent()  {}
func (Reject) isEvent()  {}
