// Package websockets implements the client side of the WebSocket opening
// handshake (RFC 6455) as a sans-I/O protocol engine: a pure state machine
// that consumes and produces byte buffers and structured events. The caller
// owns all I/O; the engine only decides what bytes to send and interprets
// what has been received, which makes it reusable over any transport or
// concurrency model.
package websockets

// Version is the library version reported in the default User-Agent header.
const Version = "1.0.0"

// UserAgent is the default value of the User-Agent header sent with the
// handshake request. It can be overridden per connection via
// ClientConfig.UserAgent or an extra header.
const UserAgent = "Go-websockets/" + Version

// ProtocolVersion is the only WebSocket protocol version this library speaks.
const ProtocolVersion = "13"

// ConnectionState describes the lifecycle of a WebSocket connection. The
// handshake engine only ever transitions Connecting to Open; Closing and
// Closed belong to the data-frame layer.
type ConnectionState int

const (
	// Connecting is the initial state, before a valid 101 response.
	Connecting ConnectionState = iota
	// Open is reached after a successful opening handshake.
	Open
	// Closing means a close frame was sent or received (frame layer).
	Closing
	// Closed means the connection is terminated (frame layer).
	Closed
)

func (s ConnectionState) String() string {
	switch s {
	case Connecting:
		return "CONNECTING"
	case Open:
		return "OPEN"
	case Closing:
		return "CLOSING"
	case Closed:
		return "CLOSED"
	default:
		return "INVALID"
	}
}
