package websockets

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURI is returned when the target URI is not a well formed
	// ws:// or wss:// URI. It is only produced at construction time, never
	// by the state machine.
	ErrInvalidURI = errors.New("websockets: invalid URI")

	// ErrInvalidHandshake is the root of the handshake failure taxonomy: the
	// server's response was structurally inconsistent with the client's
	// offer. ErrInvalidHeader and ErrNegotiation wrap it, so
	// errors.Is(err, ErrInvalidHandshake) matches any validation failure.
	ErrInvalidHandshake = errors.New("websockets: invalid handshake")

	// ErrInvalidHeader is returned when a mandatory response header is
	// missing, illegally duplicated, or carries an unacceptable value.
	ErrInvalidHeader = fmt.Errorf("%w: invalid header", ErrInvalidHandshake)

	// ErrNegotiation is returned when extension or subprotocol negotiation
	// fails. ExtensionFactory implementations wrap it to reject parameters
	// they matched by name but cannot accept.
	ErrNegotiation = fmt.Errorf("%w: negotiation failed", ErrInvalidHandshake)
)
