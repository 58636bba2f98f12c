package websockets

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gobwas/httphead"
)

// ClientConfig is the negotiation configuration of a ClientConnection. The
// zero value is usable; the configuration is frozen at construction time.
type ClientConfig struct {
	// Origin is sent as the Origin header when non-empty.
	Origin string
	// Extensions are offered in order; the order also decides which factory
	// is tried first when several share a name.
	Extensions []ExtensionFactory
	// Subprotocols are offered in client preference order.
	Subprotocols []string
	// ExtraHeaders are merged into the request last; a name that is already
	// present (for example User-Agent) is replaced, never duplicated.
	ExtraHeaders []HeaderField
	// UserAgent replaces the default UserAgent value when non-empty.
	UserAgent string
	// Rand is the entropy source for the handshake key. nil means
	// crypto/rand.Reader; tests inject a fixed reader.
	Rand io.Reader
}

// ClientConnection drives the client side of one opening handshake. It owns
// no sockets and no timers: Connect produces the initiating event, Send
// turns it into bytes, and ReceiveData consumes whatever the transport
// delivered. A ClientConnection is not safe for concurrent use and serves
// exactly one handshake attempt.
type ClientConnection struct {
	uri *URI
	cfg ClientConfig

	key     string
	state   ConnectionState
	parser  responseParser
	started bool // Connect was called
	done    bool // Accept or Reject was emitted

	extensions  []Extension
	subprotocol string
}

// NewClientConnection creates a handshake engine for the given ws:// or
// wss:// URI. A nil cfg is equivalent to the zero ClientConfig. The only
// error produced here is an invalid URI; everything the server does wrong
// later is reported as data via Reject events.
func NewClientConnection(uri string, cfg *ClientConfig) (*ClientConnection, error) {
	u, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	c := &ClientConnection{uri: u, state: Connecting}
	if cfg != nil {
		c.cfg = *cfg
		c.cfg.Extensions = append([]ExtensionFactory(nil), cfg.Extensions...)
		c.cfg.Subprotocols = append([]string(nil), cfg.Subprotocols...)
		c.cfg.ExtraHeaders = append([]HeaderField(nil), cfg.ExtraHeaders...)
	}
	return c, nil
}

// State returns the connection state: Connecting until a valid 101 response
// was processed, Open afterwards.
func (c *ClientConnection) State() ConnectionState { return c.state }

// Extensions returns the negotiated extensions in server order. It is empty
// until an Accept event was produced.
func (c *ClientConnection) Extensions() []Extension {
	return append([]Extension(nil), c.extensions...)
}

// Subprotocol returns the negotiated subprotocol, or "" when none was.
func (c *ClientConnection) Subprotocol() string { return c.subprotocol }

// Trailing returns a copy of the bytes received beyond the handshake
// response. They belong to the data-frame layer.
func (c *ClientConnection) Trailing() []byte { return c.parser.trailing() }

// Connect generates the handshake key and returns the Connect event
// carrying the request. It is single-shot: the key is bound 1:1 to the
// returned event and never reused, so a second call is a caller error.
func (c *ClientConnection) Connect() (Connect, error) {
	if c.started {
		return Connect{}, errors.New("websockets: Connect called twice")
	}
	key, err := GenerateKey(c.cfg.Rand)
	if err != nil {
		return Connect{}, err
	}
	c.started = true
	c.key = key
	return Connect{Request: c.buildRequest()}, nil
}

// Send serializes an event into the bytes to write to the transport. The
// client only ever sends Connect events during the handshake.
func (c *ClientConnection) Send(ev Event) ([]byte, error) {
	connect, ok := ev.(Connect)
	if !ok {
		return nil, fmt.Errorf("websockets: cannot send %T event", ev)
	}
	return connect.Request.Bytes(), nil
}

// ReceiveData feeds bytes read from the transport into the engine. While the
// response is incomplete it returns no events and buffers the data, so the
// response may be delivered in arbitrary segments. Once the response is
// complete it emits exactly one Accept or Reject event. The returned
// bytes-to-send are always empty during the handshake; the slot exists for
// symmetry with the data-frame layer. Errors are reserved for malformed
// HTTP and caller misuse; server-side handshake failures travel inside
// Reject events instead.
func (c *ClientConnection) ReceiveData(data []byte) ([]Event, []byte, error) {
	if !c.started {
		return nil, nil, errors.New("websockets: ReceiveData called before Connect")
	}
	if c.done {
		return nil, nil, errors.New("websockets: handshake already completed")
	}
	resp, err := c.parser.feed(data)
	if err != nil {
		return nil, nil, err
	}
	if resp == nil {
		return nil, nil, nil
	}
	c.done = true
	if resp.StatusCode != http.StatusSwitchingProtocols {
		// The server declined to upgrade; that is data, not an engine error.
		return []Event{Reject{Response: resp}}, nil, nil
	}
	if _, _, err := c.ProcessResponse(resp); err != nil {
		return []Event{Reject{Response: resp, Err: err}}, nil, nil
	}
	c.state = Open
	return []Event{Accept{Response: resp}}, nil, nil
}

// ProcessResponse validates a complete 101 response against the request
// built by Connect and negotiates extensions and the subprotocol. On
// success it records and returns the effective extensions (server order)
// and the selected subprotocol ("" when none).
func (c *ClientConnection) ProcessResponse(resp *Response) ([]Extension, string, error) {
	if err := c.checkHeaders(resp.Headers); err != nil {
		return nil, "", err
	}
	extensions, err := c.processExtensions(resp.Headers)
	if err != nil {
		return nil, "", err
	}
	subprotocol, err := c.processSubprotocol(resp.Headers)
	if err != nil {
		return nil, "", err
	}
	c.extensions = extensions
	c.subprotocol = subprotocol
	return extensions, subprotocol, nil
}

func (c *ClientConnection) buildRequest() *Request {
	h := &Headers{}
	h.Set("Host", c.uri.hostHeader())
	if info, ok := c.uri.userInfo(); ok {
		h.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(info)))
	}
	if c.cfg.Origin != "" {
		h.Set("Origin", c.cfg.Origin)
	}
	h.Set("Upgrade", "websocket")
	h.Set("Connection", "Upgrade")
	h.Set("Sec-WebSocket-Key", c.key)
	h.Set("Sec-WebSocket-Version", ProtocolVersion)
	if len(c.cfg.Extensions) > 0 {
		h.Set("Sec-WebSocket-Extensions", formatExtensions(c.cfg.Extensions))
	}
	if len(c.cfg.Subprotocols) > 0 {
		h.Set("Sec-WebSocket-Protocol", strings.Join(c.cfg.Subprotocols, ", "))
	}
	if c.cfg.UserAgent != "" {
		h.Set("User-Agent", c.cfg.UserAgent)
	} else {
		h.Set("User-Agent", UserAgent)
	}
	for _, f := range c.cfg.ExtraHeaders {
		h.Set(f.Name, f.Value)
	}
	return &Request{Path: c.uri.Resource, Headers: h}
}

// checkHeaders validates the mandatory 101 response headers in order:
// Connection, Upgrade, Sec-WebSocket-Accept.
func (c *ClientConnection) checkHeaders(h *Headers) error {
	values := h.GetAll("Connection")
	if len(values) == 0 {
		return fmt.Errorf("%w: missing Connection header", ErrInvalidHeader)
	}
	tokens, ok := headerTokens(values)
	if !ok || !containsToken(tokens, "upgrade") {
		return fmt.Errorf("%w: invalid Connection header: %s", ErrInvalidHeader, strings.Join(values, ", "))
	}

	values = h.GetAll("Upgrade")
	if len(values) == 0 {
		return fmt.Errorf("%w: missing Upgrade header", ErrInvalidHeader)
	}
	tokens, ok = headerTokens(values)
	if !ok || len(tokens) != 1 || !strings.EqualFold(tokens[0], "websocket") {
		return fmt.Errorf("%w: invalid Upgrade header: %s", ErrInvalidHeader, strings.Join(values, ", "))
	}

	values = h.GetAll("Sec-WebSocket-Accept")
	switch {
	case len(values) == 0:
		return fmt.Errorf("%w: missing Sec-WebSocket-Accept header", ErrInvalidHeader)
	case len(values) > 1:
		return fmt.Errorf("%w: more than one Sec-WebSocket-Accept header found", ErrInvalidHeader)
	case values[0] != ComputeAccept(c.key):
		return fmt.Errorf("%w: invalid Sec-WebSocket-Accept header: %s", ErrInvalidHeader, values[0])
	}
	return nil
}

// processExtensions negotiates the server-advertised extensions against the
// client's factories. Tokens are handled in the order the server listed
// them; for each token the factories are scanned in client-declared order,
// and a factory that rejects with ErrNegotiation yields to the next factory
// carrying the same name.
func (c *ClientConnection) processExtensions(h *Headers) ([]Extension, error) {
	values := h.GetAll("Sec-WebSocket-Extensions")
	if len(values) == 0 {
		return nil, nil
	}
	if len(c.cfg.Extensions) == 0 {
		return nil, fmt.Errorf("%w: no extensions supported", ErrInvalidHandshake)
	}
	var accepted []Extension
	for _, value := range values {
		wire, err := parseExtensions(value)
		if err != nil {
			return nil, err
		}
		for _, ext := range wire {
			var rejected error
			matched := false
			for _, factory := range c.cfg.Extensions {
				if factory.Name() != ext.name {
					continue
				}
				extension, err := factory.ProcessResponseParams(ext.params, accepted)
				if err != nil {
					if errors.Is(err, ErrNegotiation) {
						rejected = err
						continue
					}
					return nil, fmt.Errorf("%w: extension %s: %w", ErrInvalidHandshake, ext.name, err)
				}
				accepted = append(accepted, extension)
				matched = true
				break
			}
			if !matched {
				err := fmt.Errorf("%w: unsupported extension: name = %s, params = %v", ErrNegotiation, ext.name, ext.params)
				if rejected != nil {
					err = fmt.Errorf("%w: %w", err, rejected)
				}
				return nil, err
			}
		}
	}
	return accepted, nil
}

// processSubprotocol validates the Sec-WebSocket-Protocol response header.
// Repeated header lines accumulate, so a server naming more than one
// subprotocol in total is a handshake failure.
func (c *ClientConnection) processSubprotocol(h *Headers) (string, error) {
	values := h.GetAll("Sec-WebSocket-Protocol")
	if len(values) == 0 {
		return "", nil
	}
	if len(c.cfg.Subprotocols) == 0 {
		return "", fmt.Errorf("%w: no subprotocols supported", ErrInvalidHandshake)
	}
	tokens, ok := headerTokens(values)
	if !ok || len(tokens) == 0 {
		return "", fmt.Errorf("%w: invalid Sec-WebSocket-Protocol header: %s", ErrInvalidHeader, strings.Join(values, ", "))
	}
	if len(tokens) > 1 {
		return "", fmt.Errorf("%w: multiple subprotocols: %s", ErrInvalidHandshake, strings.Join(tokens, ", "))
	}
	subprotocol := tokens[0]
	for _, offered := range c.cfg.Subprotocols {
		if offered == subprotocol {
			return subprotocol, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported subprotocol: %s", ErrNegotiation, subprotocol)
}

// headerTokens collects the comma-separated tokens of all header values, in
// order. ok is false when a value is not a well formed token list.
func headerTokens(values []string) (tokens []string, ok bool) {
	for _, v := range values {
		if !httphead.ScanTokens([]byte(v), func(t []byte) bool {
			tokens = append(tokens, string(t))
			return true
		}) {
			return nil, false
		}
	}
	return tokens, true
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if strings.EqualFold(t, token) {
			return true
		}
	}
	return false
}
