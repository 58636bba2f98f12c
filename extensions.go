package websockets

import (
	"fmt"
	"strings"

	"github.com/gobwas/httphead"
)

// ExtensionParam is a single extension parameter. An empty Value means the
// parameter is valueless (serialized as the bare key).
type ExtensionParam struct {
	Name  string
	Value string
}

func (p ExtensionParam) String() string {
	if p.Value == "" {
		return p.Name
	}
	return p.Name + "=" + p.Value
}

// Extension is a negotiated per-connection extension. The handshake engine
// only relies on its identity; frame transformations belong to the
// data-frame layer.
type Extension interface {
	Name() string
}

// ExtensionFactory negotiates one extension on behalf of the client.
// Factories are offered in a fixed client-chosen order, and that order is
// the only order in which they are tried against each server-advertised
// extension token.
type ExtensionFactory interface {
	// Name is matched case-sensitively against the wire token.
	Name() string
	// RequestParams returns the parameters advertised in the client offer.
	RequestParams() []ExtensionParam
	// ProcessResponseParams inspects the parameters the server chose for
	// this extension, together with the extensions accepted so far on the
	// same response, and builds the resulting Extension. Returning an error
	// wrapping ErrNegotiation rejects the parameters and lets a later
	// factory with the same name take over.
	ProcessResponseParams(params []ExtensionParam, accepted []Extension) (Extension, error)
}

// formatExtensions serializes the client offer for the
// Sec-WebSocket-Extensions request header: comma-joined extensions, each a
// name followed by semicolon-separated parameters.
func formatExtensions(factories []ExtensionFactory) string {
	var b strings.Builder
	for i, f := range factories {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name())
		for _, p := range f.RequestParams() {
			b.WriteString("; ")
			b.WriteString(p.String())
		}
	}
	return b.String()
}

// wireExtension is one server-advertised extension token with its
// parameters, in wire order.
type wireExtension struct {
	name   string
	params []ExtensionParam
}

// parseExtensions parses one Sec-WebSocket-Extensions header value.
func parseExtensions(value string) ([]wireExtension, error) {
	opts, ok := httphead.ParseOptions([]byte(value), nil)
	if !ok {
		return nil, fmt.Errorf("%w: invalid Sec-WebSocket-Extensions header: %s", ErrInvalidHeader, value)
	}
	exts := make([]wireExtension, 0, len(opts))
	for _, opt := range opts {
		ext := wireExtension{name: string(opt.Name)}
		opt.Parameters.ForEach(func(k, v []byte) bool {
			ext.params = append(ext.params, ExtensionParam{Name: string(k), Value: string(v)})
			return true
		})
		exts = append(exts, ext)
	}
	return exts, nil
}
