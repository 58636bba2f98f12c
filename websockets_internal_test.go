package websockets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeAccept(t *testing.T) {
	// Known vector from RFC 6455 section 1.3.
	assert.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=",
		ComputeAccept("dGhlIHNhbXBsZSBub25jZQ=="))
}

func TestGenerateKey(t *testing.T) {
	a := assert.New(t)
	key, err := GenerateKey(strings.NewReader("the sample nonce"))
	a.NoError(err)
	a.Equal("dGhlIHNhbXBsZSBub25jZQ==", key)

	key, err = GenerateKey(nil)
	a.NoError(err)
	a.Len(key, nonceSize)

	_, err = GenerateKey(strings.NewReader("short"))
	a.Error(err)
}

func TestHostHeader(t *testing.T) {
	a := assert.New(t)
	u, err := ParseURI("ws://[2001:db8::1]:8080/")
	a.NoError(err)
	a.Equal("[2001:db8::1]:8080", u.hostHeader())

	u, err = ParseURI("ws://[2001:db8::1]/")
	a.NoError(err)
	a.Equal("[2001:db8::1]", u.hostHeader())
}

func TestUserInfo(t *testing.T) {
	a := assert.New(t)
	u, err := ParseURI("ws://hello:iloveyou@example.com/")
	a.NoError(err)
	info, ok := u.userInfo()
	a.True(ok)
	a.Equal("hello:iloveyou", info)

	u, err = ParseURI("ws://example.com/")
	a.NoError(err)
	_, ok = u.userInfo()
	a.False(ok)
}

func TestResponseParserWholeResponse(t *testing.T) {
	a := assert.New(t)
	var p responseParser
	resp, err := p.feed([]byte("HTTP/1.1 101 Switching Protocols\r\nUpgrade: websocket\r\n\r\n"))
	a.NoError(err)
	a.NotNil(resp)
	a.Equal(101, resp.StatusCode)
	a.Equal("Switching Protocols", resp.ReasonPhrase)
	a.Equal("websocket", resp.Headers.Get("Upgrade"))
	a.Nil(resp.Body)
	a.Nil(p.trailing())
}

func TestResponseParserSplitFeeding(t *testing.T) {
	a := assert.New(t)
	raw := "HTTP/1.1 404 Not Found\r\nContent-Length: 5\r\n\r\nSorry"
	var p responseParser
	for i := 0; i < len(raw)-1; i++ {
		resp, err := p.feed([]byte{raw[i]})
		a.NoError(err)
		a.Nil(resp)
	}
	resp, err := p.feed([]byte{raw[len(raw)-1]})
	a.NoError(err)
	a.NotNil(resp)
	a.Equal(404, resp.StatusCode)
	a.Equal([]byte("Sorry"), resp.Body)
}

func TestResponseParserTrailing(t *testing.T) {
	a := assert.New(t)
	var p responseParser
	resp, err := p.feed([]byte("HTTP/1.1 101 OK\r\n\r\n\x81\x05hello"))
	a.NoError(err)
	a.NotNil(resp)
	a.Equal([]byte("\x81\x05hello"), p.trailing())
}

func TestResponseParserEmptyReason(t *testing.T) {
	a := assert.New(t)
	var p responseParser
	resp, err := p.feed([]byte("HTTP/1.1 204\r\n\r\n"))
	a.NoError(err)
	a.NotNil(resp)
	a.Equal(204, resp.StatusCode)
	a.Equal("", resp.ReasonPhrase)
}

func TestResponseParserMalformed(t *testing.T) {
	for _, raw := range []string{
		"HTTP/1.0 101 Switching Protocols\r\n\r\n",
		"ICY 200 OK\r\n\r\n",
		"HTTP/1.1 1000 Nope\r\n\r\n",
		"HTTP/1.1 99 Low\r\n\r\n",
		"HTTP/1.1 abc Nope\r\n\r\n",
		"HTTP/1.1 101 OK\r\nNoColonHere\r\n\r\n",
		"HTTP/1.1 101 OK\r\nBad Name: x\r\n\r\n",
		"HTTP/1.1 101 OK\r\nFolded: a\r\n b\r\n\r\n",
		"HTTP/1.1 404 Not Found\r\nContent-Length: nope\r\n\r\n",
		"HTTP/1.1 404 Not Found\r\nContent-Length: -1\r\n\r\n",
	} {
		t.Run(raw, func(t *testing.T) {
			var p responseParser
			_, err := p.feed([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestResponseParserHeadTooLarge(t *testing.T) {
	a := assert.New(t)
	var p responseParser
	_, err := p.feed([]byte("HTTP/1.1 101 OK\r\nX-Padding: " + strings.Repeat("x", maxHeadersSize) + "\r"))
	a.Error(err)
	a.Contains(err.Error(), "head exceeds")
}

func TestResponseParserBodyTooLarge(t *testing.T) {
	a := assert.New(t)
	var p responseParser
	_, err := p.feed([]byte("HTTP/1.1 404 Not Found\r\nContent-Length: 1048577\r\n\r\n"))
	a.Error(err)
	a.Contains(err.Error(), "body exceeds")
}

func TestHeaderTokens(t *testing.T) {
	a := assert.New(t)
	tokens, ok := headerTokens([]string{"keep-alive, Upgrade", "close"})
	a.True(ok)
	a.Equal([]string{"keep-alive", "Upgrade", "close"}, tokens)
	a.True(containsToken(tokens, "upgrade"))
	a.False(containsToken(tokens, "websocket"))
}

func TestParseExtensionsWire(t *testing.T) {
	a := assert.New(t)
	exts, err := parseExtensions("x-op; op=this, x-rsv2")
	a.NoError(err)
	a.Equal([]wireExtension{
		{name: "x-op", params: []ExtensionParam{{Name: "op", Value: "this"}}},
		{name: "x-rsv2"},
	}, exts)

	exts, err = parseExtensions("x-op;op")
	a.NoError(err)
	a.Equal([]wireExtension{
		{name: "x-op", params: []ExtensionParam{{Name: "op"}}},
	}, exts)

	_, err = parseExtensions("x-op; =broken")
	a.ErrorIs(err, ErrInvalidHeader)
}

func TestRequestBytes(t *testing.T) {
	a := assert.New(t)
	r := &Request{
		Path: "/chat?v=1",
		Headers: NewHeaders(
			HeaderField{Name: "Host", Value: "example.com"},
			HeaderField{Name: "Upgrade", Value: "websocket"},
		),
	}
	a.Equal("GET /chat?v=1 HTTP/1.1\r\nHost: example.com\r\nUpgrade: websocket\r\n\r\n",
		string(r.Bytes()))
}

func TestConnectionStateString(t *testing.T) {
	a := assert.New(t)
	a.Equal("CONNECTING", Connecting.String())
	a.Equal("OPEN", Open.String())
	a.Equal("CLOSING", Closing.String())
	a.Equal("CLOSED", Closed.String())
}
