package websockets

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const (
	// maxHeadersSize bounds the size of a response head to keep a
	// misbehaving server from growing the parse buffer without limit.
	maxHeadersSize = 8192
	// maxBodySize bounds a captured (never interpreted) response body.
	maxBodySize = 1 << 20
)

// Request is the HTTP/1.1 GET request of the opening handshake.
type Request struct {
	Path    string // path plus optional query, never empty
	Headers *Headers
}

// Bytes serializes the request as raw HTTP/1.1: request line, header lines
// in order, and the terminating CRLF. Handshake requests carry no body.
func (r *Request) Bytes() []byte {
	var b bytes.Buffer
	b.WriteString("GET ")
	b.WriteString(r.Path)
	b.WriteString(" HTTP/1.1\r\n")
	for _, f := range r.Headers.Fields() {
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	return b.Bytes()
}

// Response is a parsed HTTP/1.1 response. Body is the raw body when the
// response declared a Content-Length, nil otherwise; it is captured but
// never interpreted by this package.
type Response struct {
	StatusCode   int
	ReasonPhrase string
	Headers      *Headers
	Body         []byte
}

// responseParser assembles an HTTP/1.1 response from arbitrarily segmented
// input. feed buffers data across calls: it returns (nil, nil) while the
// response is incomplete, the response once the head (and the declared body,
// if any) is fully buffered, or an error for malformed HTTP. Bytes beyond
// the response stay buffered for the caller.
type responseParser struct {
	buf  bytes.Buffer
	resp *Response // head parsed, body still incomplete
	need int       // body bytes not yet buffered
}

func (p *responseParser) feed(data []byte) (*Response, error) {
	p.buf.Write(data)
	if p.resp == nil {
		head := p.buf.Bytes()
		end := bytes.Index(head, []byte("\r\n\r\n"))
		if end < 0 {
			if p.buf.Len() > maxHeadersSize {
				return nil, fmt.Errorf("websockets: malformed response: head exceeds %d bytes", maxHeadersSize)
			}
			return nil, nil
		}
		resp, err := parseHead(head[:end])
		if err != nil {
			return nil, err
		}
		p.buf.Next(end + 4)
		if v := resp.Headers.Get("Content-Length"); v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 0 {
				return nil, fmt.Errorf("websockets: malformed response: invalid Content-Length: %q", v)
			}
			if n > maxBodySize {
				return nil, fmt.Errorf("websockets: malformed response: body exceeds %d bytes", maxBodySize)
			}
			p.need = n
		}
		p.resp = resp
	}
	if p.buf.Len() < p.need {
		return nil, nil
	}
	resp := p.resp
	p.resp = nil
	if p.need > 0 {
		body := make([]byte, p.need)
		_, _ = p.buf.Read(body)
		resp.Body = body
		p.need = 0
	}
	return resp, nil
}

// trailing returns a copy of the bytes buffered beyond the parsed response.
func (p *responseParser) trailing() []byte {
	if p.buf.Len() == 0 {
		return nil
	}
	t := make([]byte, p.buf.Len())
	copy(t, p.buf.Bytes())
	return t
}

// parseHead parses a response head (without the terminating blank line).
func parseHead(head []byte) (*Response, error) {
	lines := strings.Split(string(head), "\r\n")
	const prefix = "HTTP/1.1 "
	status := lines[0]
	if !strings.HasPrefix(status, prefix) {
		return nil, fmt.Errorf("websockets: malformed response: status line %q", status)
	}
	code, reason, _ := strings.Cut(status[len(prefix):], " ")
	n, err := strconv.Atoi(code)
	if len(code) != 3 || err != nil || n < 100 {
		return nil, fmt.Errorf("websockets: malformed response: status line %q", status)
	}
	h := &Headers{}
	for _, line := range lines[1:] {
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			// obs-fold continuation lines are obsolete and unsupported
			return nil, fmt.Errorf("websockets: malformed response: header line %q", line)
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf("websockets: malformed response: header line %q", line)
		}
		h.Add(name, strings.Trim(value, " \t"))
	}
	return &Response{StatusCode: n, ReasonPhrase: reason, Headers: h}, nil
}
