package websockets

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// URI is a parsed ws:// or wss:// URI.
type URI struct {
	Secure   bool   // scheme is wss
	Host     string // lowercased host, without port or userinfo
	Port     int    // explicit port, or the scheme default (80/443)
	Resource string // path plus optional query, never empty
	User     string
	Password string
}

// ParseURI parses a WebSocket URI. It fails with an error wrapping
// ErrInvalidURI when the scheme is not ws or wss or the URI is malformed.
func ParseURI(s string) (*URI, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidURI, s, err)
	}
	secure := false
	switch u.Scheme {
	case "ws":
	case "wss":
		secure = true
	default:
		return nil, fmt.Errorf("%w: %s: scheme must be ws or wss", ErrInvalidURI, s)
	}
	if u.Fragment != "" {
		return nil, fmt.Errorf("%w: %s: fragment is not allowed", ErrInvalidURI, s)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil, fmt.Errorf("%w: %s: missing host", ErrInvalidURI, s)
	}
	port := 80
	if secure {
		port = 443
	}
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("%w: %s: invalid port", ErrInvalidURI, s)
		}
	}
	resource := u.EscapedPath()
	if resource == "" {
		resource = "/"
	}
	if u.RawQuery != "" {
		resource += "?" + u.RawQuery
	}
	uri := &URI{
		Secure:   secure,
		Host:     host,
		Port:     port,
		Resource: resource,
	}
	if u.User != nil {
		uri.User = u.User.Username()
		uri.Password, _ = u.User.Password()
	}
	return uri, nil
}

// DefaultPort returns the default port for the URI's scheme.
func (u *URI) DefaultPort() int {
	if u.Secure {
		return 443
	}
	return 80
}

// hostHeader returns the Host header value: the host alone when the port is
// the scheme default, host:port otherwise.
func (u *URI) hostHeader() string {
	host := u.Host
	if strings.Contains(host, ":") { // IPv6 literal
		host = "[" + host + "]"
	}
	if u.Port == u.DefaultPort() {
		return host
	}
	return host + ":" + strconv.Itoa(u.Port)
}

// userInfo returns the user:password pair for Basic authorization and
// whether the URI carried userinfo at all.
func (u *URI) userInfo() (string, bool) {
	if u.User == "" && u.Password == "" {
		return "", false
	}
	return u.User + ":" + u.Password, true
}
