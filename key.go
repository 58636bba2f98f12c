package websockets

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"io"
)

// guid is the fixed GUID appended to the handshake key before hashing,
// per RFC 6455 section 1.3.
const guid = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

const (
	keySize    = 16
	nonceSize  = 24 // base64.StdEncoding.EncodedLen(keySize)
	acceptSize = 28 // base64.StdEncoding.EncodedLen(sha1.Size)
)

// GenerateKey returns a new Sec-WebSocket-Key value: 16 random bytes,
// base64-encoded to a 24-character ASCII string. Entropy is read from rnd,
// or from crypto/rand.Reader when rnd is nil; tests pass a fixed reader to
// obtain deterministic keys.
func GenerateKey(rnd io.Reader) (string, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	key := [keySize]byte{}
	if _, err := io.ReadFull(rnd, key[:]); err != nil {
		return "", fmt.Errorf("websockets: generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key[:]), nil
}

// ComputeAccept returns the Sec-WebSocket-Accept value the server must echo
// for the given Sec-WebSocket-Key: base64(SHA1(key || guid)).
func ComputeAccept(key string) string {
	sum := sha1.Sum([]byte(key + guid))
	return base64.StdEncoding.EncodeToString(sum[:])
}
