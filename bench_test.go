package websockets_test

import (
	"testing"

	"github.com/kosyak/websockets"
)

var benchResponse = []byte(
	"HTTP/1.1 101 Switching Protocols\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: " + testAccept + "\r\n" +
		"\r\n",
)

func BenchmarkConnect(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c, err := websockets.NewClientConnection("wss://example.com/chat", nil)
		if err != nil {
			b.Fatal(err)
		}
		connect, err := c.Connect()
		if err != nil {
			b.Fatal(err)
		}
		if _, err := c.Send(connect); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReceiveData(b *testing.B) {
	b.ReportAllocs()
	b.SetBytes(int64(len(benchResponse)))
	for i := 0; i < b.N; i++ {
		c, err := websockets.NewClientConnection("ws://example.com/", fixedKey(nil))
		if err != nil {
			b.Fatal(err)
		}
		if _, err := c.Connect(); err != nil {
			b.Fatal(err)
		}
		events, _, err := c.ReceiveData(benchResponse)
		if err != nil {
			b.Fatal(err)
		}
		if len(events) != 1 {
			b.Fatalf("expected one event, got %d", len(events))
		}
	}
}
