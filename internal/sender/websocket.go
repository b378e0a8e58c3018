// ABOUTME: WebSocket packet sink for bridging VBAN over TCP transports
// ABOUTME: Sends each packet as one binary WebSocket message
package sender

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketSink forwards VBAN packets over a WebSocket connection, one
// binary message per packet. Useful for bridging a stream through
// networks where UDP is not an option.
type WebSocketSink struct {
	conn *websocket.Conn
	url  string
	mu   sync.Mutex

	packets atomic.Uint64
	bytes   atomic.Uint64
	errors  atomic.Uint64
}

// NewWebSocketSink dials a ws:// or wss:// URL.
func NewWebSocketSink(url string) (*WebSocketSink, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	log.Printf("Sending VBAN stream to %s", url)

	return &WebSocketSink{conn: conn, url: url}, nil
}

// SendPacket writes one packet as a binary message. The buffer is not
// retained past the call.
func (s *WebSocketSink) SendPacket(packet []byte) {
	s.mu.Lock()
	err := s.conn.WriteMessage(websocket.BinaryMessage, packet)
	s.mu.Unlock()

	if err != nil {
		if s.errors.Add(1) == 1 {
			log.Printf("Error sending packet to %s: %v", s.url, err)
		}
		return
	}
	s.packets.Add(1)
	s.bytes.Add(uint64(len(packet)))
}

// Destination returns the WebSocket URL packets are sent to.
func (s *WebSocketSink) Destination() string { return s.url }

// Stats returns the packet, byte, and error counters.
func (s *WebSocketSink) Stats() (packets, bytes, errors uint64) {
	return s.packets.Load(), s.bytes.Load(), s.errors.Load()
}

// Close sends a close frame and closes the connection.
func (s *WebSocketSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := time.Now().Add(time.Second)
	s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return s.conn.Close()
}
