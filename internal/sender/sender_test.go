// ABOUTME: Tests for packet sinks
// ABOUTME: Verifies UDP datagram delivery and WebSocket binary framing
package sender

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vban-stream/vban-go/pkg/vban"
)

func TestUDPSinkDeliversDatagrams(t *testing.T) {
	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer listener.Close()

	sink, err := NewUDPSink(listener.LocalAddr().String())
	if err != nil {
		t.Fatalf("failed to create sink: %v", err)
	}
	defer sink.Close()

	payload := []byte("VBAN-test-packet")
	sink.SendPacket(payload)

	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, vban.MaxPacketSize)
	n, _, err := listener.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("failed to read datagram: %v", err)
	}

	if string(buf[:n]) != string(payload) {
		t.Errorf("expected payload %q, got %q", payload, buf[:n])
	}

	packets, bytes, errors := sink.Stats()
	if packets != 1 {
		t.Errorf("expected 1 packet counted, got %d", packets)
	}
	if bytes != uint64(len(payload)) {
		t.Errorf("expected %d bytes counted, got %d", len(payload), bytes)
	}
	if errors != 0 {
		t.Errorf("expected no errors, got %d", errors)
	}
}

func TestUDPSinkImplementsPacketSink(t *testing.T) {
	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer listener.Close()

	sink, err := NewUDPSink(listener.LocalAddr().String())
	if err != nil {
		t.Fatalf("failed to create sink: %v", err)
	}
	defer sink.Close()

	// The sink must be usable directly as the encoder's packet sink.
	var _ vban.PacketSink = sink

	enc := vban.NewStreamEncoder(sink)
	enc.SetBufferSizeHint(16)
	enc.SetActive(true)

	block := make(vban.PlanarBlock, 2)
	block[0] = make([]float32, 16)
	block[1] = make([]float32, 16)
	enc.Process(block, 2, 16)

	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, vban.MaxPacketSize)
	n, _, err := listener.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("failed to read datagram: %v", err)
	}

	h, err := vban.ParseHeader(buf[:n])
	if err != nil {
		t.Fatalf("datagram is not a VBAN packet: %v", err)
	}
	if h.ChannelCount != 2 {
		t.Errorf("expected 2 channels in header, got %d", h.ChannelCount)
	}
}

func TestUDPSinkBadDestination(t *testing.T) {
	if _, err := NewUDPSink("not-a-host-name-xyz.invalid:notaport"); err == nil {
		t.Fatal("expected error for bad destination")
	}
}

func TestWebSocketSinkSendsBinaryMessages(t *testing.T) {
	received := make(chan []byte, 4)
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType == websocket.BinaryMessage {
				received <- data
			}
		}
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	sink, err := NewWebSocketSink(url)
	if err != nil {
		t.Fatalf("failed to create sink: %v", err)
	}
	defer sink.Close()

	payload := []byte("VBAN-over-websocket")
	sink.SendPacket(payload)

	select {
	case data := <-received:
		if string(data) != string(payload) {
			t.Errorf("expected payload %q, got %q", payload, data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}

	packets, bytes, _ := sink.Stats()
	if packets != 1 {
		t.Errorf("expected 1 packet counted, got %d", packets)
	}
	if bytes != uint64(len(payload)) {
		t.Errorf("expected %d bytes counted, got %d", len(payload), bytes)
	}
}

func TestWebSocketSinkBadURL(t *testing.T) {
	if _, err := NewWebSocketSink("ws://127.0.0.1:1/none"); err == nil {
		t.Fatal("expected error for unreachable URL")
	}
}
