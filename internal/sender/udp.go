// ABOUTME: UDP packet sink for VBAN streams
// ABOUTME: Sends completed packets as datagrams and tracks send statistics
package sender

import (
	"fmt"
	"log"
	"net"
	"sync/atomic"
)

// UDPSink sends VBAN packets as UDP datagrams to a fixed destination.
// It satisfies vban.PacketSink. Send errors are logged and counted, not
// surfaced: the encoder's hot path has no error channel by design.
type UDPSink struct {
	conn *net.UDPConn
	dest string

	packets atomic.Uint64
	bytes   atomic.Uint64
	errors  atomic.Uint64
}

// NewUDPSink dials a UDP destination given as "host:port".
func NewUDPSink(dest string) (*UDPSink, error) {
	addr, err := net.ResolveUDPAddr("udp", dest)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dest, err)
	}

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", dest, err)
	}

	log.Printf("Sending VBAN stream to udp://%s", addr)

	return &UDPSink{conn: conn, dest: addr.String()}, nil
}

// SendPacket writes one packet as a single datagram. The buffer is not
// retained past the call.
func (s *UDPSink) SendPacket(packet []byte) {
	n, err := s.conn.Write(packet)
	if err != nil {
		if s.errors.Add(1) == 1 {
			log.Printf("Error sending packet to %s: %v", s.dest, err)
		}
		return
	}
	s.packets.Add(1)
	s.bytes.Add(uint64(n))
}

// Destination returns the resolved destination address.
func (s *UDPSink) Destination() string { return "udp://" + s.dest }

// Stats returns the packet, byte, and error counters.
func (s *UDPSink) Stats() (packets, bytes, errors uint64) {
	return s.packets.Load(), s.bytes.Load(), s.errors.Load()
}

// Close closes the underlying socket.
func (s *UDPSink) Close() error {
	return s.conn.Close()
}
