// ABOUTME: VBAN packet header serialization
// ABOUTME: Writes and parses the 28-byte header at explicit byte offsets
package vban

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Header byte offsets within a packet.
const (
	offMagic      = 0  // 4 bytes, ASCII "VBAN"
	offFormatNbc  = 4  // 1 byte, channelCount - 1
	offFormatSR   = 5  // 1 byte, index into SampleRates
	offFormatBit  = 6  // 1 byte, bit-format tag
	offFormatNbs  = 7  // 1 byte, samplesPerChannel - 1
	offStreamName = 8  // 16 bytes, not necessarily null-terminated
	offNuFrame    = 24 // 4 bytes, little-endian frame counter
)

// magic is the protocol identifier at the start of every packet.
var magic = [4]byte{'V', 'B', 'A', 'N'}

// Header describes the fixed-layout record at the start of every VBAN
// packet. Counted fields hold the real values; the -1 encoding is
// applied on the wire only.
type Header struct {
	ChannelCount      int    // 1..MaxChannels
	SampleRateFormat  int    // index into SampleRates
	BitFormat         int    // BitFmt16Int or BitFmt32Int
	SamplesPerChannel int    // 1..MaxSamplesPerPacket
	StreamName        string // at most StreamNameSize bytes
	FrameCounter      uint32
}

// WriteHeader serializes h into the first HeaderSize bytes of buf.
// buf must be at least HeaderSize long; field values must be within
// the protocol limits. Violations are programming errors and panic.
func WriteHeader(buf []byte, h Header) {
	if len(buf) < HeaderSize {
		panic(fmt.Sprintf("vban: header buffer too small: %d < %d", len(buf), HeaderSize))
	}
	if h.ChannelCount < 1 || h.ChannelCount > MaxChannels {
		panic(fmt.Sprintf("vban: channel count %d out of range", h.ChannelCount))
	}
	if h.SamplesPerChannel < 1 || h.SamplesPerChannel > MaxSamplesPerPacket {
		panic(fmt.Sprintf("vban: samples per channel %d out of range", h.SamplesPerChannel))
	}
	if h.SampleRateFormat < 0 || h.SampleRateFormat >= SampleRateFormatCount {
		panic(fmt.Sprintf("vban: sample rate format %d out of range", h.SampleRateFormat))
	}
	if len(h.StreamName) > StreamNameSize {
		panic(fmt.Sprintf("vban: stream name %q exceeds %d bytes", h.StreamName, StreamNameSize))
	}

	copy(buf[offMagic:], magic[:])
	buf[offFormatNbc] = byte(h.ChannelCount - 1)
	buf[offFormatSR] = byte(h.SampleRateFormat)
	buf[offFormatBit] = byte(h.BitFormat)
	buf[offFormatNbs] = byte(h.SamplesPerChannel - 1)

	n := copy(buf[offStreamName:offStreamName+StreamNameSize], h.StreamName)
	for i := offStreamName + n; i < offStreamName+StreamNameSize; i++ {
		buf[i] = 0
	}

	binary.LittleEndian.PutUint32(buf[offNuFrame:], h.FrameCounter)
}

// ParseHeader decodes the header at the start of buf. It validates the
// magic tag and buffer length; this is the decode path used by
// receivers and round-trip tests.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("packet too short for header: %d bytes", len(buf))
	}
	if !bytes.Equal(buf[offMagic:offMagic+4], magic[:]) {
		return Header{}, fmt.Errorf("invalid magic tag %q", buf[offMagic:offMagic+4])
	}

	name := buf[offStreamName : offStreamName+StreamNameSize]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}

	return Header{
		ChannelCount:      int(buf[offFormatNbc]) + 1,
		SampleRateFormat:  int(buf[offFormatSR]),
		BitFormat:         int(buf[offFormatBit]),
		SamplesPerChannel: int(buf[offFormatNbs]) + 1,
		StreamName:        string(name),
		FrameCounter:      binary.LittleEndian.Uint32(buf[offNuFrame:]),
	}, nil
}

// stampFrameCounter rewrites only the nuFrame field of an already
// serialized header.
func stampFrameCounter(buf []byte, counter uint32) {
	binary.LittleEndian.PutUint32(buf[offNuFrame:], counter)
}
