// ABOUTME: Tests for VBAN header serialization
// ABOUTME: Verifies byte layout, round-trips, and parse validation
package vban

import (
	"bytes"
	"testing"
)

func TestWriteHeaderLayout(t *testing.T) {
	buf := make([]byte, HeaderSize)
	WriteHeader(buf, Header{
		ChannelCount:      2,
		SampleRateFormat:  3, // 48000 Hz
		BitFormat:         BitFmt16Int,
		SamplesPerChannel: 128,
		StreamName:        "studio",
		FrameCounter:      0x04030201,
	})

	if !bytes.Equal(buf[0:4], []byte("VBAN")) {
		t.Errorf("expected magic VBAN, got %q", buf[0:4])
	}
	if buf[4] != 1 {
		t.Errorf("expected format_nbc 1 (channels-1), got %d", buf[4])
	}
	if buf[5] != 3 {
		t.Errorf("expected format_SR 3, got %d", buf[5])
	}
	if buf[6] != BitFmt16Int {
		t.Errorf("expected format_bit %d, got %d", BitFmt16Int, buf[6])
	}
	if buf[7] != 127 {
		t.Errorf("expected format_nbs 127 (samples-1), got %d", buf[7])
	}
	if !bytes.Equal(buf[8:14], []byte("studio")) {
		t.Errorf("expected stream name at offset 8, got %q", buf[8:24])
	}
	for i := 14; i < 24; i++ {
		if buf[i] != 0 {
			t.Errorf("expected zero padding at offset %d, got %d", i, buf[i])
		}
	}
	if !bytes.Equal(buf[24:28], []byte{0x01, 0x02, 0x03, 0x04}) {
		t.Errorf("expected little-endian frame counter, got %v", buf[24:28])
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	in := Header{
		ChannelCount:      8,
		SampleRateFormat:  16, // 44100 Hz
		BitFormat:         BitFmt32Int,
		SamplesPerChannel: 44,
		StreamName:        "roundtrip",
		FrameCounter:      99,
	}

	buf := make([]byte, HeaderSize)
	WriteHeader(buf, in)

	out, err := ParseHeader(buf)
	if err != nil {
		t.Fatalf("failed to parse header: %v", err)
	}
	if out != in {
		t.Errorf("round trip mismatch: wrote %+v, parsed %+v", in, out)
	}
}

func TestStreamNameFullWidth(t *testing.T) {
	// A 16-byte name fills the field with no null terminator.
	name := "sixteen-bytes-xy"
	if len(name) != StreamNameSize {
		t.Fatalf("test name must be exactly %d bytes", StreamNameSize)
	}

	buf := make([]byte, HeaderSize)
	WriteHeader(buf, Header{
		ChannelCount:      1,
		BitFormat:         BitFmt16Int,
		SamplesPerChannel: 1,
		StreamName:        name,
	})

	if !bytes.Equal(buf[8:24], []byte(name)) {
		t.Errorf("expected full-width name %q, got %q", name, buf[8:24])
	}

	h, err := ParseHeader(buf)
	if err != nil {
		t.Fatalf("failed to parse header: %v", err)
	}
	if h.StreamName != name {
		t.Errorf("expected name %q, got %q", name, h.StreamName)
	}
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	buf := make([]byte, HeaderSize)
	copy(buf, "VBUM")

	if _, err := ParseHeader(buf); err == nil {
		t.Fatal("expected error for bad magic tag")
	}
}

func TestParseHeaderRejectsShortBuffer(t *testing.T) {
	if _, err := ParseHeader(make([]byte, HeaderSize-1)); err == nil {
		t.Fatal("expected error for short buffer")
	}
}

func TestWriteHeaderRejectsOversizedName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for oversized stream name")
		}
	}()

	WriteHeader(make([]byte, HeaderSize), Header{
		ChannelCount:      1,
		SamplesPerChannel: 1,
		StreamName:        "seventeen-bytes-x",
	})
}
