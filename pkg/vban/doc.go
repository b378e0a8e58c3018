// ABOUTME: VBAN protocol core package
// ABOUTME: Defines packet constants, header serialization, and the stream encoder
// Package vban implements the VBAN audio-over-network packet format.
//
// VBAN carries uncompressed PCM audio in fixed-layout packets: a 28-byte
// header followed by interleaved little-endian samples. This package
// provides the wire-format constants, explicit header serialization, and
// a real-time StreamEncoder that converts floating-point multichannel
// audio into a packet stream handed to a caller-supplied PacketSink.
//
// Example:
//
//	enc := vban.NewStreamEncoder(sink)
//	enc.SetStreamName("studio-mix")
//	enc.SetChannelCount(2)
//	enc.SetActive(true)
//
//	// From the audio callback:
//	enc.Process(vban.PlanarBlock(samples), 2, frameCount)
package vban
