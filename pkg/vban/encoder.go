// ABOUTME: Real-time VBAN stream encoder
// ABOUTME: Converts float multichannel audio into fixed-size packets for a sink
package vban

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// PacketSink receives completed VBAN packets. SendPacket is called
// synchronously from the audio goroutine and owns the buffer only for
// the duration of the call: the encoder reuses the same backing array
// for the next packet, so the sink must copy if it needs to retain it.
type PacketSink interface {
	SendPacket(packet []byte)
}

// SampleBlock provides per-channel indexed access to floating-point
// samples, the shape audio callbacks usually deliver. Values are
// expected in [-1, 1]; out-of-range values are clamped.
type SampleBlock interface {
	Sample(channel, frame int) float32
}

// PlanarBlock adapts a per-channel slice-of-slices to SampleBlock.
type PlanarBlock [][]float32

func (b PlanarBlock) Sample(channel, frame int) float32 {
	return b[channel][frame]
}

// Encoder defaults, matching a stereo 16-bit stream.
const (
	defaultChannelCount   = 2
	defaultBitDepth       = 16
	defaultBufferSizeHint = 256
	defaultStreamName     = "vbanstream"
)

// StreamEncoder incrementally serializes multichannel audio into VBAN
// packets and hands each completed packet to its PacketSink.
//
// Two call contexts may use an encoder concurrently: a control context
// calling the setters, and a single real-time audio context calling
// Process. Configuration fields are atomic (the stream name sits behind
// a short copy-only mutex), and setters never touch the packet buffer;
// reallocation is deferred to the next Process call so the audio path
// never races a resize and the control path never pays for one.
type StreamEncoder struct {
	// Settings, shared between control and audio contexts.
	sampleRateFormat atomic.Int32
	channelCount     atomic.Int32
	bitDepth         atomic.Int32
	bufferSizeHint   atomic.Int32
	active           atomic.Bool
	dirty            DirtyFlag

	streamName   string
	streamNameMu sync.Mutex

	// Runtime state, owned by the audio context.
	buf               []byte
	writePos          int
	frameCounter      uint32
	curChannelCount   int
	curBytesPerSample int

	sink PacketSink
}

// NewStreamEncoder creates an inactive encoder that will hand completed
// packets to sink. The encoder starts dirty so the first Process call
// after SetActive(true) builds the packet buffer.
func NewStreamEncoder(sink PacketSink) *StreamEncoder {
	e := &StreamEncoder{
		streamName: defaultStreamName,
		sink:       sink,
	}
	e.channelCount.Store(defaultChannelCount)
	e.bitDepth.Store(defaultBitDepth)
	e.bufferSizeHint.Store(defaultBufferSizeHint)
	e.dirty.Set()
	return e
}

// SetSampleRateFormat sets the stream's sample rate to one of the
// supported VBAN rates, given as an index into SampleRates. An index
// outside the table is a contract violation and panics.
func (e *StreamEncoder) SetSampleRateFormat(format int) {
	if format < 0 || format >= SampleRateFormatCount {
		panic(fmt.Sprintf("vban: sample rate format %d out of range [0, %d)", format, SampleRateFormatCount))
	}
	e.sampleRateFormat.Store(int32(format))
	e.dirty.Set()
}

// SetChannelCount sets the number of audio channels encoded in the
// stream. Counts outside [1, MaxChannels] panic.
func (e *StreamEncoder) SetChannelCount(count int) {
	if count < 1 || count > MaxChannels {
		panic(fmt.Sprintf("vban: channel count %d out of range [1, %d]", count, MaxChannels))
	}
	e.channelCount.Store(int32(count))
	e.dirty.Set()
}

// SetBitDepth sets the PCM sample width. VBAN integer PCM at 16 or 32
// bits is supported; anything else panics.
func (e *StreamEncoder) SetBitDepth(bits int) {
	if bits != 16 && bits != 32 {
		panic(fmt.Sprintf("vban: unsupported bit depth %d (want 16 or 32)", bits))
	}
	e.bitDepth.Store(int32(bits))
	e.dirty.Set()
}

// SetBufferSizeHint suggests the per-channel sample count per packet.
// The value is a hint: reconciliation clamps it to MaxSamplesPerPacket
// and shrinks it further if the payload would exceed MaxPayloadSize.
// Hints below one sample panic.
func (e *StreamEncoder) SetBufferSizeHint(samples int) {
	if samples < 1 {
		panic(fmt.Sprintf("vban: buffer size hint %d out of range", samples))
	}
	e.bufferSizeHint.Store(int32(samples))
	e.dirty.Set()
}

// SetStreamName sets the name carried in every packet header. Names
// longer than StreamNameSize bytes panic.
func (e *StreamEncoder) SetStreamName(name string) {
	if len(name) > StreamNameSize {
		panic(fmt.Sprintf("vban: stream name %q exceeds %d bytes", name, StreamNameSize))
	}
	e.streamNameMu.Lock()
	e.streamName = name
	e.streamNameMu.Unlock()
	e.dirty.Set()
}

// SetActive starts or stops packet emission. Deactivating takes effect
// at the top of the next Process call; a partially filled packet is
// abandoned, not flushed.
func (e *StreamEncoder) SetActive(active bool) {
	e.active.Store(active)
	e.dirty.Set()
}

// Active reports whether the encoder is emitting packets.
func (e *StreamEncoder) Active() bool { return e.active.Load() }

// ChannelCount returns the configured channel count.
func (e *StreamEncoder) ChannelCount() int { return int(e.channelCount.Load()) }

// BitDepth returns the configured PCM sample width in bits.
func (e *StreamEncoder) BitDepth() int { return int(e.bitDepth.Load()) }

// StreamName returns the configured stream name.
func (e *StreamEncoder) StreamName() string {
	e.streamNameMu.Lock()
	defer e.streamNameMu.Unlock()
	return e.streamName
}

// Process consumes sampleCount frames of multichannel audio. It is the
// hot path, intended to be called from a real-time audio context once
// per block. input must expose at least the committed channel count
// channels (channelCount says how many it has) and sampleCount frames
// per channel; feeding fewer channels than configured is a contract
// violation and panics.
//
// Samples are clamped to [-1, 1], scaled to the committed integer
// range, and written little-endian into the packet buffer. Each time
// the buffer fills exactly, the header's frame counter is stamped and
// the packet is handed to the sink.
func (e *StreamEncoder) Process(input SampleBlock, channelCount, sampleCount int) {
	if !e.active.Load() {
		return
	}
	if e.dirty.Check() {
		e.reconcile()
	}
	if channelCount < e.curChannelCount {
		panic(fmt.Sprintf("vban: input has %d channels, stream needs %d", channelCount, e.curChannelCount))
	}

	for frame := 0; frame < sampleCount; frame++ {
		for ch := 0; ch < e.curChannelCount; ch++ {
			sample := input.Sample(ch, frame)
			if sample > 1 {
				sample = 1
			}
			if sample < -1 {
				sample = -1
			}

			switch e.curBytesPerSample {
			case 2:
				v := int16(sample * 32767)
				e.buf[e.writePos] = byte(v)
				e.buf[e.writePos+1] = byte(v >> 8)
				e.writePos += 2
			case 4:
				// Scale in float64: 1<<31-1 is not exactly
				// representable in float32.
				v := int32(float64(sample) * 2147483647)
				e.buf[e.writePos] = byte(v)
				e.buf[e.writePos+1] = byte(v >> 8)
				e.buf[e.writePos+2] = byte(v >> 16)
				e.buf[e.writePos+3] = byte(v >> 24)
				e.writePos += 4
			}
		}

		if e.writePos >= len(e.buf) {
			if e.writePos != len(e.buf) {
				panic(fmt.Sprintf("vban: write cursor %d overran packet boundary %d", e.writePos, len(e.buf)))
			}
			stampFrameCounter(e.buf, e.frameCounter)
			e.sink.SendPacket(e.buf)
			e.writePos = HeaderSize
			e.frameCounter++
		}
	}
}

// reconcile rebuilds the packet buffer and header from the current
// settings. Called only from Process, only when the dirty flag was
// consumed, so the audio loop within one call always sees one
// consistent packet layout.
func (e *StreamEncoder) reconcile() {
	e.curChannelCount = int(e.channelCount.Load())
	e.curBytesPerSample = int(e.bitDepth.Load()) / 8

	samplesPerChannel := int(e.bufferSizeHint.Load())
	if samplesPerChannel > MaxSamplesPerPacket {
		samplesPerChannel = MaxSamplesPerPacket
	}
	frameBytes := e.curChannelCount * e.curBytesPerSample
	if samplesPerChannel*frameBytes > MaxPayloadSize {
		samplesPerChannel = MaxPayloadSize / frameBytes
	}

	e.buf = make([]byte, HeaderSize+samplesPerChannel*frameBytes)
	e.writePos = HeaderSize
	e.frameCounter = 0

	bitFormat := BitFmt16Int
	if e.curBytesPerSample == 4 {
		bitFormat = BitFmt32Int
	}

	e.streamNameMu.Lock()
	name := e.streamName
	e.streamNameMu.Unlock()

	WriteHeader(e.buf, Header{
		ChannelCount:      e.curChannelCount,
		SampleRateFormat:  int(e.sampleRateFormat.Load()),
		BitFormat:         bitFormat,
		SamplesPerChannel: samplesPerChannel,
		StreamName:        name,
		FrameCounter:      e.frameCounter,
	})
}
