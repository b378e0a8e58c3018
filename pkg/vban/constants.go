// ABOUTME: VBAN protocol constants and sample-rate table
// ABOUTME: Defines packet size limits, bit-format tags, and supported rates
package vban

const (
	// HeaderSize is the fixed size of a VBAN packet header in bytes.
	HeaderSize = 28

	// StreamNameSize is the fixed width of the stream name field.
	StreamNameSize = 16

	// MaxPacketSize is the largest packet VBAN allows on the wire.
	MaxPacketSize = 1464

	// MaxPayloadSize is the largest PCM payload a packet may carry.
	MaxPayloadSize = MaxPacketSize - HeaderSize

	// MaxChannels is the largest channel count a packet can describe
	// (the header stores channelCount-1 in a single byte).
	MaxChannels = 256

	// MaxSamplesPerPacket is the largest per-channel sample count a
	// packet can describe (the header stores samplesPerChannel-1 in a
	// single byte).
	MaxSamplesPerPacket = 256

	// DefaultPort is the UDP port VBAN receivers conventionally listen on.
	DefaultPort = 6980
)

// Bit-format tags for the header's format_bit field. Only the integer
// PCM formats emitted by StreamEncoder are named here; the protocol
// defines further tags (8-bit int, 24-bit int, floats) that this
// encoder does not produce.
const (
	BitFmt16Int = 1
	BitFmt32Int = 3
)

// SampleRates is the table of sample rates supported by VBAN. The
// header's format_SR field is an index into this table.
var SampleRates = [...]int{
	6000, 12000, 24000, 48000, 96000, 192000, 384000,
	8000, 16000, 32000, 64000, 128000, 256000, 512000,
	11025, 22050, 44100, 88200, 176400, 352800, 705600,
}

// SampleRateFormatCount is the number of valid format_SR indices.
const SampleRateFormatCount = len(SampleRates)

// SampleRateFormat returns the format_SR index for a sample rate in Hz.
// The second return value is false if the rate is not a VBAN rate.
func SampleRateFormat(rate int) (int, bool) {
	for i, r := range SampleRates {
		if r == rate {
			return i, true
		}
	}
	return 0, false
}
