// ABOUTME: Test tone generator source
// ABOUTME: Produces a continuous sine wave on every channel
package source

import "math"

// ToneSource generates a continuous sine wave, duplicated to every
// channel. It never returns EOF.
type ToneSource struct {
	frequency   float64
	amplitude   float64
	sampleRate  int
	channels    int
	sampleIndex uint64
}

// NewToneSource creates a sine generator at the given frequency.
func NewToneSource(frequency float64, sampleRate, channels int) *ToneSource {
	return &ToneSource{
		frequency:  frequency,
		amplitude:  0.5, // 50% volume
		sampleRate: sampleRate,
		channels:   channels,
	}
}

func (s *ToneSource) Read(block [][]float32) (int, error) {
	frames := len(block[0])

	for i := 0; i < frames; i++ {
		t := float64(s.sampleIndex+uint64(i)) / float64(s.sampleRate)
		sample := float32(math.Sin(2*math.Pi*s.frequency*t) * s.amplitude)

		for ch := 0; ch < s.channels; ch++ {
			block[ch][i] = sample
		}
	}

	s.sampleIndex += uint64(frames)

	return frames, nil
}

func (s *ToneSource) SampleRate() int { return s.sampleRate }
func (s *ToneSource) Channels() int   { return s.channels }
func (s *ToneSource) Close() error    { return nil }
