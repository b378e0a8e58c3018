// ABOUTME: Audio source abstraction feeding the VBAN encoder
// ABOUTME: Dispatches file paths to WAV, MP3, or FLAC decoders, or a test tone
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source provides planar floating-point audio blocks, the shape the
// VBAN encoder consumes. Read fills block[channel][frame] with values
// in [-1, 1] and returns the number of frames written per channel.
type Source interface {
	Read(block [][]float32) (int, error)
	// SampleRate returns the sample rate of the audio in Hz
	SampleRate() int
	// Channels returns the number of channels
	Channels() int
	// Close closes the audio source
	Close() error
}

// New creates an audio source from a file path. If path is empty, it
// returns a 440Hz test tone at the given rate and channel count.
func New(path string, toneRate, toneChannels int) (Source, error) {
	if path == "" {
		return NewToneSource(440.0, toneRate, toneChannels), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		return NewWAVSource(path)
	case ".mp3":
		return NewMP3Source(path)
	case ".flac":
		return NewFLACSource(path)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .wav, .mp3, .flac)", ext)
	}
}

// Block allocates a planar sample block of the given shape.
func Block(channels, frames int) [][]float32 {
	block := make([][]float32, channels)
	for ch := range block {
		block[ch] = make([]float32, frames)
	}
	return block
}
