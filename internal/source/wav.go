// ABOUTME: WAV file audio source
// ABOUTME: Decodes integer PCM via go-audio into planar float32 blocks
package source

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVSource reads from a WAV file using the go-audio decoder, which
// yields interleaved integer PCM at the file's native bit depth.
type WAVSource struct {
	file       *os.File
	decoder    *wav.Decoder
	sampleRate int
	channels   int
	scale      float32
	intBuf     *audio.IntBuffer
}

// NewWAVSource creates a new WAV audio source.
func NewWAVSource(path string) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("not a valid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	log.Printf("Loaded WAV: %s (sample rate: %d Hz, channels: %d, bit depth: %d)",
		path, format.SampleRate, format.NumChannels, bitDepth)

	return &WAVSource{
		file:       f,
		decoder:    decoder,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		scale:      float32(int64(1) << (bitDepth - 1)),
	}, nil
}

func (s *WAVSource) Read(block [][]float32) (int, error) {
	frames := len(block[0])
	samples := frames * s.channels

	if s.intBuf == nil || cap(s.intBuf.Data) < samples {
		s.intBuf = &audio.IntBuffer{
			Data:   make([]int, samples),
			Format: s.decoder.Format(),
		}
	}
	s.intBuf.Data = s.intBuf.Data[:samples]

	n, err := s.decoder.PCMBuffer(s.intBuf)
	if err != nil && err != io.EOF {
		return 0, err
	}

	framesRead := n / s.channels
	for i := 0; i < framesRead; i++ {
		for ch := 0; ch < s.channels; ch++ {
			block[ch][i] = float32(s.intBuf.Data[i*s.channels+ch]) / s.scale
		}
	}

	if n < samples {
		// Loop the audio - rewind and re-create the decoder.
		if _, seekErr := s.file.Seek(0, io.SeekStart); seekErr != nil {
			return framesRead, fmt.Errorf("failed to seek to start: %w", seekErr)
		}
		s.decoder = wav.NewDecoder(s.file)
		if !s.decoder.IsValidFile() {
			return framesRead, fmt.Errorf("failed to re-open WAV stream")
		}
	}

	return framesRead, nil
}

func (s *WAVSource) SampleRate() int { return s.sampleRate }
func (s *WAVSource) Channels() int   { return s.channels }
func (s *WAVSource) Close() error    { return s.file.Close() }
