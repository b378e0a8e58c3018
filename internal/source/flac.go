// ABOUTME: FLAC file audio source
// ABOUTME: Parses FLAC frames into planar float32 blocks, looping at end of file
package source

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mewkiz/flac"
)

// FLACSource reads from a FLAC file. FLAC frames are already planar;
// leftover samples from a parsed frame are carried over to the next
// Read since frame sizes rarely match block sizes.
type FLACSource struct {
	file       *os.File
	stream     *flac.Stream
	sampleRate int
	channels   int
	bitDepth   int

	pending    [][]float32
	pendingPos int
}

// NewFLACSource creates a new FLAC audio source.
func NewFLACSource(path string) (*FLACSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FLAC file: %w", err)
	}

	stream, err := flac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	log.Printf("Loaded FLAC: %s (sample rate: %d Hz, channels: %d, bit depth: %d)",
		path, info.SampleRate, info.NChannels, info.BitsPerSample)

	return &FLACSource{
		file:       f,
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
	}, nil
}

func (s *FLACSource) Read(block [][]float32) (int, error) {
	frames := len(block[0])
	written := 0

	for written < frames {
		if s.pending == nil || s.pendingPos >= len(s.pending[0]) {
			if err := s.parseNextFrame(); err != nil {
				return written, err
			}
		}

		n := copyPlanar(block, written, s.pending, s.pendingPos, frames-written)
		written += n
		s.pendingPos += n
	}

	return written, nil
}

// parseNextFrame decodes one FLAC frame into the pending buffer,
// looping back to the start of the file at EOF.
func (s *FLACSource) parseNextFrame() error {
	for {
		frame, err := s.stream.ParseNext()
		if err == io.EOF {
			if _, seekErr := s.file.Seek(0, io.SeekStart); seekErr != nil {
				return fmt.Errorf("failed to seek to start: %w", seekErr)
			}
			newStream, decErr := flac.New(s.file)
			if decErr != nil {
				return fmt.Errorf("failed to create new stream: %w", decErr)
			}
			s.stream = newStream
			continue
		}
		if err != nil {
			return err
		}

		scale := float32(int64(1) << (s.bitDepth - 1))

		if s.pending == nil || len(s.pending) != s.channels || cap(s.pending[0]) < int(frame.BlockSize) {
			s.pending = Block(s.channels, int(frame.BlockSize))
		}
		for ch := 0; ch < s.channels; ch++ {
			s.pending[ch] = s.pending[ch][:frame.BlockSize]
			for i, sample := range frame.Subframes[ch].Samples {
				s.pending[ch][i] = float32(sample) / scale
			}
		}
		s.pendingPos = 0

		return nil
	}
}

// copyPlanar copies up to max frames from src[*][srcPos:] into
// dst[*][dstPos:], returning the frame count copied.
func copyPlanar(dst [][]float32, dstPos int, src [][]float32, srcPos, max int) int {
	n := len(src[0]) - srcPos
	if n > max {
		n = max
	}
	for ch := range dst {
		copy(dst[ch][dstPos:dstPos+n], src[ch][srcPos:srcPos+n])
	}
	return n
}

func (s *FLACSource) SampleRate() int { return s.sampleRate }
func (s *FLACSource) Channels() int   { return s.channels }
func (s *FLACSource) Close() error    { return s.file.Close() }
