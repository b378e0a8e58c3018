// ABOUTME: MP3 file audio source
// ABOUTME: Decodes MP3 to planar float32 blocks, looping at end of file
package source

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// MP3Source reads from an MP3 file. The decoder always outputs
// interleaved 16-bit stereo; Read deinterleaves into planar float32.
type MP3Source struct {
	file       *os.File
	decoder    *mp3.Decoder
	sampleRate int
	buf        []byte
}

// NewMP3Source creates a new MP3 audio source.
func NewMP3Source(path string) (*MP3Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 file: %w", err)
	}

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	log.Printf("Loaded MP3: %s (sample rate: %d Hz)", path, decoder.SampleRate())

	return &MP3Source{
		file:       f,
		decoder:    decoder,
		sampleRate: decoder.SampleRate(),
	}, nil
}

func (s *MP3Source) Read(block [][]float32) (int, error) {
	frames := len(block[0])

	// 2 channels, 2 bytes per sample
	numBytes := frames * 4
	if len(s.buf) < numBytes {
		s.buf = make([]byte, numBytes)
	}

	n, err := io.ReadFull(s.decoder, s.buf[:numBytes])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, err
	}

	framesRead := n / 4
	for i := 0; i < framesRead; i++ {
		left := int16(binary.LittleEndian.Uint16(s.buf[i*4:]))
		right := int16(binary.LittleEndian.Uint16(s.buf[i*4+2:]))
		block[0][i] = float32(left) / 32768.0
		block[1][i] = float32(right) / 32768.0
	}

	if err == io.EOF || err == io.ErrUnexpectedEOF {
		// Loop the audio - seek back to start and re-create the decoder.
		if _, seekErr := s.file.Seek(0, io.SeekStart); seekErr != nil {
			return framesRead, fmt.Errorf("failed to seek to start: %w", seekErr)
		}
		newDecoder, decErr := mp3.NewDecoder(s.file)
		if decErr != nil {
			return framesRead, fmt.Errorf("failed to create new decoder: %w", decErr)
		}
		s.decoder = newDecoder
	}

	return framesRead, nil
}

func (s *MP3Source) SampleRate() int { return s.sampleRate }
func (s *MP3Source) Channels() int   { return 2 }
func (s *MP3Source) Close() error    { return s.file.Close() }
