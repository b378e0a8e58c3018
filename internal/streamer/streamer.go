// ABOUTME: Emitter engine pumping audio blocks into the VBAN encoder
// ABOUTME: Drives a source on a fixed block cadence and tracks stream stats
package streamer

import (
	"log"
	"sync"
	"time"

	"github.com/vban-stream/vban-go/internal/source"
	"github.com/vban-stream/vban-go/pkg/vban"
)

const (
	// DefaultBlockMs is the audio block duration the pump loop runs at.
	DefaultBlockMs = 20
)

// Sink is a packet sink that also reports where packets go and how many
// were sent. Both sender implementations satisfy it.
type Sink interface {
	vban.PacketSink
	Destination() string
	Stats() (packets, bytes, errors uint64)
	Close() error
}

// Status is a snapshot of the stream for display.
type Status struct {
	StreamName  string
	Destination string
	SampleRate  int
	Channels    int
	BitDepth    int
	Packets     uint64
	Bytes       uint64
	SendErrors  uint64
	Uptime      time.Duration
}

// Streamer reads blocks from an audio source on a fixed cadence and
// feeds them to a VBAN stream encoder. It stands in for the real-time
// audio callback that drives the encoder in a capture pipeline.
type Streamer struct {
	src     source.Source
	encoder *vban.StreamEncoder
	sink    Sink

	block  [][]float32
	frames int

	startTime time.Time
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// New creates a streamer pumping blockMs-sized blocks from src through
// encoder. The encoder is assumed to be configured for the source's
// channel count and sample rate.
func New(src source.Source, encoder *vban.StreamEncoder, sink Sink, blockMs int) *Streamer {
	if blockMs <= 0 {
		blockMs = DefaultBlockMs
	}
	frames := src.SampleRate() * blockMs / 1000

	return &Streamer{
		src:       src,
		encoder:   encoder,
		sink:      sink,
		block:     source.Block(src.Channels(), frames),
		frames:    frames,
		startTime: time.Now(),
		stopChan:  make(chan struct{}),
	}
}

// Run pumps audio until Stop is called or the source fails. It blocks.
func (s *Streamer) Run() {
	blockDuration := time.Duration(s.frames) * time.Second / time.Duration(s.src.SampleRate())

	log.Printf("Streamer starting: %d frames per block every %v", s.frames, blockDuration)

	ticker := time.NewTicker(blockDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := s.src.Read(s.block)
			if err != nil {
				log.Printf("Audio source error, stopping: %v", err)
				s.Stop()
				return
			}
			s.encoder.Process(vban.PlanarBlock(s.block), s.src.Channels(), n)

		case <-s.stopChan:
			log.Printf("Streamer stopping")
			return
		}
	}
}

// Stop halts the pump loop. Safe to call more than once.
func (s *Streamer) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// Done reports when the pump loop has been stopped.
func (s *Streamer) Done() <-chan struct{} {
	return s.stopChan
}

// Status returns a snapshot of the stream for display.
func (s *Streamer) Status() Status {
	packets, bytes, sendErrors := s.sink.Stats()

	return Status{
		StreamName:  s.encoder.StreamName(),
		Destination: s.sink.Destination(),
		SampleRate:  s.src.SampleRate(),
		Channels:    s.encoder.ChannelCount(),
		BitDepth:    s.encoder.BitDepth(),
		Packets:     packets,
		Bytes:       bytes,
		SendErrors:  sendErrors,
		Uptime:      time.Since(s.startTime),
	}
}
