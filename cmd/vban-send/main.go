// ABOUTME: Entry point for the VBAN emitter CLI
// ABOUTME: Parses flags, wires source, encoder, and sink, and runs the stream
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vban-stream/vban-go/internal/discovery"
	"github.com/vban-stream/vban-go/internal/sender"
	"github.com/vban-stream/vban-go/internal/source"
	"github.com/vban-stream/vban-go/internal/streamer"
	"github.com/vban-stream/vban-go/internal/version"
	"github.com/vban-stream/vban-go/pkg/vban"
)

var (
	dest        = flag.String("dest", "127.0.0.1", "Receiver host or IP")
	port        = flag.Int("port", vban.DefaultPort, "Receiver UDP port")
	wsURL       = flag.String("ws", "", "Send over WebSocket to this ws:// URL instead of UDP")
	streamName  = flag.String("stream", "vbanstream", "Stream name (max 16 bytes)")
	audioFile   = flag.String("audio", "", "Audio file to stream (WAV, MP3, FLAC). If not specified, plays test tone")
	toneFreq    = flag.Float64("freq", 440.0, "Test tone frequency in Hz")
	sampleRate  = flag.Int("rate", 48000, "Test tone sample rate in Hz (files use their native rate)")
	channels    = flag.Int("channels", 2, "Test tone channel count (files use their native layout)")
	bitDepth    = flag.Int("bits", 16, "PCM bit depth on the wire (16 or 32)")
	bufferHint  = flag.Int("samples", 256, "Samples per channel per packet (clamped to protocol limits)")
	blockMs     = flag.Int("block-ms", streamer.DefaultBlockMs, "Audio block duration in milliseconds")
	noMDNS      = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	discover    = flag.Bool("discover", false, "Pick the first VBAN receiver found via mDNS as destination")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	logFile     = flag.String("log-file", "vban-send.log", "Log file path")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", version.Product, version.Version)
		return
	}

	useTUI := !*noTUI

	// Set up logging. With the TUI active, logs go to the file only so
	// they don't fight the display.
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	if useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	// Flag validation happens here so bad input is a friendly fatal,
	// not an encoder contract panic.
	if len(*streamName) > vban.StreamNameSize {
		log.Fatalf("stream name %q exceeds %d bytes", *streamName, vban.StreamNameSize)
	}
	if *bitDepth != 16 && *bitDepth != 32 {
		log.Fatalf("unsupported bit depth %d (want 16 or 32)", *bitDepth)
	}
	if *channels < 1 || *channels > vban.MaxChannels {
		log.Fatalf("channel count %d out of range [1, %d]", *channels, vban.MaxChannels)
	}
	if *bufferHint < 1 {
		log.Fatalf("samples per packet must be at least 1")
	}

	// Audio source.
	var src source.Source
	if *audioFile == "" {
		src = source.NewToneSource(*toneFreq, *sampleRate, *channels)
		log.Printf("Playing %.1f Hz test tone (%d Hz, %d channels)", *toneFreq, *sampleRate, *channels)
	} else {
		src, err = source.New(*audioFile, *sampleRate, *channels)
		if err != nil {
			log.Fatalf("failed to open audio source: %v", err)
		}
	}
	defer src.Close()

	srFormat, ok := vban.SampleRateFormat(src.SampleRate())
	if !ok {
		log.Fatalf("sample rate %d Hz is not a VBAN rate", src.SampleRate())
	}
	if src.Channels() > vban.MaxChannels {
		log.Fatalf("source has %d channels, VBAN allows at most %d", src.Channels(), vban.MaxChannels)
	}

	// Packet sink.
	sink, err := openSink()
	if err != nil {
		log.Fatalf("failed to open packet sink: %v", err)
	}
	defer sink.Close()

	// Encoder.
	enc := vban.NewStreamEncoder(sink)
	enc.SetStreamName(*streamName)
	enc.SetSampleRateFormat(srFormat)
	enc.SetChannelCount(src.Channels())
	enc.SetBitDepth(*bitDepth)
	enc.SetBufferSizeHint(*bufferHint)
	enc.SetActive(true)

	s := streamer.New(src, enc, sink, *blockMs)

	// mDNS advertisement.
	if !*noMDNS {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		mgr := discovery.NewManager(discovery.Config{
			InstanceName: fmt.Sprintf("%s-vban-send", hostname),
			Port:         *port,
			StreamName:   *streamName,
		})
		if err := mgr.Advertise(); err != nil {
			log.Printf("Warning: mDNS advertisement failed: %v", err)
		} else {
			defer mgr.Stop()
		}
	}

	// Shutdown on signal.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, stopping stream", sig)
		enc.SetActive(false)
		s.Stop()
	}()

	if useTUI {
		tui := streamer.NewTUI(s)

		go func() {
			select {
			case <-tui.QuitChan():
				enc.SetActive(false)
				s.Stop()
			case <-s.Done():
			}
			tui.Stop()
		}()

		go s.Run()

		if err := tui.Start(); err != nil {
			log.Printf("TUI error: %v", err)
		}
		s.Stop()
	} else {
		s.Run()
	}

	status := s.Status()
	log.Printf("Stream stopped: %d packets, %d bytes sent", status.Packets, status.Bytes)
}

// openSink builds the packet sink from the transport flags: a
// WebSocket bridge when -ws is given, a UDP datagram sink otherwise
// (optionally targeting the first receiver discovered via mDNS).
func openSink() (streamer.Sink, error) {
	if *wsURL != "" {
		return sender.NewWebSocketSink(*wsURL)
	}

	addr := fmt.Sprintf("%s:%d", *dest, *port)
	if *discover {
		mgr := discovery.NewManager(discovery.Config{})
		if err := mgr.Browse(); err != nil {
			return nil, err
		}
		defer mgr.Stop()

		log.Printf("Browsing for VBAN receivers...")
		select {
		case r := <-mgr.Receivers():
			addr = r.Addr()
		case <-time.After(5 * time.Second):
			return nil, fmt.Errorf("no VBAN receiver discovered within 5s")
		}
	}

	return sender.NewUDPSink(addr)
}
