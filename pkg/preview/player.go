// Package preview plays mapped samples through the system audio device so a
// round-robin group can be auditioned before export.
package preview

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/rs/zerolog"
)

const (
	// SampleRate is the number of samples per second
	SampleRate = 48000
	// ChannelCount represents stereo audio
	ChannelCount = 2
)

// Player is the interface for playing audio files.
type Player interface {
	PlayFile(path string) error
	Close() error
}

var (
	otoCtx *oto.Context
	once   sync.Once
	ctxErr error
)

// initOtoContext initializes the oto context singleton.
func initOtoContext() (*oto.Context, error) {
	once.Do(func() {
		op := &oto.NewContextOptions{}
		op.SampleRate = SampleRate
		op.ChannelCount = ChannelCount
		op.Format = oto.FormatSignedInt16LE

		var readyChan chan struct{}
		otoCtx, readyChan, ctxErr = oto.NewContext(op)
		if ctxErr == nil {
			<-readyChan
		}
	})
	return otoCtx, ctxErr
}

// OtoPlayer decodes WAV files and plays them through ebitengine/oto/v3.
type OtoPlayer struct {
	log zerolog.Logger
	ctx *oto.Context
}

// NewOtoPlayer creates a new player using the Oto library.
func NewOtoPlayer(log zerolog.Logger) (*OtoPlayer, error) {
	ctx, err := initOtoContext()
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize Oto audio context")
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}
	log.Debug().Msg("Oto audio context initialized successfully")

	return &OtoPlayer{
		log: log.With().Str("player_type", "oto").Logger(),
		ctx: ctx,
	}, nil
}

// PlayFile decodes a WAV file and plays it to completion.
func (p *OtoPlayer) PlayFile(path string) error {
	data, err := p.decodeWAV(path)
	if err != nil {
		p.log.Error().Err(err).Str("path", path).Msg("Failed to decode sample file")
		return fmt.Errorf("failed to decode '%s': %w", path, err)
	}
	if len(data) == 0 {
		p.log.Debug().Str("path", path).Msg("Skipping playback for empty sample")
		return nil
	}

	if err := p.playSound(bytes.NewReader(data)); err != nil {
		p.log.Error().Err(err).Str("path", path).Msg("Failed to play sample")
		return fmt.Errorf("failed to play '%s': %w", path, err)
	}

	p.log.Trace().Str("path", path).Msg("Finished playing sample")
	return nil
}

// decodeWAV reads a WAV file and converts it to interleaved stereo int16 at
// the source rate. Mono input is duplicated to both channels.
func (p *OtoPlayer) decodeWAV(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}
	if buf.Format == nil || len(buf.Data) == 0 {
		return nil, nil
	}

	out := stereo16(buf, int(dec.BitDepth))

	w := new(bytes.Buffer)
	if err := binary.Write(w, binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("failed to write audio data to buffer: %w", err)
	}
	return w.Bytes(), nil
}

// stereo16 converts a decoded PCM buffer to interleaved stereo int16. Mono
// input is duplicated to both channels; other bit depths are shifted to 16.
func stereo16(buf *audio.IntBuffer, bitDepth int) []int16 {
	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	out := make([]int16, frames*ChannelCount)
	for i := 0; i < frames; i++ {
		left := buf.Data[i*channels]
		right := left
		if channels > 1 {
			right = buf.Data[i*channels+1]
		}
		switch {
		case bitDepth < 16 && bitDepth > 0:
			left <<= uint(16 - bitDepth)
			right <<= uint(16 - bitDepth)
		case bitDepth > 16:
			left >>= uint(bitDepth - 16)
			right >>= uint(bitDepth - 16)
		}
		out[i*ChannelCount] = int16(left)
		out[i*ChannelCount+1] = int16(right)
	}
	return out
}

// playSound plays the raw audio data from an io.Reader, blocking until done.
func (p *OtoPlayer) playSound(reader io.Reader) error {
	player := p.ctx.NewPlayer(reader)
	defer player.Close()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(time.Millisecond)
	}

	if err := player.Err(); err != nil {
		return fmt.Errorf("oto player error: %w", err)
	}
	return nil
}

// Close cleans up the OtoPlayer resources. The Oto context is global and
// shared, so it stays open.
func (p *OtoPlayer) Close() error {
	p.log.Debug().Msg("Closing OtoPlayer")
	return nil
}

// StubPlayer records requested files instead of playing them. Kept for
// testing.
type StubPlayer struct {
	log zerolog.Logger

	mu     sync.Mutex
	played []string
}

// NewStubPlayer creates a new StubPlayer.
func NewStubPlayer(log zerolog.Logger) *StubPlayer {
	return &StubPlayer{log: log.With().Str("player_type", "stub").Logger()}
}

// PlayFile records the path without touching the audio device.
func (p *StubPlayer) PlayFile(path string) error {
	p.mu.Lock()
	p.played = append(p.played, path)
	p.mu.Unlock()
	p.log.Debug().Str("path", path).Msg("Simulating playing sample")
	return nil
}

// Played returns the files played so far, in order.
func (p *StubPlayer) Played() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.played...)
}

// Close cleans up the StubPlayer resources.
func (p *StubPlayer) Close() error {
	p.log.Debug().Msg("Closing StubPlayer")
	return nil
}
