package preview

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/dspforge/dspforge/pkg/preset"
)

// DefaultGap is the pause between samples in a preview cycle.
const DefaultGap = 2 * time.Second

// Cycle plays through a group's samples in the background, honoring the
// group's sequencing mode. The sample list is never mutated.
type Cycle struct {
	log      zerolog.Logger
	player   Player
	samples  []*preset.Sample
	mode     preset.SeqMode
	gap      time.Duration
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
}

// StartCycle begins playback of samples in a goroutine and returns the
// running cycle. How samples are chosen depends on mode:
//
//   - round_robin plays each sample once, in order
//   - random and true_random play min(5, 2*len) randomly chosen samples,
//     true_random with a randomized delay between picks
//   - any other mode plays only the first sample
func StartCycle(samples []*preset.Sample, mode preset.SeqMode, player Player, log zerolog.Logger, gap time.Duration) *Cycle {
	if gap <= 0 {
		gap = DefaultGap
	}
	c := &Cycle{
		log:     log.With().Str("component", "preview").Logger(),
		player:  player,
		samples: append([]*preset.Sample(nil), samples...),
		mode:    mode,
		gap:     gap,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	c.running.Store(true)
	go c.run()
	return c
}

func (c *Cycle) run() {
	defer func() {
		c.running.Store(false)
		close(c.done)
	}()

	if len(c.samples) == 0 {
		return
	}

	switch c.mode {
	case preset.SeqRoundRobin:
		for i, s := range c.samples {
			if c.stopped() {
				return
			}
			c.playOne(s)
			if i < len(c.samples)-1 && !c.pause(c.gap) {
				return
			}
		}
	case preset.SeqRandom, preset.SeqTrueRandom:
		plays := 2 * len(c.samples)
		if plays > 5 {
			plays = 5
		}
		for i := 0; i < plays; i++ {
			if c.stopped() {
				return
			}
			c.playOne(c.samples[rand.Intn(len(c.samples))])
			if i < plays-1 {
				delay := c.gap
				if c.mode == preset.SeqTrueRandom {
					delay = time.Second + time.Duration(rand.Intn(2000))*time.Millisecond
				}
				if !c.pause(delay) {
					return
				}
			}
		}
	default:
		c.playOne(c.samples[0])
	}
}

func (c *Cycle) playOne(s *preset.Sample) {
	c.log.Debug().Str("file", s.FileName()).Msg("Previewing sample")
	if err := c.player.PlayFile(s.FilePath); err != nil {
		c.log.Warn().Err(err).Str("file", s.FileName()).Msg("Preview playback failed, skipping")
	}
}

// pause sleeps for d unless stopped first.
func (c *Cycle) pause(d time.Duration) bool {
	select {
	case <-c.stop:
		return false
	case <-time.After(d):
		return true
	}
}

func (c *Cycle) stopped() bool {
	select {
	case <-c.stop:
		return true
	default:
		return false
	}
}

// Stop requests the cycle to end. Safe to call more than once.
func (c *Cycle) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// IsRunning reports whether the cycle is still playing.
func (c *Cycle) IsRunning() bool {
	return c.running.Load()
}

// Done is closed when the cycle has finished.
func (c *Cycle) Done() <-chan struct{} {
	return c.done
}
