package session

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Cue is played when a card is flicked away
type Cue interface {
	Play()
	Close()
}

// Silent is a Cue that makes no sound
type Silent struct{}

func (Silent) Play()  {}
func (Silent) Close() {}

// tone defaults
const (
	ToneRate     = beep.SampleRate(44100)
	ToneFreq     = 660
	ToneDuration = 60 * time.Millisecond
)

// Tone plays a short sine blip through the speaker
type Tone struct {
	mu       sync.Mutex
	rate     beep.SampleRate
	freq     float64
	duration time.Duration
	ready    bool
}

// NewTone returns a tone with the stock pitch and length. The speaker is
// not opened until Init.
func NewTone() *Tone {
	return &Tone{rate: ToneRate, freq: ToneFreq, duration: ToneDuration}
}

// Init opens the speaker
func (t *Tone) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ready {
		return nil
	}
	if err := speaker.Init(t.rate, t.rate.N(time.Second/10)); err != nil {
		return err
	}
	t.ready = true
	return nil
}

// Streamer returns one blip worth of samples
func (t *Tone) Streamer() (beep.Streamer, error) {
	sine, err := generators.SineTone(t.rate, t.freq)
	if err != nil {
		return nil, err
	}
	return beep.Take(t.rate.N(t.duration), sine), nil
}

// Play queues one blip; it does nothing before Init
func (t *Tone) Play() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready {
		return
	}
	s, err := t.Streamer()
	if err != nil {
		return
	}
	speaker.Play(s)
}

// Close releases the speaker
func (t *Tone) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready {
		return
	}
	speaker.Close()
	t.ready = false
}
