// Package audio plays short feedback sounds through the system speaker.
package audio

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/parallax/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// SoundManager owns the speaker and a mixer all sounds are added to
// Every method is safe to call before Initialize or after it failed; sounds are then dropped
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	lastPlay    time.Time
	now         func() time.Time
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
		now:   time.Now,
	}
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	log.Printf("audio: speaker initialized at %d Hz", parameter.AudioSampleRate)
	return nil
}

// Enabled reports whether sounds reach the speaker
func (sm *SoundManager) Enabled() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// PlayEdge plays the short click marking that the list reached its start or end
// Returns false when the click was dropped (not initialized or rate limited)
func (sm *SoundManager) PlayEdge() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return false
	}
	now := sm.now()
	if !sm.lastPlay.IsZero() && now.Sub(sm.lastPlay) < parameter.MinSoundGap {
		return false
	}
	sm.lastPlay = now

	tone, err := generators.SineTone(sampleRate, parameter.EdgeClickFrequency)
	if err != nil {
		log.Printf("audio: edge tone: %v", err)
		return false
	}
	n := sampleRate.N(parameter.EdgeClickDuration)
	click := NewEnvelope(beep.Take(n, tone), n, parameter.EdgeClickVolume)

	speaker.Lock()
	sm.mixer.Add(click)
	speaker.Unlock()
	return true
}

// Envelope shapes a streamer with a linear attack and exponential release, scaled by volume
type Envelope struct {
	src    beep.Streamer
	pos    int
	total  int
	volume float64
}

// NewEnvelope wraps src, total is the expected sample count of src
func NewEnvelope(src beep.Streamer, total int, volume float64) *Envelope {
	return &Envelope{src: src, total: max(total, 1), volume: volume}
}

func (e *Envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.src.Stream(samples)
	for i := 0; i < n; i++ {
		gain := e.Gain(e.pos)
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok
}

// Gain returns the amplitude at sample position pos
func (e *Envelope) Gain(pos int) float64 {
	attack := max(e.total/10, 1)
	var g float64
	if pos < attack {
		g = float64(pos) / float64(attack)
	} else {
		g = math.Exp(-4 * float64(pos-attack) / float64(e.total))
	}
	return g * e.volume
}

func (e *Envelope) Err() error {
	return e.src.Err()
}
