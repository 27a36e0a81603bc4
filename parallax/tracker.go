// Package parallax turns scroll motion into a bounded image offset.
//
// The tracker is driven from a single goroutine (the UI loop). It observes
// every scroll delta before the scroll container applies it, accumulates
// delta*Speed into one offset clamped to [-MaxOffset, MaxOffset], and never
// consumes any of the motion itself. While the list is pinned at either end
// the offset is frozen at its last value.
package parallax

import (
	"math"

	"github.com/lixenwraith/parallax/parameter"
)

// Viewport describes whether the scrolled list currently sits at an edge
type Viewport struct {
	FirstVisible bool // first item at the top with zero internal scroll
	LastVisible  bool // last item fully inside the viewport
}

// Pinned reports whether either edge is reached
func (v Viewport) Pinned() bool {
	return v.FirstVisible || v.LastVisible
}

// Config holds the two tuning constants of the transform
type Config struct {
	Speed     float64
	MaxOffset float64
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		Speed:     parameter.ParallaxSpeed,
		MaxOffset: parameter.ParallaxMaxOffset,
	}
}

// Tracker owns the parallax offset. Not safe for concurrent use
type Tracker struct {
	cfg    Config
	offset float64

	subs   []subscriber
	nextID int
}

type subscriber struct {
	id int
	fn func(offset float64)
}

// NewTracker creates a tracker at offset 0
// A non-finite or non-positive MaxOffset falls back to the default bound, a non-finite Speed to the default speed
func NewTracker(cfg Config) *Tracker {
	def := DefaultConfig()
	if !finite(cfg.MaxOffset) || cfg.MaxOffset <= 0 {
		cfg.MaxOffset = def.MaxOffset
	}
	if !finite(cfg.Speed) {
		cfg.Speed = def.Speed
	}
	return &Tracker{cfg: cfg}
}

// Config returns the tuning in use
func (t *Tracker) Config() Config {
	return t.cfg
}

// OnScroll observes one scroll delta and returns the amount consumed, which is always 0
func (t *Tracker) OnScroll(deltaY float64, vp Viewport) float64 {
	if vp.FirstVisible {
		return 0
	}
	if vp.LastVisible {
		return 0
	}
	if deltaY == 0 || !finite(deltaY) {
		return 0
	}

	next := Clamp(t.offset+deltaY*t.cfg.Speed, t.cfg.MaxOffset)
	if next == t.offset {
		return 0
	}
	t.offset = next
	t.notify()
	return 0
}

// Offset returns the stored offset
func (t *Tracker) Offset() float64 {
	return t.offset
}

// Bias returns the stored offset mapped into [-1, 1]
func (t *Tracker) Bias() float64 {
	return Bias(t.offset, t.cfg.MaxOffset)
}

// Subscribe registers fn to be called with the new offset after every change
// Subscribers run synchronously on the scrolling goroutine in registration order
// The returned cancel func removes the subscription and is safe to call twice
func (t *Tracker) Subscribe(fn func(offset float64)) (cancel func()) {
	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, subscriber{id: id, fn: fn})
	return func() {
		// Fresh slice so a cancel issued from inside a callback leaves notify's iteration intact
		kept := make([]subscriber, 0, len(t.subs))
		for _, s := range t.subs {
			if s.id != id {
				kept = append(kept, s)
			}
		}
		t.subs = kept
	}
}

func (t *Tracker) notify() {
	for _, s := range t.subs {
		s.fn(t.offset)
	}
}

// Clamp bounds v to [-limit, limit]
func Clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

// Bias maps an offset into an alignment bias in [-1, 1]
// -1 anchors an image to its top edge, 0 centers it, +1 anchors it to the bottom
func Bias(offset, maxOffset float64) float64 {
	if !finite(maxOffset) || maxOffset <= 0 || !finite(offset) {
		return 0
	}
	return Clamp(offset/maxOffset, 1)
}

// AlignOffset returns the position of content inside a container along one axis
// space is container size minus content size and may be negative when content overflows
// Halves round up, so -5.5 lands on -5 and 5.5 on 6
func AlignOffset(space int, bias float64) int {
	return int(math.Floor(float64(space)/2*(1+bias) + 0.5))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
