package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// TestSoundManagerGracefulDegradation verifies audio operations don't panic when not initialized
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Sound operations panicked without initialization: %v", r)
		}
	}()

	if sm.PlayEdge() {
		t.Error("PlayEdge reported playing without initialization")
	}
	if sm.Enabled() {
		t.Error("Enabled() true without initialization")
	}
	sm.Cleanup()
}

// TestSoundManagerInitialization verifies sound manager can be initialized and cleaned up
func TestSoundManagerInitialization(t *testing.T) {
	sm := NewSoundManager()

	// Speaker initialization may fail in CI/test environments without audio devices
	if err := sm.Initialize(); err != nil {
		t.Logf("Sound initialization failed (expected in test environment): %v", err)
		return
	}
	defer sm.Cleanup()

	if err := sm.Initialize(); err != nil {
		t.Errorf("second Initialize failed: %v", err)
	}

	base := time.Unix(1000, 0)
	now := base
	sm.now = func() time.Time { return now }

	if !sm.PlayEdge() {
		t.Error("first PlayEdge dropped")
	}
	now = base.Add(10 * time.Millisecond)
	if sm.PlayEdge() {
		t.Error("PlayEdge inside MinSoundGap was not rate limited")
	}
	now = base.Add(time.Second)
	if !sm.PlayEdge() {
		t.Error("PlayEdge after gap dropped")
	}
}

func TestEnvelopeGain(t *testing.T) {
	e := NewEnvelope(beep.Silence(100), 100, 0.5)

	if g := e.Gain(0); g != 0 {
		t.Errorf("Gain(0) = %v, want 0", g)
	}
	if g := e.Gain(10); math.Abs(g-0.5) > 1e-9 {
		t.Errorf("Gain at attack end = %v, want 0.5", g)
	}
	prev := e.Gain(10)
	for pos := 11; pos < 100; pos++ {
		g := e.Gain(pos)
		if g > prev || g < 0 {
			t.Fatalf("release not decaying at %d: %v after %v", pos, g, prev)
		}
		prev = g
	}
}

func TestEnvelopeStream(t *testing.T) {
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{1, 1}
		}
		return len(samples), true
	})
	e := NewEnvelope(beep.Take(20, src), 20, 1)

	buf := make([][2]float64, 32)
	n, ok := e.Stream(buf)
	if n != 20 || !ok {
		t.Fatalf("Stream() = %d, %v, want 20, true", n, ok)
	}
	for i := 0; i < n; i++ {
		if want := e.Gain(i); buf[i][0] != want {
			t.Fatalf("sample %d = %v, want %v", i, buf[i][0], want)
		}
	}
	if err := e.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}
