package core

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

type fakeScreen struct {
	finis int
}

func (f *fakeScreen) Fini() { f.finis++ }

func withCapture(t *testing.T) (*bytes.Buffer, *int) {
	t.Helper()
	var out bytes.Buffer
	code := -1
	prevOut, prevExit := crashOut, crashExit
	crashOut = &out
	crashExit = func(c int) { code = c }
	t.Cleanup(func() {
		crashOut, crashExit = prevOut, prevExit
		RegisterTerminal(nil)
	})
	return &out, &code
}

func TestHandleCrashRestoresTerminal(t *testing.T) {
	out, code := withCapture(t)
	screen := &fakeScreen{}
	RegisterTerminal(screen)

	HandleCrash("boom")

	if screen.finis != 1 {
		t.Errorf("Fini called %d times, want 1", screen.finis)
	}
	if *code != 1 {
		t.Errorf("exit code = %d, want 1", *code)
	}
	if !strings.Contains(out.String(), "PARALLAX CRASHED: boom") || !strings.Contains(out.String(), "Stack Trace:") {
		t.Errorf("crash report missing: %q", out.String())
	}

	// A second crash must not finalize the screen again
	HandleCrash("again")
	if screen.finis != 1 {
		t.Errorf("Fini called %d times after second crash", screen.finis)
	}
}

func TestHandleCrashNil(t *testing.T) {
	out, code := withCapture(t)
	HandleCrash(nil)
	if out.Len() != 0 || *code != -1 {
		t.Errorf("nil recover value produced output %q code %d", out.String(), *code)
	}
}

func TestGoRecovers(t *testing.T) {
	var mu sync.Mutex
	var out bytes.Buffer
	done := make(chan int, 1)

	prevOut, prevExit := crashOut, crashExit
	crashOut = &lockedWriter{mu: &mu, w: &out}
	crashExit = func(c int) { done <- c }
	defer func() { crashOut, crashExit = prevOut, prevExit }()

	Go(func() { panic("worker") })

	if c := <-done; c != 1 {
		t.Errorf("exit code = %d, want 1", c)
	}
	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(out.String(), "worker") {
		t.Errorf("panic value missing from report: %q", out.String())
	}
}

type lockedWriter struct {
	mu *sync.Mutex
	w  *bytes.Buffer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
