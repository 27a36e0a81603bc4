// Package imageload fetches, decodes and caches card images off the UI goroutine.
//
// Get never blocks: the first request for a url starts a background fetch and
// reports Pending; once the image is decoded (or the fetch failed) the loader
// calls its ready callback, and later Get calls return the settled result.
// Failures are logged and kept, so a broken url is not retried every frame.
package imageload

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/lixenwraith/parallax/core"
	"github.com/lixenwraith/parallax/parameter"
)

// State of a url in the loader
type State int

const (
	StatePending State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Result is the loader's view of one url
type Result struct {
	State State
	Image *image.RGBA // set when State is StateReady
	Err   error       // set when State is StateFailed
}

// Options configures a Loader, zero values select parameter defaults
type Options struct {
	Fetcher       Fetcher
	Cache         *DiskCache // optional
	Timeout       time.Duration
	MaxConcurrent int
	MaxWidth      int
	MaxBytes      int64
	OnReady       func(url string) // called from the fetch goroutine
}

type entry struct {
	result Result
	done   chan struct{}
}

// Loader is safe for concurrent use
type Loader struct {
	opts Options
	sem  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	entries map[string]*entry
	wg      sync.WaitGroup
}

// NewLoader creates a loader, Options.Fetcher is required
func NewLoader(opts Options) (*Loader, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("imageload: nil fetcher")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = parameter.ImageFetchTimeout
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = parameter.ImageMaxConcurrent
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = parameter.ImageMaxWidth
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = parameter.ImageMaxBytes
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		opts:    opts,
		sem:     make(chan struct{}, opts.MaxConcurrent),
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]*entry),
	}, nil
}

// Get returns the current result for url, starting a fetch on first request
func (l *Loader) Get(url string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[url]; ok {
		return e.result
	}
	e := &entry{result: Result{State: StatePending}, done: make(chan struct{})}
	l.entries[url] = e

	l.wg.Add(1)
	core.Go(func() {
		defer l.wg.Done()
		l.load(url, e)
	})
	return e.result
}

// Prefetch starts fetches for all urls without waiting
func (l *Loader) Prefetch(urls ...string) {
	for _, u := range urls {
		l.Get(u)
	}
}

// Wait blocks until every url has settled or ctx ends
func (l *Loader) Wait(ctx context.Context, urls ...string) error {
	for _, u := range urls {
		l.Get(u)
		l.mu.Lock()
		done := l.entries[u].done
		l.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close cancels in-flight fetches and waits for their goroutines
func (l *Loader) Close() {
	l.cancel()
	l.wg.Wait()
}

func (l *Loader) load(url string, e *entry) {
	img, err := l.fetch(url)

	l.mu.Lock()
	if err != nil {
		e.result = Result{State: StateFailed, Err: err}
	} else {
		e.result = Result{State: StateReady, Image: img}
	}
	l.mu.Unlock()

	if err != nil {
		log.Printf("imageload: %s failed: %v", url, err)
	}
	if l.opts.OnReady != nil {
		l.opts.OnReady(url)
	}
	// Waiters observe the callback as done
	close(e.done)
}

func (l *Loader) fetch(url string) (*image.RGBA, error) {
	if l.opts.Cache != nil {
		img, err := l.opts.Cache.Get(url)
		if err == nil {
			log.Printf("imageload: %s from disk cache", url)
			return img, nil
		}
		if !errors.Is(err, ErrNotCached) {
			log.Printf("imageload: cache read %s: %v", url, err)
		}
	}

	select {
	case l.sem <- struct{}{}:
		defer func() { <-l.sem }()
	case <-l.ctx.Done():
		return nil, l.ctx.Err()
	}

	ctx, cancel := context.WithTimeout(l.ctx, l.opts.Timeout)
	defer cancel()

	start := time.Now()
	body, err := l.opts.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer body.Close()

	img, err := Decode(body, l.opts.MaxBytes, l.opts.MaxWidth)
	if err != nil {
		return nil, err
	}
	log.Printf("imageload: %s loaded %dx%d in %v", url, img.Bounds().Dx(), img.Bounds().Dy(), time.Since(start).Round(time.Millisecond))

	if l.opts.Cache != nil {
		if err := l.opts.Cache.Put(url, img); err != nil {
			log.Printf("imageload: cache write %s: %v", url, err)
		}
	}
	return img, nil
}
