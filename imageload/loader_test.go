package imageload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	data := testPNG(t, 80, 40)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/card.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(data)
		case "/garbage.png":
			w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestLoaderPendingThenReady(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)

	var mu sync.Mutex
	var ready []string
	l, err := NewLoader(Options{
		Fetcher: NewSchemeFetcher(srv.Client(), nil),
		OnReady: func(url string) {
			mu.Lock()
			ready = append(ready, url)
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	defer l.Close()

	url := srv.URL + "/card.png"
	if got := l.Get(url); got.State != StatePending {
		t.Fatalf("first Get state = %v, want pending", got.State)
	}
	if err := l.Wait(waitCtx(t), url); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	got := l.Get(url)
	if got.State != StateReady || got.Image == nil {
		t.Fatalf("settled Get = %+v, want ready image", got)
	}
	if b := got.Image.Bounds(); b.Dx() != 80 || b.Dy() != 40 {
		t.Errorf("image bounds = %v, want 80x40", b)
	}

	l.Get(url)
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(ready) != 1 || ready[0] != url {
		t.Errorf("OnReady calls = %v, want [%s]", ready, url)
	}
}

func TestLoaderFailures(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)

	l, err := NewLoader(Options{Fetcher: NewSchemeFetcher(srv.Client(), nil)})
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	defer l.Close()

	tests := []struct {
		name string
		url  string
		want error
	}{
		{"not found", srv.URL + "/missing.png", ErrBadStatus},
		{"unknown scheme", "gopher://host/a.png", ErrUnsupportedScheme},
		{"undecodable", srv.URL + "/garbage.png", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := l.Wait(waitCtx(t), tt.url); err != nil {
				t.Fatalf("Wait: %v", err)
			}
			got := l.Get(tt.url)
			if got.State != StateFailed || got.Err == nil {
				t.Fatalf("Get = %+v, want failed", got)
			}
			if tt.want != nil && !errors.Is(got.Err, tt.want) {
				t.Errorf("err = %v, want %v", got.Err, tt.want)
			}
		})
	}
}

func TestLoaderDiskCache(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)
	url := srv.URL + "/card.png"

	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}

	first, _ := NewLoader(Options{Fetcher: NewSchemeFetcher(srv.Client(), nil), Cache: cache})
	if err := first.Wait(waitCtx(t), url); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	first.Close()

	offline := FetcherFunc(func(context.Context, string) (io.ReadCloser, error) {
		return nil, errors.New("offline")
	})
	second, _ := NewLoader(Options{Fetcher: offline, Cache: cache})
	defer second.Close()
	if err := second.Wait(waitCtx(t), url); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got := second.Get(url); got.State != StateReady {
		t.Errorf("cached Get = %+v, want ready", got)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
}

func TestLoaderConcurrencyBound(t *testing.T) {
	data := testPNG(t, 4, 4)
	var inFlight, peak atomic.Int32
	release := make(chan struct{})

	slow := FetcherFunc(func(ctx context.Context, _ string) (io.ReadCloser, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return io.NopCloser(strings.NewReader(string(data))), nil
	})

	l, _ := NewLoader(Options{Fetcher: slow, MaxConcurrent: 2})
	defer l.Close()

	urls := []string{"a", "b", "c", "d", "e"}
	l.Prefetch(urls...)
	time.Sleep(50 * time.Millisecond)
	close(release)

	if err := l.Wait(waitCtx(t), urls...); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if p := peak.Load(); p > 2 {
		t.Errorf("peak concurrent fetches = %d, want <= 2", p)
	}
	for _, u := range urls {
		if got := l.Get(u); got.State != StateReady {
			t.Errorf("Get(%q) = %v, want ready", u, got.State)
		}
	}
}

func TestLoaderTimeout(t *testing.T) {
	hang := FetcherFunc(func(ctx context.Context, _ string) (io.ReadCloser, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	l, _ := NewLoader(Options{Fetcher: hang, Timeout: 20 * time.Millisecond})
	defer l.Close()

	if err := l.Wait(waitCtx(t), "slow"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	got := l.Get("slow")
	if got.State != StateFailed || !errors.Is(got.Err, context.DeadlineExceeded) {
		t.Errorf("Get = %+v, want deadline failure", got)
	}
}

func TestNewLoaderRequiresFetcher(t *testing.T) {
	if _, err := NewLoader(Options{}); err == nil {
		t.Error("NewLoader without fetcher succeeded")
	}
}
