package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type stubFetcher struct {
	rate  float64
	err   error
	calls int
}

func (s *stubFetcher) GetRate(context.Context, string) (float64, error) {
	s.calls++
	return s.rate, s.err
}

func TestFxServiceMemoisesLiveRate(t *testing.T) {
	f := &stubFetcher{rate: 84.2}
	svc := NewFxService(f, "INR", 83, time.Hour)
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if got := svc.Rate(context.Background()); got != 84.2 {
			t.Fatalf("expected 84.2, got %v", got)
		}
	}
	if f.calls != 1 {
		t.Fatalf("expected 1 lookup, got %d", f.calls)
	}

	now = now.Add(61 * time.Minute)
	svc.Rate(context.Background())
	if f.calls != 2 {
		t.Fatalf("expected lookup after ttl, got %d calls", f.calls)
	}
}

func TestFxServiceFallsBack(t *testing.T) {
	f := &stubFetcher{err: errors.New("dns failure")}
	svc := NewFxService(f, "INR", 83, time.Hour)

	if got := svc.Rate(context.Background()); got != 83 {
		t.Fatalf("expected fallback 83, got %v", got)
	}
	// fallbacks are not memoised
	svc.Rate(context.Background())
	if f.calls != 2 {
		t.Fatalf("expected retry after fallback, got %d calls", f.calls)
	}

	f.err = nil
	f.rate = -1
	if got := svc.Rate(context.Background()); got != 83 {
		t.Fatalf("expected fallback for non-positive rate, got %v", got)
	}
}

func TestFxServiceWithoutFetcher(t *testing.T) {
	svc := NewFxService(nil, "INR", 83, time.Hour)
	if got := svc.Rate(context.Background()); got != 83 {
		t.Fatalf("expected fallback 83, got %v", got)
	}
}

type blockingFetcher struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (b *blockingFetcher) GetRate(context.Context, string) (float64, error) {
	if b.calls.Add(1) == 1 {
		close(b.started)
	}
	<-b.release
	return 84.5, nil
}

func TestFxServiceSharesInFlightLookup(t *testing.T) {
	f := &blockingFetcher{started: make(chan struct{}), release: make(chan struct{})}
	svc := NewFxService(f, "INR", 83, time.Hour)

	const callers = 16
	var wg sync.WaitGroup
	rates := make([]float64, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rates[i] = svc.Rate(context.Background())
		}(i)
	}

	<-f.started
	// the lock must be free while the lookup is in flight
	if _, ok := svc.cached(); ok {
		t.Fatalf("no rate should be cached yet")
	}
	time.Sleep(20 * time.Millisecond)
	close(f.release)
	wg.Wait()

	if n := f.calls.Load(); n != 1 {
		t.Fatalf("expected 1 lookup, got %d", n)
	}
	for i, r := range rates {
		if r != 84.5 {
			t.Fatalf("caller %d got %v", i, r)
		}
	}
}
