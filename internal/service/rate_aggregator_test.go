package service

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/GTDGit/gtd_jewel/internal/models"
)

type fakeSource struct {
	name  string
	snap  *models.MetalRateSnapshot
	err   error
	block bool
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context) (*models.MetalRateSnapshot, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.snap, f.err
}

func snapshot(gold, silver float64) *models.MetalRateSnapshot {
	return &models.MetalRateSnapshot{
		Gold:        quote(gold, 0, 0),
		Silver:      quote(silver, 0, 0),
		LastUpdated: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		Source:      "provider-internal",
	}
}

func TestRefreshReturnsFirstSuccess(t *testing.T) {
	first := &fakeSource{name: "a", err: errors.New("boom")}
	second := &fakeSource{name: "b", snap: snapshot(7000, 90)}
	third := &fakeSource{name: "c", snap: snapshot(1, 1)}

	agg := NewRateAggregator([]RateSource{first, second, third}, DefaultFallbackTable(), time.Second)
	snap, fallback := agg.Refresh(context.Background())

	if fallback {
		t.Fatalf("live snapshot reported as fallback")
	}
	if snap.Source != "b" || snap.Gold.PricePerGram != 7000 {
		t.Fatalf("expected snapshot from b, got %+v", snap)
	}
	if first.calls != 1 || second.calls != 1 || third.calls != 0 {
		t.Fatalf("unexpected call counts %d %d %d", first.calls, second.calls, third.calls)
	}
}

func TestRefreshSkipsInvalidSnapshot(t *testing.T) {
	bad := &fakeSource{name: "bad", snap: snapshot(math.NaN(), 90)}
	zero := &fakeSource{name: "zero", snap: snapshot(7000, 0)}
	good := &fakeSource{name: "good", snap: snapshot(7000, 90)}

	agg := NewRateAggregator([]RateSource{bad, zero, good}, DefaultFallbackTable(), time.Second)
	if snap, _ := agg.Refresh(context.Background()); snap.Source != "good" {
		t.Fatalf("expected good source, got %q", snap.Source)
	}
}

func TestRefreshFallsBackWhenAllFail(t *testing.T) {
	sources := []RateSource{
		&fakeSource{name: "a", err: errors.New("down")},
		&fakeSource{name: "b", snap: snapshot(0, 0)},
	}
	agg := NewRateAggregator(sources, DefaultFallbackTable(), time.Second)
	now := time.Date(2026, 10, 14, 8, 30, 0, 0, time.UTC)
	agg.now = func() time.Time { return now }

	snap, fallback := agg.Refresh(context.Background())
	if !fallback {
		t.Fatalf("expected fallback to be reported")
	}
	if snap.Source != FallbackSourceTag("2026-10-14") {
		t.Fatalf("unexpected fallback source %q", snap.Source)
	}
	if !strings.HasPrefix(snap.Source, "Current Market Rates (") {
		t.Fatalf("fallback tag format changed: %q", snap.Source)
	}
	if snap.Gold.PricePerGram <= 0 || snap.Silver.PricePerGram <= 0 {
		t.Fatalf("fallback prices must be positive: %+v", snap)
	}
}

func TestRefreshWithNoSourcesServesFallback(t *testing.T) {
	table := FallbackTable{GoldPerGram: 7000, SilverPerGram: 85, AsOf: "2026-09-30"}
	agg := NewRateAggregator(nil, table, 0)
	snap, _ := agg.Refresh(context.Background())
	if snap.Gold.PricePerGram != 7000 || snap.Source != "Current Market Rates (2026-09-30)" {
		t.Fatalf("unexpected fallback snapshot %+v", snap)
	}
}

func TestRefreshTimesOutSlowSource(t *testing.T) {
	slow := &fakeSource{name: "slow", block: true}
	fast := &fakeSource{name: "fast", snap: snapshot(7000, 90)}
	agg := NewRateAggregator([]RateSource{slow, fast}, DefaultFallbackTable(), 20*time.Millisecond)

	start := time.Now()
	snap, _ := agg.Refresh(context.Background())
	if snap.Source != "fast" {
		t.Fatalf("expected fast source, got %q", snap.Source)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("slow source was not bounded by timeout")
	}
}

func TestNewRateAggregatorReplacesInvalidFallback(t *testing.T) {
	agg := NewRateAggregator(nil, FallbackTable{GoldPerGram: -1}, time.Second)
	snap, _ := agg.Refresh(context.Background())
	if snap.Gold.PricePerGram != defaultFallbackGold || snap.Silver.PricePerGram != defaultFallbackSilver {
		t.Fatalf("expected built-in defaults, got %+v", snap)
	}
}

func TestOrderSources(t *testing.T) {
	a, b, c := &fakeSource{name: "a"}, &fakeSource{name: "b"}, &fakeSource{name: "c"}
	names := func(srcs []RateSource) []string {
		out := make([]string, 0, len(srcs))
		for _, s := range srcs {
			out = append(out, s.Name())
		}
		return out
	}

	cases := []struct {
		order []string
		want  []string
	}{
		{nil, []string{"a", "b", "c"}},
		{[]string{"c"}, []string{"c", "a", "b"}},
		{[]string{"b", "a"}, []string{"b", "a", "c"}},
		{[]string{"unknown", "c", "c"}, []string{"c", "a", "b"}},
	}
	for _, tc := range cases {
		got := names(OrderSources([]RateSource{a, b, c}, tc.order))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("order %v: got %v, want %v", tc.order, got, tc.want)
		}
	}
}

func TestLoadFallbackTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	if err := os.WriteFile(path, []byte("gold_per_gram: 7150.5\nas_of: \"2026-09-01\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	table, err := LoadFallbackTable(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if table.GoldPerGram != 7150.5 || table.SilverPerGram != defaultFallbackSilver || table.AsOf != "2026-09-01" {
		t.Fatalf("unexpected table %+v", table)
	}

	if _, err := LoadFallbackTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFallbackTableMergeKeepsPositiveOnly(t *testing.T) {
	got := DefaultFallbackTable().Merge(FallbackTable{SilverPerGram: 95})
	if got.GoldPerGram != defaultFallbackGold || got.SilverPerGram != 95 {
		t.Fatalf("unexpected merge %+v", got)
	}
}
