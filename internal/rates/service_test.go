package rates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yucheng/tripledger/internal/docstore"
)

type fakeLookup struct {
	reply string
	err   error
	calls int
}

func (f *fakeLookup) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func newTestService(t *testing.T, lookup *fakeLookup) *Service {
	t.Helper()
	store, err := docstore.NewSQLiteStore(":memory:", 0)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc := NewService(NewRepository(store), lookup, "TWD")
	svc.now = func() time.Time {
		return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestResolveHomeCurrency(t *testing.T) {
	lookup := &fakeLookup{reply: "0.22"}
	svc := newTestService(t, lookup)

	for i := 0; i < 2; i++ {
		got := svc.Resolve(context.Background(), "TWD")
		if got != (Rate{Rate: 1, Source: SourceDefault}) {
			t.Errorf("Resolve(TWD) = %+v, want rate 1 source default", got)
		}
	}
	if lookup.calls != 0 {
		t.Errorf("home currency triggered %d lookups, want 0", lookup.calls)
	}
}

func TestResolveCachesSameDay(t *testing.T) {
	lookup := &fakeLookup{reply: "The current rate is 0.22 TWD per JPY."}
	svc := newTestService(t, lookup)

	first := svc.Resolve(context.Background(), "JPY")
	if first != (Rate{Rate: 0.22, Source: SourceExternal}) {
		t.Fatalf("first Resolve = %+v, want 0.22 external", first)
	}

	second := svc.Resolve(context.Background(), "JPY")
	if second != (Rate{Rate: 0.22, Source: SourceCache}) {
		t.Errorf("second Resolve = %+v, want 0.22 cache", second)
	}
	if lookup.calls != 1 {
		t.Errorf("lookup called %d times, want 1", lookup.calls)
	}
}

func TestResolveStaleCacheRefetches(t *testing.T) {
	lookup := &fakeLookup{reply: "0.25"}
	svc := newTestService(t, lookup)

	// Yesterday's entry must not satisfy today's call.
	if err := svc.repo.PutCached(context.Background(), "JPY", "2024-01-14", 0.22); err != nil {
		t.Fatalf("PutCached: %v", err)
	}

	got := svc.Resolve(context.Background(), "JPY")
	if got != (Rate{Rate: 0.25, Source: SourceExternal}) {
		t.Errorf("Resolve = %+v, want fresh 0.25 external", got)
	}
	if lookup.calls != 1 {
		t.Errorf("lookup called %d times, want 1", lookup.calls)
	}
}

func TestResolveLookupError(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("network down")}
	svc := newTestService(t, lookup)

	got := svc.Resolve(context.Background(), "JPY")
	if got != (Rate{Rate: 1, Source: SourceError}) {
		t.Fatalf("Resolve = %+v, want rate 1 source error", got)
	}

	// Failures are never cached: the next call retries the lookup.
	svc.Resolve(context.Background(), "JPY")
	if lookup.calls != 2 {
		t.Errorf("lookup called %d times, want 2", lookup.calls)
	}
}

func TestResolveUnparsableReply(t *testing.T) {
	lookup := &fakeLookup{reply: "sorry, I cannot help with that"}
	svc := newTestService(t, lookup)

	got := svc.Resolve(context.Background(), "JPY")
	if got != (Rate{Rate: 1, Source: SourceFailed}) {
		t.Fatalf("Resolve = %+v, want rate 1 source failed", got)
	}

	svc.Resolve(context.Background(), "JPY")
	if lookup.calls != 2 {
		t.Errorf("unusable reply was cached; lookup called %d times, want 2", lookup.calls)
	}
}

func TestParseFirstNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0.22", 0.22},
		{"The rate is 4.5 today", 4.5},
		{"1 JPY = 0.21 TWD", 1}, // first numeric token wins
		{"no numbers here", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := parseFirstNumber(tt.in); got != tt.want {
			t.Errorf("parseFirstNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
