package reconcile

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"boostwatch/pkg/odds"
)

type fakeNotifier struct {
	boosts []Observation
	health []string
}

func (f *fakeNotifier) PostBoostAlert(_ context.Context, obs Observation) {
	f.boosts = append(f.boosts, obs)
}

func (f *fakeNotifier) PostHealthAlert(_ context.Context, msg string) {
	f.health = append(f.health, msg)
}

func oddsPtr(v odds.Value) *odds.Value { return &v }

func newTestReconciler(t *testing.T, cfg Config) (*Reconciler, *fakeNotifier) {
	t.Helper()
	n := &fakeNotifier{}
	r := New(context.Background(), cfg, NewMemoryStore(), n, zap.NewNop())
	return r, n
}

func obsAt(pct float64, was, now *odds.Value, at time.Time) Observation {
	return Observation{Percentage: pct, WasOdds: was, NowOdds: now, ObservedAt: at}
}

func TestFirstObservationAlerts(t *testing.T) {
	r, n := newTestReconciler(t, Config{StaleTimeout: time.Hour, MaxFailures: 3})
	obs := obsAt(25, oddsPtr(100), oddsPtr(150), time.Now())
	if !r.Observe(context.Background(), obs) {
		t.Fatal("first observation must be a new boost")
	}
	if len(n.boosts) != 1 {
		t.Fatalf("expected 1 boost alert, got %d", len(n.boosts))
	}
}

func TestRepeatObservationIsReflexiveFalse(t *testing.T) {
	r, n := newTestReconciler(t, Config{StaleTimeout: time.Hour, MaxFailures: 3})
	obs := obsAt(25, oddsPtr(100), oddsPtr(150), time.Now())
	r.Observe(context.Background(), obs)
	if r.Observe(context.Background(), obs) {
		t.Fatal("identical observation after identity update must not be new")
	}
	if len(n.boosts) != 1 {
		t.Fatalf("repeat must not alert, got %d alerts", len(n.boosts))
	}
}

func TestAnySingleFieldChangeIsNewBoost(t *testing.T) {
	base := obsAt(25, oddsPtr(100), oddsPtr(150), time.Now())
	variants := []Observation{
		obsAt(30, oddsPtr(100), oddsPtr(150), time.Now()), // percentage
		obsAt(25, oddsPtr(110), oddsPtr(150), time.Now()), // was odds
		obsAt(25, oddsPtr(100), oddsPtr(160), time.Now()), // now odds
		obsAt(25, nil, oddsPtr(150), time.Now()),          // odds lost
	}
	for i, v := range variants {
		r, _ := newTestReconciler(t, Config{StaleTimeout: time.Hour, MaxFailures: 3})
		r.Observe(context.Background(), base)
		if !r.Observe(context.Background(), v) {
			t.Fatalf("variant %d should be a new boost", i)
		}
	}
}

func TestNilOddsEqualsNil(t *testing.T) {
	r, n := newTestReconciler(t, Config{StaleTimeout: time.Hour, MaxFailures: 3})
	obs := obsAt(25, nil, nil, time.Now())
	r.Observe(context.Background(), obs)
	if r.Observe(context.Background(), obs) {
		t.Fatal("nil odds must compare equal to nil odds")
	}
	if len(n.boosts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(n.boosts))
	}
}

func TestFailureWatchEdgeTriggered(t *testing.T) {
	r, n := newTestReconciler(t, Config{StaleTimeout: time.Hour, MaxFailures: 3})
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		r.RecordFailure()
	}
	r.CheckFailures(ctx)
	if len(n.health) != 1 {
		t.Fatalf("expected 1 health alert at threshold, got %d", len(n.health))
	}
	// Crossing again without an intervening success must not re-fire.
	r.RecordFailure()
	r.CheckFailures(ctx)
	r.CheckFailures(ctx)
	if len(n.health) != 1 {
		t.Fatalf("failure alert must fire exactly once, got %d", len(n.health))
	}
}

func TestSuccessRearmsFailureWatch(t *testing.T) {
	r, n := newTestReconciler(t, Config{StaleTimeout: time.Hour, MaxFailures: 2})
	ctx := context.Background()
	r.RecordFailure()
	r.RecordFailure()
	r.CheckFailures(ctx)
	if len(n.health) != 1 {
		t.Fatalf("expected 1 health alert, got %d", len(n.health))
	}
	// Any successful parse (even a repeat) clears the counter and the flag.
	obs := obsAt(25, oddsPtr(100), oddsPtr(150), time.Now())
	r.Observe(ctx, obs)
	r.Observe(ctx, obs)
	r.RecordFailure()
	r.RecordFailure()
	r.CheckFailures(ctx)
	if len(n.health) != 2 {
		t.Fatalf("re-armed watch should fire again, got %d", len(n.health))
	}
}

func TestStaleWatchBoundary(t *testing.T) {
	r, n := newTestReconciler(t, Config{StaleTimeout: 10 * time.Minute, MaxFailures: 3})
	ctx := context.Background()
	t0 := time.Now()
	r.Observe(ctx, obsAt(25, oddsPtr(100), oddsPtr(150), t0))

	r.CheckStale(ctx, t0.Add(10*time.Minute-time.Second))
	if len(n.health) != 0 {
		t.Fatalf("no alert expected before the timeout, got %d", len(n.health))
	}
	r.CheckStale(ctx, t0.Add(10*time.Minute))
	if len(n.health) != 1 {
		t.Fatalf("expected exactly one stale alert, got %d", len(n.health))
	}
	// Ticks keep coming; the alert must not repeat.
	r.CheckStale(ctx, t0.Add(time.Hour))
	if len(n.health) != 1 {
		t.Fatalf("stale alert must be edge-triggered, got %d", len(n.health))
	}
	// A new boost re-arms the watch.
	r.Observe(ctx, obsAt(40, oddsPtr(100), oddsPtr(180), t0.Add(2*time.Hour)))
	r.CheckStale(ctx, t0.Add(2*time.Hour).Add(11*time.Minute))
	if len(n.health) != 2 {
		t.Fatalf("re-armed stale watch should fire again, got %d", len(n.health))
	}
}

func TestFailuresDoNotTouchStaleClock(t *testing.T) {
	r, _ := newTestReconciler(t, Config{StaleTimeout: time.Hour, MaxFailures: 100})
	before := r.Snapshot().LastUniqueBoostAt
	r.RecordFailure()
	r.RecordFailure()
	if got := r.Snapshot().LastUniqueBoostAt; !got.Equal(before) {
		t.Fatalf("failures must not move the stale clock: %v -> %v", before, got)
	}
}

func TestIdentityRestoredFromStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	n1 := &fakeNotifier{}
	r1 := New(ctx, Config{StaleTimeout: time.Hour, MaxFailures: 3}, store, n1, zap.NewNop())
	obs := obsAt(25, oddsPtr(100), oddsPtr(150), time.Now())
	r1.Observe(ctx, obs)

	// Same store, fresh process: the boost still on screen must not re-alert.
	n2 := &fakeNotifier{}
	r2 := New(ctx, Config{StaleTimeout: time.Hour, MaxFailures: 3}, store, n2, zap.NewNop())
	if r2.Observe(ctx, obs) {
		t.Fatal("restored identity must absorb the duplicate observation")
	}
	if len(n2.boosts) != 0 {
		t.Fatalf("expected no alerts after restore, got %d", len(n2.boosts))
	}
}

func TestOnNewBoostHook(t *testing.T) {
	r, _ := newTestReconciler(t, Config{StaleTimeout: time.Hour, MaxFailures: 3})
	var seen []Observation
	r.OnNewBoost = func(o Observation) { seen = append(seen, o) }
	obs := obsAt(25, oddsPtr(100), oddsPtr(150), time.Now())
	r.Observe(context.Background(), obs)
	r.Observe(context.Background(), obs)
	if len(seen) != 1 {
		t.Fatalf("hook should run once per new boost, got %d", len(seen))
	}
}
