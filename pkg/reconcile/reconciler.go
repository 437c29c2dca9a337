package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Notifier is the outbound alert collaborator. Fire-and-forget: failures are
// the notifier's problem to log, never this package's state.
type Notifier interface {
	PostBoostAlert(ctx context.Context, obs Observation)
	PostHealthAlert(ctx context.Context, message string)
}

// Config holds the health-watch thresholds.
type Config struct {
	// StaleTimeout is how long without a new unique boost before the stale
	// watch raises a health alert.
	StaleTimeout time.Duration
	// MaxFailures is the consecutive parse-failure count that trips the
	// failure watch.
	MaxFailures int
}

// Reconciler owns the last-known boost identity and the health counters.
// Capture cycles and health ticks run on separate goroutines, so every
// read-modify-write goes through one mutex.
type Reconciler struct {
	cfg      Config
	store    IdentityStore
	notifier Notifier
	log      *zap.Logger

	// OnNewBoost, when set, runs after a new-boost transition (persistence,
	// live feed). Called outside alert delivery but inside the same cycle.
	OnNewBoost func(Observation)

	mu                  sync.Mutex
	identity            *Identity
	consecutiveFailures int
	lastUniqueBoostAt   time.Time
	failureAlertSent    bool
	staleAlertSent      bool
}

// New builds a reconciler and seeds the identity from the store, so a
// restart does not re-alert the boost already on screen. The stale clock
// starts at construction time.
func New(ctx context.Context, cfg Config, store IdentityStore, notifier Notifier, log *zap.Logger) *Reconciler {
	if store == nil {
		store = NewMemoryStore()
	}
	r := &Reconciler{
		cfg:               cfg,
		store:             store,
		notifier:          notifier,
		log:               log,
		lastUniqueBoostAt: time.Now(),
	}
	id, err := store.Load(ctx)
	if err != nil {
		log.Warn("identity store load failed, starting empty", zap.Error(err))
	} else if id != nil {
		r.identity = id
		log.Info("restored boost identity", zap.Float64("percentage", id.Percentage))
	}
	return r
}

// Observe runs the state transition for one successful parse. Returns true
// when the observation is a new boost (alert emitted), false on a repeat.
// Either way a successful parse proves the pipeline is alive, so the failure
// counter and its alert flag reset.
func (r *Reconciler) Observe(ctx context.Context, obs Observation) bool {
	r.mu.Lock()
	r.consecutiveFailures = 0
	r.failureAlertSent = false

	id := obs.identity()
	if r.identity != nil && r.identity.Equal(id) {
		r.mu.Unlock()
		return false
	}

	r.identity = &id
	r.lastUniqueBoostAt = obs.ObservedAt
	r.staleAlertSent = false
	r.mu.Unlock()

	if err := r.store.Save(ctx, id); err != nil {
		r.log.Warn("identity store save failed", zap.Error(err))
	}
	r.log.Info("new boost",
		zap.Float64("percentage", obs.Percentage),
		zap.String("odds", oddsString(obs)),
	)
	if r.notifier != nil {
		r.notifier.PostBoostAlert(ctx, obs)
	}
	if r.OnNewBoost != nil {
		r.OnNewBoost(obs)
	}
	return true
}

// RecordFailure counts one failed cycle (parse miss, validation reject,
// capture failure, or absorbed panic). The stale clock is untouched.
func (r *Reconciler) RecordFailure() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consecutiveFailures++
	return r.consecutiveFailures
}

// CheckStale is the stale-boost watch body, run on its own tick. Edge
// triggered: fires once per threshold crossing, re-armed only by a new-boost
// transition.
func (r *Reconciler) CheckStale(ctx context.Context, now time.Time) {
	r.mu.Lock()
	fire := !r.staleAlertSent && now.Sub(r.lastUniqueBoostAt) >= r.cfg.StaleTimeout
	if fire {
		r.staleAlertSent = true
	}
	last := r.lastUniqueBoostAt
	r.mu.Unlock()

	if !fire {
		return
	}
	msg := fmt.Sprintf("no new boost since %s (stale timeout %s)", last.Format(time.RFC3339), r.cfg.StaleTimeout)
	r.log.Warn("stale boost watch fired", zap.Time("last_unique_boost", last))
	if r.notifier != nil {
		r.notifier.PostHealthAlert(ctx, msg)
	}
}

// CheckFailures is the consecutive-failure watch body. Edge triggered:
// re-armed only by a successful parse.
func (r *Reconciler) CheckFailures(ctx context.Context) {
	r.mu.Lock()
	fire := !r.failureAlertSent && r.consecutiveFailures >= r.cfg.MaxFailures
	if fire {
		r.failureAlertSent = true
	}
	count := r.consecutiveFailures
	r.mu.Unlock()

	if !fire {
		return
	}
	msg := fmt.Sprintf("%d consecutive OCR parse failures (threshold %d)", count, r.cfg.MaxFailures)
	r.log.Warn("failure watch fired", zap.Int("consecutive_failures", count))
	if r.notifier != nil {
		r.notifier.PostHealthAlert(ctx, msg)
	}
}

// Status is a point-in-time snapshot for the API.
type Status struct {
	Identity            *Identity `json:"identity"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastUniqueBoostAt   time.Time `json:"last_unique_boost_at"`
	FailureAlertSent    bool      `json:"failure_alert_sent"`
	StaleAlertSent      bool      `json:"stale_alert_sent"`
}

func (r *Reconciler) Snapshot() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	var id *Identity
	if r.identity != nil {
		cp := *r.identity
		id = &cp
	}
	return Status{
		Identity:            id,
		ConsecutiveFailures: r.consecutiveFailures,
		LastUniqueBoostAt:   r.lastUniqueBoostAt,
		FailureAlertSent:    r.failureAlertSent,
		StaleAlertSent:      r.staleAlertSent,
	}
}

func oddsString(obs Observation) string {
	if obs.WasOdds == nil || obs.NowOdds == nil {
		return "n/a"
	}
	return obs.WasOdds.String() + " -> " + obs.NowOdds.String()
}
