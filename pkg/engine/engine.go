// Package engine runs the periodic sampling loop that drives the
// tracker and recomputes the class-wide picture each tick.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/classlens/go-classlens/internal/log"
	"github.com/classlens/go-classlens/pkg/insight"
	"github.com/classlens/go-classlens/pkg/metrics"
	"github.com/classlens/go-classlens/pkg/track"
)

// Config holds all tunable parameters for a session.
type Config struct {
	// TickInterval is the fixed sampling cadence. Missed ticks are
	// skipped, never queued.
	TickInterval time.Duration `json:"tick_interval"`

	Track   track.Config       `json:"track"`
	Metrics metrics.Config     `json:"metrics"`
	Insight insight.Thresholds `json:"insight"`
}

// DefaultConfig returns the recommended session configuration.
func DefaultConfig() Config {
	return Config{
		TickInterval: time.Second,
		Track:        track.DefaultConfig(),
		Metrics:      metrics.DefaultConfig(),
		Insight:      insight.DefaultThresholds(),
	}
}

// Snapshot is the read-only per-tick view handed to consumers.
// All fields are copies; consumers must not share them back.
type Snapshot struct {
	Time     time.Time         `json:"time"`
	Subjects []track.Subject   `json:"subjects"`
	Metrics  metrics.Metrics   `json:"metrics"`
	Findings []insight.Finding `json:"findings"`
}

// Engine owns the session: it is the single writer of the subject
// store, pulling one batch from the Source per tick and exposing
// consistent snapshots to any number of readers.
type Engine struct {
	cfg     Config
	source  Source
	tracker *track.Tracker

	// OnTick, if set, receives each tick's snapshot. Called from the
	// engine goroutine; keep it fast.
	OnTick func(Snapshot)

	mu   sync.RWMutex
	last Snapshot
}

// New creates an engine for the given source.
func New(cfg Config, source Source) *Engine {
	return &Engine{
		cfg:     cfg,
		source:  source,
		tracker: track.NewTracker(cfg.Track),
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Store returns the subject store for read-only snapshot access.
func (e *Engine) Store() *track.Store {
	return e.tracker.Store()
}

// Run drives the sampling loop until ctx is cancelled. Each tick is
// applied atomically: cancellation never leaves a frame half-applied,
// and committed history survives a stop/resume subject to the normal
// timeout rule. Run must not be called concurrently.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	log.Info("engine started", "tick", e.cfg.TickInterval.String())

	for {
		select {
		case <-ctx.Done():
			log.Info("engine stopped")
			return
		case <-ticker.C:
			e.tick(ctx, time.Now())
		}
	}
}

// tick ingests one frame and refreshes the cached snapshot. A source
// failure degrades to an empty frame so timeout sweeps still run.
func (e *Engine) tick(ctx context.Context, now time.Time) {
	detections, err := e.source.Detect(ctx)
	if err != nil {
		log.Warn("detection source failed, treating as empty frame", "error", err)
		detections = nil
	}

	e.tracker.Observe(now, detections)

	store := e.tracker.Store()
	subjects := store.Snapshot()
	m := metrics.Compute(store.Events(0), e.cfg.Metrics)
	findings := insight.Generate(m, len(subjects), e.cfg.Insight)

	snap := Snapshot{
		Time:     now,
		Subjects: subjects,
		Metrics:  m,
		Findings: findings,
	}

	e.mu.Lock()
	e.last = snap
	e.mu.Unlock()

	if e.OnTick != nil {
		e.OnTick(snap)
	}
}

// Snapshot returns the most recent tick's view. Before the first tick
// it returns an empty snapshot with well-defined zero metrics.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.last.Time.IsZero() {
		m := metrics.Compute(nil, e.cfg.Metrics)
		return Snapshot{
			Subjects: []track.Subject{},
			Metrics:  m,
			Findings: insight.Generate(m, 0, e.cfg.Insight),
		}
	}
	return e.last
}

// Subjects returns the current subject snapshots.
func (e *Engine) Subjects() []track.Subject {
	return e.Snapshot().Subjects
}

// Metrics returns the current aggregate metrics.
func (e *Engine) Metrics() metrics.Metrics {
	return e.Snapshot().Metrics
}

// Findings returns the current ordered findings.
func (e *Engine) Findings() []insight.Finding {
	return e.Snapshot().Findings
}
