package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/classlens/go-classlens/pkg/engage"
	"github.com/classlens/go-classlens/pkg/track"
)

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.TickInterval = 5 * time.Millisecond
	cfg.Metrics.MinTrendSamples = 4
	return cfg
}

func oneFace() []track.Detection {
	return []track.Detection{{
		Box:        track.Box{X: 10, Y: 10, W: 100, H: 100},
		Emotion:    engage.EmotionHappy,
		Confidence: 0.9,
	}}
}

func TestEngine_TicksDriveTracking(t *testing.T) {
	source := &Mock{
		DetectFunc: func(ctx context.Context) ([]track.Detection, error) {
			return oneFace(), nil
		},
	}

	eng := New(fastConfig(), source)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		eng.Run(ctx)
		close(done)
	}()

	time.Sleep(60 * time.Millisecond)
	cancel()
	<-done

	if source.Calls() == 0 {
		t.Fatal("source was never polled")
	}

	subjects := eng.Subjects()
	if len(subjects) != 1 {
		t.Fatalf("engine tracked %d subjects, want 1", len(subjects))
	}
	if subjects[0].CurrentCategory != engage.Attentive {
		t.Errorf("CurrentCategory = %q, want %q", subjects[0].CurrentCategory, engage.Attentive)
	}
	if got := eng.Metrics().SampleCount; got == 0 {
		t.Error("no samples aggregated")
	}
}

func TestEngine_SourceFailureDegradesToEmptyFrame(t *testing.T) {
	source := &Mock{
		DetectFunc: func(ctx context.Context) ([]track.Detection, error) {
			return nil, context.DeadlineExceeded
		},
	}

	eng := New(fastConfig(), source)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		eng.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	// Failures must not crash the loop or invent subjects.
	if len(eng.Subjects()) != 0 {
		t.Error("failed source produced subjects")
	}
	if source.Calls() < 2 {
		t.Error("loop stopped polling after a source failure")
	}
}

func TestEngine_CancellationStopsTicks(t *testing.T) {
	var mu sync.Mutex
	ticks := 0

	source := &Mock{}
	eng := New(fastConfig(), source)
	eng.OnTick = func(Snapshot) {
		mu.Lock()
		ticks++
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		eng.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	after := ticks
	mu.Unlock()

	time.Sleep(30 * time.Millisecond)

	mu.Lock()
	if ticks != after {
		t.Errorf("ticks continued after cancellation: %d then %d", after, ticks)
	}
	mu.Unlock()
}

func TestEngine_HistorySurvivesStop(t *testing.T) {
	source := &Mock{
		DetectFunc: func(ctx context.Context) ([]track.Detection, error) {
			return oneFace(), nil
		},
	}

	eng := New(fastConfig(), source)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		eng.Run(ctx)
		close(done)
	}()

	time.Sleep(40 * time.Millisecond)
	cancel()
	<-done

	subjects := eng.Store().Snapshot()
	if len(subjects) != 1 || len(subjects[0].History) == 0 {
		t.Fatal("committed history discarded by cancellation")
	}
}

func TestEngine_SnapshotBeforeFirstTick(t *testing.T) {
	eng := New(DefaultConfig(), &Mock{})

	snap := eng.Snapshot()
	if len(snap.Subjects) != 0 {
		t.Errorf("pre-tick snapshot has %d subjects, want 0", len(snap.Subjects))
	}
	if snap.Metrics.SampleCount != 0 {
		t.Error("pre-tick snapshot has samples")
	}
	if len(snap.Findings) != 1 || snap.Findings[0].Kind != "no-data" {
		t.Errorf("pre-tick findings = %+v, want the no-data finding", snap.Findings)
	}
}

func TestEngine_SnapshotConsistency(t *testing.T) {
	source := &Mock{
		DetectFunc: func(ctx context.Context) ([]track.Detection, error) {
			return oneFace(), nil
		},
	}

	eng := New(fastConfig(), source)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	// Hammer reads while the engine writes; every snapshot must be
	// internally consistent.
	deadline := time.Now().Add(50 * time.Millisecond)
	for time.Now().Before(deadline) {
		snap := eng.Snapshot()
		for _, s := range snap.Subjects {
			if len(s.History) == 0 {
				t.Fatal("snapshot exposed a subject without history")
			}
			last := s.History[len(s.History)-1]
			if s.CurrentEmotion != last.Emotion || !s.LastSeen.Equal(last.Time) {
				t.Fatal("snapshot exposed a partially updated subject")
			}
		}
	}
}
