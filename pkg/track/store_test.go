package track

import (
	"testing"
	"time"

	"github.com/classlens/go-classlens/pkg/engage"
)

func TestStore_SnapshotIsACopy(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.Observe(t0, []Detection{det(10, 10, engage.EmotionHappy, 0.9)})

	snap := tr.Store().Snapshot()
	snap[0].CurrentEmotion = engage.EmotionAngry
	snap[0].History[0].Confidence = 0

	again := tr.Store().Snapshot()
	if again[0].CurrentEmotion != engage.EmotionHappy {
		t.Error("mutating a snapshot leaked into the store")
	}
	if again[0].History[0].Confidence != 0.9 {
		t.Error("mutating snapshot history leaked into the store")
	}
}

func TestStore_SnapshotOrderStable(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.Observe(t0, []Detection{det(10, 10, engage.EmotionHappy, 0.9)})
	tr.Observe(t0.Add(time.Second), []Detection{
		det(12, 10, engage.EmotionHappy, 0.9),
		det(400, 300, engage.EmotionSad, 0.6),
	})

	snap := tr.Store().Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot has %d subjects, want 2", len(snap))
	}
	if !snap[0].FirstSeen.Before(snap[1].FirstSeen) {
		t.Error("snapshot not ordered by first appearance")
	}
	if snap[0].Name != "Student 1" || snap[1].Name != "Student 2" {
		t.Errorf("names = %q, %q, want seat order", snap[0].Name, snap[1].Name)
	}
}

func TestStore_EventLogBound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EventLogCap = 10
	tr := NewTracker(cfg)

	for i := 0; i < 30; i++ {
		tr.Observe(t0.Add(time.Duration(i)*time.Second),
			[]Detection{det(10, 10, engage.EmotionHappy, 0.9)})
	}

	events := tr.Store().Events(0)
	if len(events) != 10 {
		t.Errorf("event log length = %d, want cap 10", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Time.Before(events[i-1].Time) {
			t.Fatal("event log timestamps decreased")
		}
	}
}

func TestStore_EventsTail(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	for i := 0; i < 5; i++ {
		tr.Observe(t0.Add(time.Duration(i)*time.Second),
			[]Detection{det(10, 10, engage.EmotionHappy, 0.9)})
	}

	tail := tr.Store().Events(2)
	if len(tail) != 2 {
		t.Fatalf("Events(2) returned %d samples, want 2", len(tail))
	}
	if !tail[1].Time.Equal(t0.Add(4 * time.Second)) {
		t.Error("Events(2) did not return the newest samples")
	}
}

func TestStore_Clear(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.Observe(t0, []Detection{det(10, 10, engage.EmotionHappy, 0.9)})

	tr.Store().Clear()
	if tr.Store().Len() != 0 {
		t.Error("Clear left subjects behind")
	}
	if len(tr.Store().Events(0)) != 0 {
		t.Error("Clear left events behind")
	}

	// Seat numbering restarts with the session.
	seen := tr.Observe(t0.Add(time.Minute), []Detection{det(10, 10, engage.EmotionHappy, 0.9)})
	if seen[0].Name != "Student 1" {
		t.Errorf("post-clear name = %q, want %q", seen[0].Name, "Student 1")
	}
}
