package track

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the authoritative in-memory table of subjects and the
// session-wide event log. It has a single writer (the Tracker) and
// many readers; readers always receive copies, never live records.
type Store struct {
	mu       sync.RWMutex
	subjects map[string]*Subject

	// events is a bounded append-only log of all samples across all
	// subjects, oldest first.
	events   []Sample
	eventCap int

	// nextSeat numbers display names in arrival order.
	nextSeat int
}

// NewStore creates an empty store. eventCap bounds the session event
// log; zero or negative means unbounded.
func NewStore(eventCap int) *Store {
	return &Store{
		subjects: make(map[string]*Subject),
		eventCap: eventCap,
	}
}

// Len returns the number of live subjects.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.subjects)
}

// Get returns a copy of the subject with the given id.
func (st *Store) Get(id string) (Subject, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.subjects[id]
	if !ok {
		return Subject{}, false
	}
	return s.clone(), true
}

// Snapshot returns copies of all live subjects, ordered by first
// appearance so presentation stays stable across ticks.
func (st *Store) Snapshot() []Subject {
	st.mu.RLock()
	defer st.mu.RUnlock()

	result := make([]Subject, 0, len(st.subjects))
	for _, s := range st.subjects {
		result = append(result, s.clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].FirstSeen.Equal(result[j].FirstSeen) {
			return result[i].FirstSeen.Before(result[j].FirstSeen)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Events returns a copy of the most recent n event log samples,
// oldest first. n <= 0 returns the whole retained log.
func (st *Store) Events(n int) []Sample {
	st.mu.RLock()
	defer st.mu.RUnlock()

	events := st.events
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	out := make([]Sample, len(events))
	copy(out, events)
	return out
}

// Clear removes all subjects and the event log, resetting the session.
func (st *Store) Clear() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.subjects = make(map[string]*Subject)
	st.events = nil
	st.nextSeat = 0
}

// create allocates a new subject seeded with one sample.
// Callers must hold the write lock via the Tracker.
func (st *Store) create(sample Sample, historyCap int) *Subject {
	st.nextSeat++
	s := &Subject{
		ID:        uuid.NewString(),
		Name:      fmt.Sprintf("Student %d", st.nextSeat),
		FirstSeen: sample.Time,
	}
	s.observe(sample, historyCap)
	st.subjects[s.ID] = s
	st.appendEvent(sample)
	return s
}

// update appends a sample to an existing subject.
func (st *Store) update(s *Subject, sample Sample, historyCap int) {
	s.observe(sample, historyCap)
	st.appendEvent(sample)
}

// sweep removes subjects unseen since the cutoff and returns their ids.
func (st *Store) sweep(cutoff time.Time) []string {
	var removed []string
	for id, s := range st.subjects {
		if s.LastSeen.Before(cutoff) {
			removed = append(removed, id)
			delete(st.subjects, id)
		}
	}
	return removed
}

func (st *Store) appendEvent(sample Sample) {
	st.events = append(st.events, sample)
	if st.eventCap > 0 && len(st.events) > st.eventCap {
		st.events = st.events[len(st.events)-st.eventCap:]
	}
}
