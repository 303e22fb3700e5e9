package track

import (
	"sort"
	"time"

	"github.com/classlens/go-classlens/internal/log"
	"github.com/classlens/go-classlens/pkg/engage"
)

// Tracker associates each frame's raw detections with persistent
// subjects in its Store. Exactly one goroutine may call Observe;
// readers use the Store's snapshot accessors at any time.
type Tracker struct {
	cfg   Config
	store *Store
}

// NewTracker creates a tracker owning a fresh store.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{
		cfg:   cfg,
		store: NewStore(cfg.EventLogCap),
	}
}

// Store returns the subject store for read-only snapshot access.
func (t *Tracker) Store() *Store {
	return t.store
}

// Config returns the tracker's configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// candidate is one detection-subject pairing under the match distance.
type candidate struct {
	distance  float64
	detection int
	subjectID string
}

// Observe ingests one frame of detections, updating the store in
// place: matched subjects gain a history sample, unmatched detections
// become new subjects, and subjects past the timeout are swept.
// It returns copies of the subjects seen this frame.
//
// Malformed detections (unknown emotion, invalid box) are dropped
// individually; they never fail the frame.
func (t *Tracker) Observe(now time.Time, detections []Detection) []Subject {
	valid := detections[:0:0]
	for _, d := range detections {
		if !d.Valid() {
			log.Debug("dropping malformed detection",
				"emotion", string(d.Emotion), "box", d.Box)
			continue
		}
		valid = append(valid, d)
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	matches := t.match(valid)

	seen := make([]Subject, 0, len(valid))
	for i, d := range valid {
		sample := Sample{
			Emotion:    d.Emotion,
			Confidence: d.Confidence,
			Category:   engage.Classify(d.Emotion),
			Box:        d.Box,
			Time:       now,
		}

		if id, ok := matches[i]; ok {
			s := t.store.subjects[id]
			t.store.update(s, sample, t.cfg.HistoryCap)
			seen = append(seen, s.clone())
		} else {
			s := t.store.create(sample, t.cfg.HistoryCap)
			log.Debug("new subject", "id", s.ID, "name", s.Name)
			seen = append(seen, s.clone())
		}
	}

	for _, id := range t.store.sweep(now.Add(-t.cfg.Timeout)) {
		log.Debug("subject timed out", "id", id)
	}

	return seen
}

// match greedily assigns detections to subjects in increasing center
// distance order, one-to-one, under the match distance. Ties break on
// lowest subject id, then lowest detection index, so a frame always
// resolves the same way.
func (t *Tracker) match(detections []Detection) map[int]string {
	var candidates []candidate
	for i, d := range detections {
		for id, s := range t.store.subjects {
			dist := d.Box.CenterDistance(s.CurrentBox)
			if dist <= t.cfg.MatchDistance {
				candidates = append(candidates, candidate{dist, i, id})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.subjectID != b.subjectID {
			return a.subjectID < b.subjectID
		}
		return a.detection < b.detection
	})

	matches := make(map[int]string)
	taken := make(map[string]bool)
	for _, c := range candidates {
		if taken[c.subjectID] {
			continue
		}
		if _, ok := matches[c.detection]; ok {
			continue
		}
		matches[c.detection] = c.subjectID
		taken[c.subjectID] = true
	}
	return matches
}
