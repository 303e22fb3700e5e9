// Package track maintains persistent subject identities across frames
// of identity-less face detections, using spatial proximity to carry
// an identity forward from one frame to the next.
package track

import (
	"math"
	"time"

	"github.com/classlens/go-classlens/pkg/engage"
)

// Box is a bounding box in pixel space of the source frame.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Center returns the center point of the box.
func (b Box) Center() (x, y float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// CenterDistance returns the euclidean distance between box centers.
func (b Box) CenterDistance(o Box) float64 {
	bx, by := b.Center()
	ox, oy := o.Center()
	return math.Hypot(bx-ox, by-oy)
}

// Valid reports whether the box has finite coordinates and positive size.
func (b Box) Valid() bool {
	for _, v := range []float64{b.X, b.Y, b.W, b.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.W > 0 && b.H > 0
}

// Detection is one frame's observation of a subject: a bounding box
// plus the expression classifier's output. It is identity-less until
// the tracker matches it to a subject, and is never stored directly.
type Detection struct {
	Box        Box
	Emotion    engage.Emotion
	Confidence float64
}

// Valid reports whether the detection can be ingested: known emotion
// label, well-formed box, confidence in [0,1].
func (d Detection) Valid() bool {
	return engage.Known(d.Emotion) && d.Box.Valid() &&
		d.Confidence >= 0 && d.Confidence <= 1 &&
		!math.IsNaN(d.Confidence)
}

// Sample is an immutable snapshot appended to a subject's history and
// to the session event log. Never mutated after creation.
type Sample struct {
	Emotion    engage.Emotion  `json:"emotion"`
	Confidence float64         `json:"confidence"`
	Category   engage.Category `json:"category"`
	Box        Box             `json:"box"`
	Time       time.Time       `json:"time"`
}

// Subject is a persistent tracked identity accumulated across frames.
//
// History is ordered oldest first and non-decreasing in Time, capped
// at the configured retention count. The Current* fields always mirror
// the most recently appended sample.
type Subject struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	CurrentEmotion    engage.Emotion  `json:"current_emotion"`
	CurrentCategory   engage.Category `json:"current_category"`
	CurrentConfidence float64         `json:"current_confidence"`
	CurrentBox        Box             `json:"current_box"`
	FirstSeen         time.Time       `json:"first_seen"`
	LastSeen          time.Time       `json:"last_seen"`
	History           []Sample        `json:"history"`
}

// clone returns a deep copy safe to hand to readers.
func (s *Subject) clone() Subject {
	c := *s
	c.History = make([]Sample, len(s.History))
	copy(c.History, s.History)
	return c
}

// observe appends a sample, trims history to cap, and refreshes the
// current fields. Samples must arrive in non-decreasing time order.
func (s *Subject) observe(sample Sample, historyCap int) {
	s.History = append(s.History, sample)
	if historyCap > 0 && len(s.History) > historyCap {
		s.History = s.History[len(s.History)-historyCap:]
	}
	s.CurrentEmotion = sample.Emotion
	s.CurrentCategory = sample.Category
	s.CurrentConfidence = sample.Confidence
	s.CurrentBox = sample.Box
	s.LastSeen = sample.Time
}
