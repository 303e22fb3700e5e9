// Package metrics derives class-wide engagement aggregates from the
// session event log. Computation is a pure function of its input; the
// package holds no state of its own.
package metrics

import (
	"github.com/classlens/go-classlens/pkg/engage"
	"github.com/classlens/go-classlens/pkg/track"
)

// Trend is the direction of change in attentive share across the
// aggregation window.
type Trend string

const (
	TrendImproving    Trend = "improving"
	TrendStable       Trend = "stable"
	TrendDeclining    Trend = "declining"
	TrendInsufficient Trend = "insufficient-data"
)

// Config holds the tunable parameters for aggregation.
type Config struct {
	// WindowSize is the number of trailing samples aggregated. The
	// whole session is used while it is still shorter than the window.
	WindowSize int `json:"window_size"`

	// TrendMargin is the attentive-share difference, in percentage
	// points, the window halves must exceed before a trend is called.
	TrendMargin float64 `json:"trend_margin"`

	// MinTrendSamples is the sample count below which the trend is
	// reported as insufficient-data rather than guessed.
	MinTrendSamples int `json:"min_trend_samples"`
}

// DefaultConfig returns the recommended aggregation configuration.
func DefaultConfig() Config {
	return Config{
		WindowSize:      50,
		TrendMargin:     10,
		MinTrendSamples: 10,
	}
}

// Metrics is the derived class-wide picture over the trailing window.
// Recomputed on demand, never persisted.
type Metrics struct {
	SampleCount    int                         `json:"sample_count"`
	Counts         map[engage.Category]int     `json:"counts"`
	Percentages    map[engage.Category]float64 `json:"percentages"`
	MeanConfidence float64                     `json:"mean_confidence"`
	Trend          Trend                       `json:"trend"`
}

// Compute aggregates the trailing window of the given samples. An
// empty input yields zero counts and an insufficient-data trend
// rather than an error.
func Compute(samples []track.Sample, cfg Config) Metrics {
	if cfg.WindowSize > 0 && len(samples) > cfg.WindowSize {
		samples = samples[len(samples)-cfg.WindowSize:]
	}

	m := Metrics{
		SampleCount: len(samples),
		Counts:      make(map[engage.Category]int),
		Percentages: make(map[engage.Category]float64),
		Trend:       TrendInsufficient,
	}
	for _, c := range []engage.Category{engage.Attentive, engage.Distracted} {
		m.Counts[c] = 0
		m.Percentages[c] = 0
	}
	if len(samples) == 0 {
		return m
	}

	var confidence float64
	for _, s := range samples {
		m.Counts[s.Category]++
		confidence += s.Confidence
	}
	for c, n := range m.Counts {
		m.Percentages[c] = float64(n) / float64(len(samples)) * 100
	}
	m.MeanConfidence = confidence / float64(len(samples))
	m.Trend = computeTrend(samples, cfg)

	return m
}

// computeTrend splits the window into halves by sample count and
// compares the attentive share of each.
func computeTrend(samples []track.Sample, cfg Config) Trend {
	if len(samples) < cfg.MinTrendSamples || len(samples) < 2 {
		return TrendInsufficient
	}

	mid := len(samples) / 2
	earlier := attentiveShare(samples[:mid])
	later := attentiveShare(samples[mid:])

	switch {
	case later < earlier-cfg.TrendMargin:
		return TrendDeclining
	case later > earlier+cfg.TrendMargin:
		return TrendImproving
	default:
		return TrendStable
	}
}

// attentiveShare returns the attentive percentage of the samples.
func attentiveShare(samples []track.Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	attentive := 0
	for _, s := range samples {
		if s.Category == engage.Attentive {
			attentive++
		}
	}
	return float64(attentive) / float64(len(samples)) * 100
}
