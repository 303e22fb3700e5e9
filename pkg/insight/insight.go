// Package insight turns aggregate engagement metrics into short
// human-readable findings via ordered threshold rules.
package insight

import (
	"fmt"

	"github.com/classlens/go-classlens/pkg/engage"
	"github.com/classlens/go-classlens/pkg/metrics"
)

// Severity classifies a finding for presentation.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityPositive Severity = "positive"
)

// Finding is one short textual insight.
type Finding struct {
	Kind     string   `json:"kind"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Thresholds holds the tunable rule parameters. Exact values are
// configuration, not contract.
type Thresholds struct {
	// DistractedWarn fires a warning when the distracted share
	// reaches this percentage.
	DistractedWarn float64 `json:"distracted_warn"`

	// AttentiveGood fires a positive finding when the attentive share
	// reaches this percentage.
	AttentiveGood float64 `json:"attentive_good"`

	// LowConfidence notes poor detection quality when mean confidence
	// falls below this value.
	LowConfidence float64 `json:"low_confidence"`
}

// DefaultThresholds returns the recommended insight thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DistractedWarn: 50,
		AttentiveGood:  75,
		LowConfidence:  0.4,
	}
}

// Generate evaluates the rules in priority order and returns the
// findings that fire. Within a rule group the first match wins;
// independent groups may all fire. Deterministic for identical input,
// no side effects.
func Generate(m metrics.Metrics, subjectCount int, th Thresholds) []Finding {
	if subjectCount == 0 {
		return []Finding{{
			Kind:     "no-data",
			Severity: SeverityInfo,
			Message:  "No students detected. Check the camera feed.",
		}}
	}

	var findings []Finding

	// Share rules: warning beats praise.
	distracted := m.Percentages[engage.Distracted]
	attentive := m.Percentages[engage.Attentive]
	switch {
	case distracted >= th.DistractedWarn:
		findings = append(findings, Finding{
			Kind:     "distracted-high",
			Severity: SeverityWarning,
			Message: fmt.Sprintf("%.0f%% of recent readings are distracted. Consider a change of pace.",
				distracted),
		})
	case attentive >= th.AttentiveGood:
		findings = append(findings, Finding{
			Kind:     "attentive-high",
			Severity: SeverityPositive,
			Message: fmt.Sprintf("Strong engagement: %.0f%% of recent readings are attentive.",
				attentive),
		})
	}

	// Trend rules.
	switch m.Trend {
	case metrics.TrendDeclining:
		findings = append(findings, Finding{
			Kind:     "trend-declining",
			Severity: SeverityWarning,
			Message:  "Engagement is trending down over the last window.",
		})
	case metrics.TrendImproving:
		findings = append(findings, Finding{
			Kind:     "trend-improving",
			Severity: SeverityPositive,
			Message:  "Engagement is trending up over the last window.",
		})
	}

	// Detection quality.
	if m.SampleCount > 0 && m.MeanConfidence < th.LowConfidence {
		findings = append(findings, Finding{
			Kind:     "low-confidence",
			Severity: SeverityInfo,
			Message: fmt.Sprintf("Mean detection confidence is low (%.2f). Readings may be unreliable.",
				m.MeanConfidence),
		})
	}

	return findings
}
