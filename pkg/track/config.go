package track

import "time"

// Config holds all tunable parameters for identity tracking.
type Config struct {
	// MatchDistance is the maximum center distance in pixels for a
	// detection to be associated with an existing subject.
	MatchDistance float64 `json:"match_distance"`

	// Timeout removes subjects not seen for this long. A subject that
	// leaves the frame and returns within the timeout keeps its
	// identity and history.
	Timeout time.Duration `json:"timeout"`

	// HistoryCap bounds each subject's retained sample history.
	HistoryCap int `json:"history_cap"`

	// EventLogCap bounds the session-wide sample log the aggregation
	// window reads from.
	EventLogCap int `json:"event_log_cap"`
}

// DefaultConfig returns the recommended tracking configuration for a
// webcam-scale classroom frame.
func DefaultConfig() Config {
	return Config{
		MatchDistance: 80,              // pixels between frame-to-frame centers
		Timeout:       5 * time.Second, // brief occlusions keep identity
		HistoryCap:    30,
		EventLogCap:   600,
	}
}
