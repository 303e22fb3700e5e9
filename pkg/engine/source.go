package engine

import (
	"context"
	"sync"
	"time"

	"github.com/classlens/go-classlens/pkg/track"
)

// Source produces one batch of detections per call. Implementations
// are expected to resolve synchronously from the engine's point of
// view; a nil batch is indistinguishable from an empty frame.
type Source interface {
	// Detect returns the detections for the current frame.
	Detect(ctx context.Context) ([]track.Detection, error)

	// Close releases any resources held by the source.
	Close() error
}

// Mock implements Source for testing.
type Mock struct {
	// DetectFunc is called when Detect is invoked.
	DetectFunc func(ctx context.Context) ([]track.Detection, error)

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu    sync.Mutex
	calls []time.Time
}

// Detect invokes DetectFunc, recording the call. A nil DetectFunc
// yields an empty frame.
func (m *Mock) Detect(ctx context.Context) ([]track.Detection, error) {
	m.mu.Lock()
	m.calls = append(m.calls, time.Now())
	m.mu.Unlock()

	if m.DetectFunc == nil {
		return nil, nil
	}
	return m.DetectFunc(ctx)
}

// Close invokes CloseFunc if set.
func (m *Mock) Close() error {
	if m.CloseFunc == nil {
		return nil
	}
	return m.CloseFunc()
}

// Calls returns the number of Detect invocations so far.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
