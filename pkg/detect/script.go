package detect

import (
	"context"
	"sync"

	"github.com/classlens/go-classlens/pkg/track"
)

// Script replays a fixed sequence of detection frames, one per
// Detect call. After the last frame it keeps returning empty batches,
// so a session can run past the script to exercise timeout sweeps.
type Script struct {
	mu     sync.Mutex
	frames [][]track.Detection
	next   int
}

// NewScript creates a source that replays the given frames in order.
func NewScript(frames [][]track.Detection) *Script {
	return &Script{frames: frames}
}

// Detect returns the next scripted frame, or an empty batch once the
// script is exhausted.
func (s *Script) Detect(ctx context.Context) ([]track.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.frames) {
		return nil, nil
	}
	frame := s.frames[s.next]
	s.next++
	return frame, nil
}

// Close implements Source.
func (s *Script) Close() error {
	return nil
}

// Exhausted reports whether every scripted frame has been served.
func (s *Script) Exhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next >= len(s.frames)
}
