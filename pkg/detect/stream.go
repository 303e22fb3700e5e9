// Package detect provides detection-source adapters that feed the
// session engine: a websocket client for an external detector feed
// and a scripted source for demos and tests.
package detect

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/classlens/go-classlens/internal/log"
	"github.com/classlens/go-classlens/pkg/engage"
	"github.com/classlens/go-classlens/pkg/track"
)

// ErrClosed is returned by Detect after Close.
var ErrClosed = errors.New("detect: source closed")

// wireDetection is the JSON shape of one detection on the feed.
type wireDetection struct {
	Box        track.Box `json:"box"`
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
}

// wireBatch is one frame's message on the feed.
type wireBatch struct {
	Time       time.Time       `json:"time"`
	Detections []wireDetection `json:"detections"`
}

// StreamSource consumes JSON detection batches from an external
// detector over a websocket. It keeps only the latest batch: the
// engine samples at its own cadence and stale frames are dropped,
// matching the at-most-once model of the rest of the pipeline.
type StreamSource struct {
	url    string
	dialer websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	latest []track.Detection
	fresh  bool
	closed bool
}

// NewStreamSource creates a source for the given websocket URL.
// The connection is established lazily on the first Detect call and
// re-established after a read failure.
func NewStreamSource(url string) *StreamSource {
	return &StreamSource{
		url: url,
		dialer: websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Detect returns the most recent unconsumed batch, or an empty frame
// when nothing new arrived since the last call.
func (s *StreamSource) Detect(ctx context.Context) ([]track.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.conn == nil {
		if err := s.dial(ctx); err != nil {
			return nil, fmt.Errorf("detect: connect %s: %w", s.url, err)
		}
	}

	if !s.fresh {
		return nil, nil
	}
	s.fresh = false
	return s.latest, nil
}

// dial connects and starts the read pump. Caller holds the lock.
func (s *StreamSource) dial(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	s.conn = conn
	go s.readPump(conn)
	log.Info("detection stream connected", "url", s.url)
	return nil
}

// readPump decodes batches into the latest slot until the connection
// drops. On failure the connection is cleared so the next Detect
// redials.
func (s *StreamSource) readPump(conn *websocket.Conn) {
	for {
		var batch wireBatch
		if err := conn.ReadJSON(&batch); err != nil {
			s.mu.Lock()
			if s.conn == conn {
				s.conn = nil
			}
			closed := s.closed
			s.mu.Unlock()
			conn.Close()
			if !closed {
				log.Warn("detection stream dropped", "url", s.url, "error", err)
			}
			return
		}

		detections := make([]track.Detection, 0, len(batch.Detections))
		for _, d := range batch.Detections {
			detections = append(detections, track.Detection{
				Box:        d.Box,
				Emotion:    engage.Emotion(d.Emotion),
				Confidence: d.Confidence,
			})
		}

		s.mu.Lock()
		s.latest = detections
		s.fresh = true
		s.mu.Unlock()
	}
}

// Close tears down the connection. Detect returns ErrClosed afterward.
func (s *StreamSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}
