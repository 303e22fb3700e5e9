// simulate - drives the engagement engine with a synthetic class
// session and prints per-tick metrics and insights. Useful for tuning
// thresholds without a camera or detector.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/classlens/go-classlens/internal/log"
	"github.com/classlens/go-classlens/pkg/detect"
	"github.com/classlens/go-classlens/pkg/engage"
	"github.com/classlens/go-classlens/pkg/engine"
	"github.com/classlens/go-classlens/pkg/track"
)

func main() {
	tick := flag.Duration("tick", 100*time.Millisecond, "Sampling interval")
	flag.Parse()
	log.Init("warn")

	script := detect.NewScript(classSession())

	cfg := engine.DefaultConfig()
	cfg.TickInterval = *tick
	cfg.Track.Timeout = 10 * *tick
	cfg.Metrics.MinTrendSamples = 6

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := engine.New(cfg, script)
	eng.OnTick = func(snap engine.Snapshot) {
		fmt.Printf("[%s] students=%d attentive=%.0f%% distracted=%.0f%% conf=%.2f trend=%s\n",
			snap.Time.Format("15:04:05.000"),
			len(snap.Subjects),
			snap.Metrics.Percentages[engage.Attentive],
			snap.Metrics.Percentages[engage.Distracted],
			snap.Metrics.MeanConfidence,
			snap.Metrics.Trend)
		for _, f := range snap.Findings {
			fmt.Printf("         [%s] %s\n", f.Severity, f.Message)
		}
		if script.Exhausted() {
			cancel()
		}
	}

	eng.Run(ctx)
}

// classSession scripts three students through an attentive start, a
// spreading distraction, and a recovery.
func classSession() [][]track.Detection {
	seats := []track.Box{
		{X: 80, Y: 120, W: 90, H: 90},
		{X: 300, Y: 100, W: 95, H: 95},
		{X: 520, Y: 130, W: 85, H: 85},
	}

	phase := func(emotions [3]engage.Emotion, frames int, drift float64) [][]track.Detection {
		var out [][]track.Detection
		for f := 0; f < frames; f++ {
			var batch []track.Detection
			for i, seat := range seats {
				seat.X += drift * float64(f)
				batch = append(batch, track.Detection{
					Box:        seat,
					Emotion:    emotions[i],
					Confidence: 0.85,
				})
			}
			out = append(out, batch)
		}
		return out
	}

	var frames [][]track.Detection
	frames = append(frames, phase([3]engage.Emotion{
		engage.EmotionNeutral, engage.EmotionHappy, engage.EmotionNeutral}, 10, 2)...)
	frames = append(frames, phase([3]engage.Emotion{
		engage.EmotionSad, engage.EmotionAngry, engage.EmotionNeutral}, 10, 3)...)
	frames = append(frames, phase([3]engage.Emotion{
		engage.EmotionHappy, engage.EmotionNeutral, engage.EmotionSurprised}, 10, 2)...)
	return frames
}
