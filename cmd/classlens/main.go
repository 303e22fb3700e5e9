// classlens - live classroom engagement telemetry.
//
// Consumes per-frame face detections, tracks persistent student
// identities, and serves engagement metrics and insights to the
// dashboard.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/classlens/go-classlens/internal/config"
	"github.com/classlens/go-classlens/internal/log"
	"github.com/classlens/go-classlens/pkg/capture"
	"github.com/classlens/go-classlens/pkg/detect"
	"github.com/classlens/go-classlens/pkg/engine"
	"github.com/classlens/go-classlens/pkg/web"
)

func main() {
	config.LoadDotenv()

	var (
		debug      = flag.Bool("debug", false, "Enable verbose debug logging")
		port       = flag.String("port", config.String("PORT", "8090"), "Dashboard port")
		sourceKind = flag.String("source", config.String("DETECTION_SOURCE", "stream"), "Detection source: stream, webcam")
		streamURL  = flag.String("stream-url", config.String("DETECTION_STREAM_URL", "ws://localhost:5050/detections"), "Detector websocket feed URL")
		device     = flag.Int("device", config.Int("CAPTURE_DEVICE", 0), "Webcam device ID (webcam source)")
		modelPath  = flag.String("model", config.String("FACE_MODEL_PATH", capture.DefaultConfig().ModelPath), "Face detection ONNX model (webcam source)")
		emotionURL = flag.String("emotion-url", config.String("EMOTION_URL", capture.DefaultConfig().EmotionURL), "Emotion classifier endpoint (webcam source)")
	)
	flag.Parse()

	if *debug {
		log.Init("debug")
	} else {
		log.Init(config.String("LOG_LEVEL", "info"))
	}

	cfg := loadEngineConfig()

	source, err := newSource(*sourceKind, *streamURL, *device, *modelPath, *emotionURL)
	if err != nil {
		log.Error("failed to build detection source", "error", err)
		os.Exit(1)
	}
	defer source.Close()

	eng := engine.New(cfg, source)

	server := web.NewServer(*port, eng)
	server.StartAsync()
	defer server.Shutdown()

	eng.OnTick = server.Publish

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("classlens started",
		"source", *sourceKind,
		"tick", cfg.TickInterval.String(),
		"port", *port)

	eng.Run(ctx)
}

// loadEngineConfig builds the session configuration from defaults
// overridden by environment variables.
func loadEngineConfig() engine.Config {
	cfg := engine.DefaultConfig()

	cfg.TickInterval = config.Duration("TICK_INTERVAL", cfg.TickInterval)

	cfg.Track.MatchDistance = config.Float("MATCH_DISTANCE", cfg.Track.MatchDistance)
	cfg.Track.Timeout = config.Duration("SUBJECT_TIMEOUT", cfg.Track.Timeout)
	cfg.Track.HistoryCap = config.Int("HISTORY_CAP", cfg.Track.HistoryCap)
	cfg.Track.EventLogCap = config.Int("EVENT_LOG_CAP", cfg.Track.EventLogCap)

	cfg.Metrics.WindowSize = config.Int("WINDOW_SIZE", cfg.Metrics.WindowSize)
	cfg.Metrics.TrendMargin = config.Float("TREND_MARGIN", cfg.Metrics.TrendMargin)
	cfg.Metrics.MinTrendSamples = config.Int("MIN_TREND_SAMPLES", cfg.Metrics.MinTrendSamples)

	cfg.Insight.DistractedWarn = config.Float("DISTRACTED_WARN", cfg.Insight.DistractedWarn)
	cfg.Insight.AttentiveGood = config.Float("ATTENTIVE_GOOD", cfg.Insight.AttentiveGood)
	cfg.Insight.LowConfidence = config.Float("LOW_CONFIDENCE", cfg.Insight.LowConfidence)

	return cfg
}

// newSource builds the configured detection source.
func newSource(kind, streamURL string, device int, modelPath, emotionURL string) (engine.Source, error) {
	switch kind {
	case "webcam":
		capCfg := capture.DefaultConfig()
		capCfg.DeviceID = device
		capCfg.ModelPath = modelPath
		capCfg.EmotionURL = emotionURL
		capCfg.EmotionTimeout = config.Duration("EMOTION_TIMEOUT", 2*time.Second)
		return capture.NewWebcam(capCfg)
	default:
		return detect.NewStreamSource(streamURL), nil
	}
}
