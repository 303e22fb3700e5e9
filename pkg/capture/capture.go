// Package capture provides a local, all-in-one detection source for
// development: webcam frames, on-device face boxes via OpenCV, and a
// remote emotion endpoint for the expression labels.
package capture

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/classlens/go-classlens/internal/log"
	"github.com/classlens/go-classlens/pkg/track"
)

// Config holds webcam capture configuration.
type Config struct {
	// DeviceID selects the capture device (0 = default webcam).
	DeviceID int

	// ModelPath is the YuNet face detection ONNX model.
	ModelPath string

	// ConfidenceThresh is the minimum face detection score.
	ConfidenceThresh float64

	// EmotionURL is the expression classifier endpoint. Each face
	// crop is posted as JPEG and answered with an emotion label.
	EmotionURL string

	// EmotionTimeout bounds a single classification call.
	EmotionTimeout time.Duration
}

// DefaultConfig returns production defaults for webcam capture.
func DefaultConfig() Config {
	return Config{
		DeviceID:         0,
		ModelPath:        "models/face_detection_yunet.onnx",
		ConfidenceThresh: 0.5,
		EmotionURL:       "http://localhost:5005/classify",
		EmotionTimeout:   2 * time.Second,
	}
}

// Webcam implements the engine's detection source against a local
// camera. One Detect call grabs one frame, finds faces, and labels
// each face via the emotion endpoint.
type Webcam struct {
	cfg      Config
	cam      *gocv.VideoCapture
	detector gocv.FaceDetectorYN
	emotions *emotionClient
	mu       sync.Mutex // one frame in flight at a time
}

// NewWebcam opens the capture device and loads the face model.
func NewWebcam(cfg Config) (*Webcam, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("capture: model file not found: %s", cfg.ModelPath)
	}

	cam, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("capture: open device %d: %w", cfg.DeviceID, err)
	}

	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"",                            // no config file needed for ONNX
		image.Pt(320, 320),            // updated per-frame
		float32(cfg.ConfidenceThresh), // score threshold
		0.3,                           // NMS threshold
		5000,                          // top K
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	return &Webcam{
		cfg:      cfg,
		cam:      cam,
		detector: detector,
		emotions: newEmotionClient(cfg.EmotionURL, cfg.EmotionTimeout),
	}, nil
}

// Detect grabs one frame and returns the labeled face detections.
// Faces whose emotion call fails are dropped individually.
func (w *Webcam) Detect(ctx context.Context) ([]track.Detection, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	img := gocv.NewMat()
	defer img.Close()

	if ok := w.cam.Read(&img); !ok || img.Empty() {
		return nil, fmt.Errorf("capture: failed to read frame from device %d", w.cfg.DeviceID)
	}

	w.detector.SetInputSize(image.Pt(img.Cols(), img.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()
	w.detector.Detect(img, &faces)

	var detections []track.Detection
	for r := 0; r < faces.Rows(); r++ {
		// YuNet row format: 0-3 = x, y, w, h in pixels, 14 = score.
		box := track.Box{
			X: float64(faces.GetFloatAt(r, 0)),
			Y: float64(faces.GetFloatAt(r, 1)),
			W: float64(faces.GetFloatAt(r, 2)),
			H: float64(faces.GetFloatAt(r, 3)),
		}
		score := float64(faces.GetFloatAt(r, 14))
		if !box.Valid() {
			continue
		}

		crop, err := cropJPEG(img, box)
		if err != nil {
			log.Debug("face crop failed", "error", err)
			continue
		}

		emotion, confidence, err := w.emotions.Classify(ctx, crop)
		if err != nil {
			log.Debug("emotion classification failed", "error", err)
			continue
		}

		detections = append(detections, track.Detection{
			Box:        box,
			Emotion:    emotion,
			Confidence: confidence * score,
		})
	}

	return detections, nil
}

// Close releases the camera and detector.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.detector.Close()
	return w.cam.Close()
}

// cropJPEG encodes the face region of the frame as JPEG, clamped to
// the frame bounds.
func cropJPEG(img gocv.Mat, box track.Box) ([]byte, error) {
	rect := image.Rect(int(box.X), int(box.Y), int(box.X+box.W), int(box.Y+box.H))
	rect = rect.Intersect(image.Rect(0, 0, img.Cols(), img.Rows()))
	if rect.Empty() {
		return nil, fmt.Errorf("capture: face region outside frame")
	}

	region := img.Region(rect)
	defer region.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, region)
	if err != nil {
		return nil, fmt.Errorf("capture: encode face region: %w", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}
