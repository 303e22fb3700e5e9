package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/classlens/go-classlens/internal/httpc"
	"github.com/classlens/go-classlens/pkg/engage"
)

// emotionClient calls the remote expression classifier with a JPEG
// face crop and returns the label and confidence.
type emotionClient struct {
	url    string
	client *http.Client
}

func newEmotionClient(url string, timeout time.Duration) *emotionClient {
	if timeout <= 0 {
		timeout = httpc.DefaultTimeout
	}
	return &emotionClient{
		url:    url,
		client: httpc.NewClient(timeout),
	}
}

// emotionResponse is the classifier's reply for one face crop.
type emotionResponse struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// Classify posts the crop and returns the parsed label. Labels
// outside the fixed enumeration are rejected here so the tracker
// never sees them.
func (c *emotionClient) Classify(ctx context.Context, jpeg []byte) (engage.Emotion, float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jpeg))
	if err != nil {
		return "", 0, fmt.Errorf("capture: build request: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("capture: emotion endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("capture: emotion endpoint returned %d", resp.StatusCode)
	}

	var out emotionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", 0, fmt.Errorf("capture: decode response: %w", err)
	}

	emotion := engage.Emotion(out.Emotion)
	if !engage.Known(emotion) {
		return "", 0, fmt.Errorf("capture: unknown emotion label %q", out.Emotion)
	}
	return emotion, out.Confidence, nil
}
