package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Detection is one detected object, normalized for transport: label
// resolved, confidence and pixel coordinates rounded to two decimals.
type Detection struct {
	Class      string     `json:"class"`
	Confidence float64    `json:"confidence"`
	BBox       [4]float64 `json:"bbox"`
}

// Detector is the narrow boundary to the vision model. Implementations run
// one inference over the image at path; threshold filtering belongs to the
// model, not the caller. An empty slice means no objects cleared the
// threshold, which is success.
type Detector interface {
	Detect(ctx context.Context, imagePath string, threshold float64) ([]Detection, error)
}

// HTTPDetector talks to an inference sidecar that hosts the model. The
// sidecar returns raw class indices; the label table resolves them to
// human-readable names.
type HTTPDetector struct {
	baseURL string
	labels  []string
	client  *http.Client
}

func NewHTTPDetector(baseURL string, labels []string, timeout time.Duration) *HTTPDetector {
	return &HTTPDetector{
		baseURL: baseURL,
		labels:  labels,
		client:  &http.Client{Timeout: timeout},
	}
}

type prediction struct {
	ClassID    int        `json:"class_id"`
	Confidence float64    `json:"confidence"`
	Box        [4]float64 `json:"box"`
}

func (d *HTTPDetector) Detect(ctx context.Context, imagePath string, threshold float64) ([]Detection, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy image data: %w", err)
	}
	if err := writer.WriteField("conf", strconv.FormatFloat(threshold, 'f', -1, 64)); err != nil {
		return nil, fmt.Errorf("write conf field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/detect", body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference failed with status %d", resp.StatusCode)
	}

	var result struct {
		Predictions []prediction `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	detections := make([]Detection, 0, len(result.Predictions))
	for _, p := range result.Predictions {
		detections = append(detections, Detection{
			Class:      d.label(p.ClassID),
			Confidence: round2(p.Confidence),
			BBox: [4]float64{
				round2(p.Box[0]),
				round2(p.Box[1]),
				round2(p.Box[2]),
				round2(p.Box[3]),
			},
		})
	}
	return detections, nil
}

func (d *HTTPDetector) label(classID int) string {
	if classID >= 0 && classID < len(d.labels) {
		return d.labels[classID]
	}
	return fmt.Sprintf("class_%d", classID)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
