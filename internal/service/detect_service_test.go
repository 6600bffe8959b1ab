package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshtrack/api/internal/apperr"
	"freshtrack/api/internal/config"
	"freshtrack/api/internal/detect"
	"freshtrack/api/internal/scratch"
)

type stubDetector struct {
	detections []detect.Detection
	err        error
	seenPath   string
}

func (s *stubDetector) Detect(_ context.Context, imagePath string, _ float64) ([]detect.Detection, error) {
	s.seenPath = imagePath
	if _, err := os.Stat(imagePath); err != nil {
		return nil, err
	}
	return s.detections, s.err
}

func testDetectService(t *testing.T, detector detect.Detector) (*DetectService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := scratch.NewStore(dir)
	require.NoError(t, err)

	cfg := &config.AppConfig{
		Detection: config.DetectionConfig{
			ConfidenceThreshold: 0.3,
			Timeout:             5 * time.Second,
		},
	}
	return NewDetectService(store, detector, nil, nil, cfg, zerolog.Nop()), dir
}

func scratchFileCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestDetectReleasesScratchOnSuccess(t *testing.T) {
	detector := &stubDetector{detections: []detect.Detection{
		{Class: "tomat", Confidence: 0.91, BBox: [4]float64{1, 2, 3, 4}},
	}}
	svc, dir := testDetectService(t, detector)

	result, err := svc.Detect(context.Background(), strings.NewReader("fake-image"))
	require.NoError(t, err)
	require.Len(t, result.Detections, 1)
	assert.Equal(t, "tomat", result.Detections[0].Class)

	assert.NotEmpty(t, detector.seenPath, "detector must receive the scratch path")
	assert.Equal(t, 0, scratchFileCount(t, dir), "scratch file must not outlive the request")
}

func TestDetectReleasesScratchOnModelFailure(t *testing.T) {
	detector := &stubDetector{err: errors.New("inference crashed")}
	svc, dir := testDetectService(t, detector)

	_, err := svc.Detect(context.Background(), strings.NewReader("fake-image"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindDetectionFailure, apperr.KindOf(err))

	assert.Equal(t, 0, scratchFileCount(t, dir), "cleanup is mandatory even when detection fails")
}

func TestDetectEmptyResultIsSuccess(t *testing.T) {
	svc, dir := testDetectService(t, &stubDetector{detections: nil})

	result, err := svc.Detect(context.Background(), strings.NewReader("fake-image"))
	require.NoError(t, err)

	assert.NotNil(t, result.Detections, "zero detections must serialize as an empty list")
	assert.Empty(t, result.Detections)
	assert.Equal(t, 0, scratchFileCount(t, dir))
}

func TestDetectRejectsEmptyPayload(t *testing.T) {
	svc, dir := testDetectService(t, &stubDetector{})

	_, err := svc.Detect(context.Background(), strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, apperr.KindMissingInput, apperr.KindOf(err))

	assert.Equal(t, 0, scratchFileCount(t, dir), "nothing may be written before validation passes")
}

func TestDetectReleasesScratchOnCanceledRequest(t *testing.T) {
	detector := &stubDetector{err: context.Canceled}
	svc, dir := testDetectService(t, detector)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Detect(ctx, strings.NewReader("fake-image"))
	require.Error(t, err)
	assert.Equal(t, 0, scratchFileCount(t, dir), "client disconnect must still release scratch")
}
