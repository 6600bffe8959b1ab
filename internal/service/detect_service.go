package service

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"freshtrack/api/internal/apperr"
	"freshtrack/api/internal/config"
	"freshtrack/api/internal/detect"
	"freshtrack/api/internal/media/sniffer"
	"freshtrack/api/internal/scratch"
	"freshtrack/api/internal/storage"
)

type DetectResult struct {
	Detections []detect.Detection
	ImageRef   string
}

// DetectService runs the detect flow: scratch intake, one model call, and
// guaranteed release of the scratch file on every path, including model
// failure and client disconnect.
type DetectService struct {
	scratch  *scratch.Store
	detector detect.Detector
	archive  *storage.ObjectStore
	events   *redis.Client
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewDetectService(scratchStore *scratch.Store, detector detect.Detector, archive *storage.ObjectStore, events *redis.Client, cfg *config.AppConfig, log zerolog.Logger) *DetectService {
	return &DetectService{
		scratch:  scratchStore,
		detector: detector,
		archive:  archive,
		events:   events,
		cfg:      cfg,
		log:      log,
	}
}

func (s *DetectService) Detect(ctx context.Context, image io.Reader) (DetectResult, error) {
	data, err := io.ReadAll(image)
	if err != nil {
		return DetectResult{}, apperr.Wrap(apperr.KindIntakeFailure, "read image payload", err)
	}
	if len(data) == 0 {
		return DetectResult{}, apperr.New(apperr.KindMissingInput, "image payload is empty")
	}

	ext := "jpg"
	mime := "image/jpeg"
	if format, err := sniffer.DetectHead(head(data)); err == nil {
		ext = format.Ext()
		mime = format.MIME
	}

	handle, err := s.scratch.Save(bytes.NewReader(data), ext)
	if err != nil {
		return DetectResult{}, apperr.Wrap(apperr.KindIntakeFailure, "store image for detection", err)
	}
	defer func() {
		if err := s.scratch.Release(handle); err != nil {
			s.log.Warn().Err(err).Str("upload_id", handle.ID).Msg("scratch release failed")
		}
	}()

	dctx, cancel := context.WithTimeout(ctx, s.cfg.Detection.Timeout)
	defer cancel()

	detections, err := s.detector.Detect(dctx, handle.Path, s.cfg.Detection.ConfidenceThreshold)
	if err != nil {
		return DetectResult{}, apperr.Wrap(apperr.KindDetectionFailure, "model inference failed", err)
	}
	if detections == nil {
		detections = []detect.Detection{}
	}

	var imageRef string
	if s.archive != nil && s.cfg.Detection.ArchiveUploads {
		ref, err := s.archive.Archive(ctx, handle.ID, data, mime, ext)
		if err != nil {
			s.log.Warn().Err(err).Str("upload_id", handle.ID).Msg("archive upload failed")
		} else {
			imageRef = ref
		}
	}

	s.publishEvent(handle.ID, len(detections), imageRef)

	return DetectResult{
		Detections: detections,
		ImageRef:   imageRef,
	}, nil
}

func head(data []byte) []byte {
	if len(data) > 512 {
		return data[:512]
	}
	return data
}

// publishEvent is best-effort: losing an audit event never fails the
// request. It runs on a fresh context so a disconnected client does not
// suppress it.
func (s *DetectService) publishEvent(uploadID string, detections int, imageRef string) {
	if s.events == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	payload := map[string]any{
		"type":       "detect",
		"uploadId":   uploadID,
		"detections": detections,
	}
	if imageRef != "" {
		payload["imageRef"] = imageRef
	}

	if _, err := s.events.XAdd(ctx, &redis.XAddArgs{
		Stream: s.cfg.Detection.EventStream,
		Values: payload,
	}).Result(); err != nil {
		s.log.Warn().Err(err).Str("upload_id", uploadID).Msg("publish detect event failed")
	}
}
