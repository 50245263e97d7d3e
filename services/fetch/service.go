// Package fetch drives the acquisition pipeline: per-video metadata
// lookup, transcript language selection, rate-limited transcript
// fetching with partial-failure tolerance, and date filtering.
//
// Everything here runs strictly sequentially. Each item's calls finish
// before the next item starts, results keep input order, and a single
// item's failure never aborts a run. This is a deliberate rate-limit
// safety trade-off, not an accidental limitation.
package fetch

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"ytscribe/models"
)

// MetadataFetcher is the provider surface the date filter needs.
type MetadataFetcher interface {
	VideoMetadata(ctx context.Context, id string) (*models.VideoMetadata, error)
}

// Fetcher is the provider surface a batch run needs. The credentialed
// client is passed per call so the service itself stays stateless.
type Fetcher interface {
	MetadataFetcher
	Transcript(ctx context.Context, id, lang string, plainText bool) (string, error)
}

// Config bounds a fetch service.
type Config struct {
	// BatchDelay is applied after every batch item regardless of outcome.
	BatchDelay time.Duration
	// FilterDelay is applied between date-filter metadata calls.
	FilterDelay time.Duration
	// ScanLimit caps how many ids the date filter inspects per run.
	ScanLimit int
}

// Service owns pacing and limits; provider clients come in per call.
type Service struct {
	config      Config
	batchPacer  Pacer
	filterPacer Pacer
	logger      *logrus.Logger
}

// NewService creates a fetch service with interval pacers derived from
// the configured delays.
func NewService(cfg Config) *Service {
	return NewServiceWithPacers(cfg, NewIntervalPacer(cfg.BatchDelay), NewIntervalPacer(cfg.FilterDelay))
}

// NewServiceWithPacers creates a fetch service with custom pacers
// (for testing).
func NewServiceWithPacers(cfg Config, batchPacer, filterPacer Pacer) *Service {
	return &Service{
		config:      cfg,
		batchPacer:  batchPacer,
		filterPacer: filterPacer,
		logger:      logrus.StandardLogger(),
	}
}

// RunBatch processes up to maxCount ids in input order. Per item:
// fetch metadata, select a transcript language, fetch the transcript,
// record the result. Any step failing short-circuits the item to a
// skip event carrying the reason; the batch always continues. The
// pacer runs after every item regardless of outcome.
//
// Cancellation is only honored between items; a single in-flight
// provider call blocks until its round trip completes.
func (s *Service) RunBatch(
	ctx context.Context,
	client Fetcher,
	ids []string,
	preferred []string,
	plainText bool,
	maxCount int,
) ([]models.TranscriptRecord, []models.ItemEvent) {
	if maxCount > 0 && len(ids) > maxCount {
		ids = ids[:maxCount]
	}

	records := make([]models.TranscriptRecord, 0, len(ids))
	events := make([]models.ItemEvent, 0, len(ids))

	for i, id := range ids {
		logger := s.logger.WithFields(logrus.Fields{
			"video_id": id,
			"item":     i + 1,
			"total":    len(ids),
		})
		logger.Info("Processing video")

		event := s.processItem(ctx, client, id, preferred, plainText, &records)
		events = append(events, event)

		if err := s.batchPacer.Wait(ctx); err != nil {
			logger.WithError(err).Warn("Batch interrupted")
			break
		}
	}

	s.logger.WithFields(logrus.Fields{
		"recorded": len(records),
		"total":    len(ids),
	}).Info("Batch finished")

	return records, events
}

func (s *Service) processItem(
	ctx context.Context,
	client Fetcher,
	id string,
	preferred []string,
	plainText bool,
	records *[]models.TranscriptRecord,
) models.ItemEvent {
	meta, err := client.VideoMetadata(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("video_id", id).Warn("Metadata fetch failed")
		return models.ItemEvent{
			VideoID: id,
			Status:  models.ItemSkipped,
			Step:    models.StepMetadata,
			Reason:  err.Error(),
		}
	}

	selection := SelectLanguage(meta, preferred)
	if !selection.Available {
		s.logger.WithFields(logrus.Fields{
			"video_id":  id,
			"available": selection.AllLangs,
		}).Warn("No transcript in preferred languages")
		return models.ItemEvent{
			VideoID:        id,
			Title:          selection.Title,
			Status:         models.ItemSkipped,
			Step:           models.StepLanguage,
			Reason:         "no transcript in preferred languages",
			AvailableLangs: selection.AllLangs,
		}
	}

	text, err := client.Transcript(ctx, id, selection.Lang, plainText)
	if err != nil {
		s.logger.WithError(err).WithField("video_id", id).Warn("Transcript fetch failed")
		return models.ItemEvent{
			VideoID: id,
			Title:   selection.Title,
			Status:  models.ItemSkipped,
			Step:    models.StepTranscript,
			Reason:  err.Error(),
		}
	}

	*records = append(*records, models.TranscriptRecord{
		VideoID:    id,
		Title:      selection.Title,
		Lang:       selection.Lang,
		Transcript: text,
		AllLangs:   selection.AllLangs,
	})

	return models.ItemEvent{
		VideoID: id,
		Title:   selection.Title,
		Status:  models.ItemRecorded,
		Lang:    selection.Lang,
	}
}
