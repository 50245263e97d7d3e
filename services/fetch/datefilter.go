package fetch

import (
	"context"
	"time"

	"ytscribe/models"
)

// FilterSince retains, in input order, the videos uploaded on or after
// cutoff. At most ScanLimit ids are inspected per run to bound API
// usage. A per-item fetch or parse failure skips the item and moves on;
// completeness is traded for forward progress, so skipped items are
// logged but not reported back. The returned scanned count is how many
// ids were actually inspected.
func (s *Service) FilterSince(
	ctx context.Context,
	client MetadataFetcher,
	ids []string,
	cutoff time.Time,
) ([]models.FilteredVideo, int) {
	if len(ids) > s.config.ScanLimit {
		ids = ids[:s.config.ScanLimit]
	}

	filtered := make([]models.FilteredVideo, 0, len(ids))
	scanned := 0

	for _, id := range ids {
		scanned++

		meta, err := client.VideoMetadata(ctx, id)
		if err != nil {
			s.logger.WithError(err).WithField("video_id", id).Debug("Skipping video, metadata fetch failed")
			continue
		}

		day, err := meta.UploadDay()
		if err != nil {
			s.logger.WithError(err).WithField("video_id", id).Debug("Skipping video, unparseable upload date")
			continue
		}

		if !day.Before(cutoff) {
			date := meta.UploadDate
			if len(date) > 10 {
				date = date[:10]
			}
			filtered = append(filtered, models.FilteredVideo{
				ID:    id,
				Title: meta.Title,
				Date:  date,
				Views: meta.ViewCount,
			})
		}

		if err := s.filterPacer.Wait(ctx); err != nil {
			s.logger.WithError(err).Warn("Date filter interrupted")
			break
		}
	}

	return filtered, scanned
}
