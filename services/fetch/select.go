package fetch

import (
	"ytscribe/models"
)

// SelectLanguage matches the caller's preferred languages, in the
// caller-specified priority order, against the languages the video
// actually has transcripts for. The first preferred language present
// wins; availability order does not matter. When nothing matches, the
// selection reports Available=false with the full available list so the
// caller can tell the user what was there.
//
// A nil meta yields nil: that signals an upstream fetch failure, which
// is distinct from a genuine absence of transcripts.
func SelectLanguage(meta *models.VideoMetadata, preferred []string) *models.LanguageSelection {
	if meta == nil {
		return nil
	}

	for _, lang := range preferred {
		for _, avail := range meta.TranscriptLanguages {
			if lang == avail {
				return &models.LanguageSelection{
					Available: true,
					Lang:      lang,
					AllLangs:  meta.TranscriptLanguages,
					Title:     meta.Title,
				}
			}
		}
	}

	return &models.LanguageSelection{
		Available: false,
		AllLangs:  meta.TranscriptLanguages,
		Title:     meta.Title,
	}
}
