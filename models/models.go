package models

import (
	"time"
)

// VideoType narrows a channel listing to one content category.
type VideoType string

const (
	VideoTypeAll   VideoType = "all"
	VideoTypeVideo VideoType = "video"
	VideoTypeShort VideoType = "short"
	VideoTypeLive  VideoType = "live"
)

// Valid reports whether the type is one the provider accepts.
func (t VideoType) Valid() bool {
	switch t {
	case VideoTypeAll, VideoTypeVideo, VideoTypeShort, VideoTypeLive:
		return true
	}
	return false
}

// ChannelQuery describes a single channel listing request.
type ChannelQuery struct {
	Identifier string    `json:"identifier"`
	Type       VideoType `json:"type"`
	Limit      int       `json:"limit"`
}

// ChannelListing is the provider's per-category id breakdown.
type ChannelListing struct {
	VideoIDs []string `json:"videoIds"`
	ShortIDs []string `json:"shortIds"`
	LiveIDs  []string `json:"liveIds"`
}

// AllIDs returns every id in the listing, regular videos first,
// then shorts, then live recordings.
func (l *ChannelListing) AllIDs() []string {
	ids := make([]string, 0, l.Total())
	ids = append(ids, l.VideoIDs...)
	ids = append(ids, l.ShortIDs...)
	ids = append(ids, l.LiveIDs...)
	return ids
}

// Total is the combined id count across all categories.
func (l *ChannelListing) Total() int {
	return len(l.VideoIDs) + len(l.ShortIDs) + len(l.LiveIDs)
}

// VideoMetadata holds per-video details fetched from the provider.
// It is fetched fresh per operation and never cached.
type VideoMetadata struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	UploadDate          string   `json:"uploadDate"`
	ViewCount           int64    `json:"viewCount"`
	LikeCount           int64    `json:"likeCount"`
	Duration            int64    `json:"duration"`
	TranscriptLanguages []string `json:"transcriptLanguages"`
	ChannelName         string   `json:"channelName"`
}

// UploadDay parses the date portion of UploadDate (YYYY-MM-DD).
func (m *VideoMetadata) UploadDay() (time.Time, error) {
	s := m.UploadDate
	if len(s) > 10 {
		s = s[:10]
	}
	return time.Parse("2006-01-02", s)
}

// LanguageSelection is the outcome of matching a user's preferred
// languages against a video's available transcript languages.
type LanguageSelection struct {
	Available bool     `json:"available"`
	Lang      string   `json:"lang,omitempty"`
	AllLangs  []string `json:"all_langs"`
	Title     string   `json:"title"`
}

// TranscriptRecord is a fetched transcript plus its descriptive
// metadata, ready for export. Lang is always a member of AllLangs.
type TranscriptRecord struct {
	VideoID    string   `json:"video_id"`
	Title      string   `json:"title"`
	Lang       string   `json:"lang"`
	Transcript string   `json:"transcript"`
	AllLangs   []string `json:"all_langs"`
}

// WatchURL returns the canonical watch link for the record's video.
func (r TranscriptRecord) WatchURL() string {
	return "https://youtube.com/watch?v=" + r.VideoID
}

// FilteredVideo is one row of a date-filter result.
type FilteredVideo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Views int64  `json:"views"`
}

// ItemStatus is the terminal state of one batch item.
type ItemStatus string

const (
	ItemRecorded ItemStatus = "recorded"
	ItemSkipped  ItemStatus = "skipped"
)

// Batch steps a skip can point at.
const (
	StepMetadata   = "metadata"
	StepLanguage   = "language"
	StepTranscript = "transcript"
)

// ItemEvent reports the outcome of a single video in a batch run.
// Skips carry the failed step and, for language mismatches, the full
// list of languages that were actually available.
type ItemEvent struct {
	VideoID        string     `json:"video_id"`
	Title          string     `json:"title,omitempty"`
	Status         ItemStatus `json:"status"`
	Lang           string     `json:"lang,omitempty"`
	Step           string     `json:"step,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	AvailableLangs []string   `json:"available_langs,omitempty"`
}
