package models

// ResolveRequest carries free-form links pasted by the user,
// one per line.
type ResolveRequest struct {
	Links string `json:"links"`
}

// ResolveResponse reports how many submitted lines produced a
// valid video id, in input order.
type ResolveResponse struct {
	IDs       []string `json:"ids"`
	Submitted int      `json:"submitted"`
	Resolved  int      `json:"resolved"`
}

// ChannelVideosResponse mirrors the provider's category split and
// includes the combined id list stored in the session.
type ChannelVideosResponse struct {
	VideoCount int      `json:"video_count"`
	ShortCount int      `json:"short_count"`
	LiveCount  int      `json:"live_count"`
	Total      int      `json:"total"`
	IDs        []string `json:"ids"`
}

// FilterRequest selects session videos uploaded on or after Cutoff
// (YYYY-MM-DD).
type FilterRequest struct {
	Cutoff string `json:"cutoff"`
}

// FilterResponse lists the retained videos in input order.
type FilterResponse struct {
	Videos  []FilteredVideo `json:"videos"`
	Scanned int             `json:"scanned"`
}

// BatchRequest configures one transcript batch run.
type BatchRequest struct {
	Languages []string `json:"languages"`
	PlainText bool     `json:"plain_text"`
	MaxCount  int      `json:"max_count"`
}

// BatchResponse summarizes a finished batch run.
type BatchResponse struct {
	Recorded int                `json:"recorded"`
	Skipped  int                `json:"skipped"`
	Events   []ItemEvent        `json:"events"`
	Records  []TranscriptRecord `json:"records"`
}

// SummaryRequest asks the summarization service to condense the
// session's transcripts, optionally steered by extra instructions.
type SummaryRequest struct {
	Instructions string `json:"instructions,omitempty"`
}
