package supadata

import (
	"context"
	"net/url"

	"ytscribe/models"
)

// videoResponse is the provider's wire shape for video metadata.
type videoResponse struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	UploadDate          string   `json:"uploadDate"`
	ViewCount           int64    `json:"viewCount"`
	LikeCount           int64    `json:"likeCount"`
	Duration            int64    `json:"duration"`
	TranscriptLanguages []string `json:"transcriptLanguages"`
	Channel             struct {
		Name string `json:"name"`
	} `json:"channel"`
}

// VideoMetadata fetches metadata for a single video. Results are never
// cached; repeated lookups re-fetch. A non-2xx status comes back as an
// *APIError for the caller to report per item.
func (c *Client) VideoMetadata(ctx context.Context, id string) (*models.VideoMetadata, error) {
	query := url.Values{}
	query.Set("id", id)

	var resp videoResponse
	if err := c.get(ctx, "/video", query, &resp); err != nil {
		return nil, err
	}

	meta := &models.VideoMetadata{
		ID:                  resp.ID,
		Title:               resp.Title,
		UploadDate:          resp.UploadDate,
		ViewCount:           resp.ViewCount,
		LikeCount:           resp.LikeCount,
		Duration:            resp.Duration,
		TranscriptLanguages: resp.TranscriptLanguages,
		ChannelName:         resp.Channel.Name,
	}
	if meta.ID == "" {
		meta.ID = id
	}
	return meta, nil
}
