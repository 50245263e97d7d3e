package supadata

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// transcriptResponse carries content that is either a plain string or
// a sequence of timed segments, depending on the text flag and the
// provider's mood.
type transcriptResponse struct {
	Content json.RawMessage `json:"content"`
}

type transcriptSegment struct {
	Text string `json:"text"`
}

// Transcript fetches the transcript of a video in the given language
// and returns it as flat text. Structured segments are flattened into a
// newline-joined string with timing information discarded, regardless
// of how plainText shaped the upstream request.
func (c *Client) Transcript(ctx context.Context, id, lang string, plainText bool) (string, error) {
	query := url.Values{}
	query.Set("videoId", id)
	query.Set("lang", lang)
	query.Set("text", strconv.FormatBool(plainText))

	var resp transcriptResponse
	if err := c.get(ctx, "/transcript", query, &resp); err != nil {
		return "", err
	}
	return flattenContent(resp.Content)
}

func flattenContent(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}

	var segments []transcriptSegment
	if err := json.Unmarshal(raw, &segments); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, "\n"), nil
}
