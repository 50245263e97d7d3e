package supadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytscribe/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL))
}

func TestVideoMetadata(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/video", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("id"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "dQw4w9WgXcQ",
			"title": "Never Gonna Give You Up",
			"uploadDate": "2009-10-25T06:57:33Z",
			"viewCount": 1400000000,
			"likeCount": 16000000,
			"duration": 213,
			"transcriptLanguages": ["en", "pl"],
			"channel": {"name": "Rick Astley"}
		}`))
	})

	meta, err := client.VideoMetadata(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", meta.ID)
	assert.Equal(t, "Never Gonna Give You Up", meta.Title)
	assert.Equal(t, "Rick Astley", meta.ChannelName)
	assert.Equal(t, []string{"en", "pl"}, meta.TranscriptLanguages)

	day, err := meta.UploadDay()
	require.NoError(t, err)
	assert.Equal(t, "2009-10-25", day.Format("2006-01-02"))
}

func TestVideoMetadataAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": "quota exceeded"}`))
	})

	_, err := client.VideoMetadata(context.Background(), "dQw4w9WgXcQ")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "quota exceeded")
}

func TestChannelVideos(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channel/videos", r.URL.Path)
		assert.Equal(t, "@RickAstleyVEVO", r.URL.Query().Get("id"))
		assert.Equal(t, "all", r.URL.Query().Get("type"))
		assert.Equal(t, "500", r.URL.Query().Get("limit"))

		w.Write([]byte(`{
			"videoIds": ["aaaaaaaaaaa", "bbbbbbbbbbb"],
			"shortIds": ["ccccccccccc"],
			"liveIds": []
		}`))
	})

	listing, err := client.ChannelVideos(context.Background(), models.ChannelQuery{
		Identifier: "@RickAstleyVEVO",
		Type:       models.VideoTypeAll,
		Limit:      500,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, listing.Total())
	assert.Equal(t, []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"}, listing.AllIDs())
}

func TestTranscriptPlainString(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transcript", r.URL.Path)
		assert.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("videoId"))
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		assert.Equal(t, "true", r.URL.Query().Get("text"))

		w.Write([]byte(`{"content": "never gonna give you up"}`))
	})

	text, err := client.Transcript(context.Background(), "dQw4w9WgXcQ", "en", true)
	require.NoError(t, err)
	assert.Equal(t, "never gonna give you up", text)
}

func TestTranscriptSegmentsFlattened(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "false", r.URL.Query().Get("text"))
		w.Write([]byte(`{"content": [
			{"text": "never gonna", "offset": 0, "duration": 1200},
			{"text": "give you up", "offset": 1200, "duration": 1400}
		]}`))
	})

	text, err := client.Transcript(context.Background(), "dQw4w9WgXcQ", "en", false)
	require.NoError(t, err)
	// Timing information is discarded; segments become lines.
	assert.Equal(t, "never gonna\ngive you up", text)
}

func TestWithKey(t *testing.T) {
	var seenKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seenKey = r.Header.Get("x-api-key")
		w.Write([]byte(`{"content": ""}`))
	})

	_, err := client.WithKey("other-key").Transcript(context.Background(), "dQw4w9WgXcQ", "en", true)
	require.NoError(t, err)
	assert.Equal(t, "other-key", seenKey)
}
