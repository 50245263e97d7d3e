package api

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytscribe/config"
	"ytscribe/models"
	"ytscribe/services/fetch"
	"ytscribe/services/summary"
	"ytscribe/session"
	"ytscribe/supadata"
)

type stubCompleter struct {
	response string
	err      error
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

// stubProvider serves a tiny fixed provider API for handler tests.
func stubProvider(t *testing.T) *httptest.Server {
	t.Helper()

	metadata := map[string]map[string]interface{}{
		"dQw4w9WgXcQ": {
			"id":                  "dQw4w9WgXcQ",
			"title":               "Never Gonna Give You Up",
			"uploadDate":          "2009-10-25T06:57:33Z",
			"viewCount":           1000000,
			"transcriptLanguages": []string{"en", "de"},
		},
		"jNQXAC9IVRw": {
			"id":                  "jNQXAC9IVRw",
			"title":               "Me at the zoo",
			"uploadDate":          "2005-04-24T03:31:52Z",
			"viewCount":           250000,
			"transcriptLanguages": []string{"en"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/video", func(w http.ResponseWriter, r *http.Request) {
		meta, ok := metadata[r.URL.Query().Get("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"video not found"}`))
			return
		}
		json.NewEncoder(w).Encode(meta)
	})
	mux.HandleFunc("/channel/videos", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"videoIds": []string{"dQw4w9WgXcQ"},
			"shortIds": []string{"jNQXAC9IVRw"},
			"liveIds":  []string{},
		})
	})
	mux.HandleFunc("/transcript", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"lang":    r.URL.Query().Get("lang"),
			"content": "never gonna give you up",
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig() *config.Config {
	cfg := &config.Config{
		ServerPort:        "0",
		ReadTimeout:       time.Second,
		WriteTimeout:      time.Second,
		IdleTimeout:       time.Second,
		RateLimit:         1000,
		RateLimitInterval: time.Microsecond,
	}
	cfg.Provider.APIKey = "test-key"
	cfg.Fetch = config.FetchConfig{
		ScanLimit:            50,
		DefaultMaxVideos:     10,
		ChannelLimit:         500,
		MetadataPreviewLimit: 10,
	}
	return cfg
}

func newTestServer(t *testing.T, completer summary.Completer) (http.Handler, *session.Session) {
	t.Helper()

	provider := stubProvider(t)
	client := supadata.NewClient("test-key", supadata.WithBaseURL(provider.URL))

	cfg := testConfig()
	fetchSvc := fetch.NewServiceWithPacers(fetch.Config{ScanLimit: cfg.Fetch.ScanLimit}, fetch.NopPacer(), fetch.NopPacer())

	if completer == nil {
		completer = &stubCompleter{response: `{"summary":"ok"}`}
	}

	sess := session.New()
	srv := NewServer(cfg, WithServices(client, fetchSvc, summary.NewService(completer), sess))
	return srv.routes(), sess
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "expected success, got error: %s", envelope.Error)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestHandleResolve(t *testing.T) {
	h, sess := newTestServer(t, nil)

	rr := doJSON(t, h, http.MethodPost, "/api/v1/videos/resolve", models.ResolveRequest{
		Links: "https://www.youtube.com/watch?v=dQw4w9WgXcQ\nnot a link\nhttps://youtu.be/jNQXAC9IVRw",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.ResolveResponse
	decodeData(t, rr, &resp)
	assert.Equal(t, []string{"dQw4w9WgXcQ", "jNQXAC9IVRw"}, resp.IDs)
	assert.Equal(t, 3, resp.Submitted)
	assert.Equal(t, 2, resp.Resolved)
	assert.Equal(t, resp.IDs, sess.IDs())
}

func TestHandleResolveEmpty(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rr := doJSON(t, h, http.MethodPost, "/api/v1/videos/resolve", models.ResolveRequest{Links: "  \n "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleDownloadIDs(t *testing.T) {
	h, sess := newTestServer(t, nil)
	sess.SetIDs([]string{"dQw4w9WgXcQ", "jNQXAC9IVRw"})

	rr := doJSON(t, h, http.MethodGet, "/api/v1/videos/ids.txt", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "dQw4w9WgXcQ\njNQXAC9IVRw\n", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "ids.txt")
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
}

func TestHandleDownloadIDsEmpty(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rr := doJSON(t, h, http.MethodGet, "/api/v1/videos/ids.txt", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleChannelVideos(t *testing.T) {
	h, sess := newTestServer(t, nil)

	rr := doJSON(t, h, http.MethodPost, "/api/v1/channel/videos", models.ChannelQuery{
		Identifier: "@rick",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.ChannelVideosResponse
	decodeData(t, rr, &resp)
	assert.Equal(t, 1, resp.VideoCount)
	assert.Equal(t, 1, resp.ShortCount)
	assert.Equal(t, 0, resp.LiveCount)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, []string{"dQw4w9WgXcQ", "jNQXAC9IVRw"}, sess.IDs())
}

func TestHandleFilter(t *testing.T) {
	h, sess := newTestServer(t, nil)
	sess.SetIDs([]string{"dQw4w9WgXcQ", "jNQXAC9IVRw"})

	rr := doJSON(t, h, http.MethodPost, "/api/v1/videos/filter", models.FilterRequest{Cutoff: "2008-01-01"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.FilterResponse
	decodeData(t, rr, &resp)
	assert.Equal(t, 2, resp.Scanned)
	require.Len(t, resp.Videos, 1)
	assert.Equal(t, "dQw4w9WgXcQ", resp.Videos[0].ID)
	assert.Equal(t, "2009-10-25", resp.Videos[0].Date)
}

func TestHandleFilterBadCutoff(t *testing.T) {
	h, sess := newTestServer(t, nil)
	sess.SetIDs([]string{"dQw4w9WgXcQ"})

	rr := doJSON(t, h, http.MethodPost, "/api/v1/videos/filter", models.FilterRequest{Cutoff: "01/01/2008"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleMetadata(t *testing.T) {
	h, sess := newTestServer(t, nil)
	sess.SetIDs([]string{"dQw4w9WgXcQ", "missing", "jNQXAC9IVRw"})

	rr := doJSON(t, h, http.MethodGet, "/api/v1/videos/metadata", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var previews []models.VideoMetadata
	decodeData(t, rr, &previews)
	// Unfetchable ids are skipped, not fatal.
	require.Len(t, previews, 2)
	assert.Equal(t, "Never Gonna Give You Up", previews[0].Title)
}

func TestHandleMetadataLimit(t *testing.T) {
	h, sess := newTestServer(t, nil)
	sess.SetIDs([]string{"dQw4w9WgXcQ", "jNQXAC9IVRw"})

	rr := doJSON(t, h, http.MethodGet, "/api/v1/videos/metadata?limit=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var previews []models.VideoMetadata
	decodeData(t, rr, &previews)
	assert.Len(t, previews, 1)
}

func TestHandleRunBatch(t *testing.T) {
	h, sess := newTestServer(t, nil)
	sess.SetIDs([]string{"dQw4w9WgXcQ", "missing", "jNQXAC9IVRw"})

	rr := doJSON(t, h, http.MethodPost, "/api/v1/transcripts", models.BatchRequest{
		Languages: []string{"en"},
		PlainText: true,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.BatchResponse
	decodeData(t, rr, &resp)
	assert.Equal(t, 2, resp.Recorded)
	assert.Equal(t, 1, resp.Skipped)
	require.Len(t, resp.Events, 3)
	assert.Equal(t, models.ItemSkipped, resp.Events[1].Status)

	// Records land in the session for export.
	assert.Len(t, sess.Records(), 2)
}

func TestHandleRunBatchNoLanguages(t *testing.T) {
	h, sess := newTestServer(t, nil)
	sess.SetIDs([]string{"dQw4w9WgXcQ"})

	rr := doJSON(t, h, http.MethodPost, "/api/v1/transcripts", models.BatchRequest{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleRunBatchNoIDs(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rr := doJSON(t, h, http.MethodPost, "/api/v1/transcripts", models.BatchRequest{Languages: []string{"en"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func sampleRecords() []models.TranscriptRecord {
	return []models.TranscriptRecord{
		{
			VideoID:    "dQw4w9WgXcQ",
			Title:      "Never Gonna Give You Up",
			Lang:       "en",
			Transcript: "never gonna give you up",
			AllLangs:   []string{"en", "de"},
		},
	}
}

func TestHandleExportJSON(t *testing.T) {
	h, sess := newTestServer(t, nil)
	sess.SetRecords(sampleRecords())

	rr := doJSON(t, h, http.MethodGet, "/api/v1/exports/transcripts.json", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "transcripts_all.json")

	var parsed []models.TranscriptRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &parsed))
	assert.Equal(t, sampleRecords(), parsed)
}

func TestHandleExportText(t *testing.T) {
	h, sess := newTestServer(t, nil)
	sess.SetRecords(sampleRecords())

	rr := doJSON(t, h, http.MethodGet, "/api/v1/exports/transcripts.txt", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "transcripts_all.txt")
	assert.Contains(t, rr.Body.String(), "Video ID: dQw4w9WgXcQ")
	assert.Contains(t, rr.Body.String(), "never gonna give you up")
}

func TestHandleExportArchives(t *testing.T) {
	tests := []struct {
		path     string
		filename string
		entry    string
	}{
		{"/api/v1/exports/transcripts-txt.zip", "transcripts_txt.zip", "Never Gonna Give You Up_transcript_en.txt"},
		{"/api/v1/exports/transcripts-json.zip", "transcripts_json.zip", "Never Gonna Give You Up_transcript_en.json"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			h, sess := newTestServer(t, nil)
			sess.SetRecords(sampleRecords())

			rr := doJSON(t, h, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/zip", rr.Header().Get("Content-Type"))
			assert.Contains(t, rr.Header().Get("Content-Disposition"), tt.filename)

			zr, err := zip.NewReader(bytes.NewReader(rr.Body.Bytes()), int64(rr.Body.Len()))
			require.NoError(t, err)
			require.Len(t, zr.File, 1)
			assert.Equal(t, tt.entry, zr.File[0].Name)
		})
	}
}

func TestHandleExportEmpty(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rr := doJSON(t, h, http.MethodGet, "/api/v1/exports/transcripts.json", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleCreateSummary(t *testing.T) {
	h, sess := newTestServer(t, &stubCompleter{response: "```json\n{\"theme\":\"persistence\"}\n```"})
	sess.SetRecords(sampleRecords())

	rr := doJSON(t, h, http.MethodPost, "/api/v1/summary", models.SummaryRequest{Instructions: "Focus on themes."})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Transcripts int             `json:"transcripts"`
		Summary     json.RawMessage `json:"summary"`
	}
	decodeData(t, rr, &resp)
	assert.Equal(t, 1, resp.Transcripts)
	assert.JSONEq(t, `{"theme":"persistence"}`, string(resp.Summary))
}

func TestHandleCreateSummaryParseFailure(t *testing.T) {
	h, sess := newTestServer(t, &stubCompleter{response: "I am not JSON"})
	sess.SetRecords(sampleRecords())

	rr := doJSON(t, h, http.MethodPost, "/api/v1/summary", nil)
	require.Equal(t, http.StatusBadGateway, rr.Code)

	var envelope struct {
		Data struct {
			Raw string `json:"raw"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	assert.Equal(t, "I am not JSON", envelope.Data.Raw)
}

func TestHandleCreateSummaryNoRecords(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rr := doJSON(t, h, http.MethodPost, "/api/v1/summary", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleResetSession(t *testing.T) {
	h, sess := newTestServer(t, nil)
	sess.SetIDs([]string{"dQw4w9WgXcQ"})
	sess.SetRecords(sampleRecords())

	rr := doJSON(t, h, http.MethodDelete, "/api/v1/session", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Empty(t, sess.IDs())
	assert.Empty(t, sess.Records())
}

func TestHandleHealth(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rr := doJSON(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var status map[string]interface{}
	decodeData(t, rr, &status)
	assert.Equal(t, "ok", status["status"])
}

func TestRequireAPIKeyMissing(t *testing.T) {
	provider := stubProvider(t)
	client := supadata.NewClient("", supadata.WithBaseURL(provider.URL))

	cfg := testConfig()
	cfg.Provider.APIKey = ""
	fetchSvc := fetch.NewServiceWithPacers(fetch.Config{ScanLimit: 50}, fetch.NopPacer(), fetch.NopPacer())

	sess := session.New()
	srv := NewServer(cfg, WithServices(client, fetchSvc, summary.NewService(&stubCompleter{response: "{}"}), sess))
	h := srv.routes()

	sess.SetIDs([]string{"dQw4w9WgXcQ"})
	rr := doJSON(t, h, http.MethodPost, "/api/v1/channel/videos", models.ChannelQuery{Identifier: "@rick"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRateLimiting(t *testing.T) {
	provider := stubProvider(t)
	client := supadata.NewClient("k", supadata.WithBaseURL(provider.URL))

	cfg := testConfig()
	cfg.RateLimit = 1
	cfg.RateLimitInterval = time.Hour
	fetchSvc := fetch.NewServiceWithPacers(fetch.Config{ScanLimit: 50}, fetch.NopPacer(), fetch.NopPacer())

	srv := NewServer(cfg, WithServices(client, fetchSvc, summary.NewService(&stubCompleter{response: "{}"}), session.New()))
	h := srv.routes()

	first := doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
