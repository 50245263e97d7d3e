package api

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"ytscribe/config"
	"ytscribe/errors"
	"ytscribe/models"
	"ytscribe/services/export"
	"ytscribe/services/fetch"
	"ytscribe/session"
	"ytscribe/supadata"
	"ytscribe/validation"
)

// TranscriptHandler covers batch transcript runs and the four export
// downloads.
type TranscriptHandler struct {
	config    *config.Config
	provider  *supadata.Client
	fetch     *fetch.Service
	session   *session.Session
	validator *validation.Validator
	logger    *logrus.Logger
}

func NewTranscriptHandler(
	cfg *config.Config,
	provider *supadata.Client,
	fetchSvc *fetch.Service,
	sess *session.Session,
	validator *validation.Validator,
) *TranscriptHandler {
	return &TranscriptHandler{
		config:    cfg,
		provider:  provider,
		fetch:     fetchSvc,
		session:   sess,
		validator: validator,
		logger:    logrus.StandardLogger(),
	}
}

// HandleRunBatch handles POST /api/v1/transcripts
func (h *TranscriptHandler) HandleRunBatch(w http.ResponseWriter, r *http.Request) {
	const op = "TranscriptHandler.HandleRunBatch"
	logger := h.logger.WithContext(r.Context())

	var req models.BatchRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.validator.ValidateLanguages(req.Languages); err != nil {
		respondError(w, r, err)
		return
	}

	maxCount := req.MaxCount
	if maxCount == 0 {
		maxCount = h.config.Fetch.DefaultMaxVideos
	}
	if maxCount < 1 {
		respondError(w, r, errors.InvalidInput(op, nil, "Max count must be at least 1"))
		return
	}

	ids := h.session.IDs()
	if len(ids) == 0 {
		respondError(w, r, errors.InvalidInput(op, nil, "No video ids resolved"))
		return
	}

	key, err := h.validator.RequireAPIKey(r.Header.Get("x-api-key"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	records, events := h.fetch.RunBatch(r.Context(), h.provider.WithKey(key), ids, req.Languages, req.PlainText, maxCount)
	h.session.SetRecords(records)

	logger.WithFields(logrus.Fields{
		"recorded": len(records),
		"skipped":  len(events) - len(records),
	}).Info("Batch run finished")

	respondJSON(w, r, http.StatusOK, models.BatchResponse{
		Recorded: len(records),
		Skipped:  len(events) - len(records),
		Events:   events,
		Records:  records,
	})
}

func (h *TranscriptHandler) records(w http.ResponseWriter, r *http.Request, op string) ([]models.TranscriptRecord, bool) {
	records := h.session.Records()
	if len(records) == 0 {
		respondError(w, r, errors.NotFound(op, nil, "No transcripts available to export"))
		return nil, false
	}
	return records, true
}

// HandleExportJSON handles GET /api/v1/exports/transcripts.json
func (h *TranscriptHandler) HandleExportJSON(w http.ResponseWriter, r *http.Request) {
	const op = "TranscriptHandler.HandleExportJSON"

	records, ok := h.records(w, r, op)
	if !ok {
		return
	}

	body, err := export.CombinedJSON(records)
	if err != nil {
		respondError(w, r, errors.Internal(op, err, "Failed to build JSON export"))
		return
	}
	respondDownload(w, "application/json", "transcripts_all.json", body)
}

// HandleExportText handles GET /api/v1/exports/transcripts.txt
func (h *TranscriptHandler) HandleExportText(w http.ResponseWriter, r *http.Request) {
	const op = "TranscriptHandler.HandleExportText"

	records, ok := h.records(w, r, op)
	if !ok {
		return
	}

	respondDownload(w, "text/plain; charset=utf-8", "transcripts_all.txt", export.CombinedText(records))
}

// HandleExportTXTArchive handles GET /api/v1/exports/transcripts-txt.zip
func (h *TranscriptHandler) HandleExportTXTArchive(w http.ResponseWriter, r *http.Request) {
	h.respondArchive(w, r, export.FormatTXT, "transcripts_txt.zip")
}

// HandleExportJSONArchive handles GET /api/v1/exports/transcripts-json.zip
func (h *TranscriptHandler) HandleExportJSONArchive(w http.ResponseWriter, r *http.Request) {
	h.respondArchive(w, r, export.FormatJSON, "transcripts_json.zip")
}

func (h *TranscriptHandler) respondArchive(w http.ResponseWriter, r *http.Request, format export.Format, filename string) {
	const op = "TranscriptHandler.respondArchive"

	records, ok := h.records(w, r, op)
	if !ok {
		return
	}

	body, err := export.BuildArchive(records, format)
	if err != nil {
		respondError(w, r, errors.Internal(op, err, "Failed to build archive"))
		return
	}
	respondDownload(w, "application/zip", filename, body)
}
