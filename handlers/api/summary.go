package api

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	apperrors "ytscribe/errors"
	"ytscribe/models"
	"ytscribe/services/summary"
	"ytscribe/session"
)

// SummaryHandler sends the session's transcripts to the summarization
// service.
type SummaryHandler struct {
	service *summary.Service
	session *session.Session
	logger  *logrus.Logger
}

func NewSummaryHandler(service *summary.Service, sess *session.Session) *SummaryHandler {
	return &SummaryHandler{
		service: service,
		session: sess,
		logger:  logrus.StandardLogger(),
	}
}

// HandleCreateSummary handles POST /api/v1/summary
func (h *SummaryHandler) HandleCreateSummary(w http.ResponseWriter, r *http.Request) {
	const op = "SummaryHandler.HandleCreateSummary"
	logger := h.logger.WithContext(r.Context())

	var req models.SummaryRequest
	if r.ContentLength > 0 {
		if err := readJSON(r, &req); err != nil {
			respondError(w, r, err)
			return
		}
	}

	records := h.session.Records()
	if len(records) == 0 {
		respondError(w, r, apperrors.InvalidInput(op, nil, "No transcripts to summarize"))
		return
	}

	result, err := h.service.Summarize(r.Context(), records, req.Instructions)
	if err != nil {
		var parseErr *summary.ParseError
		if errors.As(err, &parseErr) {
			// Surface the raw response so the user can inspect what
			// the collaborator actually returned.
			respondJSON(w, r, http.StatusBadGateway, map[string]interface{}{
				"error": parseErr.Error(),
				"raw":   parseErr.Raw,
			})
			return
		}
		logger.WithError(err).Error("Summarization failed")
		respondError(w, r, apperrors.BadGateway(op, err, "Summarization failed"))
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"transcripts": len(records),
		"summary":     result,
	})
}
