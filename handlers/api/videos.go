package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"ytscribe/config"
	"ytscribe/errors"
	"ytscribe/models"
	"ytscribe/services/fetch"
	"ytscribe/session"
	"ytscribe/supadata"
	"ytscribe/validation"
	"ytscribe/videoid"
)

// VideoHandler covers id resolution, channel listing, date filtering,
// and the metadata preview.
type VideoHandler struct {
	config    *config.Config
	provider  *supadata.Client
	fetch     *fetch.Service
	session   *session.Session
	validator *validation.Validator
	logger    *logrus.Logger
}

func NewVideoHandler(
	cfg *config.Config,
	provider *supadata.Client,
	fetchSvc *fetch.Service,
	sess *session.Session,
	validator *validation.Validator,
) *VideoHandler {
	return &VideoHandler{
		config:    cfg,
		provider:  provider,
		fetch:     fetchSvc,
		session:   sess,
		validator: validator,
		logger:    logrus.StandardLogger(),
	}
}

// providerFor authenticates a provider client for this request, taking
// the x-api-key header over the configured key.
func (h *VideoHandler) providerFor(r *http.Request) (*supadata.Client, error) {
	key, err := h.validator.RequireAPIKey(r.Header.Get("x-api-key"))
	if err != nil {
		return nil, err
	}
	return h.provider.WithKey(key), nil
}

// HandleResolve handles POST /api/v1/videos/resolve
func (h *VideoHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	const op = "VideoHandler.HandleResolve"
	logger := h.logger.WithContext(r.Context())

	var req models.ResolveRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if strings.TrimSpace(req.Links) == "" {
		respondError(w, r, errors.InvalidInput(op, nil, "At least one link is required"))
		return
	}

	ids, submitted := videoid.ResolveLines(req.Links)
	h.session.SetIDs(ids)

	logger.WithFields(logrus.Fields{
		"submitted": submitted,
		"resolved":  len(ids),
	}).Info("Resolved video ids")

	respondJSON(w, r, http.StatusOK, models.ResolveResponse{
		IDs:       ids,
		Submitted: submitted,
		Resolved:  len(ids),
	})
}

// HandleDownloadIDs handles GET /api/v1/videos/ids.txt
func (h *VideoHandler) HandleDownloadIDs(w http.ResponseWriter, r *http.Request) {
	const op = "VideoHandler.HandleDownloadIDs"

	ids := h.session.IDs()
	if len(ids) == 0 {
		respondError(w, r, errors.NotFound(op, nil, "No video ids resolved"))
		return
	}

	body := strings.Join(ids, "\n") + "\n"
	respondDownload(w, "text/plain; charset=utf-8", "ids.txt", []byte(body))
}

// HandleChannelVideos handles POST /api/v1/channel/videos
func (h *VideoHandler) HandleChannelVideos(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithContext(r.Context())

	var query models.ChannelQuery
	if err := readJSON(r, &query); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.validator.ValidateChannelQuery(&query); err != nil {
		respondError(w, r, err)
		return
	}

	client, err := h.providerFor(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	listing, err := client.ChannelVideos(r.Context(), query)
	if err != nil {
		logger.WithError(err).WithField("channel", query.Identifier).Error("Channel listing failed")
		respondError(w, r, err)
		return
	}

	ids := listing.AllIDs()
	h.session.SetIDs(ids)

	logger.WithFields(logrus.Fields{
		"channel": query.Identifier,
		"videos":  len(listing.VideoIDs),
		"shorts":  len(listing.ShortIDs),
		"lives":   len(listing.LiveIDs),
	}).Info("Channel videos listed")

	respondJSON(w, r, http.StatusOK, models.ChannelVideosResponse{
		VideoCount: len(listing.VideoIDs),
		ShortCount: len(listing.ShortIDs),
		LiveCount:  len(listing.LiveIDs),
		Total:      listing.Total(),
		IDs:        ids,
	})
}

// HandleFilter handles POST /api/v1/videos/filter
func (h *VideoHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	const op = "VideoHandler.HandleFilter"

	var req models.FilterRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	cutoff, err := h.validator.ParseCutoff(req.Cutoff)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ids := h.session.IDs()
	if len(ids) == 0 {
		respondError(w, r, errors.InvalidInput(op, nil, "No video ids resolved"))
		return
	}

	client, err := h.providerFor(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	videos, scanned := h.fetch.FilterSince(r.Context(), client, ids, cutoff)

	respondJSON(w, r, http.StatusOK, models.FilterResponse{
		Videos:  videos,
		Scanned: scanned,
	})
}

// HandleMetadata handles GET /api/v1/videos/metadata
func (h *VideoHandler) HandleMetadata(w http.ResponseWriter, r *http.Request) {
	const op = "VideoHandler.HandleMetadata"
	logger := h.logger.WithContext(r.Context())

	ids := h.session.IDs()
	if len(ids) == 0 {
		respondError(w, r, errors.InvalidInput(op, nil, "No video ids resolved"))
		return
	}

	limit := h.config.Fetch.MetadataPreviewLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, r, errors.InvalidInput(op, err, "Limit must be a positive integer"))
			return
		}
		if n < limit {
			limit = n
		}
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}

	client, err := h.providerFor(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	previews := make([]models.VideoMetadata, 0, len(ids))
	for _, id := range ids {
		meta, err := client.VideoMetadata(r.Context(), id)
		if err != nil {
			logger.WithError(err).WithField("video_id", id).Warn("Metadata preview fetch failed")
			continue
		}
		previews = append(previews, *meta)
	}

	respondJSON(w, r, http.StatusOK, previews)
}
