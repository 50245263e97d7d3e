package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "ytscribe/errors"
	"ytscribe/middleware"
	"ytscribe/supadata"
)

// Response is the standard JSON envelope for API endpoints. Export
// downloads bypass it and stream raw bytes instead.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	response := Response{
		Success:   code >= 200 && code < 300,
		Data:      payload,
		RequestID: middleware.GetRequestID(r.Context()),
		Timestamp: time.Now().UTC(),
	}

	if !response.Success {
		if msg, ok := payload.(string); ok {
			response.Error = msg
			response.Data = nil
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logrus.WithError(err).Error("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	msg := "Internal server error"

	switch e := err.(type) {
	case *apperrors.AppError:
		code = e.Code
		msg = e.Message
	case *supadata.APIError:
		code = http.StatusBadGateway
		msg = e.Error()
	}

	logrus.WithFields(logrus.Fields{
		"error":      err,
		"status":     code,
		"request_id": middleware.GetRequestID(r.Context()),
		"path":       r.URL.Path,
		"method":     r.Method,
	}).Error("Request error")

	respondJSON(w, r, code, msg)
}

func readJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.InvalidInput("readJSON", err, "Invalid JSON format")
	}
	return nil
}

// respondDownload streams a file attachment with the given MIME type.
func respondDownload(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logrus.WithError(err).Error("Failed to write download body")
	}
}
