// Package summary condenses fetched transcripts through an external
// LLM service. The service is treated as opaque: this package only
// assembles the prompt, strips a markdown code fence off the response,
// and parses the remainder as JSON. A parse failure carries the raw
// response text so the user can inspect it; the export flow is never
// affected since summarization happens after transcripts are already
// exportable.
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"ytscribe/models"
)

// ParseError reports a summarization response that was not valid JSON.
// Raw holds the response text for manual inspection.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("summarization response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Service drives the summarization collaborator.
type Service struct {
	completer Completer
	logger    *logrus.Logger
}

func NewService(completer Completer) *Service {
	return &Service{
		completer: completer,
		logger:    logrus.StandardLogger(),
	}
}

// Summarize sends the concatenated transcripts to the collaborator and
// returns the parsed JSON object it responded with.
func (s *Service) Summarize(ctx context.Context, records []models.TranscriptRecord, instructions string) (json.RawMessage, error) {
	const op = "SummaryService.Summarize"

	if len(records) == 0 {
		return nil, fmt.Errorf("no transcripts to summarize")
	}

	prompt := BuildPrompt(records, instructions)
	s.logger.WithFields(logrus.Fields{
		"records":       len(records),
		"prompt_length": len(prompt),
	}).Info("Requesting summary")

	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.logger.WithError(err).WithField("operation", op).Error("Summarization call failed")
		return nil, err
	}

	cleaned := stripFences(raw)

	var parsed json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		s.logger.WithError(err).Warn("Summarization response is not valid JSON")
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return parsed, nil
}

// BuildPrompt concatenates the transcripts with per-record headers and
// appends a strict respond-with-JSON-only instruction.
func BuildPrompt(records []models.TranscriptRecord, instructions string) string {
	var b strings.Builder
	b.WriteString("Summarize the following video transcripts.\n")
	if instructions != "" {
		b.WriteString(instructions)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, rec := range records {
		fmt.Fprintf(&b, "--- %s [%s] (%s) ---\n", rec.Title, rec.Lang, rec.VideoID)
		b.WriteString(rec.Transcript)
		b.WriteString("\n\n")
	}

	b.WriteString("Respond with nothing but a single JSON object.")
	return b.String()
}

// stripFences removes a leading/trailing markdown code fence from LLM
// output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
