// Package session holds the UI-facing mutable state: the current set
// of resolved video ids and the records accumulated by the last batch
// run. The core services stay pure; handlers own a Session and pass
// its contents into each operation. Nothing here survives a restart.
package session

import (
	"sync"

	"ytscribe/models"
)

type Session struct {
	mu      sync.RWMutex
	ids     []string
	records []models.TranscriptRecord
}

func New() *Session {
	return &Session{}
}

// SetIDs replaces the working id set. A new resolution also clears any
// records from the previous batch run.
func (s *Session) SetIDs(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append([]string(nil), ids...)
	s.records = nil
}

// IDs returns a copy of the working id set.
func (s *Session) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.ids...)
}

// SetRecords replaces the accumulated batch results.
func (s *Session) SetRecords(records []models.TranscriptRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]models.TranscriptRecord(nil), records...)
}

// Records returns a copy of the accumulated batch results.
func (s *Session) Records() []models.TranscriptRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TranscriptRecord(nil), s.records...)
}

// Reset clears ids and records.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
	s.records = nil
}
