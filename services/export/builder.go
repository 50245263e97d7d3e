// Package export serializes accumulated transcript records into the
// four downloadable shapes: combined JSON, combined text, and per-item
// TXT or JSON ZIP archives. Output is deterministic: identical input
// yields byte-identical output, including the archives, whose entry
// timestamps are zeroed.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"ytscribe/models"
)

// Format selects the per-item file shape inside an archive.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatJSON Format = "json"
)

// Valid reports whether the format is a supported archive shape.
func (f Format) Valid() bool {
	return f == FormatTXT || f == FormatJSON
}

// archiveItem is the per-file JSON document inside a JSON archive.
// Key order is fixed and non-ASCII characters stay literal.
type archiveItem struct {
	VideoID    string   `json:"video_id"`
	Title      string   `json:"title"`
	Lang       string   `json:"lang"`
	AllLangs   []string `json:"all_langs"`
	Transcript string   `json:"transcript"`
	URL        string   `json:"url"`
}

// BuildArchive packs one file per record into a deflate ZIP. Entries
// are named "<safeTitle>_transcript_<lang>.<ext>". Entry modification
// times are left at the zero value so repeated builds are
// byte-for-byte identical.
func BuildArchive(records []models.TranscriptRecord, format Format) ([]byte, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("unsupported archive format: %q", format)
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	for _, rec := range records {
		name := fmt.Sprintf("%s_transcript_%s.%s", SanitizeFilename(rec.Title), rec.Lang, format)
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   name,
			Method: zip.Deflate,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry %q: %w", name, err)
		}

		var content []byte
		switch format {
		case FormatTXT:
			content = []byte(rec.Transcript)
		case FormatJSON:
			content, err = marshalIndent(archiveItem{
				VideoID:    rec.VideoID,
				Title:      rec.Title,
				Lang:       rec.Lang,
				AllLangs:   rec.AllLangs,
				Transcript: rec.Transcript,
				URL:        rec.WatchURL(),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to encode archive entry %q: %w", name, err)
			}
		}

		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("failed to write archive entry %q: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CombinedJSON renders the full record sequence as one JSON document.
// Parsing it back reproduces the records field for field.
func CombinedJSON(records []models.TranscriptRecord) ([]byte, error) {
	if records == nil {
		records = []models.TranscriptRecord{}
	}
	return marshalIndent(records)
}

const ruleWidth = 80

// CombinedText renders all records into one text document. Each record
// gets an 80-character rule, an id/title/language header, another rule,
// then the flattened transcript body.
func CombinedText(records []models.TranscriptRecord) []byte {
	rule := strings.Repeat("=", ruleWidth)

	var b strings.Builder
	for _, rec := range records {
		b.WriteString(rule)
		b.WriteString("\n")
		b.WriteString("Video ID: " + rec.VideoID + "\n")
		b.WriteString("Title: " + rec.Title + "\n")
		b.WriteString("Language: " + rec.Lang + "\n")
		b.WriteString(rule)
		b.WriteString("\n\n")
		b.WriteString(rec.Transcript)
		b.WriteString("\n\n\n")
	}
	return []byte(b.String())
}

// marshalIndent encodes with two-space indentation and without HTML
// escaping, so non-ASCII and markup characters survive literally.
func marshalIndent(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
