package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"streamscribe/internal/fileutil"
)

// ResumeMarker records how far a transcription run got so an interrupted
// job can pick up from the next chunk. LastChunk is -1 when no chunk has
// completed yet.
type ResumeMarker struct {
	URL              string    `json:"url"`
	LastChunk        int       `json:"last_chunk"`
	ProcessedSeconds float64   `json:"processed_seconds"`
	TotalSeconds     float64   `json:"total_seconds"`
	TextPath         string    `json:"text_path"`
	JSONPath         string    `json:"json_path"`
	SRTPath          string    `json:"srt_path"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ResumePath derives the marker path from the base output path.
func ResumePath(basePath string) string {
	return basePath + ".resume.json"
}

// WriteResume persists the marker atomically.
func WriteResume(path string, marker ResumeMarker) error {
	marker.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal resume marker: %w", err)
	}
	return fileutil.WriteFileAtomic(path, append(data, '\n'), 0o644)
}

// LoadResume reads a marker if one exists. The boolean reports whether
// the file was present.
func LoadResume(path string) (ResumeMarker, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ResumeMarker{}, false, nil
		}
		return ResumeMarker{}, false, fmt.Errorf("read resume marker: %w", err)
	}
	var marker ResumeMarker
	if err := json.Unmarshal(data, &marker); err != nil {
		return ResumeMarker{}, false, fmt.Errorf("parse resume marker: %w", err)
	}
	return marker, true, nil
}

// RemoveResume deletes the marker after a successful export. A missing
// file is not an error.
func RemoveResume(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove resume marker: %w", err)
	}
	return nil
}
