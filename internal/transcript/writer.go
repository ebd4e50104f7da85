package transcript

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"streamscribe/internal/fileutil"
)

// VideoInfo is the metadata block embedded in the JSON document.
type VideoInfo struct {
	URL             string  `json:"url"`
	VideoID         string  `json:"video_id,omitempty"`
	Title           string  `json:"title"`
	Uploader        string  `json:"uploader,omitempty"`
	DurationSeconds float64 `json:"duration"`
}

// ProcessingInfo records how the transcript was produced.
type ProcessingInfo struct {
	Model           string    `json:"model"`
	ChunkDuration   int       `json:"chunk_duration"`
	OverlapDuration int       `json:"overlap_duration"`
	TotalChunks     int       `json:"total_chunks"`
	Language        string    `json:"language,omitempty"`
	ProcessedAt     time.Time `json:"processed_at"`
}

// Document is the full JSON output format.
type Document struct {
	VideoInfo      VideoInfo      `json:"video_info"`
	Transcripts    []Segment      `json:"transcripts"`
	ProcessingInfo ProcessingInfo `json:"processing_info"`
}

// WriteJSON renders the document with indentation and writes it atomically.
func WriteJSON(path string, doc Document) error {
	if doc.Transcripts == nil {
		doc.Transcripts = []Segment{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transcript document: %w", err)
	}
	return fileutil.WriteFileAtomic(path, append(data, '\n'), 0o644)
}

// WriteSRT renders segments as SRT subtitles: a 1-based cue index, the
// timing line, the text, and a blank separator per cue.
func WriteSRT(path string, segments []Segment) error {
	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", FormatSRTTimestamp(seg.Start), FormatSRTTimestamp(seg.End))
		b.WriteString(strings.TrimSpace(seg.Text))
		b.WriteString("\n\n")
	}
	return fileutil.WriteFileAtomic(path, []byte(b.String()), 0o644)
}

// AppendTextLine appends a segment's live transcript line to the TXT output.
func AppendTextLine(path string, seg Segment) error {
	return fileutil.AppendLine(path, seg.TextLine())
}
